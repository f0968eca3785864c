package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"campus-marketplace/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	logger     zerolog.Logger
}

type ServerParams struct {
	Config           *config.Config
	Handler          *HTTPHandler
	Verifier         TokenParser
	WebSocket        http.HandlerFunc
	// ConnectedClients reports live websocket connections on /health; optional
	ConnectedClients func() int
	Logger           zerolog.Logger
}

func NewServer(params ServerParams) *Server {
	logger := params.Logger.With().Str("component", "http_server").Logger()

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger), SessionMiddleware(params.Verifier, logger))
	router.GET("/health", handleHealth(params.ConnectedClients))

	params.Handler.RegisterRoutes(router)
	if params.WebSocket != nil {
		router.GET("/ws", gin.WrapF(params.WebSocket))
	}

	httpServer := &http.Server{
		Addr:         params.Config.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Minute,
	}

	return &Server{
		router:     router,
		httpServer: httpServer,
		config:     params.Config,
		logger:     logger,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Stop is called
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

func handleHealth(connectedClients func() int) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"status": "ok", "service": "campus-marketplace"}
		if connectedClients != nil {
			body["websocket_clients"] = connectedClients()
		}
		c.JSON(http.StatusOK, body)
	}
}
