package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-marketplace/internal/adapters/auth"
	"campus-marketplace/internal/adapters/broadcaster"
	"campus-marketplace/internal/adapters/cache"
	"campus-marketplace/internal/adapters/db"
	httpapi "campus-marketplace/internal/adapters/http"
	"campus-marketplace/internal/adapters/recorder"
	"campus-marketplace/internal/adapters/redis"
	"campus-marketplace/internal/adapters/ws"
	"campus-marketplace/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the live item feed",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Info().Msg("Starting Campus Marketplace Service...")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	dbConn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer dbConn.Close()
	log.Info().Msg("Database connection established")

	repos := db.NewRepositoryFactory(dbConn).GetAllRepositories()
	log.Info().Msg("Database repositories initialized")

	redisClient := redis.NewClient(cfg.Redis)
	defer redisClient.Close()
	if err := redis.PingRedis(ctx, redisClient); err != nil {
		return err
	}
	log.Info().Msg("Redis connection established")

	redisBroadcaster := broadcaster.NewBroadcaster(broadcaster.RedisBroadcasterParams{
		RedisClient: redisClient,
		Logger:      log.Logger,
	})
	redisCache := cache.NewRedisCache(cache.RedisCacheParams{
		RedisClient: redisClient,
		Prefix:      "marketplace",
		Logger:      log.Logger,
	})

	searchRecorder := recorder.NewSearchRecorder(recorder.SearchRecorderParams{
		HistoryRepo: repos.History,
		Workers:     cfg.History.Workers,
		Capacity:    cfg.History.Capacity,
		Logger:      log.Logger,
	})
	searchRecorder.Start()
	log.Info().Msg("Search history recorder started")

	catalogService := app.NewCatalogService(app.CatalogServiceParams{
		ItemRepo:    repos.Items,
		SavedRepo:   repos.Saved,
		Recorder:    searchRecorder,
		Broadcaster: redisBroadcaster,
		Logger:      log.Logger,
	})
	savedService := app.NewSavedItemService(app.SavedItemServiceParams{
		SavedRepo: repos.Saved,
		ItemRepo:  repos.Items,
		Logger:    log.Logger,
	})
	recommendationService := app.NewRecommendationService(app.RecommendationServiceParams{
		ItemRepo:    repos.Items,
		ProfileRepo: repos.Profile,
		HistoryRepo: repos.History,
		Cache:       redisCache,
		TTL:         cfg.Cache.RecommendationTTL,
		Logger:      log.Logger,
	})
	adminService := app.NewAdminService(app.AdminServiceParams{
		ItemRepo:    repos.Items,
		SavedRepo:   repos.Saved,
		ProfileRepo: repos.Profile,
		Broadcaster: redisBroadcaster,
		Logger:      log.Logger,
	})
	profileService := app.NewProfileService(app.ProfileServiceParams{
		ProfileRepo: repos.Profile,
		Cache:       redisCache,
		Logger:      log.Logger,
	})
	pickupService := app.NewPickupService(app.PickupServiceParams{
		PickupRepo:  repos.Pickup,
		ProfileRepo: repos.Profile,
		Cache:       redisCache,
		TTL:         cfg.Cache.PickupTTL,
		Logger:      log.Logger,
	})
	log.Info().Msg("Business services initialized")

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.AdminEmails)

	wsHandler := ws.NewHandler(ws.WsHandlerParams{
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		CatalogService:   catalogService,
		SavedItemService: savedService,
		Broadcaster:      redisBroadcaster,
		Verifier:         verifier,
		Logger:           log.Logger,
	})

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := httpapi.NewServer(httpapi.ServerParams{
		Config: cfg,
		Handler: httpapi.NewHTTPHandler(httpapi.HTTPHandlerParams{
			CatalogService:        catalogService,
			SavedItemService:      savedService,
			RecommendationService: recommendationService,
			AdminService:          adminService,
			ProfileService:        profileService,
			PickupService:         pickupService,
			Logger:                log.Logger,
		}),
		Verifier:         verifier,
		WebSocket:        wsHandler.HandleWebSocket,
		ConnectedClients: wsHandler.GetConnectedClients,
		Logger:           log.Logger,
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Failed to start HTTP server")
			cancel()
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	log.Info().Msg("Starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	}

	searchRecorder.Stop()
	log.Info().Msg("Search history recorder stopped")

	if err := redisBroadcaster.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing broadcaster")
	}

	log.Info().Msg("Graceful shutdown completed")
	return nil
}
