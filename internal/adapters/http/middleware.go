package http

import (
	"net/http"
	"time"

	"campus-marketplace/internal/adapters/auth"
	"campus-marketplace/internal/domain/shared"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const sessionContextKey = "session"

// TokenParser verifies an access token and returns the caller's session
type TokenParser interface {
	Parse(token string) (*shared.Session, error)
}

// RequestLogger logs one line per request
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("Handled request")
	}
}

// SessionMiddleware resolves the bearer token into a session. Requests without a
// token continue anonymously; a token that fails verification is rejected.
func SessionMiddleware(parser TokenParser, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" || parser == nil {
			c.Next()
			return
		}

		sess, err := parser.Parse(token)
		if err != nil {
			logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected access token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": shared.ErrInvalidToken.Error()})
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// RequireSession rejects anonymous callers
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessionFrom(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": shared.ErrAuthRequired.Error()})
			return
		}
		c.Next()
	}
}

// sessionFrom returns the caller's session, nil when anonymous
func sessionFrom(c *gin.Context) *shared.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*shared.Session)
	return sess
}
