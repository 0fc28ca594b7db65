package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zephyrtronium/keycalc/internal/session"
)

const sessionKey = "session"

// requestLogger logs each request after it is handled.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		level := slog.LevelDebug
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		log.LogAttrs(c.Request.Context(), level, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// requirePayload rejects requests without a body.
func requirePayload() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "payload missing"})
			return
		}
		c.Next()
	}
}

// loadSession looks up the session named by the id path parameter.
func (s *Server) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := s.sessions.Get(c.Param("id"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, session.ErrNotFound) {
				status = http.StatusNotFound
			}
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}
