// Package api exposes the read-only HTTP surface over predictions and the
// scoring engine.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tipline/tipline/internal/pkg/config"
	"github.com/tipline/tipline/internal/pkg/scoring"
	"github.com/tipline/tipline/internal/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg    *config.APIConfig
	store  *storage.Postgres
	kv     *storage.KV
	engine *scoring.Engine
	logger *slog.Logger
	router *gin.Engine
}

func New(cfg *config.APIConfig, store *storage.Postgres, kv *storage.KV, engine *scoring.Engine, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		cfg:    cfg,
		store:  store,
		kv:     kv,
		engine: engine,
		logger: logger,
		router: gin.New(),
	}
	s.router.Use(gin.Recovery(), s.requestLog())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/health", s.handleHealth)

	p := s.router.Group("/predictions")
	p.GET("", s.handlePredictions)
	p.GET("/stats", s.handleStats)
	p.GET("/matches", s.handleMatches)
	p.GET("/top-picks", s.handleTopPicks)
	p.GET("/best-multis", s.handleBestMultis)
	p.GET("/accuracy", s.handleAccuracy)
	p.GET("/accuracy/history", s.handleAccuracyHistory)
	p.GET("/:matchId", s.handleMatchPredictions)
}

// Run serves until the context ends, then drains with a deadline.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
