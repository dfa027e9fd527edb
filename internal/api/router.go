// Package api serves listings, summaries and recaps over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ellenbowman/satellite-of-love/internal/listing"
	"github.com/ellenbowman/satellite-of-love/internal/logger"
	"github.com/ellenbowman/satellite-of-love/internal/recap"
)

const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 60 * time.Second
	defaultIdleTimeout  = 120 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// Router holds the API dependencies
type Router struct {
	listing *listing.Service
	recaps  *recap.Builder
	log     logger.Logger
	now     func() time.Time
}

func NewRouter(l *listing.Service, r *recap.Builder, log logger.Logger) *Router {
	if log == nil {
		log = logger.NewNop()
	}
	return &Router{listing: l, recaps: r, log: log, now: time.Now}
}

// Handler builds the gin engine with every route registered.
func (r *Router) Handler() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), r.observe())

	engine.GET("/health", r.health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/api/v1")
	v1.GET("/articles", r.listArticles)
	v1.GET("/summary", r.getSummary)
	v1.GET("/recap", r.getRecap)
	v1.GET("/services", r.listServices)

	return engine
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (r *Router) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Handler(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		r.log.Info("api listening", logger.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	r.log.Info("api shutting down")
	return srv.Shutdown(shutdownCtx)
}
