package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/matchfeed/internal/config"
	"github.com/oggyb/matchfeed/internal/logger"
)

// NewRouter builds the gin engine and registers all provided services.
func NewRouter(cfg *config.Config, registrars ...Registrar) *gin.Engine {
	if cfg.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for _, r := range registrars {
		r.Register(router)
	}

	return router
}

// StartHTTPServer serves the router until ctx is canceled, then shuts
// down gracefully.
func StartHTTPServer(ctx context.Context, cfg *config.Config, router *gin.Engine) error {
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
