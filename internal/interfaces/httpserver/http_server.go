package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"menloresearch/meteobot-server/internal/config"
	middleware "menloresearch/meteobot-server/internal/interfaces/httpserver/middlewares"
	v1 "menloresearch/meteobot-server/internal/interfaces/httpserver/routes/v1"
)

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	engine  *gin.Engine
	v1Route *v1.V1Route
	logger  zerolog.Logger
	config  *config.Config
}

func NewHttpServer(
	v1Route *v1.V1Route,
	logger zerolog.Logger,
	cfg *config.Config,
) *HTTPServer {
	if !config.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	server := HTTPServer{
		gin.New(),
		v1Route,
		logger,
		cfg,
	}
	server.engine.Use(gin.Recovery())
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(logger))
	server.engine.Use(middleware.CORSMiddleware())
	server.engine.Use(middleware.MetricsMiddleware())

	// Root health checks (for load balancers)
	server.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server.engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Prometheus metrics endpoint
	server.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := server.engine.Group("/api")
	server.v1Route.RegisterRouter(api)

	return &server
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (httpServer *HTTPServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", httpServer.config.HTTPPort),
		Handler: httpServer.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		httpServer.logger.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		httpServer.logger.Info().Msg("shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
