// Package server boots the process: config, datastores, storage disks,
// routes, and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/threadline/threadline/app/routes"
	"github.com/threadline/threadline/config"
	"github.com/threadline/threadline/pkg/cache"
	"github.com/threadline/threadline/pkg/database"
	"github.com/threadline/threadline/pkg/logger"
	"github.com/threadline/threadline/pkg/metrics"
	"github.com/threadline/threadline/pkg/middleware"
	"github.com/threadline/threadline/pkg/reqid"
	"github.com/threadline/threadline/pkg/router"
	"github.com/threadline/threadline/pkg/storage"
	"github.com/threadline/threadline/pkg/ws"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests before returning.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := database.Disconnect(ctx); err != nil {
			logger.Error("mongo disconnect", "error", err)
		}
	}()

	// The cache is an optimization; a dead Redis only costs read-through
	// misses, so boot continues without it.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, continuing without cache", "error", err)
	}
	defer cache.Close()

	storage.Connect()

	var logSink *logger.MongoHandler
	if config.LogMongoEnabled() {
		logSink = logger.NewMongoHandler(database.DB().Collection("logs"))
		logger.AttachSink(logSink)
		defer logSink.Close()
	}

	hub := ws.NewHub()

	r := BuildRouter(hub)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	return nil
}

// BuildRouter assembles the middleware chain and the API routes. Split out
// so the CLI can list routes without binding a socket.
func BuildRouter(hub *ws.Hub) *router.Router {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	routes.RegisterAPI(r, hub)
	return r
}
