// Command server runs the friends web application.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"friendsapp/internal/bootstrap"
	"friendsapp/internal/config"
	"friendsapp/internal/middleware"
	"friendsapp/internal/observability"
	"friendsapp/internal/server"
)

const (
	serviceName     = "friends-web"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  serviceName,
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSampleRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedIfEmpty: cfg.SeedDemoData})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv, err := server.NewServerWithDeps(cfg, db, redisClient)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	if err := serve(srv, stop, shutdownTracing); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

type lifecycle interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// serve runs srv until a signal arrives on stop. It returns only after the
// server, its resources and the tracer are shut down, so buffered spans
// are flushed before the process exits.
func serve(srv lifecycle, stop <-chan os.Signal, shutdownTracing func(context.Context) error) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-stop

		middleware.Logger.Info("Shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			middleware.Logger.Error("Server shutdown error", slog.String("error", err.Error()))
		}
		if err := shutdownTracing(ctx); err != nil {
			middleware.Logger.Error("Tracer shutdown error", slog.String("error", err.Error()))
		}
	}()

	if err := srv.Start(); err != nil {
		return err
	}
	<-done
	middleware.Logger.Info("Server stopped")
	return nil
}
