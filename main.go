/*
 * file: main.go
 * package: main
 * description:
 *     This file initializes the application by setting up dependencies, configuring the database,
 *     establishing API routes, and launching the web server. It follows a dependency injection
 *     pattern to wire together components, promoting a decoupled and testable architecture.
 */

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/juan10024/roomrelay/internal/actorspace"
	"github.com/juan10024/roomrelay/internal/adapters/kvstore"
	"github.com/juan10024/roomrelay/internal/config"
	"github.com/juan10024/roomrelay/internal/directory"
	"github.com/juan10024/roomrelay/internal/gateway"
	"github.com/juan10024/roomrelay/internal/httpapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("FATAL: config load failed: %v", err)
	}

	log := logrus.New()
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Database Initialization
	store, err := kvstore.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("FATAL: database initialization failed: %v", err)
	}
	log.Info("SUCCESS: database connection pool established")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Dependency Injection
	dirStore := directory.NewGormDirectoryStore(store)
	dirActor := directory.New(dirStore, log)
	go dirActor.Run(ctx)

	dirHandler := directory.NewHandler(dirActor)
	dirClient := directory.NewHTTPClient("http://" + cfg.SelfAddr)

	ns := actorspace.New(ctx, cfg.SelfAddr, dirClient, log, cfg.MaxFrameBytes)
	gw := gateway.New(ns, dirClient, log, cfg.ConnectTimeout)

	// Router registration
	mux := http.NewServeMux()
	httpapi.Register(mux, gw, dirHandler, ns)

	corsHandler := corsMiddleware(mux)

	// HTTP Server Configuration & Launch
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      corsHandler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: could not start server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
	cancel()
}

// corsMiddleware adds CORS headers to HTTP responses so a browser-hosted
// client can dial the gateway directly.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
