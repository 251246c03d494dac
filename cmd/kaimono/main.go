package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kaimono-app/kaimono/internal/backup"
	"github.com/kaimono-app/kaimono/internal/clock"
	"github.com/kaimono-app/kaimono/internal/id"
	"github.com/kaimono-app/kaimono/internal/kv"
	"github.com/kaimono-app/kaimono/internal/logging"
	"github.com/kaimono-app/kaimono/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("KAIMONO_LOG_LEVEL"))

	port := os.Getenv("KAIMONO_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("KAIMONO_DB_PATH")
	if dbPath == "" {
		dbPath = "kaimono.db"
	}

	store, err := kv.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	srv, err := server.New(store, clock.System{}, id.UUID{}, logger)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer srv.Close()

	backupCfg := backup.Config{
		Dir:        os.Getenv("KAIMONO_BACKUP_DIR"),
		Passphrase: os.Getenv("KAIMONO_BACKUP_PASSPHRASE"),
		Interval:   24 * time.Hour,
	}
	if raw := os.Getenv("KAIMONO_BACKUP_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			backupCfg.Interval = d
		}
	}
	backupMgr := backup.NewManager(backupCfg, store, logger.With("component", "backup"))
	backupMgr.Start(context.Background())
	defer backupMgr.Stop()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("kaimono listening", "port", port, "db", dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
