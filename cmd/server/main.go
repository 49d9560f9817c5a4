/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the attendance engine server: configuration,
  snapshot loading, dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse flags
  2. Open the SQLite snapshot store and restore the last session
  3. Wire handler, router, coverage watcher
  4. Start the server, shut down on SIGINT/SIGTERM

CONFIGURATION:
  -port / PORT        HTTP server port (default: 8080)
  -db   / DB_PATH     SQLite snapshot path (default: attendance.db,
                      ":memory:" for none surviving restarts)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop the watcher, drain requests (30s timeout),
  flush a final snapshot, close the database.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/attendance-engine/api"
	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/store/sqlite"
)

func main() {
	// .env is optional; flags override it.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "attendance.db"), "SQLite snapshot path")
	flag.Parse()

	snapshots, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer snapshots.Close()

	store := attendance.NewStore()
	if snap, ok, err := snapshots.Load(context.Background()); err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	} else if ok {
		store.Restore(snap)
	}

	logger := api.NewLogger()
	handler := api.NewHandler(store, logger)
	handler.Persist = func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return snapshots.Flush(ctx, store.Snapshot())
	}

	watcher := api.NewCoverageWatcher(store, logger)
	handler.Watcher = watcher
	watcher.Start()
	defer watcher.Stop()

	router := api.NewRouter(handler, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := snapshots.Flush(ctx, store.Snapshot()); err != nil {
		log.Printf("Warning: final snapshot flush failed: %v", err)
	}

	log.Println("Server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
