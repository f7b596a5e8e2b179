package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"pastelsoft.com/medimap/internal/api"
	"pastelsoft.com/medimap/internal/importer"
	"pastelsoft.com/medimap/internal/metrics"
	"pastelsoft.com/medimap/internal/roster"
	"pastelsoft.com/medimap/internal/storage"
	"pastelsoft.com/medimap/pkg/zerolog_config"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(".env"); err != nil {
		log.Info().Msg("Not found .env file, assuming environment variables are set")
	}

	// Get configuration from environment
	elasticsearchURL := getEnvOrDefault("ELASTICSEARCH_URL", "")
	apiPort := getEnvOrDefault("API_PORT", "8080")
	apiLogLevel := getEnvOrDefault("API_LOG_LEVEL", "info")

	// Set app prefix
	zerolog_config.SetAppPrefix("medimap")

	// Initialize zerolog, optionally shipping to Elasticsearch
	zerolog_config.StartupWithEnv(elasticsearchURL, "logs", apiLogLevel)

	log.Info().Msg("Starting medimap roster service")

	// Start system metrics collection
	metrics.StartSystemMetricsCollection("medimap")

	// Open the snapshot backend and load the roster. A load failure is not
	// fatal: the clinic starts with an empty roster and keeps working in
	// memory.
	snapshots := openSnapshotStore()
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	initial, err := snapshots.Load(loadCtx)
	loadCancel()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load roster snapshot, starting empty")
		initial = nil
	}

	store := roster.NewStore(initial)
	metrics.RosterSize.Set(float64(store.Len()))

	log.Info().
		Int("patients", store.Len()).
		Msg("Roster loaded")

	// Persist a snapshot after every effective mutation. The writer
	// serializes the saves so the newest roster is always the last write;
	// a failed write is logged and counted, in-memory state is
	// authoritative.
	writer := storage.NewWriter(snapshots, 10*time.Second)
	store.OnChange(writer.Enqueue)

	// Setup routes
	server := api.NewServer(store, buildParser())
	router := server.SetupRoutes()

	// Create HTTP server
	httpServer := &http.Server{
		Addr:    ":" + apiPort,
		Handler: router,
	}

	// Listen for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		log.Info().
			Str("port", apiPort).
			Msg("Server starting")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().
				Err(err).
				Msg("Failed to start server")
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info().Msg("Received shutdown signal, shutting down gracefully...")

	// Shutdown server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	// Flush any pending snapshot, then close the backend
	log.Info().Msg("Closing snapshot backend...")
	writer.Close()
	if err := snapshots.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close snapshot backend")
	}

	log.Info().Msg("Medimap service shutdown complete")
}

// openSnapshotStore picks the persistence backend from the environment. Any
// connection failure degrades to in-memory only.
func openSnapshotStore() storage.Store {
	backend := getEnvOrDefault("SNAPSHOT_BACKEND", "none")

	switch backend {
	case "couchbase":
		cb, err := storage.NewCouchbase(storage.CouchbaseConfig{
			URL:      getEnvOrDefault("COUCHBASE_URL", "couchbase://medimap-db"),
			Username: getEnvOrDefault("COUCHBASE_USERNAME", "medimap_user"),
			Password: getEnvOrDefault("COUCHBASE_PASSWORD", "password"),
			Bucket:   getEnvOrDefault("COUCHBASE_BUCKET", "medimap"),
		})
		if err != nil {
			log.Warn().Err(err).Msg("Couchbase unavailable, continuing in memory only")
			return storage.Noop{}
		}
		return cb
	case "redis":
		db, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
		if err != nil {
			db = 0
		}
		rd, err := storage.NewRedis(
			getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			getEnvOrDefault("REDIS_PASSWORD", ""),
			db,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, continuing in memory only")
			return storage.Noop{}
		}
		return rd
	default:
		log.Info().Msg("No snapshot backend configured, roster is in-memory only")
		return storage.Noop{}
	}
}

// buildParser wires the import parser: remote AI-backed when credentials are
// configured, local heuristic otherwise. The remote path always falls back
// to the heuristic on failure.
func buildParser() importer.Parser {
	parserURL := getEnvOrDefault("PARSER_URL", "")
	parserKey := getEnvOrDefault("PARSER_API_KEY", "")

	fallback := importer.FallbackParser{Local: importer.HeuristicParser{}}
	if parserURL == "" || parserKey == "" {
		log.Info().Msg("No parser credentials, using heuristic parser only")
		return fallback
	}

	fallback.Remote = importer.NewRemoteParser(parserURL, parserKey)
	log.Info().Str("url", parserURL).Msg("Remote parser configured")
	return fallback
}

// Helper function to get environment variable with default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
