package main

import (
	"context"       // Import context
	"flag"          // Command line flags
	"path/filepath" // CSV path building

	"foodgram/internal/config"   // Configuration
	"foodgram/internal/db"       // Database connection
	"foodgram/internal/importer" // CSV ingredient import
	"foodgram/internal/store"    // Entity store

	"github.com/redis/go-redis/v9" // Redis client for cache invalidation
	"github.com/sirupsen/logrus"   // Structured logging
)

// Main entry point for the ingredient import
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	path := flag.String("file", filepath.Join(cfg.DataDir, importer.FileName), "CSV file with name,measurement_unit rows")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg.DBDriver, cfg.DSN(), false)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	var redisClient *redis.Client // Cached ingredient lookups are dropped after import
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB})
		defer redisClient.Close()
	}

	res, err := importer.New(store.New(gdb), redisClient).ImportFile(context.Background(), *path)
	if err != nil {
		logrus.WithFields(logrus.Fields{"file": *path, "created": res.Created}).Fatalf("import failed: %v", err)
	}
	logrus.WithFields(logrus.Fields{
		"file":    *path,
		"created": res.Created,
		"skipped": res.Skipped,
	}).Info("Ingredients imported")
}
