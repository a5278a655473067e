package main

import (
	"context" // context package is needed for Redis and AWS setup
	"time"    // Redis ping timeout

	"foodgram/internal/api"    // HTTP handlers and router
	"foodgram/internal/config" // Configuration
	"foodgram/internal/db"     // Database connection
	"foodgram/internal/media"  // Image storage backends
	"foodgram/internal/store"  // Entity store

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{}) // Machine readable logs in production
		gin.SetMode(gin.ReleaseMode)                 // Set Mode to Release if in production
	}

	// Connect to the database
	gdb, err := db.Open(cfg.DBDriver, cfg.DSN(), !cfg.IsProd)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if cfg.DBDriver == "sqlite" {
		// A file database has nobody else to run migrations for it
		if err := db.Migrate(gdb); err != nil {
			logrus.Fatalf("failed to migrate DB: %v", err)
		}
	}

	// Setup Redis client, optional
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err = redisClient.Ping(ctx).Result() // Test Redis connection
		cancel()
		if err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Warn("REDIS_ADDR not set, caching and logout revocation are disabled")
	}

	// Setup image storage
	var images media.Store
	opts := api.RouterOptions{CORSOrigins: cfg.CORSOrigins}
	switch cfg.MediaBackend {
	case "s3":
		client, err := media.NewS3Client(context.Background(), media.S3Options{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			logrus.Fatalf("failed to set up S3: %v", err)
		}
		images = media.NewS3Store(client, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicURL)
	default:
		images = media.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
		opts.MediaRoot, opts.MediaURL = cfg.MediaRoot, cfg.MediaURL // Serve images ourselves
	}

	deps := &api.Deps{
		Store:       store.New(gdb),
		Redis:       redisClient,
		Media:       images,
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.TokenTTL,
		CacheTTL:    cfg.CacheTTL,
		PageSize:    cfg.PageSize,
		MaxPageSize: cfg.MaxPageSize,
	}
	r := api.NewRouter(deps, opts)

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"port":   cfg.AppPort,
		"driver": cfg.DBDriver,
		"media":  cfg.MediaBackend,
	}).Info("Server running")
	if err := r.Run(":" + cfg.AppPort); err != nil { // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}
