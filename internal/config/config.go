package config

import (
	"fmt"  // Error wrapping
	"time" // Durations for token and cache lifetimes

	"github.com/joho/godotenv"             // For loading .env files
	"github.com/kelseyhightower/envconfig" // Environment to struct decoding
)

// Config holds the application configuration
type Config struct {
	AppPort string `envconfig:"APP_PORT" default:"8000"` // Application port
	IsProd  bool   `envconfig:"IS_PROD" default:"false"` // Is production environment

	DBDriver   string `envconfig:"DB_DRIVER" default:"mysql"` // mysql, postgres or sqlite
	DBUser     string `envconfig:"DB_USER"`                   // Database user
	DBPassword string `envconfig:"DB_PASSWORD"`               // Database password
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT"`                    // Database port
	DBName     string `envconfig:"DB_NAME" default:"foodgram"` // Database name (file path for sqlite)

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"` // Auth token signing key
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`    // Auth token lifetime

	RedisAddr string        `envconfig:"REDIS_ADDR"`             // Redis server address, empty disables caching
	RedisPass string        `envconfig:"REDIS_PASS"`             // Redis password
	RedisDB   int           `envconfig:"REDIS_DB" default:"0"`   // Redis database number
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"` // Reference data cache lifetime

	PageSize    int `envconfig:"PAGE_SIZE" default:"6"`       // Default page size
	MaxPageSize int `envconfig:"MAX_PAGE_SIZE" default:"100"` // Upper bound for ?limit=

	MediaBackend string `envconfig:"MEDIA_BACKEND" default:"local"` // local or s3
	MediaRoot    string `envconfig:"MEDIA_ROOT" default:"media"`    // Local image directory
	MediaURL     string `envconfig:"MEDIA_URL" default:"/media/"`   // Public prefix for local images
	S3Bucket     string `envconfig:"S3_BUCKET"`
	S3Region     string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Endpoint   string `envconfig:"S3_ENDPOINT"`   // Custom endpoint (MinIO etc.)
	S3PublicURL  string `envconfig:"S3_PUBLIC_URL"` // Base URL objects are served from
	S3AccessKey  string `envconfig:"S3_ACCESS_KEY"` // Static credentials, empty uses the AWS default chain
	S3SecretKey  string `envconfig:"S3_SECRET_KEY"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"` // Allowed browser origins
	DataDir     string   `envconfig:"DATA_DIR" default:"data"`                      // Directory with ingredients.csv
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("load config: JWT_SECRET must not be empty")
	}
	if cfg.MediaBackend != "local" && cfg.MediaBackend != "s3" {
		return nil, fmt.Errorf("load config: unknown MEDIA_BACKEND %q", cfg.MediaBackend)
	}
	if cfg.MediaBackend == "s3" && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("load config: S3_BUCKET is required for the s3 media backend")
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("load config: PAGE_SIZE must be positive")
	}
	return &cfg, nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, port)
	case "sqlite":
		return c.DBName + "?_pragma=foreign_keys(1)"
	default:
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
	}
}
