package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	StorageDriver  string
	MigrationsPath string

	FrontendBaseURL string `mapstructure:"FRONTEND_BASE_URL"`
	RateLimit       string `mapstructure:"RATE_LIMIT"`

	// BatchConcurrency bounds per-item calls inside approve-all/reject-all.
	BatchConcurrency int

	// Redis backs the background batch queue. Empty disables async batch dispositions.
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	WorkerConcurrency int
}

// AsyncEnabled reports whether a redis queue is configured.
func (c *Config) AsyncEnabled() bool {
	return c.RedisAddr != ""
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("BATCH_CONCURRENCY", 4)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("WORKER_CONCURRENCY", 5)

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:       viper.GetString("PGSQL_URL"),
		Port:              viper.GetString("PORT"),
		IsProduction:      viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:     viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:         viper.GetString("JWT_SECRET"),
		StorageDriver:     strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		MigrationsPath:    viper.GetString("MIGRATIONS_PATH"),
		FrontendBaseURL:   viper.GetString("FRONTEND_BASE_URL"),
		RateLimit:         viper.GetString("RATE_LIMIT"),
		BatchConcurrency:  viper.GetInt("BATCH_CONCURRENCY"),
		RedisAddr:         viper.GetString("REDIS_ADDR"),
		RedisPassword:     viper.GetString("REDIS_PASSWORD"),
		RedisDB:           viper.GetInt("REDIS_DB"),
		WorkerConcurrency: viper.GetInt("WORKER_CONCURRENCY"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_DRIVER=memory, staged and ledger data is lost on restart.")
	default:
		log.Printf("Warning: unknown STORAGE_DRIVER %q. Defaulting to %s.\n", cfg.StorageDriver, StoragePostgres)
		cfg.StorageDriver = StoragePostgres
	}
	if cfg.BatchConcurrency < 1 {
		log.Printf("Warning: BATCH_CONCURRENCY must be at least 1, got %d. Processing batches sequentially.\n", cfg.BatchConcurrency)
		cfg.BatchConcurrency = 1
	}
	if cfg.WorkerConcurrency < 1 {
		cfg.WorkerConcurrency = 1
	}

	return cfg, nil
}

// ClientConfig configures the reviewctl command line client.
type ClientConfig struct {
	APIBaseURL       string
	APIToken         string
	RequestTimeout   time.Duration
	TrackerStore     string
	TrackerFile      string
	TrackerRedisAddr string
	TrackerUser      string

	// TrackerSyncMaxElapsed bounds retries when persisting the outstanding-batch list.
	TrackerSyncMaxElapsed time.Duration
}

// LoadClientConfig loads reviewctl settings from the environment and .env file.
func LoadClientConfig() (*ClientConfig, error) {
	_ = godotenv.Load()

	viper.SetDefault("REVIEW_API_URL", "http://localhost:8080/api/v1")
	viper.SetDefault("REVIEW_API_TOKEN", "")
	viper.SetDefault("REVIEW_REQUEST_TIMEOUT", "30s")
	viper.SetDefault("TRACKER_STORE", "file")
	viper.SetDefault("TRACKER_FILE", ".reviewctl.json")
	viper.SetDefault("TRACKER_REDIS_ADDR", "")
	viper.SetDefault("TRACKER_USER", "")
	viper.SetDefault("TRACKER_SYNC_MAX_ELAPSED", "10s")

	viper.AutomaticEnv()

	cfg := &ClientConfig{
		APIBaseURL:            strings.TrimRight(viper.GetString("REVIEW_API_URL"), "/"),
		APIToken:              viper.GetString("REVIEW_API_TOKEN"),
		RequestTimeout:        durationOr("REVIEW_REQUEST_TIMEOUT", 30*time.Second),
		TrackerStore:          strings.ToLower(viper.GetString("TRACKER_STORE")),
		TrackerFile:           viper.GetString("TRACKER_FILE"),
		TrackerRedisAddr:      viper.GetString("TRACKER_REDIS_ADDR"),
		TrackerUser:           viper.GetString("TRACKER_USER"),
		TrackerSyncMaxElapsed: durationOr("TRACKER_SYNC_MAX_ELAPSED", 10*time.Second),
	}
	if cfg.APIToken == "" {
		log.Println("Warning: REVIEW_API_TOKEN not set. Requests will be rejected by the server.")
	}
	return cfg, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
