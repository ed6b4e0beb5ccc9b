package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	GRPC    GRPCConfig
	API     APIConfig
	Worker  WorkerConfig
	Catalog CatalogConfig
	DB      DatabaseConfig
	Logging LoggingConfig
}

type GRPCConfig struct {
	Port int
}

type ServerConfig struct {
	Host string
	Port int
}

type APIConfig struct {
	RateLimit   float64 // requests per second per client
	RateBurst   int
	CORSOrigins []string
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type CatalogConfig struct {
	Source          string // builtin, rest or postgres
	PlatformURL     string
	PlatformKey     string
	DatabaseURL     string
	PollInterval    time.Duration
	Timeout         time.Duration
	MaxRetries      int
	BreakerFailures int
	BreakerOpen     time.Duration
	SeedBuiltin     bool // seed from the built-in catalog when the mirror is empty
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		GRPC: GRPCConfig{
			Port: getEnvInt("GRPC_PORT", 50051),
		},
		API: APIConfig{
			RateLimit:   getEnvFloat("API_RATE_LIMIT", 5),
			RateBurst:   getEnvInt("API_RATE_BURST", 10),
			CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 100),
		},
		Catalog: CatalogConfig{
			Source:          strings.ToLower(getEnv("CATALOG_SOURCE", "builtin")),
			PlatformURL:     getEnv("PLATFORM_URL", ""),
			PlatformKey:     getEnv("PLATFORM_ANON_KEY", ""),
			DatabaseURL:     getEnv("DATABASE_URL", ""),
			PollInterval:    getEnvDuration("CATALOG_POLL_INTERVAL", 30*time.Minute),
			Timeout:         getEnvDuration("CATALOG_TIMEOUT", 15*time.Second),
			MaxRetries:      getEnvInt("CATALOG_MAX_RETRIES", 3),
			BreakerFailures: getEnvInt("CATALOG_BREAKER_FAILURES", 5),
			BreakerOpen:     getEnvDuration("CATALOG_BREAKER_OPEN", time.Minute),
			SeedBuiltin:     getEnvBool("CATALOG_SEED_BUILTIN", true),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/crop-advisor.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.GRPC.Port < 1 || c.GRPC.Port > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPC.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.API.RateLimit <= 0 || c.API.RateBurst < 1 {
		return fmt.Errorf("rate limit must be positive")
	}
	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}

	switch c.Catalog.Source {
	case "builtin":
	case "rest":
		if c.Catalog.PlatformURL == "" {
			return fmt.Errorf("PLATFORM_URL is required for the rest catalog source")
		}
	case "postgres":
		if c.Catalog.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres catalog source")
		}
	default:
		return fmt.Errorf("invalid catalog source: %s", c.Catalog.Source)
	}
	if c.Catalog.PollInterval < time.Minute {
		return fmt.Errorf("catalog poll interval must be at least 1 minute")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
