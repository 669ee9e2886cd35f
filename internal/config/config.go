package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"acd-tierlist/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	ServerPort     string
	LogLevel       string
	StoreBackend   string
	DBPath         string
	DataFile       string
	RedisAddr      string
	RootKey        string
	SeedURL        string
	SeedFile       string
	AdminUsername  string
	AdminPassword  string
	SessionTTL     time.Duration
	AllowedOrigins []string
}

// Load reads the server configuration. ADMIN_PASSWORD is required.
func Load(logger zerolog.Logger) (*Config, error) {
	cfg, err := read(logger)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.log(logger)
	return cfg, nil
}

// LoadStorage reads the configuration for offline tools that only touch
// the store, so admin credentials are not required.
func LoadStorage(logger zerolog.Logger) (*Config, error) {
	cfg, err := read(logger)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateStorage(); err != nil {
		return nil, err
	}
	cfg.log(logger)
	return cfg, nil
}

func read(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", BackendSQLite)),
		DBPath:         getEnv("DB_PATH", "tierlist.db"),
		DataFile:       getEnv("DATA_FILE", "tierlist.json"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RootKey:        getEnv("ROOT_KEY", constants.RootKey),
		SeedURL:        getEnv("SEED_URL", ""),
		SeedFile:       getEnv("SEED_FILE", ""),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		SessionTTL:     constants.SessionTTL,
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", v, err)
		}
		cfg.SessionTTL = ttl
	}

	return cfg, nil
}

func (c *Config) log(logger zerolog.Logger) {
	logger.Info().
		Str("server_port", c.ServerPort).
		Str("log_level", c.LogLevel).
		Str("store_backend", c.StoreBackend).
		Str("db_path", c.DBPath).
		Bool("remote_seed", c.SeedURL != "").
		Dur("session_ttl", c.SessionTTL).
		Msg("configuration loaded")
}

func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.StoreBackend {
	case BackendSQLite, BackendFile, BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var Module = fx.Provide(Load)
