package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs session tokens. Loaded once at startup, never exposed.
	JWTSecret string `env:"JWT_SECRET"`
	// TokenTTL is the session token lifetime; the session cookie max-age is
	// aligned to it.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=1h"`
	// BcryptCost is the password hashing work factor.
	BcryptCost int `env:"BCRYPT_COST, default=10"`
	// SessionCookie is the name of the HTTP-only cookie carrying the token.
	SessionCookie string `env:"SESSION_COOKIE, default=jwt"`

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=dealership"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return &cfg, nil
}
