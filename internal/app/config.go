package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env       string `env:"ENV"        envDefault:"dev"`  // Environment (dev, staging, prod)
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"` // Log level (debug, info, warn, error)
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // Log format (json, text)
	Port      int    `env:"PORT"       envDefault:"8080"` // HTTP server port

	DatabaseFile string `env:"DATABASE_FILE" envDefault:"taskward.db"` // Path to SQLite database file

	JWTSecret string        `env:"JWT_SECRET,required"`              // HMAC signing secret for tokens
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"taskward"` // Issuer claim on minted tokens
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"1h"`       // Token lifetime

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"` // Work factor for password hashing

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads configuration from environment variables. JWT_SECRET is
// the only variable without a usable default; the process refuses to start
// without it rather than minting tokens with a guessable key.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
