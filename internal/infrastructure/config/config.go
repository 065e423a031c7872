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

	// BcryptCost is the work factor for newly produced hashes; stored hashes
	// below it are upgraded in the background after a successful login.
	BcryptCost int `env:"BCRYPT_COST, default=10"`

	// AllowNoopPasswords enables the plaintext {noop} scheme for demo and
	// test environments. It can never default to true.
	AllowNoopPasswords bool `env:"ALLOW_NOOP_PASSWORDS, default=false"`

	SeedDemoData bool `env:"SEED_DEMO_DATA, default=true"`

	Lockout LockoutConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type LockoutConfig struct {
	// Threshold is the number of consecutive failed logins that locks an
	// account for the window. Zero disables lockout entirely.
	Threshold int           `env:"LOCKOUT_THRESHOLD, default=5"`
	Window    time.Duration `env:"LOCKOUT_WINDOW,    default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=access_api"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return &cfg, nil
}
