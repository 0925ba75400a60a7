package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8001"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
	BcryptCost      int           `env:"BCRYPT_COST,       default=12"`

	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW,       default=1m"`

	Mongo MongoConfig
	Redis RedisConfig
	Event EventConfig
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,      default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,       default=retail_users"`
	Timeout     time.Duration `env:"MONGO_TIMEOUT,  default=10s"`
	MaxPoolSize uint64        `env:"MONGO_MAX_POOL, default=100"`
}

type RedisConfig struct {
	Addr    string        `env:"REDIS_ADDR,    default=localhost:6379"`
	DB      int           `env:"REDIS_DB,      default=0"`
	Timeout time.Duration `env:"REDIS_TIMEOUT, default=5s"`
}

type EventConfig struct {
	Stream  string `env:"EVENT_STREAM,  default=retail-events"`
	Workers int    `env:"EVENT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
