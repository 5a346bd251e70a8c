package config

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string        `env:"SERVER_PORT, default=5000"`
	Env         string        `env:"ENV, default=development"`
	LogLevel    string        `env:"LOG_LEVEL, default=info"`
	MySQLDSN    string        `env:"MYSQL_DSN, default=user:password@tcp(localhost:3306)/feedback?charset=utf8mb4&parseTime=True&loc=Local"`
	JWTSecret   string        `env:"JWT_SECRET, default=change-me"`
	TokenTTL    time.Duration `env:"TOKEN_TTL, default=168h"`
	UploadDir   string        `env:"UPLOAD_DIR, default=uploads"`
	CORSOrigins []string      `env:"CORS_ORIGINS, default=http://localhost:3000"`

	Redis RedisConfig
}

// RedisConfig configures the optional cache. The service stays fully
// functional when Redis is unreachable.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	DB       int    `env:"REDIS_DB, default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

// Load builds Config from the environment. A .env file in the working
// directory is picked up when present.
func Load() *Config {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}
	return &cfg
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
