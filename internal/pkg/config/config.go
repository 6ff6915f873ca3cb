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

	JWT   JWTConfig
	MySQL MySQLConfig
	Redis RedisConfig
	Mongo MongoConfig

	// DefaultRoleID is the role every new account is assigned on signup.
	DefaultRoleID int `env:"DEFAULT_ROLE_ID, default=3"`
	AuditWorkers  int `env:"AUDIT_WORKERS,   default=4"`
}

type JWTConfig struct {
	// Secret must be at least 32 bytes for HS256 signing.
	Secret   string        `env:"JWT_SECRET"`
	Issuer   string        `env:"JWT_ISSUER,   default=identity-server"`
	Audience string        `env:"JWT_AUDIENCE, default=identity-clients"`
	TTL      time.Duration `env:"JWT_TTL,      default=2h"`
}

type MySQLConfig struct {
	Host     string `env:"MYSQL_HOST,     default=localhost"`
	Port     string `env:"MYSQL_PORT,     default=3306"`
	User     string `env:"MYSQL_USER,     default=root"`
	Password string `env:"MYSQL_PASSWORD"`
	Database string `env:"MYSQL_DB,       default=identity"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity_audit"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
