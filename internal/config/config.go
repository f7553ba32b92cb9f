package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Logging LoggingConfig
}

// ServerConfig holds websocket server and room behaviour settings
type ServerConfig struct {
	Addr              string        `env:"ROOMSERVER_ADDR" envDefault:":8080"`
	InstanceID        string        `env:"ROOMSERVER_INSTANCE_ID"` // Optional: random when empty
	HeartbeatInterval time.Duration `env:"ROOMSERVER_HEARTBEAT_INTERVAL" envDefault:"15s"`
	MaxMalformed      int           `env:"ROOMSERVER_MAX_MALFORMED" envDefault:"5"`
	DefaultRoomID     string        `env:"ROOMSERVER_DEFAULT_ROOM" envDefault:"lobby"`
	ChatHistory       int           `env:"ROOMSERVER_CHAT_HISTORY" envDefault:"50"`
	SendBuffer        int           `env:"ROOMSERVER_SEND_BUFFER" envDefault:"64"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	URL string `env:"REDIS_URL"` // Empty selects in-memory persistence and bus
}

// AuthConfig holds bearer token settings
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET"`
	Issuer    string `env:"AUTH_JWT_ISSUER" envDefault:"roomserver"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// HeartbeatTimeout is how long a connection may stay silent before it is closed.
func (c ServerConfig) HeartbeatTimeout() time.Duration {
	return 2 * c.HeartbeatInterval
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Validate required fields
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if cfg.Server.HeartbeatInterval <= 0 {
		return nil, fmt.Errorf("ROOMSERVER_HEARTBEAT_INTERVAL must be positive")
	}
	if cfg.Server.MaxMalformed < 1 {
		return nil, fmt.Errorf("ROOMSERVER_MAX_MALFORMED must be at least 1")
	}
	if cfg.Server.DefaultRoomID == "" {
		return nil, fmt.Errorf("ROOMSERVER_DEFAULT_ROOM cannot be empty")
	}
	if cfg.Server.SendBuffer < 1 {
		cfg.Server.SendBuffer = 1
	}

	return cfg, nil
}
