package util

import (
	"log"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

//nolint:gochecknoglobals // here its ok
var once sync.Once

func init() {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	})
}

type ServerConfig struct {
	ServerAddr      string        `env:"SERVER_ADDRESS" envDefault:"localhost:8080"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"30s"`
	GracefulTimeout time.Duration `env:"GRACEFUL_TIMEOUT" envDefault:"5s"`
}

func NewServerConfig() *ServerConfig {
	cfg := &ServerConfig{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("server config: %v", err)
	}
	return cfg
}

// TokenConfig carries both signing secrets. They are required and must
// differ per deployment; TTL defaults follow the short-access/long-refresh
// split.
type TokenConfig struct {
	AccessSecret  string        `env:"JWT_ACCESS_SECRET,required"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET,required"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"24h"`
}

func NewTokenConfig() *TokenConfig {
	cfg := &TokenConfig{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("token config: %v", err)
	}
	return cfg
}

// SessionStoreConfig selects the refresh-session backing. "memory" keeps
// sessions in-process (they vanish on restart); "redis" survives restarts.
type SessionStoreConfig struct {
	Backend string `env:"SESSION_STORE" envDefault:"memory"`
}

func NewSessionStoreConfig() *SessionStoreConfig {
	cfg := &SessionStoreConfig{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("session store config: %v", err)
	}
	return cfg
}

type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

func NewAdminConfig() *AdminConfig {
	cfg := &AdminConfig{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("admin config: %v", err)
	}
	return cfg
}
