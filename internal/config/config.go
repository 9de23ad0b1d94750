package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given. Unlike an
// explicit path it may be absent.
const DefaultPath = "config/config.yaml"

type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Quiz     QuizConfig     `yaml:"quiz"`
	Session  SessionConfig  `yaml:"session"`
}

type AppConfig struct {
	Name     string `yaml:"name" env:"APP_NAME"`
	Env      string `yaml:"env" env:"APP_ENV"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

type ServerConfig struct {
	Port            string `yaml:"port" env:"PORT"`
	ShutdownTimeout string `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	// TTL bounds how long a session snapshot stays resumable.
	TTL string `yaml:"ttl" env:"REDIS_TTL"`
}

type PostgresConfig struct {
	URL string `yaml:"url" env:"POSTGRES_URL"`
}

type QuizConfig struct {
	TTL         string `yaml:"ttl" env:"QUIZ_CACHE_TTL"`
	CatalogPath string `yaml:"catalog_path" env:"QUIZ_CATALOG_PATH"`
}

type SessionConfig struct {
	TickInterval string `yaml:"tick_interval" env:"SESSION_TICK_INTERVAL"`
	IdleTimeout  string `yaml:"idle_timeout" env:"SESSION_IDLE_TIMEOUT"`
}

func defaults() Config {
	return Config{
		App:    AppConfig{Name: "quiz-session-engine", Env: "development", LogLevel: "info"},
		Server: ServerConfig{Port: "8080", ShutdownTimeout: "5s"},
		Redis:  RedisConfig{TTL: "30m"},
		Quiz:   QuizConfig{TTL: "10m"},
		Session: SessionConfig{
			TickInterval: "1s",
			IdleTimeout:  "1h",
		},
	}
}

// Load reads YAML config from path on top of the defaults, then applies
// environment overrides. A missing file is only tolerated for DefaultPath.
func Load(path string) (Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
	default:
		return cfg, err
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
