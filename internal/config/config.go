package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

const (
	ModeWebhook = "webhook"
	ModePolling = "polling"

	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	Port                int    `env:"PORT" envDefault:"8080"`
	DatabaseURL         string `env:"DATABASE_URL,required"`
	RedisURL            string `env:"REDIS_URL"`
	BotToken            string `env:"BOT_TOKEN,required"`
	TelegramMode        string `env:"TELEGRAM_MODE" envDefault:"polling"`
	WebhookSecretToken  string `env:"WEBHOOK_SECRET_TOKEN"`
	WebhookURL          string `env:"WEBHOOK_URL"`
	SessionBackend      string `env:"SESSION_BACKEND" envDefault:"postgres"`
	SessionTTLHours     int    `env:"SESSION_TTL_HOURS" envDefault:"24"`
	SessionSweepMinutes int    `env:"SESSION_SWEEP_MINUTES" envDefault:"60"`
	Timezone            string `env:"TIMEZONE" envDefault:"America/Santiago"`
	InviteTTLDays       int    `env:"INVITE_TTL_DAYS" envDefault:"7"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SessionSweepMinutes) * time.Minute
}

func (c *Config) InviteTTL() time.Duration {
	return time.Duration(c.InviteTTLDays) * 24 * time.Hour
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Validate() error {
	switch c.TelegramMode {
	case ModeWebhook:
		if c.WebhookURL == "" {
			return fmt.Errorf("WEBHOOK_URL is required when TELEGRAM_MODE=webhook")
		}
		if c.WebhookSecretToken == "" {
			log.Warn().Msg("WEBHOOK_SECRET_TOKEN is empty: webhook requests will not be verified")
		}
	case ModePolling:
	default:
		return fmt.Errorf("TELEGRAM_MODE must be %q or %q, got %q", ModeWebhook, ModePolling, c.TelegramMode)
	}

	switch c.SessionBackend {
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when SESSION_BACKEND=redis")
		}
	case BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("SESSION_BACKEND must be one of postgres, redis, memory; got %q", c.SessionBackend)
	}

	if c.SessionTTLHours <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}
	if c.SessionSweepMinutes <= 0 {
		return fmt.Errorf("SESSION_SWEEP_MINUTES must be positive")
	}
	if c.InviteTTLDays <= 0 {
		return fmt.Errorf("INVITE_TTL_DAYS must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
