package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// demoJWTSecret is only ever used with ENV=local.
const demoJWTSecret = "local-demo-secret-do-not-use-in-production"

type Config struct {
	Env         string `env:"ENV"          envDefault:"local" validate:"required,oneof=local staging production"`
	Port        string `env:"PORT"         envDefault:"8080"  validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"  validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	AutoMigrate bool   `env:"AUTO_MIGRATE"          envDefault:"true"`

	JWTSecret  string        `env:"JWT_SECRET"  validate:"omitempty,min=32"`
	JWTTTL     time.Duration `env:"JWT_TTL"     envDefault:"168h" validate:"gt=0"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"   validate:"min=4,max=14"`

	VerificationCodeTTL time.Duration `env:"VERIFICATION_CODE_TTL" envDefault:"10m" validate:"gt=0"`

	RedisURL           string   `env:"REDIS_URL"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20" validate:"min=0"`
	CORSOrigins        []string `env:"CORS_ORIGINS" envSeparator:","`
	// TrustedProxies may set X-Forwarded-For. Empty trusts none.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:"," validate:"dive,ip|cidr"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_with=ResendAPIKey"`

	SweepSchedule  string        `env:"SWEEP_SCHEDULE"  envDefault:"@every 15m"`
	SweepRetention time.Duration `env:"SWEEP_RETENTION" envDefault:"24h" validate:"gte=0"`

	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL"    envDefault:"admin@shiptrack.local" validate:"omitempty,email"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"admin123"`

	// UsingDemoSecret is set by Load when JWT_SECRET was empty in local mode.
	UsingDemoSecret bool `env:"-"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.CORSOrigins = compact(cfg.CORSOrigins)
	cfg.TrustedProxies = compact(cfg.TrustedProxies)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != "local" {
			return nil, errors.New("invalid config: JWT_SECRET is required outside local")
		}
		cfg.JWTSecret = demoJWTSecret
		cfg.UsingDemoSecret = true
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
