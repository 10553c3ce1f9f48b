// Package config loads process-wide settings once at startup.
// The resulting Config is read-only and is injected into every module.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the event planner.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	DBPath  string
	DBDebug bool

	JWT JWTConfig

	// BcryptCost is the work factor used for new password hashes.
	BcryptCost int

	// AdminEmail and AdminPassword seed the bootstrap admin account.
	// Leaving either empty skips seeding.
	AdminEmail    string
	AdminPassword string

	// RedisAddr enables the category cache when non-empty.
	RedisAddr string
	CacheTTL  time.Duration
}

// JWTConfig holds token signing settings.
// Rotating SecretKey invalidates every token issued before the rotation.
type JWTConfig struct {
	SecretKey            string
	Issuer               string
	SigningMethod        string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// Default returns the development defaults.
// The secret key must be overridden in production.
func Default() Config {
	return Config{
		HTTPAddr:        ":3000",
		ShutdownTimeout: 30 * time.Second,
		DBPath:          "event_planner.db",
		JWT: JWTConfig{
			SecretKey:            "top-secret-change-in-production",
			Issuer:               "event-planner",
			SigningMethod:        "HS256",
			AccessTokenDuration:  24 * time.Hour,
			RefreshTokenDuration: 30 * 24 * time.Hour,
		},
		BcryptCost: 12,
		CacheTTL:   5 * time.Minute,
	}
}

// Load builds a Config from the defaults overlaid with environment variables.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()

	setString(getenv, "HTTP_ADDR", &cfg.HTTPAddr)
	setString(getenv, "DB_PATH", &cfg.DBPath)
	setString(getenv, "JWT_SECRET_KEY", &cfg.JWT.SecretKey)
	setString(getenv, "JWT_ISSUER", &cfg.JWT.Issuer)
	setString(getenv, "JWT_SIGNING_METHOD", &cfg.JWT.SigningMethod)
	setString(getenv, "ADMINEMAIL", &cfg.AdminEmail)
	setString(getenv, "ADMINPASSWORD", &cfg.AdminPassword)
	setString(getenv, "REDIS_ADDR", &cfg.RedisAddr)

	cfg.DBDebug = getenv("DB_DEBUG") == "true"

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"JWT_ACCESS_LIFESPAN", &cfg.JWT.AccessTokenDuration},
		{"JWT_REFRESH_LIFESPAN", &cfg.JWT.RefreshTokenDuration},
		{"CACHE_TTL", &cfg.CacheTTL},
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", d.key, v, err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q: must be positive", d.key, v)
		}
		*d.dst = parsed
	}

	if v := getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BCRYPT_COST %q: %w", v, err)
		}
		cfg.BcryptCost = cost
	}

	return cfg, nil
}

func setString(getenv func(string) string, key string, dst *string) {
	if v := getenv(key); v != "" {
		*dst = v
	}
}
