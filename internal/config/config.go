// Package config loads server configuration from .env, environment, and flags.
package config

import (
	"flag"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all server settings. Environment variables win over flag
// defaults; flags override only what the environment left unset.
type Config struct {
	Addr      string        `env:"ADDR"`
	DataDir   string        `env:"DATA_DIR"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL"`

	BcryptCost int `env:"BCRYPT_COST"`

	LoginWindow   time.Duration `env:"LOGIN_WINDOW"`
	LoginMaxFails int           `env:"LOGIN_MAX_FAILS"`
	LoginBlock    time.Duration `env:"LOGIN_BLOCK"`
}

// New reads .env (if present), the environment, and command-line flags, then
// applies defaults for anything still unset.
func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory holding the JSON collection files")
	flag.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "HS256 signing key for bearer tokens")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "bearer token lifetime")
	flag.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "bcrypt cost factor")
	flag.DurationVar(&cfg.LoginWindow, "login-window", cfg.LoginWindow, "failed-login counting window")
	flag.IntVar(&cfg.LoginMaxFails, "login-max-fails", cfg.LoginMaxFails, "failed logins before lockout")
	flag.DurationVar(&cfg.LoginBlock, "login-block", cfg.LoginBlock, "lockout duration after too many failures")
	flag.Parse()

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 10
	}
	if cfg.LoginWindow <= 0 {
		cfg.LoginWindow = 15 * time.Minute
	}
	if cfg.LoginMaxFails == 0 {
		cfg.LoginMaxFails = 10
	}
	if cfg.LoginBlock <= 0 {
		cfg.LoginBlock = 15 * time.Minute
	}

	return cfg
}
