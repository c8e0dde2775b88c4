package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable name in EnvConfig.
const EnvPrefix = "DEVCONNECTOR_"

// EnvConfig maps environment variables onto Config fields. Unset variables
// leave the current value in place.
type EnvConfig struct {
	EndpointAddrHTTP string        `env:"HTTP_ADDRESS"`
	DatabaseDriver   string        `env:"DATABASE_DRIVER"`
	DatabaseDSN      string        `env:"DATABASE_DSN"`
	SecretKey        string        `env:"JWT_SECRET"`
	TokenTTL         time.Duration `env:"TOKEN_TTL"`
	BcryptCost       int           `env:"BCRYPT_COST"`
	HashTimeout      time.Duration `env:"HASH_TIMEOUT"`
	HashConcurrency  int           `env:"HASH_CONCURRENCY"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT"`
	LogLevel         string        `env:"LOG_LEVEL"`
	LogFormat        string        `env:"LOG_FORMAT"`
}

// parseEnv loads dotenv (if the file exists) into the process environment
// without overriding variables that are already set, then overlays the
// DEVCONNECTOR_* variables onto config.
func parseEnv(config *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	c := &EnvConfig{
		EndpointAddrHTTP: config.EndpointAddrHTTP,
		DatabaseDriver:   config.DatabaseDriver,
		DatabaseDSN:      config.DatabaseDSN,
		SecretKey:        config.SecretKey,
		TokenTTL:         config.TokenTTL,
		BcryptCost:       config.BcryptCost,
		HashTimeout:      config.HashTimeout,
		HashConcurrency:  config.HashConcurrency,
		ShutdownTimeout:  config.ShutdownTimeout,
		LogLevel:         config.LogLevel,
		LogFormat:        config.LogFormat,
	}

	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDriver = c.DatabaseDriver
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenTTL = c.TokenTTL
	config.BcryptCost = c.BcryptCost
	config.HashTimeout = c.HashTimeout
	config.HashConcurrency = c.HashConcurrency
	config.ShutdownTimeout = c.ShutdownTimeout
	config.LogLevel = c.LogLevel
	config.LogFormat = c.LogFormat
	return nil
}
