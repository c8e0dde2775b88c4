package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/devconnector/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations accept
// both strings such as "100h" and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	DatabaseDriver   string         `json:"database_driver"`
	DatabaseDSN      string         `json:"database_dsn"`
	SecretKey        string         `json:"jwt_secret"`
	TokenTTL         timex.Duration `json:"token_ttl"`
	BcryptCost       int            `json:"bcrypt_cost"`
	HashTimeout      timex.Duration `json:"hash_timeout"`
	HashConcurrency  int            `json:"hash_concurrency"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout"`
	LogLevel         string         `json:"log_level"`
	LogFormat        string         `json:"log_format"`
}

// parseJson overlays values from the JSON file at path onto config. Keys
// missing from the file keep their current value. An empty path is a no-op.
func parseJson(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{
		EndpointAddrHTTP: config.EndpointAddrHTTP,
		DatabaseDriver:   config.DatabaseDriver,
		DatabaseDSN:      config.DatabaseDSN,
		SecretKey:        config.SecretKey,
		TokenTTL:         timex.Duration{Duration: config.TokenTTL},
		BcryptCost:       config.BcryptCost,
		HashTimeout:      timex.Duration{Duration: config.HashTimeout},
		HashConcurrency:  config.HashConcurrency,
		ShutdownTimeout:  timex.Duration{Duration: config.ShutdownTimeout},
		LogLevel:         config.LogLevel,
		LogFormat:        config.LogFormat,
	}

	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDriver = c.DatabaseDriver
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenTTL = c.TokenTTL.Duration
	config.BcryptCost = c.BcryptCost
	config.HashTimeout = c.HashTimeout.Duration
	config.HashConcurrency = c.HashConcurrency
	config.ShutdownTimeout = c.ShutdownTimeout.Duration
	config.LogLevel = c.LogLevel
	config.LogFormat = c.LogFormat
	return nil
}
