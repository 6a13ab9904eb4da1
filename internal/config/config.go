// Package config содержит логику чтения конфигурации сервиса обработки чеков.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress    = "localhost:3001"
	defaultCacheSize     = 1000
	defaultAllowedOrigin = "*"
	defaultMaxBodyBytes  = 1 << 20
)

// Config содержит параметры конфигурации сервиса обработки чеков.
type Config struct {
	RunAddress        string `env:"RUN_ADDRESS"`
	PointsCacheSize   int    `env:"POINTS_CACHE_SIZE"`
	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN"`
	MaxBodyBytes      int64  `env:"MAX_BODY_BYTES"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envCfg := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.IntVar(&cfg.PointsCacheSize, "c", defaultCacheSize, "points cache capacity, 0 disables eviction")
	flag.StringVar(&cfg.CORSAllowedOrigin, "o", defaultAllowedOrigin, "value of Access-Control-Allow-Origin")
	flag.Int64Var(&cfg.MaxBodyBytes, "m", defaultMaxBodyBytes, "maximum request body size in bytes")

	flag.Parse()

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	// 0 в окружении означает кэш без ограничения, поэтому проверяется наличие переменной
	if _, ok := os.LookupEnv("POINTS_CACHE_SIZE"); ok {
		cfg.PointsCacheSize = envCfg.PointsCacheSize
	}
	if envCfg.CORSAllowedOrigin != "" {
		cfg.CORSAllowedOrigin = envCfg.CORSAllowedOrigin
	}
	if envCfg.MaxBodyBytes != 0 {
		cfg.MaxBodyBytes = envCfg.MaxBodyBytes
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.PointsCacheSize < 0 {
		return nil, fmt.Errorf("points cache size must not be negative: %d", cfg.PointsCacheSize)
	}
	if cfg.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("max body bytes must be positive: %d", cfg.MaxBodyBytes)
	}

	return cfg, nil
}
