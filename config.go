package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"gitea.kood.tech/martasalum/roomie-match/backend/match"
)

// Config is the service configuration, loaded from an optional YAML file with
// ROOMIE_* environment variables layered on top.
type Config struct {
	ListenAddr  string `mapstructure:"listen_addr"`
	DatabaseURL string `mapstructure:"database_url"`
	JWTSecret   string `mapstructure:"jwt_secret"`

	LogLevel string `mapstructure:"log_level"`

	Redis RedisConfig `mapstructure:"redis"`
	Match MatchConfig `mapstructure:"match"`
}

type RedisConfig struct {
	// Addr empty disables the match-result cache.
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MatchConfig struct {
	// TopN is the default ranked-list length when the request has no limit.
	TopN     int           `mapstructure:"top_n"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// Weights overrides the engine's default weight table. Keys are
	// dimension names; values must sum to 100.
	Weights map[string]int `mapstructure:"weights"`
}

func loadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("jwt_secret", "change_me_in_production")
	v.SetDefault("log_level", "info")
	v.SetDefault("match.top_n", 10)
	v.SetDefault("match.cache_ttl", time.Minute)

	v.SetEnvPrefix("ROOMIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// matchWeights converts the configured override into an engine weight table,
// or returns nil to use the engine defaults. Validation fails fast here so a
// bad table stops the service at startup instead of failing every request.
func (c *Config) matchWeights() (match.Weights, error) {
	if len(c.Match.Weights) == 0 {
		return nil, nil
	}
	w := make(match.Weights, len(c.Match.Weights))
	for name, value := range c.Match.Weights {
		w[match.Dimension(name)] = value
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}
