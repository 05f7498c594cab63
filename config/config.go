// Package config loads runtime settings: an optional engine.yaml in
// the working directory or ./config, overridable via ENGINE_*
// environment variables. Missing file means defaults.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	QueueCapacity  uint64 `mapstructure:"queue_capacity"`
	EventsLog      string `mapstructure:"events_log"`
	TradesLog      string `mapstructure:"trades_log"`
	BenchEvents    int    `mapstructure:"bench_events"`
	ReplDepth      int    `mapstructure:"repl_depth"`
	UserTracking   bool   `mapstructure:"user_tracking"`
	MaxAbsPosition int64  `mapstructure:"max_abs_position"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("engine")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetDefault("queue_capacity", 1<<20)
	v.SetDefault("events_log", "events.log")
	v.SetDefault("trades_log", "trades.log")
	v.SetDefault("bench_events", 1_000_000)
	v.SetDefault("repl_depth", 5)
	v.SetDefault("user_tracking", false)
	v.SetDefault("max_abs_position", 1_000_000_000)

	v.SetEnvPrefix("ENGINE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
