package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Watchlist WatchlistConfig `mapstructure:"watchlist"`
}

// ServerConfig defines HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// WatchlistConfig defines reference-data settings.
type WatchlistConfig struct {
	DataDir             string `mapstructure:"data_dir"`
	SimilarityThreshold int    `mapstructure:"similarity_threshold"`
}

// Load reads configuration from config.yaml (optional) and RISKSCREEN_*
// environment variables, over built-in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("watchlist.data_dir", "./data/watchlists")
	v.SetDefault("watchlist.similarity_threshold", 85)

	v.SetEnvPrefix("RISKSCREEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// Defaults plus env is a valid configuration.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Watchlist.SimilarityThreshold < 1 || cfg.Watchlist.SimilarityThreshold > 100 {
		return nil, fmt.Errorf("similarity threshold out of range: %d", cfg.Watchlist.SimilarityThreshold)
	}
	return &cfg, nil
}
