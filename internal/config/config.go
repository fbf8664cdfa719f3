package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// API deployment modes. "local" talks to a backend on localhost; "hosted"
// expects an explicit origin (co-hosted deployments route through it).
const (
	ModeLocal  = "local"
	ModeHosted = "hosted"
)

const defaultLocalOrigin = "http://localhost:8000"

type Config struct {
	API struct {
		Mode           string `mapstructure:"mode"`
		BaseURL        string `mapstructure:"base_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"api"`

	Poll struct {
		IntervalMS int `mapstructure:"interval_ms"`
	} `mapstructure:"poll"`

	Output struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"output"`

	History struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"history"`
}

// BaseURL resolves the backend origin for the configured mode.
func (c *Config) BaseURL() (string, error) {
	switch c.API.Mode {
	case ModeLocal, "":
		if c.API.BaseURL != "" {
			return c.API.BaseURL, nil
		}
		return defaultLocalOrigin, nil
	case ModeHosted:
		if c.API.BaseURL == "" {
			return "", fmt.Errorf("api.base_url must be set when api.mode is %q", ModeHosted)
		}
		return c.API.BaseURL, nil
	default:
		return "", fmt.Errorf("unknown api.mode %q", c.API.Mode)
	}
}

// PollInterval returns the configured status poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalMS) * time.Millisecond
}

// HTTPTimeout returns the per-request timeout for backend calls.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.finmodel")

	viper.SetDefault("api.mode", ModeLocal)
	viper.SetDefault("api.timeout_seconds", 15)
	viper.SetDefault("poll.interval_ms", 1000)
	viper.SetDefault("output.dir", ".")
	viper.SetDefault("history.path", "finmodel_history.db")

	viper.AutomaticEnv()
	// Explicit bindings so the backend origin can be switched without a config
	// file, e.g. when the CLI runs next to a co-hosted deployment.
	viper.BindEnv("api.base_url", "FINMODEL_API_URL")
	viper.BindEnv("api.mode", "FINMODEL_API_MODE")

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; env vars and defaults are enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
