package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults apply when neither a config file nor an environment
	// variable supplies a value.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("provider.site_url", "http://localhost:3000")

	// Optional config file support; the environment is the primary source.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// A missing config file is fine.
	}

	// Environment variables use the AUTHGW_ prefix with underscores in
	// place of dots, e.g. server.port becomes AUTHGW_SERVER_PORT.
	v.SetEnvPrefix("AUTHGW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind each key explicitly so AutomaticEnv sees them even when the
	// config file omits the corresponding section.
	for key, env := range map[string]string{
		"server.port":       "AUTHGW_SERVER_PORT",
		"server.log_level":  "AUTHGW_SERVER_LOG_LEVEL",
		"provider.url":      "AUTHGW_PROVIDER_URL",
		"provider.key":      "AUTHGW_PROVIDER_KEY",
		"provider.site_url": "AUTHGW_PROVIDER_SITE_URL",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
