package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Provider ProviderConfig `mapstructure:"provider" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// ProviderConfig contains the settings for the external identity provider
// that owns credential storage, token issuance, and email delivery.
type ProviderConfig struct {
	// URL is the base URL of the provider's auth API, e.g.
	// https://xyzcompany.supabase.co/auth/v1 or a self-hosted GoTrue address.
	URL string `mapstructure:"url" validate:"required,url"`

	// Key is the provider's public (anon) API key, sent with every request.
	Key string `mapstructure:"key" validate:"required"`

	// SiteURL is the fallback redirect target embedded in verification
	// emails when a request carries no Origin header.
	SiteURL string `mapstructure:"site_url" validate:"required,url"`
}
