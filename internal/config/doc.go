// Package config handles configuration loading, parsing, and validation.
// Values come from environment variables (AUTHGW_ prefix) with an optional
// YAML file underneath, and are validated into type-safe structs so the
// rest of the application never touches os.Getenv directly.
package config
