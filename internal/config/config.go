// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig; load failures wrap ErrLoadConfig.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// MaxUploadBytes caps the size of one multipart upload.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"gt=0"`

	// SessionCapacity bounds how many processed uploads are kept in memory.
	SessionCapacity int `koanf:"session_capacity" validate:"gt=0"`

	// HeaderScanRows bounds how many leading rows are searched for headers.
	HeaderScanRows int `koanf:"header_scan_rows" validate:"gt=0,lte=100"`

	// PlaceholderEmailDomain is used for addresses synthesized from names.
	PlaceholderEmailDomain string `koanf:"placeholder_email_domain" validate:"required,hostname_rfc1123"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		MaxUploadBytes:         32 << 20,
		SessionCapacity:        32,
		HeaderScanRows:         10,
		PlaceholderEmailDomain: "empresa.com",
	}
}
