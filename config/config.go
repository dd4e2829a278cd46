package config

import (
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

// DefaultBaseURL is the hosted instance of the service that the suite runs against unless
// configured otherwise.
const DefaultBaseURL = "https://cfp-server.vercel.app"

// Config holds all harness configuration.
type Config struct {
	BaseURL           string     `mapstructure:"base_url" validate:"required,url"`
	RequestTimeoutMS  int        `mapstructure:"request_timeout_ms" validate:"gt=0"`
	GetRetries        int        `mapstructure:"get_retries" validate:"gte=0,lte=1"`
	MaxResponseTimeMS int        `mapstructure:"max_response_time_ms" validate:"gte=0"`
	LogLevel          string     `mapstructure:"log_level" validate:"required,oneof=debug info warn error none"`
	User              UserConfig `mapstructure:"user"`
}

// UserConfig names an existing account to reuse. If Email is empty, a new identity is
// generated for every run.
type UserConfig struct {
	Email    string `mapstructure:"email" validate:"omitempty,email"`
	Password string `mapstructure:"password" validate:"required_with=Email"`
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// MaxResponseTime is zero if no response-time ceiling is configured.
func (c Config) MaxResponseTime() time.Duration {
	return time.Duration(c.MaxResponseTimeMS) * time.Millisecond
}

func (c Config) MinLogLevel() ldlog.LogLevel {
	switch c.LogLevel {
	case "debug":
		return ldlog.Debug
	case "warn":
		return ldlog.Warn
	case "error":
		return ldlog.Error
	case "none":
		return ldlog.None
	default:
		return ldlog.Info
	}
}
