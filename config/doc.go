// Package config loads the harness configuration from defaults, an optional config file,
// and CFP_-prefixed environment variables, and validates it.
package config
