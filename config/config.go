// Package config carries the externally supplied gateway settings: agent
// identity, tenant/application identifiers, the authentication connection
// name and the downstream endpoint. Values come from a YAML file, the
// environment, or both (environment wins). Missing authentication settings
// degrade the feature to disabled instead of failing startup.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/hupe1980/turngate/core"
	"gopkg.in/yaml.v3"
)

// Config holds the gateway configuration surface. All fields are externally
// supplied; the zero value plus Default() covers local development.
type Config struct {
	// AppID is the agent's identity on the channel.
	AppID string `yaml:"app_id"`
	// TenantID and ClientID identify the application registration used by
	// the external credential layer. Opaque to this module.
	TenantID string `yaml:"tenant_id"`
	ClientID string `yaml:"client_id"`

	// ConnectionName names the identity-provider connection used to obtain
	// bearer tokens. Empty disables authentication features.
	ConnectionName string `yaml:"connection_name"`
	// AuthRequired gates the query path behind a cached token.
	AuthRequired bool `yaml:"auth_required"`
	// ProfileEndpoint serves the profile command lookup.
	ProfileEndpoint string `yaml:"profile_endpoint"`

	// Endpoint is the downstream recommendation service URL.
	Endpoint string `yaml:"endpoint"`
	// QueryTimeout bounds one downstream call. Must stay strictly inside
	// the channel response budget.
	QueryTimeout time.Duration `yaml:"query_timeout"`
	// SignInTimeout bounds the gap between sign-in prompt and callback.
	SignInTimeout time.Duration `yaml:"sign_in_timeout"`

	// LogLevel is one of debug, info, warn, error. LogFormat is json or
	// text.
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		QueryTimeout:  18 * time.Second,
		SignInTimeout: 300 * time.Second,
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// LoadFile reads a YAML configuration file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// FromEnv applies TURNGATE_* environment overrides on top of the receiver
// and returns the result. Unset variables leave the current value untouched.
func (c Config) FromEnv() Config {
	setString(&c.AppID, "TURNGATE_APP_ID")
	setString(&c.TenantID, "TURNGATE_TENANT_ID")
	setString(&c.ClientID, "TURNGATE_CLIENT_ID")
	setString(&c.ConnectionName, "TURNGATE_CONNECTION_NAME")
	setString(&c.ProfileEndpoint, "TURNGATE_PROFILE_ENDPOINT")
	setString(&c.Endpoint, "TURNGATE_ENDPOINT")
	setString(&c.LogLevel, "TURNGATE_LOG_LEVEL")
	setString(&c.LogFormat, "TURNGATE_LOG_FORMAT")
	setBool(&c.AuthRequired, "TURNGATE_AUTH_REQUIRED")
	setDuration(&c.QueryTimeout, "TURNGATE_QUERY_TIMEOUT")
	setDuration(&c.SignInTimeout, "TURNGATE_SIGNIN_TIMEOUT")
	return c
}

// AuthEnabled reports whether a connection name is configured. The wiring
// layer logs a warning and disables authentication features when it is not.
func (c Config) AuthEnabled() bool { return c.ConnectionName != "" }

// Validate checks the configuration for genuine faults. A missing
// connection name is not a fault (authentication degrades to disabled), but
// AuthRequired without a connection name is, as is a malformed endpoint or a
// non-positive timeout.
func (c Config) Validate() error {
	if c.AuthRequired && !c.AuthEnabled() {
		return &core.ConfigError{Field: "connection_name", Reason: "required when auth_required is set"}
	}
	if c.Endpoint != "" {
		if _, err := url.ParseRequestURI(c.Endpoint); err != nil {
			return &core.ConfigError{Field: "endpoint", Reason: fmt.Sprintf("invalid URL: %v", err)}
		}
	}
	if c.ProfileEndpoint != "" {
		if _, err := url.ParseRequestURI(c.ProfileEndpoint); err != nil {
			return &core.ConfigError{Field: "profile_endpoint", Reason: fmt.Sprintf("invalid URL: %v", err)}
		}
	}
	if c.QueryTimeout <= 0 {
		return &core.ConfigError{Field: "query_timeout", Reason: "must be positive"}
	}
	if c.SignInTimeout <= 0 {
		return &core.ConfigError{Field: "sign_in_timeout", Reason: "must be positive"}
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}
