/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"fmt"
	"time"

	"github.com/gamebuddyapp/teeto/config"
)

const cfgDefaultKeyPrefix = "http"

const (
	// DefaultTimeout is a default timeout of a single request to the API.
	DefaultTimeout = 30 * time.Second

	cfgKeyTimeout                 = "timeout"
	cfgKeyLogMode                 = "log.mode"
	cfgKeyLogSlowRequestThreshold = "log.slowRequestThreshold"
	cfgKeyMetricsEnabled          = "metrics.enabled"
)

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// Config represents options for the HTTP transport.
type Config struct {
	// Timeout is the maximum time of a single request (including reading the body).
	Timeout time.Duration `mapstructure:"timeout"`

	// Log is a configuration for logging requests.
	Log LogConfig `mapstructure:"log"`

	// Metrics is a configuration for collecting metrics.
	Metrics MetricsConfig `mapstructure:"metrics"`

	keyPrefix string
}

// LogConfig represents configuration options for logging requests.
type LogConfig struct {
	Mode                 LoggingMode   `mapstructure:"mode"`
	SlowRequestThreshold time.Duration `mapstructure:"slowRequestThreshold"`
}

// MetricsConfig represents configuration options for request metrics.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// NewConfig creates a new Config with the default key prefix ("http").
func NewConfig() *Config {
	return &Config{keyPrefix: cfgDefaultKeyPrefix}
}

// NewDefaultConfig creates a new Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Timeout:   DefaultTimeout,
		Log:       LogConfig{Mode: LoggingModeFailed},
		keyPrefix: cfgDefaultKeyPrefix,
	}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyTimeout, DefaultTimeout)
	dp.SetDefault(cfgKeyLogMode, string(LoggingModeFailed))
}

// Set sets configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	var err error
	if c.Timeout, err = dp.GetDuration(cfgKeyTimeout); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return dp.WrapKeyErr(cfgKeyTimeout, fmt.Errorf("cannot be negative"))
	}

	var mode string
	if mode, err = dp.GetStringFromSet(cfgKeyLogMode,
		[]string{string(LoggingModeNone), string(LoggingModeAll), string(LoggingModeFailed)}, false); err != nil {
		return err
	}
	c.Log.Mode = LoggingMode(mode)

	if c.Log.SlowRequestThreshold, err = dp.GetDuration(cfgKeyLogSlowRequestThreshold); err != nil {
		return err
	}
	if c.Metrics.Enabled, err = dp.GetBool(cfgKeyMetricsEnabled); err != nil {
		return err
	}
	return nil
}
