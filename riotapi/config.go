/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package riotapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/gamebuddyapp/teeto/config"
	"github.com/gamebuddyapp/teeto/httpclient"
	"github.com/gamebuddyapp/teeto/limiter"
	"github.com/gamebuddyapp/teeto/store"
)

const cfgDefaultKeyPrefix = "riot"

const (
	cfgKeyAPIKey           = "apiKey"
	cfgKeyAppLimits        = "appLimits"
	cfgKeyEdgeCaseFixValue = "edgeCaseFixValue"
	cfgKeySpreadToSlowest  = "spreadToSlowest"
	cfgKeyMaxRetries       = "maxRetries"
	cfgKeyRetryDelay       = "retryDelay"
	cfgKeyShowWarn         = "showWarn"
	cfgKeyDebug            = "debug"
	cfgKeyNamespace        = "namespace"
	cfgKeyPrefix           = "prefix"
	cfgKeyGateBackend      = "gate.backend"
	cfgKeyRedisAddr        = "redis.addr"
	cfgKeyRedisDB          = "redis.db"
	cfgKeyRedisPassword    = "redis.password"
	cfgKeyStoreMaxEntries  = "store.maxEntries"
	cfgKeyEndpointLimits   = "endpointLimits"
	cfgKeyHTTP             = "http"
)

// Default values.
const (
	DefaultEdgeCaseFixValue = 1.2
	DefaultMaxRetries       = 3
	DefaultRetryDelay       = time.Second
	DefaultPrefix           = "https://%s.api.riotgames.com"
)

// DefaultAppLimits are the limits of a development API key.
var DefaultAppLimits = []string{"20:1", "100:120"}

// Config represents a set of configuration parameters for the Riot API client.
type Config struct {
	// APIKey is sent in X-Riot-Token header.
	APIKey string `mapstructure:"apiKey"`

	// AppLimits are the two application limits ("max:intervalSeconds"), the faster one goes first.
	AppLimits []string `mapstructure:"appLimits"`

	// EdgeCaseFixValue multiplies the minimal spacing between requests (interval / max).
	// It keeps bursts from hitting the limit on window edges.
	EdgeCaseFixValue float64 `mapstructure:"edgeCaseFixValue"`

	// SpreadToSlowest enables minimal spacing for the slower application limit too.
	SpreadToSlowest bool `mapstructure:"spreadToSlowest"`

	// MaxRetries is the number of retries for 429 and 5xx responses.
	MaxRetries int `mapstructure:"maxRetries"`

	// RetryDelay is the default delay before the first retry.
	RetryDelay time.Duration `mapstructure:"retryDelay"`

	// ShowWarn enables warnings in log on 429 responses.
	ShowWarn bool `mapstructure:"showWarn"`

	// Debug enables debug logging of the scheduler.
	Debug bool `mapstructure:"debug"`

	// Namespace prefixes all keys in the shared store and Redis gates (e.g. "production").
	Namespace string `mapstructure:"namespace"`

	// Prefix is the base URL, the first %s is replaced with the region.
	Prefix string `mapstructure:"prefix"`

	Gate  GateConfig  `mapstructure:"gate"`
	Redis RedisConfig `mapstructure:"redis"`
	Store StoreConfig `mapstructure:"store"`

	// EndpointLimits overrides default method limits of the catalog endpoints matching glob patterns.
	EndpointLimits map[string]string `mapstructure:"endpointLimits"`

	HTTP *httpclient.Config `mapstructure:"http"`

	keyPrefix string
}

// GateConfig represents configuration of the rate limit gates.
type GateConfig struct {
	// Backend is one of redis, rollingwindow, tokenbucket, slidingwindow, leakybucket.
	// Empty value means redis when a Redis client is configured or passed to the client
	// and rollingwindow otherwise.
	Backend limiter.Backend `mapstructure:"backend"`
}

// RedisConfig represents connection options of Redis used as the shared store and gates backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
}

// StoreConfig represents configuration of the in-memory store used when Redis is not configured.
type StoreConfig struct {
	MaxEntries int `mapstructure:"maxEntries"`
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new instance of the Config with the "riot" key prefix.
func NewConfig() *Config {
	return &Config{keyPrefix: cfgDefaultKeyPrefix, HTTP: httpclient.NewConfig()}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		AppLimits:        append([]string(nil), DefaultAppLimits...),
		EdgeCaseFixValue: DefaultEdgeCaseFixValue,
		MaxRetries:       DefaultMaxRetries,
		RetryDelay:       DefaultRetryDelay,
		ShowWarn:         true,
		Prefix:           DefaultPrefix,
		Store:            StoreConfig{MaxEntries: store.DefaultMemoryStoreMaxEntries},
		EndpointLimits:   map[string]string{},
		HTTP:             httpclient.NewDefaultConfig(),
		keyPrefix:        cfgDefaultKeyPrefix,
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
	dp.SetDefault(cfgKeyAppLimits, DefaultAppLimits)
	dp.SetDefault(cfgKeyEdgeCaseFixValue, DefaultEdgeCaseFixValue)
	dp.SetDefault(cfgKeyMaxRetries, DefaultMaxRetries)
	dp.SetDefault(cfgKeyRetryDelay, DefaultRetryDelay)
	dp.SetDefault(cfgKeyShowWarn, true)
	dp.SetDefault(cfgKeyPrefix, DefaultPrefix)
	dp.SetDefault(cfgKeyStoreMaxEntries, store.DefaultMemoryStoreMaxEntries)
	if c.HTTP == nil {
		c.HTTP = httpclient.NewConfig()
	}
	c.HTTP.SetProviderDefaults(config.NewKeyPrefixedDataProvider(dp, cfgKeyHTTP))
}

// Set sets configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	if c.APIKey, err = dp.GetString(cfgKeyAPIKey); err != nil {
		return err
	}

	if c.AppLimits, err = dp.GetStringSlice(cfgKeyAppLimits); err != nil {
		return err
	}
	if err = validateAppLimits(c.AppLimits); err != nil {
		return dp.WrapKeyErr(cfgKeyAppLimits, err)
	}

	if c.EdgeCaseFixValue, err = dp.GetFloat64(cfgKeyEdgeCaseFixValue); err != nil {
		return err
	}
	if c.EdgeCaseFixValue < 0 {
		return dp.WrapKeyErr(cfgKeyEdgeCaseFixValue, fmt.Errorf("cannot be negative"))
	}
	if c.SpreadToSlowest, err = dp.GetBool(cfgKeySpreadToSlowest); err != nil {
		return err
	}

	if c.MaxRetries, err = dp.GetInt(cfgKeyMaxRetries); err != nil {
		return err
	}
	if c.MaxRetries < 0 {
		return dp.WrapKeyErr(cfgKeyMaxRetries, fmt.Errorf("cannot be negative"))
	}
	if c.RetryDelay, err = dp.GetDuration(cfgKeyRetryDelay); err != nil {
		return err
	}
	if c.RetryDelay < 0 {
		return dp.WrapKeyErr(cfgKeyRetryDelay, fmt.Errorf("cannot be negative"))
	}

	if c.ShowWarn, err = dp.GetBool(cfgKeyShowWarn); err != nil {
		return err
	}
	if c.Debug, err = dp.GetBool(cfgKeyDebug); err != nil {
		return err
	}
	if c.Namespace, err = dp.GetString(cfgKeyNamespace); err != nil {
		return err
	}
	if c.Prefix, err = dp.GetString(cfgKeyPrefix); err != nil {
		return err
	}
	if !strings.Contains(c.Prefix, "%s") {
		return dp.WrapKeyErr(cfgKeyPrefix, fmt.Errorf("should contain %%s placeholder for region"))
	}

	if err = c.setRedisAndGate(dp); err != nil {
		return err
	}

	if c.Store.MaxEntries, err = dp.GetInt(cfgKeyStoreMaxEntries); err != nil {
		return err
	}
	if c.Store.MaxEntries < 0 {
		return dp.WrapKeyErr(cfgKeyStoreMaxEntries, fmt.Errorf("cannot be negative"))
	}

	if c.EndpointLimits, err = dp.GetStringMapString(cfgKeyEndpointLimits); err != nil {
		return err
	}
	for pattern, spec := range c.EndpointLimits {
		if _, err = limiter.ParseLimit(spec); err != nil {
			return dp.WrapKeyErr(cfgKeyEndpointLimits+"."+pattern, err)
		}
	}

	if c.HTTP == nil {
		c.HTTP = httpclient.NewConfig()
	}
	return c.HTTP.Set(config.NewKeyPrefixedDataProvider(dp, cfgKeyHTTP))
}

func (c *Config) setRedisAndGate(dp config.DataProvider) error {
	var err error
	if c.Redis.Addr, err = dp.GetString(cfgKeyRedisAddr); err != nil {
		return err
	}
	if c.Redis.DB, err = dp.GetInt(cfgKeyRedisDB); err != nil {
		return err
	}
	if c.Redis.Password, err = dp.GetString(cfgKeyRedisPassword); err != nil {
		return err
	}

	backends := make([]string, 0, len(limiter.Backends)+1)
	backends = append(backends, "")
	for _, b := range limiter.Backends {
		backends = append(backends, string(b))
	}
	var backend string
	if backend, err = dp.GetStringFromSet(cfgKeyGateBackend, backends, true); err != nil {
		return err
	}
	// Redis may be passed to the client as an option, so the backend is resolved when the client is created.
	c.Gate.Backend = limiter.Backend(strings.ToLower(backend))
	return nil
}

func validateAppLimits(specs []string) error {
	if len(specs) != 2 {
		return fmt.Errorf("exactly 2 limits are expected, got %d", len(specs))
	}
	for _, spec := range specs {
		if _, err := limiter.ParseLimit(spec); err != nil {
			return err
		}
	}
	return nil
}
