/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ViperAdapter is DataProvider implementation that uses viper library under the hood.
type ViperAdapter struct {
	viper *viper.Viper
}

var _ DataProvider = (*ViperAdapter)(nil)

// NewViperAdapter creates a new ViperAdapter.
func NewViperAdapter() *ViperAdapter {
	return &ViperAdapter{viper.New()}
}

// lookup converts the raw value stored under key with conv.
// A missing key yields the zero value of T (or orMissing, when given) without an error.
func lookup[T any](va *ViperAdapter, key string, conv func(interface{}) (T, error), orMissing ...T) (T, error) {
	raw := va.viper.Get(key)
	if raw == nil {
		var zero T
		if len(orMissing) != 0 {
			return orMissing[0], nil
		}
		return zero, nil
	}
	res, err := conv(raw)
	return res, WrapKeyErrIfNeeded(key, err)
}

// UseEnvVars makes every key resolvable from the environment.
// With prefix "teeto" the "riot.apiKey" key is read from TEETO_RIOT_APIKEY.
func (va *ViperAdapter) UseEnvVars(prefix string) {
	va.viper.SetEnvPrefix(prefix)
	va.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	va.viper.AutomaticEnv()
}

// Set sets the value for the key in the override register.
func (va *ViperAdapter) Set(key string, value interface{}) { va.viper.Set(key, value) }

// SetDefault sets the value used when neither the config source nor the environment provides one.
func (va *ViperAdapter) SetDefault(key string, value interface{}) { va.viper.SetDefault(key, value) }

// IsSet checks to see if the key has been set in any of the data locations.
func (va *ViperAdapter) IsSet(key string) bool { return va.viper.IsSet(key) }

// Get retrieves any value given the key to use.
func (va *ViperAdapter) Get(key string) interface{} { return va.viper.Get(key) }

// SetFromFile loads configuration data from file.
func (va *ViperAdapter) SetFromFile(path string, dataType DataType) error {
	va.viper.SetConfigType(string(dataType))
	va.viper.SetConfigFile(path)
	return va.viper.ReadInConfig()
}

// SetFromReader loads configuration data from reader.
func (va *ViperAdapter) SetFromReader(reader io.Reader, dataType DataType) error {
	va.viper.SetConfigType(string(dataType))
	return va.viper.ReadConfig(reader)
}

// GetInt returns the value as an int.
func (va *ViperAdapter) GetInt(key string) (int, error) { return lookup(va, key, cast.ToIntE) }

// GetFloat64 returns the value as a float64.
func (va *ViperAdapter) GetFloat64(key string) (float64, error) { return lookup(va, key, cast.ToFloat64E) }

// GetString returns the value as a string.
func (va *ViperAdapter) GetString(key string) (string, error) { return lookup(va, key, cast.ToStringE) }

// GetBool returns the value as a bool.
func (va *ViperAdapter) GetBool(key string) (bool, error) { return lookup(va, key, cast.ToBoolE) }

// GetDuration returns the value as a time.Duration. Strings are parsed with time.ParseDuration.
func (va *ViperAdapter) GetDuration(key string) (time.Duration, error) {
	return lookup(va, key, cast.ToDurationE)
}

// GetStringMapString returns the value as a map of strings. A missing key yields an empty, non-nil map.
func (va *ViperAdapter) GetStringMapString(key string) (map[string]string, error) {
	return lookup(va, key, cast.ToStringMapStringE, map[string]string{})
}

// GetStringSlice returns the value as a slice of strings.
// A comma-separated string, as it comes from an environment variable, is split and trimmed.
func (va *ViperAdapter) GetStringSlice(key string) ([]string, error) {
	return lookup(va, key, func(raw interface{}) ([]string, error) {
		s, ok := raw.(string)
		if !ok {
			return cast.ToStringSliceE(raw)
		}
		if s == "" {
			return nil, nil
		}
		items := strings.Split(s, ",")
		for i := range items {
			items[i] = strings.TrimSpace(items[i])
		}
		return items, nil
	})
}

// GetStringFromSet returns the value as a string and fails if it is not one of set.
func (va *ViperAdapter) GetStringFromSet(key string, set []string, ignoreCase bool) (string, error) {
	str, err := va.GetString(key)
	if err != nil {
		return "", err
	}
	for _, allowed := range set {
		if str == allowed || (ignoreCase && strings.EqualFold(str, allowed)) {
			return str, nil
		}
	}
	return "", WrapKeyErr(key, fmt.Errorf("unknown value %q, should be one of %v", str, set))
}

// GetByteSize returns the value as a ByteSize.
// Integers and human-readable strings ("100M", "1Gi") are accepted.
func (va *ViperAdapter) GetByteSize(key string) (ByteSize, error) {
	return lookup(va, key, toByteSize)
}

func toByteSize(raw interface{}) (ByteSize, error) {
	switch v := raw.(type) {
	case ByteSize:
		return v, nil
	case string:
		return parseByteSize(v)
	case float32, float64:
		return ByteSize(cast.ToUint64(v)), nil
	}
	num, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, fmt.Errorf("unsupported type for byte size: %T", raw)
	}
	if num < 0 {
		return 0, fmt.Errorf("negative value is not allowed: %d", num)
	}
	return ByteSize(num), nil
}

// UnmarshalKey decodes the subtree under key into rawVal via mapstructure.
func (va *ViperAdapter) UnmarshalKey(key string, rawVal interface{}, opts ...DecoderConfigOption) error {
	viperOpts := make([]viper.DecoderConfigOption, 0, len(opts))
	for _, opt := range opts {
		viperOpts = append(viperOpts, viper.DecoderConfigOption(opt))
	}
	return WrapKeyErrIfNeeded(key, va.viper.UnmarshalKey(key, rawVal, viperOpts...))
}

// WrapKeyErr wraps error adding information about a key where this error occurs.
func (va *ViperAdapter) WrapKeyErr(key string, err error) error {
	return WrapKeyErr(key, err)
}
