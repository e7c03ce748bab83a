/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"io"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DataType is a format of a configuration source.
type DataType string

// Supported data formats.
const (
	DataTypeYAML DataType = "yaml"
	DataTypeJSON DataType = "json"
)

// DataProvider reads typed configuration values from layered sources:
// overrides, files or readers, environment variables and defaults.
// Typed getters return the zero value for a missing key and a key-wrapped error for a value of the wrong type.
type DataProvider interface {
	// Sources.
	UseEnvVars(prefix string)
	SetFromFile(path string, dataType DataType) error
	SetFromReader(reader io.Reader, dataType DataType) error

	// Values.
	Set(key string, value interface{})
	SetDefault(key string, value interface{})
	IsSet(key string) bool
	Get(key string) interface{}

	GetBool(key string) (bool, error)
	GetInt(key string) (int, error)
	GetFloat64(key string) (float64, error)
	GetString(key string) (string, error)
	GetStringFromSet(key string, set []string, ignoreCase bool) (string, error)
	GetStringSlice(key string) ([]string, error)
	GetDuration(key string) (time.Duration, error)
	GetStringMapString(key string) (map[string]string, error)
	GetByteSize(key string) (ByteSize, error)
	UnmarshalKey(key string, rawVal interface{}, opts ...DecoderConfigOption) error

	// WrapKeyErr attributes err to key, resolving the key the same way getters do.
	WrapKeyErr(key string, err error) error
}

// DecoderConfigOption tunes the mapstructure decoder used by UnmarshalKey.
type DecoderConfigOption func(*mapstructure.DecoderConfig)

// WithWeaklyTypedInput lets UnmarshalKey convert between scalar types ("3" to 3),
// which values coming from environment variables need.
func WithWeaklyTypedInput() DecoderConfigOption {
	return func(c *mapstructure.DecoderConfig) {
		c.WeaklyTypedInput = true
	}
}
