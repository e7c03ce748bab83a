/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"strings"
	"time"
)

// KeyPrefixedDataProvider scopes every key-based call of the wrapped DataProvider under a prefix,
// so a Config may use short keys like "maxRetries" for "riot.maxRetries".
// Source-level calls (UseEnvVars, SetFromFile, SetFromReader) go to the wrapped provider unchanged.
type KeyPrefixedDataProvider struct {
	DataProvider
	prefix string
}

var _ DataProvider = (*KeyPrefixedDataProvider)(nil)

// NewKeyPrefixedDataProvider creates a new KeyPrefixedDataProvider.
func NewKeyPrefixedDataProvider(delegate DataProvider, keyPrefix string) *KeyPrefixedDataProvider {
	return &KeyPrefixedDataProvider{DataProvider: delegate, prefix: keyPrefix}
}

// fullKey joins prefix and key. Empty parts do not leave dangling dots.
func (p *KeyPrefixedDataProvider) fullKey(key string) string {
	return strings.Trim(p.prefix+"."+key, ".")
}

// Set sets the value for the prefixed key in the override register.
func (p *KeyPrefixedDataProvider) Set(key string, value interface{}) {
	p.DataProvider.Set(p.fullKey(key), value)
}

// SetDefault sets the default value for the prefixed key.
func (p *KeyPrefixedDataProvider) SetDefault(key string, value interface{}) {
	p.DataProvider.SetDefault(p.fullKey(key), value)
}

// IsSet reports whether the prefixed key has a value in any source.
func (p *KeyPrefixedDataProvider) IsSet(key string) bool {
	return p.DataProvider.IsSet(p.fullKey(key))
}

// Get returns the raw value of the prefixed key.
func (p *KeyPrefixedDataProvider) Get(key string) interface{} {
	return p.DataProvider.Get(p.fullKey(key))
}

func (p *KeyPrefixedDataProvider) GetBool(key string) (bool, error) {
	return p.DataProvider.GetBool(p.fullKey(key))
}

func (p *KeyPrefixedDataProvider) GetInt(key string) (int, error) {
	return p.DataProvider.GetInt(p.fullKey(key))
}

func (p *KeyPrefixedDataProvider) GetFloat64(key string) (float64, error) {
	return p.DataProvider.GetFloat64(p.fullKey(key))
}

func (p *KeyPrefixedDataProvider) GetString(key string) (string, error) {
	return p.DataProvider.GetString(p.fullKey(key))
}

func (p *KeyPrefixedDataProvider) GetStringFromSet(key string, set []string, ignoreCase bool) (string, error) {
	return p.DataProvider.GetStringFromSet(p.fullKey(key), set, ignoreCase)
}

func (p *KeyPrefixedDataProvider) GetStringSlice(key string) ([]string, error) {
	return p.DataProvider.GetStringSlice(p.fullKey(key))
}

func (p *KeyPrefixedDataProvider) GetDuration(key string) (time.Duration, error) {
	return p.DataProvider.GetDuration(p.fullKey(key))
}

func (p *KeyPrefixedDataProvider) GetStringMapString(key string) (map[string]string, error) {
	return p.DataProvider.GetStringMapString(p.fullKey(key))
}

func (p *KeyPrefixedDataProvider) GetByteSize(key string) (ByteSize, error) {
	return p.DataProvider.GetByteSize(p.fullKey(key))
}

// UnmarshalKey decodes the subtree under the prefixed key into rawVal.
func (p *KeyPrefixedDataProvider) UnmarshalKey(key string, rawVal interface{}, opts ...DecoderConfigOption) error {
	return p.DataProvider.UnmarshalKey(p.fullKey(key), rawVal, opts...)
}

// WrapKeyErr reports err against the full (prefixed) key.
func (p *KeyPrefixedDataProvider) WrapKeyErr(key string, err error) error {
	return p.DataProvider.WrapKeyErr(p.fullKey(key), err)
}
