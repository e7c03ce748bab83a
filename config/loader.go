/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import "io"

// Loader fills Config objects from a DataProvider.
// Defaults of all configs are registered before any of them is set, so one config may read keys another one defaults.
type Loader struct {
	DataProvider DataProvider
}

// NewDefaultLoader creates a Loader backed by viper that also resolves keys from environment variables with envVarsPrefix.
func NewDefaultLoader(envVarsPrefix string) *Loader {
	va := NewViperAdapter()
	va.UseEnvVars(envVarsPrefix)
	return NewLoader(va)
}

// NewLoader creates a new configurations' loader.
func NewLoader(dp DataProvider) *Loader {
	return &Loader{DataProvider: dp}
}

// LoadFromFile reads the file into the data provider and then calls Load.
func (l *Loader) LoadFromFile(path string, dataType DataType, cfg Config, cfgs ...Config) error {
	if err := l.DataProvider.SetFromFile(path, dataType); err != nil {
		return err
	}
	return l.Load(cfg, cfgs...)
}

// LoadFromReader reads the reader into the data provider and then calls Load.
func (l *Loader) LoadFromReader(reader io.Reader, dataType DataType, cfg Config, cfgs ...Config) error {
	if err := l.DataProvider.SetFromReader(reader, dataType); err != nil {
		return err
	}
	return l.Load(cfg, cfgs...)
}

type scopedConfig struct {
	cfg Config
	dp  DataProvider
}

// Load sets configs from the values the data provider already knows.
func (l *Loader) Load(cfg Config, cfgs ...Config) error {
	scoped := make([]scopedConfig, 0, len(cfgs)+1)
	for _, c := range append([]Config{cfg}, cfgs...) {
		sc := scopedConfig{cfg: c, dp: l.scope(c)}
		sc.cfg.SetProviderDefaults(sc.dp)
		scoped = append(scoped, sc)
	}
	for _, sc := range scoped {
		if err := sc.cfg.Set(sc.dp); err != nil {
			return err
		}
	}
	return nil
}

// scope wraps the data provider with the config's key prefix, if it has one.
func (l *Loader) scope(cfg Config) DataProvider {
	if p, ok := cfg.(KeyPrefixProvider); ok && p.KeyPrefix() != "" {
		return NewKeyPrefixedDataProvider(l.DataProvider, p.KeyPrefix())
	}
	return l.DataProvider
}
