/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package main

import (
	"path/filepath"
	"strings"

	"github.com/gamebuddyapp/teeto/config"
	"github.com/gamebuddyapp/teeto/log"
	"github.com/gamebuddyapp/teeto/riotapi"
)

const envVarsPrefix = "teeto"

// AppConfig is the configuration of the command: logging and the Riot API client.
type AppConfig struct {
	Log  *log.Config
	Riot *riotapi.Config
}

// NewAppConfig creates a new AppConfig.
func NewAppConfig() *AppConfig {
	return &AppConfig{Log: log.NewConfig(), Riot: riotapi.NewConfig()}
}

// SetProviderDefaults sets default configuration values in config.DataProvider.
// Logs go to stderr in text format by default, so stdout carries response bodies only.
func (c *AppConfig) SetProviderDefaults(dp config.DataProvider) {
	c.Log.SetProviderDefaults(config.NewKeyPrefixedDataProvider(dp, c.Log.KeyPrefix()))
	c.Riot.SetProviderDefaults(config.NewKeyPrefixedDataProvider(dp, c.Riot.KeyPrefix()))
	dp.SetDefault(c.Log.KeyPrefix()+".output", string(log.OutputStderr))
	dp.SetDefault(c.Log.KeyPrefix()+".format", string(log.FormatText))
}

// Set sets configuration values from config.DataProvider.
func (c *AppConfig) Set(dp config.DataProvider) error {
	if err := c.Log.Set(config.NewKeyPrefixedDataProvider(dp, c.Log.KeyPrefix())); err != nil {
		return err
	}
	return c.Riot.Set(config.NewKeyPrefixedDataProvider(dp, c.Riot.KeyPrefix()))
}

func loadAppConfig(path string) (*AppConfig, error) {
	cfg := NewAppConfig()
	loader := config.NewDefaultLoader(envVarsPrefix)
	if path == "" {
		return cfg, loader.Load(cfg)
	}
	return cfg, loader.LoadFromFile(path, dataTypeOf(path), cfg)
}

func dataTypeOf(path string) config.DataType {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return config.DataTypeJSON
	}
	return config.DataTypeYAML
}
