/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gamebuddyapp/teeto/log"
	"github.com/gamebuddyapp/teeto/riotapi"
)

type rootOptions struct {
	configPath string
	apiKey     string
	debug      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "teeto",
		Short:         "Rate limited Riot Games API client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"path to the configuration file (YAML or JSON), TEETO_* environment variables are used otherwise")
	cmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "Riot API key, overrides riot.apiKey")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging of the scheduler")

	cmd.AddCommand(newGetCommand(opts), newEndpointsCommand(opts))
	return cmd
}

// newClient loads the configuration and creates the logger and the Riot API client.
// The returned function releases both.
func (o *rootOptions) newClient() (*riotapi.Client, log.FieldLogger, func(), error) {
	cfg, err := loadAppConfig(o.configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if o.apiKey != "" {
		cfg.Riot.APIKey = o.apiKey
	}
	if o.debug {
		cfg.Riot.Debug = true
		cfg.Log.Level = log.LevelDebug
	}

	logger, loggerClose := log.NewLogger(cfg.Log)
	client, err := riotapi.NewClient(cfg.Riot, riotapi.WithLogger(logger))
	if err != nil {
		loggerClose()
		return nil, nil, nil, fmt.Errorf("create riot api client: %w", err)
	}
	release := func() {
		if closeErr := client.Close(); closeErr != nil {
			logger.Error("failed to close riot api client", log.Error(closeErr))
		}
		loggerClose()
	}
	return client, logger, release, nil
}
