/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gamebuddyapp/teeto/catalog"
)

func newEndpointsCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints [pattern]",
		Short: "List catalog endpoints matching the glob pattern with their method limits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}
			cfg, err := loadAppConfig(root.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cat, err := catalog.Default().WithLimitOverrides(cfg.Riot.EndpointLimits)
			if err != nil {
				return fmt.Errorf("apply endpoint limits: %w", err)
			}
			return writeEndpoints(cmd.OutOrStdout(), cat.Match(pattern))
		},
	}
}

func writeEndpoints(w io.Writer, endpoints []catalog.Endpoint) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ENDPOINT\tLIMIT\tGROUP\tURL"); err != nil {
		return err
	}
	for _, e := range endpoints {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Path, e.Limit, e.Group, e.URL); err != nil {
			return err
		}
	}
	return tw.Flush()
}
