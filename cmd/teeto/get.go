/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gamebuddyapp/teeto/log"
	"github.com/gamebuddyapp/teeto/riotapi"
)

type getOptions struct {
	query    []string
	priority bool
	timeout  time.Duration
	raw      bool
}

func newGetCommand(root *rootOptions) *cobra.Command {
	opts := &getOptions{}
	cmd := &cobra.Command{
		Use:   "get <region> <endpoint> [path args...]",
		Short: "Request an endpoint and print the response body",
		Example: `  teeto get na1 summoner.byPuuid <puuid>
  teeto get americas match.idsByPuuid <puuid> -q count=5 -q queue=420`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(args)
			if err != nil {
				return err
			}
			client, logger, release, err := root.newClient()
			if err != nil {
				return err
			}
			defer release()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if opts.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.timeout)
				defer cancel()
			}

			body, err := client.Do(ctx, req)
			if err != nil {
				return err
			}
			if body == nil {
				logger.Info("resource not found", log.Endpoint(req.Endpoint))
			}
			return writeBody(cmd.OutOrStdout(), body, opts.raw)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.query, "query", "q", nil, "query parameter in key=value form, may be repeated")
	cmd.Flags().BoolVar(&opts.priority, "priority", false, "put the request to the priority queue")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "maximum time to wait for the response (0 means no limit)")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print the body as received, without indentation")
	return cmd
}

func (o *getOptions) request(args []string) (riotapi.Request, error) {
	req := riotapi.Request{Region: args[0], Endpoint: args[1], Args: args[2:]}
	if o.priority {
		req.Priority = riotapi.PriorityHigh
	}
	query, err := parseQuery(o.query)
	if err != nil {
		return req, err
	}
	req.Query = query
	return req, nil
}

func parseQuery(params []string) (url.Values, error) {
	if len(params) == 0 {
		return nil, nil
	}
	query := make(url.Values, len(params))
	for _, param := range params {
		key, val, ok := strings.Cut(param, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query parameter %q, key=value is expected", param)
		}
		query.Add(key, val)
	}
	return query, nil
}

func writeBody(w io.Writer, body json.RawMessage, raw bool) error {
	if body == nil {
		_, err := fmt.Fprintln(w, "null")
		return err
	}
	if raw {
		_, err := fmt.Fprintln(w, string(body))
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		_, err = fmt.Fprintln(w, string(body))
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
