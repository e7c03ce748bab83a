/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

// Package catalog maps logical endpoint names (dotted paths like "summoner.byName")
// to URL templates and default rate limits.
package catalog

import (
	"bytes"
	_ "embed" // for the default catalog
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/vasayxtx/go-glob"
	"gopkg.in/yaml.v3"

	"github.com/gamebuddyapp/teeto/limiter"
)

// Placeholder is a positional placeholder in URL templates.
const Placeholder = "%s"

// ErrArgsMismatch is returned when the number of path arguments doesn't match the number of placeholders.
var ErrArgsMismatch = errors.New("wrong number of path arguments")

//go:embed riot.yaml
var riotYAML []byte

// Endpoint describes a logical API operation.
type Endpoint struct {
	// Path is a dotted path of the endpoint in the catalog.
	Path string
	// URL is a template relative to the region host with positional placeholders.
	URL string
	// Limit is a default method limit in "max:intervalSeconds" form.
	Limit string
	// Group is an identifier of the rate-limit sharing unit. Path is used when it's empty.
	Group string
}

// Catalog is a read-only set of endpoints.
type Catalog struct {
	endpoints map[string]Endpoint
}

// New creates a catalog from the given endpoints.
func New(endpoints ...Endpoint) (*Catalog, error) {
	c := &Catalog{endpoints: make(map[string]Endpoint, len(endpoints))}
	for _, e := range endpoints {
		if e.Path == "" || e.URL == "" {
			return nil, fmt.Errorf("endpoint %q: path and url are required", e.Path)
		}
		if _, err := limiter.ParseLimit(e.Limit); err != nil {
			return nil, fmt.Errorf("endpoint %q: %w", e.Path, err)
		}
		if e.Group == "" {
			e.Group = e.Path
		}
		c.endpoints[e.Path] = e
	}
	return c, nil
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// Default returns the catalog of Riot Games API endpoints.
func Default() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := Load(bytes.NewReader(riotYAML))
		if err != nil {
			panic(fmt.Errorf("load default catalog: %w", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load reads a catalog in YAML. Endpoints are nested maps, every map having "url" key is an endpoint:
//
//	summoner:
//	  byName:
//	    url: /lol/summoner/v4/summoners/by-name/%s
//	    limit: "1600:60"
func Load(r io.Reader) (*Catalog, error) {
	var tree map[string]interface{}
	if err := yaml.NewDecoder(r).Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	var endpoints []Endpoint
	if err := collectEndpoints("", tree, &endpoints); err != nil {
		return nil, err
	}
	return New(endpoints...)
}

func collectEndpoints(prefix string, node map[string]interface{}, dst *[]Endpoint) error {
	if _, ok := node["url"]; ok {
		e := Endpoint{Path: prefix}
		for key, val := range node {
			s, ok := val.(string)
			if !ok {
				return fmt.Errorf("endpoint %q: %q should be a string", prefix, key)
			}
			switch key {
			case "url":
				e.URL = s
			case "limit":
				e.Limit = s
			case "group":
				e.Group = s
			default:
				return fmt.Errorf("endpoint %q: unknown field %q", prefix, key)
			}
		}
		*dst = append(*dst, e)
		return nil
	}
	for key, val := range node {
		child, ok := val.(map[string]interface{})
		if !ok {
			return fmt.Errorf("catalog node %q should be a map", strings.TrimPrefix(prefix+"."+key, "."))
		}
		if err := collectEndpoints(strings.TrimPrefix(prefix+"."+key, "."), child, dst); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the endpoint by its dotted path.
func (c *Catalog) Lookup(path string) (Endpoint, bool) {
	e, ok := c.endpoints[path]
	return e, ok
}

// Len returns the number of endpoints.
func (c *Catalog) Len() int {
	return len(c.endpoints)
}

// Match returns endpoints whose paths match the glob pattern (e.g. "match.*"), sorted by path.
func (c *Catalog) Match(pattern string) []Endpoint {
	matches := glob.Compile(pattern)
	var res []Endpoint
	for path, e := range c.endpoints {
		if matches(path) {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Path < res[j].Path })
	return res
}

// WithLimitOverrides returns a copy of the catalog where default limits of the endpoints matching
// glob patterns (keys) are replaced. When several patterns match, the longest one wins.
// Patterns are matched case-insensitively since config keys are usually lowercased on loading.
func (c *Catalog) WithLimitOverrides(overrides map[string]string) (*Catalog, error) {
	if len(overrides) == 0 {
		return c, nil
	}
	patterns := make([]string, 0, len(overrides))
	for pattern, limit := range overrides {
		if _, err := limiter.ParseLimit(limit); err != nil {
			return nil, fmt.Errorf("limit override for %q: %w", pattern, err)
		}
		patterns = append(patterns, pattern)
	}
	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i]) != len(patterns[j]) {
			return len(patterns[i]) > len(patterns[j])
		}
		return patterns[i] < patterns[j]
	})
	matchers := make([]func(string) bool, len(patterns))
	for i, pattern := range patterns {
		matchers[i] = glob.Compile(strings.ToLower(pattern))
	}

	res := &Catalog{endpoints: make(map[string]Endpoint, len(c.endpoints))}
	for path, e := range c.endpoints {
		lowerPath := strings.ToLower(path)
		for i, matches := range matchers {
			if matches(lowerPath) {
				e.Limit = overrides[patterns[i]]
				break
			}
		}
		res.endpoints[path] = e
	}
	return res, nil
}

// BuildPath substitutes path arguments into the URL template in order.
// Arguments are escaped as path segments.
func BuildPath(template string, args []string) (string, error) {
	if want := strings.Count(template, Placeholder); want != len(args) {
		return "", fmt.Errorf("%w: template %q expects %d, got %d", ErrArgsMismatch, template, want, len(args))
	}
	var sb strings.Builder
	rest := template
	for _, arg := range args {
		i := strings.Index(rest, Placeholder)
		sb.WriteString(rest[:i])
		sb.WriteString(url.PathEscape(arg))
		rest = rest[i+len(Placeholder):]
	}
	sb.WriteString(rest)
	return sb.String(), nil
}
