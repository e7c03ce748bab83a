/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package riotapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cast"
	"go.uber.org/atomic"

	"github.com/gamebuddyapp/teeto/catalog"
	"github.com/gamebuddyapp/teeto/httpclient"
	"github.com/gamebuddyapp/teeto/limiter"
	"github.com/gamebuddyapp/teeto/log"
	"github.com/gamebuddyapp/teeto/store"
)

// Client schedules requests to the Riot API. Regions are created lazily on first use.
type Client struct {
	cfg              *Config
	appLimits        []limiter.Limit
	gateFactory      GateFactory
	store            store.Store
	catalog          *catalog.Catalog
	fetcher          Fetcher
	logger           log.FieldLogger
	metrics          MetricsCollector
	exceededCallback ExceededCallback
	sleep            func(ctx context.Context, d time.Duration) error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	regionsMu sync.RWMutex
	regions   map[string]*region

	// lifecycleMu makes Close and enqueueing mutually exclusive,
	// so no worker can be started after Close began waiting.
	lifecycleMu sync.RWMutex
	closed      atomic.Bool
	ownedRedis  io.Closer
}

// NewClient creates a new Client. Default config is used when cfg is nil.
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	if err := validateAppLimits(cfg.AppLimits); err != nil {
		return nil, fmt.Errorf("%w: app limits: %w", ErrConfiguration, err)
	}
	appLimits := make([]limiter.Limit, 0, len(cfg.AppLimits))
	for _, spec := range cfg.AppLimits {
		appLimits = append(appLimits, limiter.MustParseLimit(spec))
	}

	c := &Client{
		cfg:              cfg,
		appLimits:        appLimits,
		logger:           o.logger,
		metrics:          o.metrics,
		exceededCallback: o.exceededCallback,
		sleep:            sleepContext,
		regions:          make(map[string]*region),
	}
	if c.logger == nil {
		c.logger = log.NewDisabledLogger()
	}
	if !cfg.Debug {
		c.logger = c.logger.WithLevel(log.LevelInfo)
	}
	if c.metrics == nil {
		c.metrics = disabledMetrics{}
	}

	var err error
	if c.catalog, err = makeCatalog(cfg, o.catalog); err != nil {
		return nil, err
	}

	redisClient := o.redisClient
	if redisClient == nil && cfg.Redis.Addr != "" {
		owned := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, Password: cfg.Redis.Password})
		redisClient, c.ownedRedis = owned, owned
	}
	if c.store, err = makeStore(cfg, &o, redisClient); err != nil {
		c.closeOwnedRedis()
		return nil, err
	}
	if c.gateFactory, err = makeGateFactory(cfg, o.gateFactory, redisClient); err != nil {
		c.closeOwnedRedis()
		return nil, err
	}

	c.fetcher = o.fetcher
	if c.fetcher == nil {
		if cfg.APIKey == "" {
			c.logger.Warn("riot api key is not configured")
		}
		httpCfg := cfg.HTTP
		if httpCfg == nil {
			httpCfg = httpclient.NewDefaultConfig()
		}
		c.fetcher = httpclient.NewAPIClient(httpclient.NewWithOpts(httpCfg, httpclient.Opts{
			APIKey:         cfg.APIKey,
			LoggerProvider: httpclient.GetLoggerFromContext,
			Collector:      o.httpMetrics,
		}))
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c, nil
}

func makeCatalog(cfg *Config, custom *catalog.Catalog) (*catalog.Catalog, error) {
	cat := custom
	if cat == nil {
		cat = catalog.Default()
	}
	if len(cfg.EndpointLimits) == 0 {
		return cat, nil
	}
	overridden, err := cat.WithLimitOverrides(cfg.EndpointLimits)
	if err != nil {
		return nil, fmt.Errorf("%w: endpoint limits: %w", ErrConfiguration, err)
	}
	return overridden, nil
}

func makeStore(cfg *Config, o *clientOptions, redisClient redis.UniversalClient) (store.Store, error) {
	if o.store != nil {
		return o.store, nil
	}
	if redisClient != nil {
		return store.NewRedisStore(redisClient), nil
	}
	s, err := store.NewMemoryStore(cfg.Store.MaxEntries, o.storeMetrics)
	if err != nil {
		return nil, fmt.Errorf("%w: store: %w", ErrConfiguration, err)
	}
	return s, nil
}

func makeGateFactory(cfg *Config, custom GateFactory, redisClient redis.UniversalClient) (GateFactory, error) {
	if custom != nil {
		return custom, nil
	}
	backend := cfg.Gate.Backend
	if backend == "" {
		backend = limiter.BackendRollingWindow
		if redisClient != nil {
			backend = limiter.BackendRedis
		}
	}
	if !backend.IsValid() {
		return nil, fmt.Errorf("%w: unknown gate backend %q", ErrConfiguration, backend)
	}
	if backend == limiter.BackendRedis && redisClient == nil {
		return nil, fmt.Errorf("%w: redis is required for %q gate backend", ErrConfiguration, backend)
	}
	f := limiter.Factory{Backend: backend}
	if redisClient != nil {
		f.Redis = redisClient
	}
	return f, nil
}

// Catalog returns the endpoint catalog used by the client.
func (c *Client) Catalog() *catalog.Catalog {
	return c.catalog
}

// Get requests the endpoint in the region and waits for the response body.
//
// Args may contain, in any order:
//   - path arguments (strings, numbers or anything else convertible to string), substituted in order;
//   - query parameters as url.Values, map[string]string, map[string][]string or map[string]interface{};
//   - Priority.
//
// Body is nil when the API responds with 404.
func (c *Client) Get(ctx context.Context, region, endpoint string, args ...interface{}) (json.RawMessage, error) {
	req, err := parseArgs(region, endpoint, args)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Do submits the request and waits for its result or for the context to be done.
// The request remains queued when ctx is done first, its result is discarded.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	resultCh := c.Submit(req)
	select {
	case res := <-resultCh:
		return res.Body, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Submit queues the request and returns a channel that receives exactly one Result.
func (c *Client) Submit(req Request) <-chan Result {
	it := newQueueItem(req)
	if req.Region == "" {
		it.fail(fmt.Errorf("%w: region is required", ErrConfiguration))
		return it.resultCh
	}

	c.lifecycleMu.RLock()
	defer c.lifecycleMu.RUnlock()
	if c.closed.Load() {
		it.fail(ErrClientClosed)
		return it.resultCh
	}
	r, err := c.getRegion(req.Region)
	if err != nil {
		it.fail(err)
		return it.resultCh
	}
	r.enqueue(it)
	return it.resultCh
}

// Regions returns names of the regions used so far, sorted.
func (c *Client) Regions() []string {
	c.regionsMu.RLock()
	defer c.regionsMu.RUnlock()
	names := make([]string, 0, len(c.regions))
	for name := range c.regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Client) getRegion(name string) (*region, error) {
	c.regionsMu.RLock()
	r, ok := c.regions[name]
	c.regionsMu.RUnlock()
	if ok {
		return r, nil
	}

	c.regionsMu.Lock()
	defer c.regionsMu.Unlock()
	if r, ok = c.regions[name]; ok {
		return r, nil
	}
	r, err := newRegion(c, name)
	if err != nil {
		return nil, err
	}
	c.regions[name] = r
	return r, nil
}

// Close stops all workers and fails the pending requests with ErrClientClosed.
// Redis client created from the config is closed too.
func (c *Client) Close() error {
	c.lifecycleMu.Lock()
	if c.closed.Load() {
		c.lifecycleMu.Unlock()
		return nil
	}
	c.closed.Store(true)
	c.cancel()
	c.lifecycleMu.Unlock()

	c.wg.Wait()

	c.regionsMu.RLock()
	for _, r := range c.regions {
		for _, it := range r.takePending() {
			it.fail(ErrClientClosed)
		}
	}
	c.regionsMu.RUnlock()

	return c.closeOwnedRedis()
}

func (c *Client) closeOwnedRedis() error {
	if c.ownedRedis == nil {
		return nil
	}
	if err := c.ownedRedis.Close(); err != nil {
		return fmt.Errorf("close redis client: %w", err)
	}
	return nil
}

func parseArgs(region, endpoint string, args []interface{}) (Request, error) {
	req := Request{Region: region, Endpoint: endpoint}
	for i, arg := range args {
		switch v := arg.(type) {
		case Priority:
			req.Priority = v
		case url.Values:
			req.Query = mergeQuery(req.Query, v)
		case map[string][]string:
			req.Query = mergeQuery(req.Query, v)
		case map[string]string:
			q := make(url.Values, len(v))
			for key, val := range v {
				q.Set(key, val)
			}
			req.Query = mergeQuery(req.Query, q)
		case map[string]interface{}:
			q, err := queryFromMap(v)
			if err != nil {
				return req, fmt.Errorf("%w: argument %d: %w", ErrConfiguration, i, err)
			}
			req.Query = mergeQuery(req.Query, q)
		default:
			s, err := cast.ToStringE(arg)
			if err != nil {
				return req, fmt.Errorf("%w: argument %d: %w", ErrConfiguration, i, err)
			}
			req.Args = append(req.Args, s)
		}
	}
	return req, nil
}

func queryFromMap(m map[string]interface{}) (url.Values, error) {
	q := make(url.Values, len(m))
	for key, val := range m {
		switch vv := val.(type) {
		case []string:
			q[key] = append(q[key], vv...)
		case []interface{}:
			for _, item := range vv {
				s, err := cast.ToStringE(item)
				if err != nil {
					return nil, fmt.Errorf("query parameter %q: %w", key, err)
				}
				q.Add(key, s)
			}
		default:
			s, err := cast.ToStringE(val)
			if err != nil {
				return nil, fmt.Errorf("query parameter %q: %w", key, err)
			}
			q.Add(key, s)
		}
	}
	return q, nil
}

func mergeQuery(dst, src url.Values) url.Values {
	if dst == nil {
		dst = make(url.Values, len(src))
	}
	for key, values := range src {
		dst[key] = append(dst[key], values...)
	}
	return dst
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
