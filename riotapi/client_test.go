/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package riotapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/gamebuddyapp/teeto/catalog"
	"github.com/gamebuddyapp/teeto/httpclient"
	"github.com/gamebuddyapp/teeto/limiter"
)

type fetcherFunc func(ctx context.Context, rawURL string, query url.Values) (*httpclient.Response, error)

func (f fetcherFunc) Fetch(ctx context.Context, rawURL string, query url.Values) (*httpclient.Response, error) {
	return f(ctx, rawURL, query)
}

type createdGate struct {
	limit      limiter.Limit
	minSpacing time.Duration
}

// countingGateFactory creates gates that never ask to wait and counts the attempts.
type countingGateFactory struct {
	attempts atomic.Int32

	mu    sync.Mutex
	gates map[string]createdGate
}

func newCountingGateFactory() *countingGateFactory {
	return &countingGateFactory{gates: make(map[string]createdGate)}
}

func (f *countingGateFactory) NewGate(key string, limit limiter.Limit, minSpacing time.Duration) (limiter.Gate, error) {
	f.mu.Lock()
	f.gates[key] = createdGate{limit, minSpacing}
	f.mu.Unlock()
	return limiter.GateFunc(func(ctx context.Context) (time.Duration, error) {
		f.attempts.Inc()
		return 0, nil
	}), nil
}

func (f *countingGateFactory) gate(key string) (createdGate, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gates[key]
	return g, ok
}

func (f *countingGateFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.gates)
}

type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (sr *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	sr.mu.Lock()
	sr.sleeps = append(sr.sleeps, d)
	sr.mu.Unlock()
	return ctx.Err()
}

func (sr *sleepRecorder) recorded() []time.Duration {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return append([]time.Duration(nil), sr.sleeps...)
}

func newTestClient(
	t *testing.T, fetcher Fetcher, cfgFn func(cfg *Config), opts ...Option,
) (*Client, *countingGateFactory, *sleepRecorder) {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Namespace = "test"
	cfg.RetryDelay = 100 * time.Millisecond
	if cfgFn != nil {
		cfgFn(cfg)
	}
	gates := newCountingGateFactory()
	opts = append([]Option{WithFetcher(fetcher), WithGateFactory(gates)}, opts...)
	c, err := NewClient(cfg, opts...)
	require.NoError(t, err)
	sleeps := &sleepRecorder{}
	c.sleep = sleeps.sleep
	t.Cleanup(func() { require.NoError(t, c.Close()) })
	return c, gates, sleeps
}

func newResponse(statusCode int, body string, header http.Header) *httpclient.Response {
	if header == nil {
		header = http.Header{}
	}
	return &httpclient.Response{StatusCode: statusCode, Header: header, Body: []byte(body)}
}

func staticFetcher(calls *atomic.Int32, resp *httpclient.Response, err error) Fetcher {
	return fetcherFunc(func(context.Context, string, url.Values) (*httpclient.Response, error) {
		calls.Inc()
		return resp, err
	})
}

func waitResult(t *testing.T, resultCh <-chan Result) Result {
	t.Helper()
	select {
	case res := <-resultCh:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the request result")
	}
	return Result{}
}

func requireAPIError(t *testing.T, err error, kind Outcome, statusCode, retryCount int) *APIError {
	t.Helper()
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, kind, apiErr.Kind)
	require.Equal(t, statusCode, apiErr.StatusCode)
	require.Equal(t, retryCount, apiErr.RetryCount)
	return apiErr
}

func TestClient_Get(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotURL string
		var gotQuery url.Values
		fetcher := fetcherFunc(func(_ context.Context, rawURL string, query url.Values) (*httpclient.Response, error) {
			gotURL, gotQuery = rawURL, query
			return newResponse(http.StatusOK, `{"puuid":"abc","summonerLevel":42}`, nil), nil
		})
		c, gates, sleeps := newTestClient(t, fetcher, nil)

		body, err := c.Get(context.Background(), "na1", "summoner.byPuuid", "abc",
			url.Values{"type": {"ranked", "normal"}})
		require.NoError(t, err)
		require.JSONEq(t, `{"puuid":"abc","summonerLevel":42}`, string(body))
		require.Equal(t, "https://na1.api.riotgames.com/lol/summoner/v4/summoners/by-puuid/abc", gotURL)
		require.Equal(t, url.Values{"type": {"ranked", "normal"}}, gotQuery)
		require.Equal(t, int32(3), gates.attempts.Load())
		require.Empty(t, sleeps.recorded())
	})

	t.Run("not found resolves with nil body", func(t *testing.T) {
		var calls atomic.Int32
		resp := newResponse(http.StatusNotFound, `{"status":{"message":"Data not found","status_code":404}}`, nil)
		c, _, _ := newTestClient(t, staticFetcher(&calls, resp, nil), nil)

		body, err := c.Get(context.Background(), "euw1", "summoner.byName", "nobody")
		require.NoError(t, err)
		require.Nil(t, body)
		require.Equal(t, int32(1), calls.Load())
	})

	t.Run("unknown endpoint consumes no gate attempt", func(t *testing.T) {
		var calls atomic.Int32
		c, gates, _ := newTestClient(t, staticFetcher(&calls, newResponse(http.StatusOK, `{}`, nil), nil), nil)

		_, err := c.Get(context.Background(), "na1", "summoner.byFavoriteColor", "red")
		require.ErrorIs(t, err, ErrUnknownEndpoint)
		require.ErrorIs(t, err, ErrConfiguration)
		require.Zero(t, gates.attempts.Load())
		require.Zero(t, calls.Load())
	})

	t.Run("path arity mismatch consumes no gate attempt", func(t *testing.T) {
		var calls atomic.Int32
		cat, err := catalog.New(catalog.Endpoint{
			Path: "champion.list", URL: "/lol/platform/v3/champions/%s", Limit: "10:1",
		})
		require.NoError(t, err)
		c, gates, _ := newTestClient(t, staticFetcher(&calls, newResponse(http.StatusOK, `{}`, nil), nil), nil,
			WithCatalog(cat))

		_, err = c.Get(context.Background(), "na1", "champion.list")
		require.ErrorIs(t, err, ErrPathArity)
		require.ErrorIs(t, err, ErrConfiguration)
		require.Zero(t, gates.attempts.Load())
		require.Zero(t, calls.Load())
	})

	t.Run("server faults are retried with exponential delays", func(t *testing.T) {
		var calls atomic.Int32
		resp := newResponse(http.StatusServiceUnavailable, `{"status":{"message":"Service unavailable","status_code":503}}`, nil)
		c, gates, sleeps := newTestClient(t, staticFetcher(&calls, resp, nil), nil)

		_, err := c.Get(context.Background(), "na1", "match.byId", "NA1_1")
		apiErr := requireAPIError(t, err, OutcomeServerFault, http.StatusServiceUnavailable, 3)
		require.ErrorIs(t, err, ErrServerFault)
		require.Equal(t, "Service unavailable", apiErr.Message)
		require.Equal(t, int32(4), calls.Load())
		require.Equal(t, int32(12), gates.attempts.Load())
		require.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond},
			sleeps.recorded())
	})

	t.Run("rate limited without retry-after reuses the previous delay", func(t *testing.T) {
		var calls, exceeded atomic.Int32
		resp := newResponse(http.StatusTooManyRequests, `{"status":{"message":"Rate limit exceeded","status_code":429}}`, nil)
		c, _, sleeps := newTestClient(t, staticFetcher(&calls, resp, nil), func(cfg *Config) {
			cfg.MaxRetries = 2
		}, WithExceededCallback(func(event RateLimitEvent) {
			exceeded.Inc()
		}))

		_, err := c.Get(context.Background(), "kr", "league.byId", "league-1")
		apiErr := requireAPIError(t, err, OutcomeRateLimited, http.StatusTooManyRequests, 2)
		require.ErrorIs(t, err, ErrRateLimited)
		require.Equal(t, "Rate limit exceeded", apiErr.Message)
		require.Equal(t, "https://kr.api.riotgames.com/lol/league/v4/leagues/league-1", apiErr.URL)
		require.Equal(t, int32(3), calls.Load())
		require.Equal(t, int32(3), exceeded.Load())
		require.Equal(t, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond}, sleeps.recorded())
	})

	t.Run("rate limited then success", func(t *testing.T) {
		var calls atomic.Int32
		fetcher := fetcherFunc(func(context.Context, string, url.Values) (*httpclient.Response, error) {
			if calls.Inc() == 1 {
				return newResponse(http.StatusTooManyRequests, ``, http.Header{"Retry-After": {"3"}}), nil
			}
			return newResponse(http.StatusOK, `["NA1_1","NA1_2"]`, nil), nil
		})
		c, _, sleeps := newTestClient(t, fetcher, nil)

		body, err := c.Get(context.Background(), "americas", "match.idsByPuuid", "abc", map[string]string{"count": "2"})
		require.NoError(t, err)
		require.JSONEq(t, `["NA1_1","NA1_2"]`, string(body))
		require.Equal(t, []time.Duration{3 * time.Second}, sleeps.recorded())
	})

	t.Run("transport error is terminal", func(t *testing.T) {
		var calls atomic.Int32
		fetchErr := errors.New("connection reset by peer")
		c, _, sleeps := newTestClient(t, staticFetcher(&calls, nil, fetchErr), nil)

		_, err := c.Get(context.Background(), "na1", "summoner.byId", "id-1")
		apiErr := requireAPIError(t, err, OutcomeFailure, 0, 0)
		require.ErrorIs(t, err, ErrTransport)
		require.ErrorIs(t, err, fetchErr)
		require.Equal(t, "connection reset by peer", apiErr.Message)
		require.Equal(t, int32(1), calls.Load())
		require.Empty(t, sleeps.recorded())
	})

	t.Run("unexpected status is terminal", func(t *testing.T) {
		var calls atomic.Int32
		c, _, _ := newTestClient(t, staticFetcher(&calls, newResponse(http.StatusForbidden, ``, nil), nil), nil)

		_, err := c.Get(context.Background(), "na1", "summoner.byId", "id-1")
		apiErr := requireAPIError(t, err, OutcomeFailure, http.StatusForbidden, 0)
		require.Equal(t, "Forbidden", apiErr.Message)
		require.NotErrorIs(t, err, ErrRateLimited)
		require.Equal(t, int32(1), calls.Load())
	})

	t.Run("empty region", func(t *testing.T) {
		var calls atomic.Int32
		c, _, _ := newTestClient(t, staticFetcher(&calls, newResponse(http.StatusOK, `{}`, nil), nil), nil)

		_, err := c.Get(context.Background(), "", "summoner.byId", "id-1")
		require.ErrorIs(t, err, ErrConfiguration)
		require.Zero(t, calls.Load())
	})

	t.Run("unsupported argument", func(t *testing.T) {
		var calls atomic.Int32
		c, _, _ := newTestClient(t, staticFetcher(&calls, newResponse(http.StatusOK, `{}`, nil), nil), nil)

		_, err := c.Get(context.Background(), "na1", "summoner.byId", struct{}{})
		require.ErrorIs(t, err, ErrConfiguration)
		require.Zero(t, calls.Load())
	})
}

func TestClient_Do_ContextDone(t *testing.T) {
	release := make(chan struct{})
	fetcher := fetcherFunc(func(context.Context, string, url.Values) (*httpclient.Response, error) {
		<-release
		return newResponse(http.StatusOK, `{}`, nil), nil
	})
	c, _, _ := newTestClient(t, fetcher, nil)
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Do(ctx, Request{Region: "na1", Endpoint: "summoner.byId", Args: []string{"id-1"}})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_MidDrainEnqueue(t *testing.T) {
	started := make(chan string, 2)
	release := make(chan struct{})
	fetcher := fetcherFunc(func(_ context.Context, rawURL string, _ url.Values) (*httpclient.Response, error) {
		started <- rawURL
		if strings.HasSuffix(rawURL, "/first") {
			<-release
		}
		return newResponse(http.StatusOK, `{}`, nil), nil
	})
	c, _, _ := newTestClient(t, fetcher, nil)

	first := c.Submit(Request{Region: "na1", Endpoint: "summoner.byId", Args: []string{"first"}})
	require.True(t, strings.HasSuffix(<-started, "/first"))

	// The worker is busy, so the new item must be picked up by the same drain.
	second := c.Submit(Request{Region: "na1", Endpoint: "summoner.byId", Args: []string{"second"}})
	close(release)

	require.NoError(t, waitResult(t, first).Err)
	require.NoError(t, waitResult(t, second).Err)
	require.True(t, strings.HasSuffix(<-started, "/second"))
}

func TestClient_Close(t *testing.T) {
	started := make(chan struct{}, 1)
	fetcher := fetcherFunc(func(ctx context.Context, _ string, _ url.Values) (*httpclient.Response, error) {
		started <- struct{}{}
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cfg := NewDefaultConfig()
	c, err := NewClient(cfg, WithFetcher(fetcher), WithGateFactory(newCountingGateFactory()))
	require.NoError(t, err)

	inFlight := c.Submit(Request{Region: "na1", Endpoint: "summoner.byId", Args: []string{"1"}})
	<-started
	pending := []<-chan Result{
		c.Submit(Request{Region: "na1", Endpoint: "summoner.byId", Args: []string{"2"}}),
		c.Submit(Request{Region: "na1", Endpoint: "summoner.byId", Args: []string{"3"}, Priority: PriorityHigh}),
	}

	require.NoError(t, c.Close())

	require.ErrorIs(t, waitResult(t, inFlight).Err, ErrClientClosed)
	for _, resultCh := range pending {
		require.ErrorIs(t, waitResult(t, resultCh).Err, ErrClientClosed)
	}
	require.ErrorIs(t, waitResult(t, c.Submit(Request{Region: "na1", Endpoint: "summoner.byId", Args: []string{"4"}})).Err,
		ErrClientClosed)
	require.NoError(t, c.Close())
}

func TestClient_RegionCreatedOnce(t *testing.T) {
	var calls atomic.Int32
	c, gates, _ := newTestClient(t, staticFetcher(&calls, newResponse(http.StatusOK, `{}`, nil), nil), nil)

	const requests = 20
	var wg sync.WaitGroup
	wg.Add(requests)
	for i := 0; i < requests; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := c.Get(context.Background(), "euw1", "summoner.byId", i)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Equal(t, []string{"euw1"}, c.Regions())
	require.Equal(t, int32(requests), calls.Load())
	require.Equal(t, 3, gates.count()) // two application gates and one group gate
}

func TestNewClient(t *testing.T) {
	t.Run("invalid app limits", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.AppLimits = []string{"20:1"}
		_, err := NewClient(cfg)
		require.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("redis backend without redis", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Gate.Backend = limiter.BackendRedis
		_, err := NewClient(cfg)
		require.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("endpoint limit overrides", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.EndpointLimits = map[string]string{"summoner.*": "100:10"}
		c, err := NewClient(cfg)
		require.NoError(t, err)
		defer func() { require.NoError(t, c.Close()) }()

		e, ok := c.Catalog().Lookup("summoner.byPuuid")
		require.True(t, ok)
		require.Equal(t, "100:10", e.Limit)
		e, ok = c.Catalog().Lookup("match.byId")
		require.True(t, ok)
		require.NotEqual(t, "100:10", e.Limit)
	})

	t.Run("application gates", func(t *testing.T) {
		for _, spread := range []bool{false, true} {
			gates := newCountingGateFactory()
			cfg := NewDefaultConfig()
			cfg.Namespace = "prod"
			cfg.SpreadToSlowest = spread
			c, err := NewClient(cfg, WithGateFactory(gates), WithFetcher(fetcherFunc(
				func(context.Context, string, url.Values) (*httpclient.Response, error) {
					return newResponse(http.StatusOK, `{}`, nil), nil
				})))
			require.NoError(t, err)
			_, err = c.Get(context.Background(), "br1", "summoner.byId", "1")
			require.NoError(t, err)
			require.NoError(t, c.Close())

			fast, ok := gates.gate("prodbr1app_0")
			require.True(t, ok)
			require.Equal(t, limiter.Limit{Max: 20, Interval: time.Second}, fast.limit)
			require.Equal(t, 60*time.Millisecond, fast.minSpacing)

			slow, ok := gates.gate("prodbr1app_1")
			require.True(t, ok)
			require.Equal(t, limiter.Limit{Max: 100, Interval: 120 * time.Second}, slow.limit)
			if spread {
				require.Equal(t, 1440*time.Millisecond, slow.minSpacing)
			} else {
				require.Zero(t, slow.minSpacing)
			}
		}
	})
}

func TestClient_HTTPTransport(t *testing.T) {
	var gotToken, gotRegion string
	router := chi.NewRouter()
	router.Get("/{region}/lol/summoner/v4/summoners/by-puuid/{puuid}", func(rw http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Riot-Token")
		gotRegion = chi.URLParam(r, "region")
		rw.Header().Set("Content-Type", "application/json")
		rw.Header().Set(httpclient.MethodRateLimitHeader, "1600:60")
		_, _ = fmt.Fprintf(rw, `{"puuid":%q,"lang":%q}`, chi.URLParam(r, "puuid"), r.URL.Query().Get("lang"))
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	cfg := NewDefaultConfig()
	cfg.APIKey = "RGAPI-test"
	cfg.Prefix = srv.URL + "/%s"
	c, err := NewClient(cfg)
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	body, err := c.Get(context.Background(), "eun1", "summoner.byPuuid", "abc", map[string]interface{}{"lang": "en"})
	require.NoError(t, err)
	require.JSONEq(t, `{"puuid":"abc","lang":"en"}`, string(body))
	require.Equal(t, "RGAPI-test", gotToken)
	require.Equal(t, "eun1", gotRegion)

	body, err = c.Get(context.Background(), "eun1", "summoner.byId", "abc")
	require.NoError(t, err)
	require.Nil(t, body)
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []interface{}
		want    Request
		wantErr bool
	}{
		{
			name: "path arguments of different types",
			args: []interface{}{"abc", 42, int64(7)},
			want: Request{Args: []string{"abc", "42", "7"}},
		},
		{
			name: "priority and query in any position",
			args: []interface{}{PriorityHigh, "abc", map[string]string{"count": "5"}},
			want: Request{Args: []string{"abc"}, Query: url.Values{"count": {"5"}}, Priority: PriorityHigh},
		},
		{
			name: "multi-valued query",
			args: []interface{}{"abc", map[string]interface{}{"queue": []interface{}{420, 440}, "start": 0}},
			want: Request{Args: []string{"abc"}, Query: url.Values{"queue": {"420", "440"}, "start": {"0"}}},
		},
		{
			name: "several queries are merged",
			args: []interface{}{url.Values{"a": {"1"}}, map[string][]string{"a": {"2"}, "b": {"3"}}},
			want: Request{Query: url.Values{"a": {"1", "2"}, "b": {"3"}}},
		},
		{
			name:    "unsupported argument",
			args:    []interface{}{[]int{1, 2}},
			wantErr: true,
		},
		{
			name:    "unsupported query value",
			args:    []interface{}{map[string]interface{}{"a": struct{}{}}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := parseArgs("na1", "match.byId", tt.args)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrConfiguration)
				return
			}
			require.NoError(t, err)
			tt.want.Region = "na1"
			tt.want.Endpoint = "match.byId"
			require.Equal(t, tt.want, req)
		})
	}
}
