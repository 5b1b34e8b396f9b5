package whoop

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	go_json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/garrettladley/whoopy/internal/oauth"
	"github.com/garrettladley/whoopy/internal/xhttp"
)

const (
	DefaultBaseURL   = "https://api.prod.whoop.com/developer"
	DefaultRateLimit = 100 // requests per minute
	defaultTimeout   = 30 * time.Second
)

// Client is the entry point to the API: one Requester shared by one
// endpoint per resource kind.
type Client struct {
	User     UserService
	Cycle    CycleService
	Recovery RecoveryService
	Sleep    SleepService
	Workout  WorkoutService

	requester *Requester
	logger    *slog.Logger
}

// New builds a Client on an existing token provider.
func New(tokens TokenProvider, opts ...Option) *Client {
	return newClient(tokens, newConfig(opts))
}

// FromToken builds a Client that refreshes token through flow when it goes
// stale.
func FromToken(flow *oauth.Flow, token *oauth.Token, opts ...Option) *Client {
	cfg := newConfig(opts)
	return newClient(oauth.NewSource(flow, token, cfg.sourceOptions()...), cfg)
}

// Authorize exchanges an authorization code for a token and builds a Client
// on it. With WithStore the token is persisted before returning.
func Authorize(ctx context.Context, flow *oauth.Flow, code string, opts ...Option) (*Client, error) {
	cfg := newConfig(opts)

	token, err := flow.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if cfg.store != nil {
		if err := cfg.store.Save(ctx, token); err != nil {
			return nil, err
		}
	}
	return newClient(oauth.NewSource(flow, token, cfg.sourceOptions()...), cfg), nil
}

// FromStore builds a Client on the token persisted in store. Refreshed
// tokens are written back to it.
func FromStore(ctx context.Context, flow *oauth.Flow, store oauth.Store, opts ...Option) (*Client, error) {
	cfg := newConfig(append(opts, WithStore(store)))

	src, err := oauth.LoadSource(ctx, flow, store, cfg.sourceOptions()...)
	if err != nil {
		return nil, err
	}
	return newClient(src, cfg), nil
}

func newClient(tokens TokenProvider, cfg *clientConfig) *Client {
	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = xhttp.NewHTTPClient(
			xhttp.WithTransport(&whoopTransport{base: http.DefaultTransport, logger: cfg.logger}),
			xhttp.WithTimeout(cfg.timeout),
		)
	}

	c := &Client{
		requester: &Requester{
			baseURL:    cfg.baseURL,
			httpClient: httpClient,
			tokens:     tokens,
			limiter:    cfg.limiter(),
			logger:     cfg.logger,
		},
		logger: cfg.logger,
	}

	c.User = &userService{client: c}
	c.Cycle = &cycleService{Endpoint: newEndpoint[Cycle](c, KindCycle, cycleRoute, cycleRoute+"/"+idPlaceholder)}
	c.Recovery = &recoveryService{Endpoint: newEndpoint[Recovery](c, KindRecovery, recoveryRoute, cycleRoute+"/"+idPlaceholder+"/recovery")}
	c.Sleep = &sleepService{Endpoint: newEndpoint[Sleep](c, KindSleep, sleepRoute, sleepRoute+"/"+idPlaceholder)}
	c.Workout = &workoutService{Endpoint: newEndpoint[Workout](c, KindWorkout, workoutRoute, workoutRoute+"/"+idPlaceholder)}

	return c
}

// Requester exposes the authenticated transport for calls this package
// does not wrap.
func (c *Client) Requester() *Requester { return c.requester }

type clientConfig struct {
	baseURL       string
	logger        *slog.Logger
	timeout       time.Duration
	httpClient    *http.Client
	rateLimit     int
	customLimiter Limiter
	refreshMargin time.Duration
	store         oauth.Store
}

func newConfig(opts []Option) *clientConfig {
	cfg := &clientConfig{
		baseURL:       DefaultBaseURL,
		logger:        slog.Default(),
		timeout:       defaultTimeout,
		rateLimit:     DefaultRateLimit,
		refreshMargin: oauth.DefaultRefreshMargin,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (cfg *clientConfig) limiter() Limiter {
	if cfg.customLimiter != nil {
		return cfg.customLimiter
	}
	if cfg.rateLimit <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(cfg.rateLimit)/60), cfg.rateLimit)
}

func (cfg *clientConfig) sourceOptions() []oauth.SourceOption {
	opts := []oauth.SourceOption{
		oauth.WithRefreshMargin(cfg.refreshMargin),
		oauth.WithSourceLogger(cfg.logger),
	}
	if cfg.store != nil {
		opts = append(opts, oauth.WithStore(cfg.store))
	}
	return opts
}

type Option func(*clientConfig)

func WithBaseURL(baseURL string) Option {
	return func(cfg *clientConfig) { cfg.baseURL = baseURL }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = logger }
}

func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

// WithHTTPClient replaces the default client. Its timeout is used as is.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) { cfg.httpClient = c }
}

// WithRateLimit caps requests per minute; 0 disables pacing.
func WithRateLimit(perMinute int) Option {
	return func(cfg *clientConfig) { cfg.rateLimit = perMinute }
}

// WithLimiter paces requests with l instead of a local token bucket.
func WithLimiter(l Limiter) Option {
	return func(cfg *clientConfig) { cfg.customLimiter = l }
}

// WithRefreshMargin sets how long before expiry a token counts as stale.
// It applies to clients built by FromToken, Authorize and FromStore.
func WithRefreshMargin(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.refreshMargin = d }
}

// WithStore persists refreshed tokens. It applies to clients built by
// FromToken and Authorize.
func WithStore(store oauth.Store) Option {
	return func(cfg *clientConfig) { cfg.store = store }
}

func (c *Client) do(ctx context.Context, method string, kind Kind, path string, query url.Values, result any) error {
	resp, err := c.requester.Do(ctx, method, path, query, nil)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return parseAPIError(method, c.requester.url(path, query), resp)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := go_json.Unmarshal(resp.Body, result); err != nil {
			return &DecodeError{Kind: kind, Path: path, Body: resp.Body, Err: err}
		}
	}

	return nil
}
