package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/garrettladley/whoopy/internal/client/whoop"
	"github.com/garrettladley/whoopy/internal/config"
	"github.com/garrettladley/whoopy/internal/oauth"
	redisclient "github.com/garrettladley/whoopy/internal/redis"
	"github.com/garrettladley/whoopy/internal/storage"
	"github.com/garrettladley/whoopy/internal/theme"
	"github.com/garrettladley/whoopy/internal/xslog"
)

const (
	flagJSON       = "json"
	flagLogLevel   = "log-level"
	flagTokenStore = "token-store"
	flagRetries    = "retries"

	defaultRetries = 3
)

var errNoCredentials = errors.New("WHOOP_CLIENT_ID and WHOOP_CLIENT_SECRET must be set")

// app is what every command needs: configuration, a logger and the token
// store. It is built per invocation and closed when the command returns.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	theme   theme.Theme
	out     io.Writer
	json    bool
	retries uint64
	store   storage.Store
	limiter *storage.RedisLimiter
}

// run builds the app for cmd, hands it to fn and closes it afterwards.
func run(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn("failed to close", xslog.Error(err))
		}
	}()

	ctx := xslog.WithAttrs(xslog.WithLogger(cmd.Context(), a.logger),
		xslog.Command(cmd.CommandPath()),
		xslog.Store(a.storeScheme()),
	)
	return fn(ctx, a)
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	flags := cmd.Flags()
	if dsn, _ := flags.GetString(flagTokenStore); dsn != "" {
		cfg.TokenStore = dsn
	}
	if s, _ := flags.GetString(flagLogLevel); s != "" {
		level, err := xslog.Parse(s)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
	}
	asJSON, _ := flags.GetBool(flagJSON)
	retries, _ := flags.GetUint64(flagRetries)

	logger := xslog.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	store, err := storage.Open(cmd.Context(), cfg.TokenStore)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:     cfg,
		logger:  logger,
		theme:   theme.New(),
		out:     cmd.OutOrStdout(),
		json:    asJSON,
		retries: retries,
		store:   store,
	}
	logger.Debug("opened token store", xslog.Store(a.storeScheme()))
	return a, nil
}

// storeScheme names the token store backend without its credentials.
func (a *app) storeScheme() string {
	scheme, _, _ := strings.Cut(a.cfg.TokenStore, "://")
	return scheme
}

func (a *app) Close() error {
	var errs []error
	if a.limiter != nil {
		errs = append(errs, a.limiter.Close())
	}
	errs = append(errs, a.store.Close())
	return errors.Join(errs...)
}

func (a *app) flow() (*oauth.Flow, error) {
	if !a.cfg.Whoop.HasCredentials() {
		return nil, errNoCredentials
	}
	return oauth.NewFlow(oauth.NewConfig(a.cfg.Whoop), oauth.WithLogger(a.logger)), nil
}

func (a *app) clientOptions(ctx context.Context) ([]whoop.Option, error) {
	w := a.cfg.Whoop
	opts := []whoop.Option{
		whoop.WithBaseURL(w.BaseURL),
		whoop.WithLogger(xslog.FromContext(ctx)),
		whoop.WithTimeout(w.Timeout),
		whoop.WithRefreshMargin(w.RefreshMargin),
		whoop.WithRateLimit(w.RateLimit),
	}

	if w.RateLimitURL != "" && w.RateLimit > 0 {
		client, err := redisclient.New(ctx, redisclient.Config{URL: w.RateLimitURL})
		if err != nil {
			return nil, fmt.Errorf("failed to connect rate limiter: %w", err)
		}
		a.limiter = storage.NewRedisLimiter(client, w.ClientID, w.RateLimit)
		opts = append(opts, whoop.WithLimiter(a.limiter))
	}
	return opts, nil
}

// client builds an API client on the stored token.
func (a *app) client(ctx context.Context) (*whoop.Client, error) {
	flow, err := a.flow()
	if err != nil {
		return nil, err
	}
	opts, err := a.clientOptions(ctx)
	if err != nil {
		return nil, err
	}
	client, err := whoop.FromStore(ctx, flow, a.store, opts...)
	if errors.Is(err, oauth.ErrNoToken) {
		return nil, fmt.Errorf("not logged in, run `whoopy auth login`: %w", err)
	}
	return client, err
}
