package oauth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/garrettladley/whoopy/internal/xslog"
	"golang.org/x/oauth2"
)

const DefaultRefreshMargin = 30 * time.Second

type Refresher interface {
	Refresh(ctx context.Context, token *Token) (*Token, error)
}

type Store interface {
	Load(ctx context.Context) (*Token, error)
	Save(ctx context.Context, token *Token) error
}

var _ oauth2.TokenSource = (*Source)(nil)

// Source owns the one Token of a client. The staleness check and the
// refresh run under one lock, so concurrent callers trigger at most one
// refresh per expiry.
type Source struct {
	refresher Refresher
	store     Store
	margin    time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu    sync.Mutex
	token *Token
}

type SourceOption func(*Source)

// WithStore persists every refreshed token.
func WithStore(store Store) SourceOption {
	return func(s *Source) { s.store = store }
}

func WithRefreshMargin(d time.Duration) SourceOption {
	return func(s *Source) { s.margin = d }
}

func WithClock(now func() time.Time) SourceOption {
	return func(s *Source) { s.now = now }
}

func WithSourceLogger(logger *slog.Logger) SourceOption {
	return func(s *Source) { s.logger = logger }
}

func NewSource(refresher Refresher, token *Token, opts ...SourceOption) *Source {
	s := &Source{
		refresher: refresher,
		margin:    DefaultRefreshMargin,
		now:       time.Now,
		logger:    slog.Default(),
		token:     token.Clone(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadSource builds a Source from the token persisted in store. Refreshed
// tokens are written back to the same store.
func LoadSource(ctx context.Context, refresher Refresher, store Store, opts ...SourceOption) (*Source, error) {
	token, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewSource(refresher, token, append([]SourceOption{WithStore(store)}, opts...)...), nil
}

// Current returns a copy of a token that is usable now, refreshing first
// when it is within the safety margin of expiry. One refresh is attempted;
// refreshed reports whether this call performed it.
func (s *Source) Current(ctx context.Context) (token *Token, refreshed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		return nil, false, ErrNoToken
	}
	if !s.token.StaleAt(s.now(), s.margin) {
		return s.token.Clone(), false, nil
	}
	if err := s.refreshLocked(ctx); err != nil {
		return nil, false, err
	}
	return s.token.Clone(), true, nil
}

// Reject reports that the provider refused accessToken. The token is
// refreshed unless another caller already replaced it.
func (s *Source) Reject(ctx context.Context, accessToken string) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		return nil, ErrNoToken
	}
	if s.token.AccessToken != accessToken {
		return s.token.Clone(), nil
	}
	if err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}
	return s.token.Clone(), nil
}

// Snapshot returns the held token without checking expiry.
func (s *Source) Snapshot() *Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token.Clone()
}

// Token implements oauth2.TokenSource.
func (s *Source) Token() (*oauth2.Token, error) {
	token, _, err := s.Current(context.Background())
	if err != nil {
		return nil, err
	}
	return token.OAuth2(), nil
}

func (s *Source) refreshLocked(ctx context.Context) error {
	next, err := s.refresher.Refresh(ctx, s.token)
	if err != nil {
		s.logger.WarnContext(ctx, "token refresh failed", xslog.Error(err))
		return err
	}

	s.token = next
	s.logger.InfoContext(ctx, "refreshed token", xslog.Expiry(next.ExpiresAt))

	if s.store != nil {
		if err := s.store.Save(ctx, next.Clone()); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist refreshed token", xslog.Error(err))
		}
	}
	return nil
}
