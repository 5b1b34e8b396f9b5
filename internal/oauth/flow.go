package oauth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/garrettladley/whoopy/internal/xerrors"
	"github.com/garrettladley/whoopy/internal/xhttp"
	"github.com/garrettladley/whoopy/internal/xslog"
	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

// Flow runs the authorization-code grant against the token endpoint. The
// consent step happens in the user's browser and is never driven from here:
// AuthorizationURL prepares the link and ExchangeCode accepts the result.
type Flow struct {
	config     *oauth2.Config
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Refresher = (*Flow)(nil)

type FlowOption func(*Flow)

func WithHTTPClient(c *http.Client) FlowOption {
	return func(f *Flow) { f.httpClient = c }
}

func WithLogger(logger *slog.Logger) FlowOption {
	return func(f *Flow) { f.logger = logger }
}

func NewFlow(cfg Config, opts ...FlowOption) *Flow {
	f := &Flow{
		config:     cfg.oauth2(),
		httpClient: xhttp.NewHTTPClient(xhttp.WithTimeout(defaultTimeout)),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) RedirectURL() string { return f.config.RedirectURL }

// AuthorizationURL builds the consent URL. An empty state is replaced by a
// fresh random one; the state actually used is returned so the caller can
// check it on the redirect.
func (f *Flow) AuthorizationURL(state string) (string, string, error) {
	if state == "" {
		generated, err := GenerateState()
		if err != nil {
			return "", "", err
		}
		state = generated
	} else if len(state) < MinStateLength {
		return "", "", ErrStateTooShort
	}
	return f.config.AuthCodeURL(state), state, nil
}

// ExchangeCode trades a single-use authorization code for a Token.
func (f *Flow) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	if code == "" {
		return nil, &AuthorizationError{
			Code:        ErrorCodeInvalidRequest,
			Description: "authorization code is empty",
		}
	}

	ctx, capture := f.withClient(ctx)
	tok, err := f.config.Exchange(ctx, code)
	if err != nil {
		if te := f.transportFailure(ctx, capture); te != nil {
			return nil, te
		}
		authErr := &AuthorizationError{Err: err}
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			authErr.StatusCode = statusOf(rErr)
			authErr.Code = ErrorCode(rErr.ErrorCode)
			authErr.Description = rErr.ErrorDescription
			authErr.Body = rErr.Body
		}
		f.logger.WarnContext(ctx, "authorization code exchange failed", xslog.HTTPStatus(authErr.StatusCode))
		return nil, authErr
	}

	token := fromOAuth2(tok, f.config.Scopes)
	if missing := missingScopes(f.config.Scopes, token.Scopes); len(missing) > 0 {
		return nil, &AuthorizationError{
			Code:        ErrorCodeScopeNotGranted,
			Description: strings.Join(missing, " "),
		}
	}

	f.logger.InfoContext(ctx, "exchanged authorization code", xslog.Expiry(token.ExpiresAt))
	return token, nil
}

// Refresh obtains a new access token with the stored refresh token. The
// previous refresh token is kept when the provider does not rotate it.
func (f *Flow) Refresh(ctx context.Context, token *Token) (*Token, error) {
	if !token.Renewable() {
		return nil, &RefreshError{Err: ErrNoRefreshToken}
	}

	ctx, capture := f.withClient(ctx)
	src := f.config.TokenSource(ctx, &oauth2.Token{RefreshToken: token.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		if te := f.transportFailure(ctx, capture); te != nil {
			return nil, te
		}
		refreshErr := &RefreshError{Err: err}
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			refreshErr.StatusCode = statusOf(rErr)
			refreshErr.Code = ErrorCode(rErr.ErrorCode)
			refreshErr.Description = rErr.ErrorDescription
			refreshErr.Body = rErr.Body
		}
		return nil, refreshErr
	}

	next := fromOAuth2(tok, token.Scopes)
	if next.RefreshToken == "" {
		next.RefreshToken = token.RefreshToken
	}
	if missing := missingScopes(token.Scopes, next.Scopes); len(missing) > 0 {
		return nil, &RefreshError{
			Code:        ErrorCodeScopeNotGranted,
			Description: strings.Join(missing, " "),
		}
	}

	return next, nil
}

// captureTransport remembers the error of a failed round trip. The oauth2
// package flattens transport errors into strings, so this is how a network
// failure is told apart from a provider rejection.
type captureTransport struct {
	base http.RoundTripper

	mu  sync.Mutex
	err error
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
	}
	return resp, err
}

func (t *captureTransport) failure() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (f *Flow) withClient(ctx context.Context) (context.Context, *captureTransport) {
	base := f.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	capture := &captureTransport{base: base}
	client := &http.Client{
		Transport: capture,
		Timeout:   f.httpClient.Timeout,
	}
	return context.WithValue(ctx, oauth2.HTTPClient, client), capture
}

func (f *Flow) transportFailure(ctx context.Context, capture *captureTransport) *xerrors.TransportError {
	if err := capture.failure(); err != nil {
		return xerrors.Transport(http.MethodPost, f.config.Endpoint.TokenURL, err)
	}
	if err := ctx.Err(); err != nil {
		return xerrors.Transport(http.MethodPost, f.config.Endpoint.TokenURL, err)
	}
	return nil
}

func statusOf(err *oauth2.RetrieveError) int {
	if err.Response == nil {
		return 0
	}
	return err.Response.StatusCode
}
