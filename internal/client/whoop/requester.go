package whoop

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/garrettladley/whoopy/internal/oauth"
	"github.com/garrettladley/whoopy/internal/xerrors"
	"github.com/garrettladley/whoopy/internal/xhttp"
	"github.com/garrettladley/whoopy/internal/xslog"
)

// TokenProvider hands out access tokens. *oauth.Source implements it.
type TokenProvider interface {
	// Current returns a token usable now, refreshing it first if stale, and
	// reports whether it refreshed.
	Current(ctx context.Context) (*oauth.Token, bool, error)
	// Reject reports that the provider refused accessToken and returns its
	// replacement.
	Reject(ctx context.Context, accessToken string) (*oauth.Token, error)
}

var _ TokenProvider = (*oauth.Source)(nil)

// Limiter paces outgoing requests. *rate.Limiter implements it.
type Limiter interface {
	Wait(ctx context.Context) error
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Requester sends authenticated requests. A call refreshes at most once: a
// 401 is answered with one refresh and one resend unless the token was
// already refreshed for this call, and a second 401 is an AuthenticationError.
type Requester struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
	limiter    Limiter
	logger     *slog.Logger
}

func (r *Requester) Do(ctx context.Context, method string, path string, query url.Values, body []byte) (*Response, error) {
	token, refreshed, err := r.tokens.Current(ctx)
	if err != nil {
		return nil, &AuthenticationError{Err: err}
	}

	resp, err := r.send(ctx, method, path, query, body, token.AccessToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	if refreshed {
		return nil, &AuthenticationError{StatusCode: http.StatusUnauthorized, Err: ErrUnauthorized}
	}

	r.logger.WarnContext(ctx, "access token rejected, refreshing",
		xslog.Method(method),
		xslog.Path(path),
	)

	token, err = r.tokens.Reject(ctx, token.AccessToken)
	if err != nil {
		return nil, &AuthenticationError{StatusCode: http.StatusUnauthorized, Err: err}
	}

	resp, err = r.send(ctx, method, path, query, body, token.AccessToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &AuthenticationError{StatusCode: http.StatusUnauthorized, Err: ErrUnauthorized}
	}
	return resp, nil
}

func (r *Requester) url(path string, query url.Values) string {
	u := r.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (r *Requester) send(ctx context.Context, method string, path string, query url.Values, body []byte, accessToken string) (*Response, error) {
	u := r.url(path, query)

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, xerrors.Transport(method, u, err)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, xerrors.Transport(method, u, err)
	}
	xhttp.SetRequestHeaderBearer(req, accessToken)
	if body != nil {
		xhttp.SetRequestHeaderContentTypeJSON(req)
	}

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.DebugContext(ctx, "request failed",
			xslog.RequestGroup(req),
			xslog.Duration(time.Since(start)),
			xslog.Error(err),
		)
		return nil, xerrors.Transport(method, u, err)
	}
	defer xhttp.DrainAndClose(resp)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xerrors.Transport(method, u, err)
	}

	r.logger.DebugContext(ctx, "request completed",
		xslog.RequestGroup(req),
		xslog.ResponseGroup(resp.StatusCode, time.Since(start)),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// whoopTransport marks every request as expecting JSON and logs the
// provider's rate limit headers.
type whoopTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

var _ http.RoundTripper = (*whoopTransport)(nil)

func (t *whoopTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	xhttp.SetRequestHeaderAcceptJSON(req)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if info, err := ParseRateLimitHeaders(resp.Header); err == nil && info != nil {
		t.logger.DebugContext(req.Context(), "rate limit",
			xslog.Path(req.URL.Path),
			xslog.RateLimitGroup(info.Limit, info.Remaining, info.Reset),
		)
	}
	return resp, nil
}
