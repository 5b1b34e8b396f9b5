package whoop

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/whoopy/internal/oauth"
)

var discardLogger = slog.New(slog.DiscardHandler)

// countingRefresher issues access-1, access-2, ... and counts refreshes.
type countingRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *countingRefresher) Refresh(_ context.Context, token *oauth.Token) (*oauth.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &oauth.Token{
		AccessToken:  fmt.Sprintf("access-%d", r.calls),
		RefreshToken: token.RefreshToken,
		TokenType:    oauth.TokenTypeBearer,
		ExpiresAt:    time.Now().Add(time.Hour),
		Scopes:       token.Scopes,
	}, nil
}

func (r *countingRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func freshToken() *oauth.Token {
	return &oauth.Token{
		AccessToken:  "access-0",
		RefreshToken: "refresh",
		TokenType:    oauth.TokenTypeBearer,
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

// recorder is a synthetic provider that logs every request it serves.
type recorder struct {
	mu       sync.Mutex
	requests []*http.Request
}

func (rec *recorder) add(r *http.Request) int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.requests = append(rec.requests, r.Clone(context.Background()))
	return len(rec.requests)
}

func (rec *recorder) all() []*http.Request {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]*http.Request, len(rec.requests))
	copy(out, rec.requests)
	return out
}

func newTestClient(t *testing.T, handler func(n int, w http.ResponseWriter, r *http.Request), opts ...Option) (*Client, *recorder, *countingRefresher) {
	t.Helper()
	return newTestClientWithToken(t, freshToken(), handler, opts...)
}

func newTestClientWithToken(t *testing.T, token *oauth.Token, handler func(n int, w http.ResponseWriter, r *http.Request), opts ...Option) (*Client, *recorder, *countingRefresher) {
	t.Helper()

	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := rec.add(r)
		handler(n, w, r)
	}))
	t.Cleanup(srv.Close)

	refresher := &countingRefresher{}
	src := oauth.NewSource(refresher, token, oauth.WithSourceLogger(discardLogger))

	base := []Option{
		WithBaseURL(srv.URL),
		WithLogger(discardLogger),
		WithRateLimit(0),
	}
	return New(src, append(base, opts...)...), rec, refresher
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := go_json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}

func cycleJSON(id int) map[string]any {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * 24 * time.Hour)
	return map[string]any{
		"id":              id,
		"user_id":         42,
		"created_at":      start.Format(time.RFC3339),
		"updated_at":      start.Format(time.RFC3339),
		"start":           start.Format(time.RFC3339),
		"end":             start.Add(24 * time.Hour).Format(time.RFC3339),
		"timezone_offset": "-05:00",
		"score_state":     "SCORED",
		"score": map[string]any{
			"strain":             10.5,
			"kilojoule":          8000.0,
			"average_heart_rate": 65,
			"max_heart_rate":     170,
		},
	}
}

// pagedCycles serves total cycles in pages of pageSize. Page n is requested
// with nextToken "page-n".
func pagedCycles(t *testing.T, total, pageSize int) func(w http.ResponseWriter, r *http.Request) {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if tok := r.URL.Query().Get(paramNextToken); tok != "" {
			n, err := strconv.Atoi(tok[len("page-"):])
			if err != nil {
				http.Error(w, "bad token", http.StatusBadRequest)
				return
			}
			page = n
		}

		first := (page-1)*pageSize + 1
		last := min(first+pageSize-1, total)
		records := make([]map[string]any, 0, pageSize)
		for id := first; id <= last; id++ {
			records = append(records, cycleJSON(id))
		}

		body := map[string]any{"records": records}
		if last < total {
			body["next_token"] = fmt.Sprintf("page-%d", page+1)
		}
		writeJSON(t, w, http.StatusOK, body)
	}
}

// limiterFunc adapts a function to Limiter.
type limiterFunc func(ctx context.Context) error

func (f limiterFunc) Wait(ctx context.Context) error { return f(ctx) }

func query(r *http.Request) url.Values { return r.URL.Query() }
