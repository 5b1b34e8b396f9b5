package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	go_json "github.com/goccy/go-json"
)

// tokenServer is a synthetic provider token endpoint.
type tokenServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []url.Values
	status   int
	body     map[string]any
}

func newTokenServer(t *testing.T, status int, body map[string]any) *tokenServer {
	t.Helper()

	ts := &tokenServer{status: status, body: body}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ts.mu.Lock()
		ts.requests = append(ts.requests, r.PostForm)
		status, body := ts.status, ts.body
		ts.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = go_json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *tokenServer) set(status int, body map[string]any) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.status, ts.body = status, body
}

func (ts *tokenServer) calls() []url.Values {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]url.Values, len(ts.requests))
	copy(out, ts.requests)
	return out
}

func testConfig(tokenURL string) Config {
	return Config{
		ClientID:     "client-123",
		ClientSecret: "secret-456",
		RedirectURL:  "http://127.0.0.1:8910/callback",
		Scopes:       []string{ScopeOffline, ScopeReadCycles},
		AuthURL:      "https://auth.example.com/oauth/oauth2/auth",
		TokenURL:     tokenURL,
	}
}

func grantedBody(access, refresh string) map[string]any {
	body := map[string]any{
		"access_token": access,
		"expires_in":   3600,
		"token_type":   "bearer",
		"scope":        "offline read:cycles",
	}
	if refresh != "" {
		body["refresh_token"] = refresh
	}
	return body
}

// fakeRefresher counts refreshes and hands out sequential tokens.
type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	next  func(n int, token *Token) (*Token, error)
}

func (f *fakeRefresher) Refresh(_ context.Context, token *Token) (*Token, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	return f.next(n, token)
}

func (f *fakeRefresher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type memStore struct {
	mu    sync.Mutex
	saved []*Token
}

func (m *memStore) Load(context.Context) (*Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return nil, ErrNoToken
	}
	return m.saved[len(m.saved)-1].Clone(), nil
}

func (m *memStore) Save(_ context.Context, token *Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, token.Clone())
	return nil
}
