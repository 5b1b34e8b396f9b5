package whoop

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/garrettladley/whoopy/internal/oauth"
	"github.com/garrettladley/whoopy/internal/xerrors"
)

func TestRequesterRefreshOnUnauthorized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		expiresIn     time.Duration
		status        func(n int) int
		wantErr       bool
		wantHits      int
		wantRefreshes int
		wantTokens    []string
	}{
		{
			name:          "accepted",
			status:        func(int) int { return http.StatusOK },
			wantHits:      1,
			wantRefreshes: 0,
			wantTokens:    []string{"Bearer access-0"},
		},
		{
			name: "rejected once",
			status: func(n int) int {
				if n == 1 {
					return http.StatusUnauthorized
				}
				return http.StatusOK
			},
			wantHits:      2,
			wantRefreshes: 1,
			wantTokens:    []string{"Bearer access-0", "Bearer access-1"},
		},
		{
			name:          "always rejected",
			status:        func(int) int { return http.StatusUnauthorized },
			wantErr:       true,
			wantHits:      2,
			wantRefreshes: 1,
			wantTokens:    []string{"Bearer access-0", "Bearer access-1"},
		},
		{
			name:          "stale then always rejected",
			expiresIn:     time.Second,
			status:        func(int) int { return http.StatusUnauthorized },
			wantErr:       true,
			wantHits:      1,
			wantRefreshes: 1,
			wantTokens:    []string{"Bearer access-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			token := freshToken()
			if tt.expiresIn != 0 {
				token.ExpiresAt = time.Now().Add(tt.expiresIn)
			}

			client, rec, refresher := newTestClientWithToken(t, token, func(n int, w http.ResponseWriter, _ *http.Request) {
				status := tt.status(n)
				if status != http.StatusOK {
					writeJSON(t, w, status, map[string]string{"message": "unauthorized"})
					return
				}
				writeJSON(t, w, status, cycleJSON(1))
			})

			_, err := client.Cycle.Get(t.Context(), 1)
			if tt.wantErr {
				var authErr *AuthenticationError
				if !errors.As(err, &authErr) || authErr.StatusCode != http.StatusUnauthorized || !errors.Is(err, ErrUnauthorized) {
					t.Fatalf("Get() error = %v, want AuthenticationError", err)
				}
			} else if err != nil {
				t.Fatalf("Get() error = %v", err)
			}

			requests := rec.all()
			if len(requests) != tt.wantHits {
				t.Errorf("server saw %d requests, want %d", len(requests), tt.wantHits)
			}
			if n := refresher.count(); n != tt.wantRefreshes {
				t.Errorf("refreshes = %d, want %d", n, tt.wantRefreshes)
			}
			for i, want := range tt.wantTokens {
				if i >= len(requests) {
					break
				}
				if got := requests[i].Header.Get("Authorization"); got != want {
					t.Errorf("request %d Authorization = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestRequesterStaleToken(t *testing.T) {
	t.Parallel()

	stale := freshToken()
	stale.ExpiresAt = time.Now().Add(10 * time.Second)

	client, rec, refresher := newTestClientWithToken(t, stale, func(_ int, w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, cycleJSON(1))
	})

	if _, err := client.Cycle.Get(t.Context(), 1); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if n := refresher.count(); n != 1 {
		t.Errorf("refreshes = %d, want 1", n)
	}
	if got := rec.all()[0].Header.Get("Authorization"); got != "Bearer access-1" {
		t.Errorf("Authorization = %q, want the refreshed token", got)
	}
}

func TestRequesterRefreshFailure(t *testing.T) {
	t.Parallel()

	t.Run("stale token", func(t *testing.T) {
		t.Parallel()

		stale := freshToken()
		stale.ExpiresAt = time.Now().Add(-time.Minute)

		client, rec, refresher := newTestClientWithToken(t, stale, func(_ int, w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, cycleJSON(1))
		})
		refresher.err = &oauth.RefreshError{StatusCode: http.StatusBadRequest, Code: "invalid_grant"}

		_, err := client.Cycle.Get(t.Context(), 1)
		var authErr *AuthenticationError
		if !errors.As(err, &authErr) || authErr.StatusCode != 0 {
			t.Fatalf("Get() error = %v, want AuthenticationError without status", err)
		}
		var refreshErr *oauth.RefreshError
		if !errors.As(err, &refreshErr) {
			t.Errorf("Get() error = %v, want wrapped RefreshError", err)
		}
		if n := len(rec.all()); n != 0 {
			t.Errorf("server saw %d requests, want 0", n)
		}
	})

	t.Run("after rejection", func(t *testing.T) {
		t.Parallel()

		client, rec, refresher := newTestClient(t, func(_ int, w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		refresher.err = errors.New("refresh endpoint down")

		_, err := client.Cycle.Get(t.Context(), 1)
		var authErr *AuthenticationError
		if !errors.As(err, &authErr) || authErr.StatusCode != http.StatusUnauthorized {
			t.Fatalf("Get() error = %v, want AuthenticationError 401", err)
		}
		if errors.Is(err, ErrUnauthorized) {
			t.Error("refresh failure reported as a second rejection")
		}
		if n := len(rec.all()); n != 1 {
			t.Errorf("server saw %d requests, want 1", n)
		}
	})
}

func TestRequesterNoToken(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hits.Add(1) }))
	t.Cleanup(srv.Close)

	client := New(oauth.NewSource(&countingRefresher{}, nil), WithBaseURL(srv.URL), WithLogger(discardLogger))
	_, err := client.User.GetProfile(t.Context())
	if !errors.Is(err, oauth.ErrNoToken) {
		t.Fatalf("GetProfile() error = %v, want ErrNoToken", err)
	}
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Errorf("GetProfile() error = %v, want AuthenticationError", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server saw %d requests, want 0", hits.Load())
	}
}

func TestRequesterTransportErrors(t *testing.T) {
	t.Parallel()

	t.Run("connection refused", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		baseURL := srv.URL
		srv.Close()

		client := New(oauth.NewSource(&countingRefresher{}, freshToken()),
			WithBaseURL(baseURL), WithLogger(discardLogger), WithRateLimit(0))
		_, err := client.Cycle.Get(t.Context(), 1)

		transportErr := xerrors.AsTransport(err)
		if transportErr == nil {
			t.Fatalf("Get() error = %v, want TransportError", err)
		}
		if transportErr.Method != http.MethodGet || !strings.HasSuffix(transportErr.URL, "/v2/cycle/1") {
			t.Errorf("TransportError = %+v", transportErr)
		}
		if !Retryable(err) {
			t.Error("Retryable() = false for a transport error")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		client, _, _ := newTestClient(t, func(_ int, w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}, WithTimeout(50*time.Millisecond))
		defer close(release)

		_, err := client.Cycle.Get(t.Context(), 1)
		if !xerrors.IsTimeout(err) {
			t.Fatalf("Get() error = %v, want timeout", err)
		}
		if !Retryable(err) {
			t.Error("Retryable() = false for a timeout")
		}
	})
}

func TestRequesterRateLimited(t *testing.T) {
	t.Parallel()

	client, _, _ := newTestClient(t, func(_ int, w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "100, 100;window=60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "12")
		writeJSON(t, w, http.StatusTooManyRequests, map[string]string{"message": "slow down"})
	})

	_, err := client.Workout.List(t.Context(), ListParams{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("List() error = %v, want APIError 429", err)
	}
	if apiErr.RateLimit == nil || !apiErr.RateLimit.Exhausted() || apiErr.RateLimit.Reset != 12*time.Second {
		t.Errorf("RateLimit = %+v", apiErr.RateLimit)
	}
	if !Retryable(err) {
		t.Error("Retryable() = false for 429")
	}
}

func TestRequesterLimiter(t *testing.T) {
	t.Parallel()

	t.Run("waited per request", func(t *testing.T) {
		t.Parallel()

		var waits atomic.Int32
		limiter := limiterFunc(func(context.Context) error {
			waits.Add(1)
			return nil
		})

		serve := pagedCycles(t, 25, 10)
		client, _, _ := newTestClient(t, func(_ int, w http.ResponseWriter, r *http.Request) { serve(w, r) }, WithLimiter(limiter))

		if _, err := client.Cycle.All(t.Context(), ListParams{Limit: 10}); err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if n := waits.Load(); n != 3 {
			t.Errorf("limiter waits = %d, want 3", n)
		}
	})

	t.Run("refusal is not sent", func(t *testing.T) {
		t.Parallel()

		limiter := limiterFunc(func(context.Context) error { return context.DeadlineExceeded })
		client, rec, _ := newTestClient(t, func(_ int, w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, cycleJSON(1))
		}, WithLimiter(limiter))

		_, err := client.Cycle.Get(t.Context(), 1)
		if xerrors.AsTransport(err) == nil || !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("Get() error = %v, want TransportError", err)
		}
		if n := len(rec.all()); n != 0 {
			t.Errorf("server saw %d requests, want 0", n)
		}
	})
}
