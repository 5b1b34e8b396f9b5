package whoop

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func cycleIDs(cycles []Cycle) []int64 {
	ids := make([]int64, len(cycles))
	for i, c := range cycles {
		ids[i] = c.ID
	}
	return ids
}

func seq(from, to int64) []int64 {
	out := make([]int64, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func TestCollectionAllPages(t *testing.T) {
	t.Parallel()

	serve := pagedCycles(t, 25, 10)
	client, rec, refresher := newTestClient(t, func(_ int, w http.ResponseWriter, r *http.Request) { serve(w, r) })

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	cycles, next, err := client.Cycle.Collection(t.Context(), ListParams{Limit: 10, Start: &start, End: &end}, true)
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	if next != nil {
		t.Errorf("next = %q, want nil", *next)
	}
	if diff := cmp.Diff(seq(1, 25), cycleIDs(cycles)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	requests := rec.all()
	if len(requests) != 3 {
		t.Fatalf("server saw %d requests, want 3", len(requests))
	}
	wantTokens := []string{"", "page-2", "page-3"}
	for i, r := range requests {
		q := query(r)
		if r.URL.Path != cycleRoute {
			t.Errorf("request %d path = %q", i, r.URL.Path)
		}
		if got := q.Get(paramNextToken); got != wantTokens[i] {
			t.Errorf("request %d nextToken = %q, want %q", i, got, wantTokens[i])
		}
		if q.Get(paramStart) != "2026-01-01T00:00:00Z" || q.Get(paramEnd) != "2026-02-01T00:00:00Z" || q.Get(paramLimit) != "10" {
			t.Errorf("request %d filters = %v", i, q)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer access-0" {
			t.Errorf("request %d Authorization = %q", i, got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("request %d Accept = %q", i, got)
		}
	}
	if n := refresher.count(); n != 0 {
		t.Errorf("refreshes = %d, want 0", n)
	}
}

func TestCollectionPartialFailure(t *testing.T) {
	t.Parallel()

	serve := pagedCycles(t, 25, 10)
	client, _, _ := newTestClient(t, func(n int, w http.ResponseWriter, r *http.Request) {
		if n == 2 {
			writeJSON(t, w, http.StatusInternalServerError, map[string]string{"message": "boom"})
			return
		}
		serve(w, r)
	})

	cycles, next, err := client.Cycle.Collection(t.Context(), ListParams{Limit: 10}, true)
	if cycles != nil || next != nil {
		t.Errorf("Collection() returned data alongside an error: %d records, next %v", len(cycles), next)
	}

	var fetchErr *CollectionFetchError[Cycle]
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Collection() error = %v, want *CollectionFetchError[Cycle]", err)
	}
	if fetchErr.Pages != 1 || fetchErr.Kind != KindCycle {
		t.Errorf("CollectionFetchError = %+v", fetchErr)
	}
	if diff := cmp.Diff(seq(1, 10), cycleIDs(fetchErr.Records)); diff != "" {
		t.Errorf("partial records mismatch (-want +got):\n%s", diff)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "boom" {
		t.Errorf("wrapped error = %v, want APIError 500 boom", err)
	}
	if !Retryable(err) {
		t.Error("Retryable() = false for a 5xx page failure")
	}
}

func TestCollectionManualPagination(t *testing.T) {
	t.Parallel()

	serve := pagedCycles(t, 25, 10)
	client, _, _ := newTestClient(t, func(_ int, w http.ResponseWriter, r *http.Request) { serve(w, r) })

	var (
		all    []Cycle
		cursor *string
		pages  int
	)
	for {
		records, next, err := client.Cycle.Collection(t.Context(), ListParams{Limit: 10, NextToken: cursor}, false)
		if err != nil {
			t.Fatalf("Collection() page %d error = %v", pages+1, err)
		}
		pages++
		all = append(all, records...)
		if next == nil {
			break
		}
		cursor = next
	}

	if pages != 3 {
		t.Errorf("pages = %d, want 3", pages)
	}
	ids := cycleIDs(all)
	if diff := cmp.Diff(seq(1, 25), ids); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if len(slices.Compact(slices.Clone(ids))) != len(ids) {
		t.Error("manual pagination produced duplicates")
	}
}

func TestCollectionSinglePageReturnsCursor(t *testing.T) {
	t.Parallel()

	serve := pagedCycles(t, 25, 10)
	client, rec, _ := newTestClient(t, func(_ int, w http.ResponseWriter, r *http.Request) { serve(w, r) })

	records, next, err := client.Cycle.Collection(t.Context(), ListParams{Limit: 10}, false)
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	if len(records) != 10 {
		t.Errorf("records = %d, want 10", len(records))
	}
	if next == nil || *next != "page-2" {
		t.Errorf("next = %v, want page-2", next)
	}
	if n := len(rec.all()); n != 1 {
		t.Errorf("server saw %d requests, want 1", n)
	}
}

func TestCollectionCursorLoop(t *testing.T) {
	t.Parallel()

	client, rec, _ := newTestClient(t, func(_ int, w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"records":    []any{cycleJSON(1)},
			"next_token": "same",
		})
	})

	_, _, err := client.Cycle.Collection(t.Context(), ListParams{}, true)
	if !errors.Is(err, ErrCursorLoop) {
		t.Fatalf("Collection() error = %v, want ErrCursorLoop", err)
	}
	var fetchErr *CollectionFetchError[Cycle]
	if !errors.As(err, &fetchErr) || len(fetchErr.Records) != 2 {
		t.Errorf("CollectionFetchError = %+v, want 2 partial records", fetchErr)
	}
	if n := len(rec.all()); n != 2 {
		t.Errorf("server saw %d requests, want 2", n)
	}
}

func TestCollectionCanceledBetweenPages(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var waits int
	limiter := limiterFunc(func(context.Context) error {
		waits++
		if waits == 2 {
			cancel()
		}
		return nil
	})

	serve := pagedCycles(t, 25, 10)
	client, rec, _ := newTestClient(t, func(_ int, w http.ResponseWriter, r *http.Request) { serve(w, r) }, WithLimiter(limiter))

	_, _, err := client.Cycle.Collection(ctx, ListParams{Limit: 10}, true)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Collection() error = %v, want context.Canceled", err)
	}
	var fetchErr *CollectionFetchError[Cycle]
	if !errors.As(err, &fetchErr) || len(fetchErr.Records) != 10 || fetchErr.Pages != 1 {
		t.Errorf("CollectionFetchError = %+v, want 10 partial records", fetchErr)
	}
	if n := len(rec.all()); n != 1 {
		t.Errorf("server saw %d requests, want 1", n)
	}
}

func TestListParamsValidation(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)
	empty := ""

	tests := []struct {
		name      string
		params    ListParams
		wantField string
	}{
		{name: "limit too large", params: ListParams{Limit: MaxLimit + 1}, wantField: paramLimit},
		{name: "negative limit", params: ListParams{Limit: -1}, wantField: paramLimit},
		{name: "end before start", params: ListParams{Start: &start, End: &before}, wantField: paramEnd},
		{name: "end equals start", params: ListParams{Start: &start, End: &start}, wantField: paramEnd},
		{name: "empty cursor", params: ListParams{NextToken: &empty}, wantField: paramNextToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, rec, _ := newTestClient(t, func(_ int, w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, http.StatusOK, map[string]any{"records": []any{}})
			})

			for _, getAll := range []bool{true, false} {
				_, _, err := client.Sleep.Collection(t.Context(), tt.params, getAll)
				var valErr *ValidationError
				if !errors.As(err, &valErr) || valErr.Field != tt.wantField {
					t.Errorf("Collection(getAllPages=%v) error = %v, want ValidationError on %s", getAll, err, tt.wantField)
				}
			}
			if n := len(rec.all()); n != 0 {
				t.Errorf("server saw %d requests, want 0", n)
			}
		})
	}
}

func TestListParamsLimitRange(t *testing.T) {
	t.Parallel()

	for _, limit := range []int{0, 1, MaxLimit} {
		if err := (ListParams{Limit: limit}).validate(); err != nil {
			t.Errorf("validate(limit=%d) error = %v", limit, err)
		}
	}

	var valErr *ValidationError
	if err := (ListParams{Limit: MaxLimit + 1}).validate(); !errors.As(err, &valErr) {
		t.Fatalf("validate() error = %v, want ValidationError", err)
	}
	if !strings.Contains(valErr.Message, "between 0 and 25") {
		t.Errorf("Message = %q, want the accepted range 0 to 25", valErr.Message)
	}
}

func TestListParamsValues(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 5, 0, 0, 0, time.FixedZone("EST", -5*60*60))
	end := time.Date(2026, 1, 2, 0, 0, 0, 500_000_000, time.UTC)
	token := "abc=="

	got := ListParams{Limit: 25, Start: &start, End: &end, NextToken: &token}.values()
	want := map[string]string{
		paramLimit:     "25",
		paramStart:     "2026-01-01T10:00:00Z",
		paramEnd:       "2026-01-02T00:00:00.5Z",
		paramNextToken: "abc==",
	}
	for key, value := range want {
		if got.Get(key) != value {
			t.Errorf("%s = %q, want %q", key, got.Get(key), value)
		}
	}
	if enc := (ListParams{}).values().Encode(); enc != "" {
		t.Errorf("zero params encode to %q, want empty", enc)
	}
}

func TestSingle(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("ecfc6a15-4661-442f-a9a4-f160dd7afae8")
	client, rec, _ := newTestClient(t, func(_ int, w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"id":              id.String(),
			"cycle_id":        93845,
			"user_id":         42,
			"start":           "2026-01-01T22:00:00.000Z",
			"end":             "2026-01-02T06:00:00.000Z",
			"timezone_offset": "-05:00",
			"nap":             false,
			"score_state":     "PENDING_SCORE",
			"future_field":    map[string]any{"nested": true},
		})
	})

	sleep, err := client.Sleep.Get(t.Context(), id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sleep.ID != id || sleep.CycleID != 93845 || sleep.ScoreState != ScoreStatePendingScore || sleep.Score != nil {
		t.Errorf("sleep = %+v", sleep)
	}
	if got := string(sleep.Extra["future_field"]); got != `{"nested":true}` {
		t.Errorf("Extra[future_field] = %q", got)
	}
	if _, ok := sleep.Extra["cycle_id"]; ok {
		t.Error("declared field leaked into Extra")
	}

	if path := rec.all()[0].URL.Path; path != sleepRoute+"/"+id.String() {
		t.Errorf("path = %q", path)
	}
}

func TestSingleErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   any
		check  func(t *testing.T, err error)
	}{
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   map[string]string{"message": "no such cycle"},
			check: func(t *testing.T, err error) {
				var nf *NotFoundError
				if !errors.As(err, &nf) || nf.Kind != KindCycle || nf.ID != "7" {
					t.Errorf("error = %v, want NotFoundError cycle 7", err)
				}
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.Message != "no such cycle" {
					t.Errorf("error = %v, want wrapped APIError", err)
				}
			},
		},
		{
			name:   "other status",
			status: http.StatusForbidden,
			body:   map[string]string{"error": "forbidden"},
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden || apiErr.Message != "forbidden" {
					t.Errorf("error = %v, want APIError 403", err)
				}
				var nf *NotFoundError
				if errors.As(err, &nf) {
					t.Error("403 reported as not found")
				}
				if Retryable(err) {
					t.Error("Retryable() = true for 403")
				}
			},
		},
		{
			name:   "missing identifier",
			status: http.StatusOK,
			body:   map[string]any{"user_id": 42, "start": "2026-01-01T00:00:00Z"},
			check: func(t *testing.T, err error) {
				var decodeErr *DecodeError
				var missing *MissingFieldError
				if !errors.As(err, &decodeErr) || !errors.As(err, &missing) || missing.Field != "id" {
					t.Errorf("error = %v, want DecodeError for missing id", err)
				}
			},
		},
		{
			name:   "wrong type",
			status: http.StatusOK,
			body:   map[string]any{"id": "not-a-number"},
			check: func(t *testing.T, err error) {
				var decodeErr *DecodeError
				if !errors.As(err, &decodeErr) || decodeErr.Kind != KindCycle {
					t.Errorf("error = %v, want DecodeError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, _, _ := newTestClient(t, func(_ int, w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, tt.status, tt.body)
			})
			_, err := client.Cycle.Get(t.Context(), 7)
			tt.check(t, err)
		})
	}
}

func TestCycleRelations(t *testing.T) {
	t.Parallel()

	sleepID := uuid.MustParse("ecfc6a15-4661-442f-a9a4-f160dd7afae8")
	client, rec, _ := newTestClient(t, func(_ int, w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/sleep"):
			writeJSON(t, w, http.StatusOK, map[string]any{
				"id": sleepID.String(), "cycle_id": 7,
				"start": "2026-01-01T22:00:00Z", "end": "2026-01-02T06:00:00Z",
			})
		case strings.HasSuffix(r.URL.Path, "/recovery"):
			writeJSON(t, w, http.StatusOK, map[string]any{
				"cycle_id": 7, "sleep_id": sleepID.String(), "score_state": "SCORED",
				"score": map[string]any{"recovery_score": 66.0, "resting_heart_rate": 52.0},
			})
		default:
			http.NotFound(w, r)
		}
	})

	sleep, err := client.Cycle.GetSleep(t.Context(), 7)
	if err != nil {
		t.Fatalf("GetSleep() error = %v", err)
	}
	if sleep.ID != sleepID {
		t.Errorf("sleep.ID = %v", sleep.ID)
	}

	recovery, err := client.Cycle.GetRecovery(t.Context(), 7)
	if err != nil {
		t.Fatalf("GetRecovery() error = %v", err)
	}
	viaRecovery, err := client.Recovery.Get(t.Context(), 7)
	if err != nil {
		t.Fatalf("Recovery.Get() error = %v", err)
	}
	if diff := cmp.Diff(recovery, viaRecovery); diff != "" {
		t.Errorf("recovery lookups differ (-cycle +recovery):\n%s", diff)
	}
	if recovery.Score == nil || recovery.Score.RecoveryScore != 66 {
		t.Errorf("recovery = %+v", recovery)
	}

	var paths []string
	for _, r := range rec.all() {
		paths = append(paths, r.URL.Path)
	}
	want := []string{"/v2/cycle/7/sleep", "/v2/cycle/7/recovery", "/v2/cycle/7/recovery"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestLatest(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		client, rec, _ := newTestClient(t, func(_ int, w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{"records": []any{cycleJSON(9)}, "next_token": "more"})
		})
		cycle, err := client.Cycle.Latest(t.Context())
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if cycle.ID != 9 {
			t.Errorf("ID = %d, want 9", cycle.ID)
		}
		if got := query(rec.all()[0]).Get(paramLimit); got != "1" {
			t.Errorf("limit = %q, want 1", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		client, _, _ := newTestClient(t, func(_ int, w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{"records": []any{}})
		})
		_, err := client.Workout.Latest(t.Context())
		var nf *NotFoundError
		if !errors.As(err, &nf) || nf.Kind != KindWorkout {
			t.Errorf("Latest() error = %v, want NotFoundError", err)
		}
	})
}

func TestUserService(t *testing.T) {
	t.Parallel()

	client, rec, _ := newTestClient(t, func(_ int, w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case profileRoute:
			writeJSON(t, w, http.StatusOK, map[string]any{
				"user_id": 42, "email": "a@example.com", "first_name": "Ada", "last_name": "L",
			})
		case measurementRoute:
			writeJSON(t, w, http.StatusOK, map[string]any{
				"height_meter": 1.8, "weight_kilogram": 80.5, "max_heart_rate": 190,
			})
		case accessRoute:
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})

	profile, err := client.User.GetProfile(t.Context())
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if diff := cmp.Diff(&UserProfile{UserID: 42, Email: "a@example.com", FirstName: "Ada", LastName: "L"}, profile); diff != "" {
		t.Errorf("GetProfile() mismatch (-want +got):\n%s", diff)
	}

	body, err := client.User.GetBodyMeasurement(t.Context())
	if err != nil {
		t.Fatalf("GetBodyMeasurement() error = %v", err)
	}
	if body.MaxHeartRate != 190 || body.WeightKilogram != 80.5 {
		t.Errorf("body = %+v", body)
	}

	if err := client.User.RevokeAccess(t.Context()); err != nil {
		t.Fatalf("RevokeAccess() error = %v", err)
	}
	if got := rec.all()[2].Method; got != http.MethodDelete {
		t.Errorf("RevokeAccess method = %s, want DELETE", got)
	}
}
