package whoop

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RateLimitInfo is the provider's view of the request budget, parsed from
// the X-RateLimit-* response headers.
type RateLimitInfo struct {
	Limit     int           // requests allowed in the window
	Remaining int           // requests left in the window
	Reset     time.Duration // time until the window resets
	Window    time.Duration // window length when the provider states it
}

// Exhausted reports whether no requests are left in the window.
func (i *RateLimitInfo) Exhausted() bool {
	return i != nil && i.Remaining <= 0
}

const (
	// canonical form (http.CanonicalHeaderKey)
	limitHeaderKey     = "X-Ratelimit-Limit"
	remainingHeaderKey = "X-Ratelimit-Remaining"
	resetHeaderKey     = "X-Ratelimit-Reset"

	windowAttr = "window="
)

// ParseRateLimitHeaders returns nil when any of the three headers is absent.
func ParseRateLimitHeaders(headers http.Header) (*RateLimitInfo, error) {
	var (
		limitStr     = headers.Get(limitHeaderKey)
		remainingStr = headers.Get(remainingHeaderKey)
		resetStr     = headers.Get(resetHeaderKey)
	)

	if limitStr == "" || remainingStr == "" || resetStr == "" {
		return nil, nil
	}

	limit, window, err := parseRateLimitValue(limitStr)
	if err != nil {
		return nil, err
	}

	remaining, _, err := parseRateLimitValue(remainingStr)
	if err != nil {
		return nil, err
	}

	resetSeconds, err := strconv.ParseInt(strings.TrimSpace(resetStr), 10, 64)
	if err != nil {
		return nil, err
	}

	return &RateLimitInfo{
		Limit:     limit,
		Remaining: remaining,
		Reset:     time.Duration(resetSeconds) * time.Second,
		Window:    window,
	}, nil
}

// parseRateLimitValue extracts the primary value of a rate limit header and
// the window of the policy it belongs to. Handles formats like:
//   - "100"
//   - "100;window=60"
//   - "100, 100;window=60, 10000;window=86400"
//
// In the last form the window is taken from the first policy whose quota
// equals the primary value.
func parseRateLimitValue(s string) (int, time.Duration, error) {
	parts := strings.Split(s, ",")

	primary, attrs, _ := strings.Cut(strings.TrimSpace(parts[0]), ";")
	value, err := strconv.Atoi(strings.TrimSpace(primary))
	if err != nil {
		return 0, 0, err
	}

	if window, ok := parseWindow(attrs); ok {
		return value, window, nil
	}
	for _, policy := range parts[1:] {
		quota, attrs, _ := strings.Cut(strings.TrimSpace(policy), ";")
		if strings.TrimSpace(quota) != primary {
			continue
		}
		if window, ok := parseWindow(attrs); ok {
			return value, window, nil
		}
	}
	return value, 0, nil
}

func parseWindow(attrs string) (time.Duration, bool) {
	for attr := range strings.SplitSeq(attrs, ";") {
		raw, ok := strings.CutPrefix(strings.TrimSpace(attr), windowAttr)
		if !ok {
			continue
		}
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	return 0, false
}
