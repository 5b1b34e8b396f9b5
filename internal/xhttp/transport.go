package xhttp

import (
	"fmt"
	"net/http"

	"github.com/garrettladley/whoopy/internal/version"
)

type whoopyTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*whoopyTransport)(nil)

func (t *whoopyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set(UserAgent, version.UserAgent())
	req.Header.Set(version.Header, version.Get())
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// NewTransport returns an http.RoundTripper with standard whoopy headers.
func NewTransport() http.RoundTripper {
	return &whoopyTransport{base: http.DefaultTransport}
}
