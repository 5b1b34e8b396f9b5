package whoop

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/whoopy/internal/xerrors"
)

// TransportError is a request that never produced an HTTP status.
type TransportError = xerrors.TransportError

var (
	// ErrUnauthorized is the cause of an AuthenticationError raised when the
	// provider still refuses a freshly refreshed token.
	ErrUnauthorized = errors.New("access token rejected after refresh")
	// ErrCursorLoop is returned when the provider hands back a cursor it
	// already returned for the same collection query.
	ErrCursorLoop = errors.New("pagination cursor repeated")
)

type APIError struct {
	StatusCode int
	Message    string
	Method     string
	URL        string
	Body       []byte
	RateLimit  *RateLimitInfo
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whoop api: %d %s", e.StatusCode, e.Message)
}

func parseAPIError(method string, url string, resp *Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
		Method:     method,
		URL:        url,
		Body:       resp.Body,
	}
	if info, err := ParseRateLimitHeaders(resp.Header); err == nil {
		apiErr.RateLimit = info
	}

	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := go_json.Unmarshal(resp.Body, &errResp); err != nil {
		if body := strings.TrimSpace(string(resp.Body)); body != "" {
			apiErr.Message = body
		}
		return apiErr
	}

	switch {
	case errResp.Message != "":
		apiErr.Message = errResp.Message
	case errResp.Error != "":
		apiErr.Message = errResp.Error
	}
	return apiErr
}

// NotFoundError is a 404 from a single-record lookup.
type NotFoundError struct {
	Kind Kind
	ID   string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// AuthenticationError means no usable access token could be obtained: the
// refresh failed, or the provider rejected the token again after one refresh.
type AuthenticationError struct {
	StatusCode int
	Err        error
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed (%d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// CollectionFetchError is a page failure in the middle of a full collection
// fetch. Records holds everything fetched before the failing page, in
// provider order.
type CollectionFetchError[T any] struct {
	Kind    Kind
	Records []T
	Pages   int
	Err     error
}

func (e *CollectionFetchError[T]) Error() string {
	return fmt.Sprintf("fetching %s collection failed after %d pages (%d records): %v",
		e.Kind, e.Pages, len(e.Records), e.Err)
}

func (e *CollectionFetchError[T]) Unwrap() error { return e.Err }

// DecodeError is a 2xx response whose body is not a valid record.
type DecodeError struct {
	Kind Kind
	Path string
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s response from %s: %v", e.Kind, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MissingFieldError is a record lacking a field every record of its kind carries.
type MissingFieldError struct {
	Kind  Kind
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s record is missing %s", e.Kind, e.Field)
}

// ValidationError rejects request parameters before anything is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Retryable reports whether repeating the call could succeed: transport
// failures, rate limiting and provider 5xx responses. The client never
// retries on its own.
func Retryable(err error) bool {
	if xerrors.AsTransport(err) != nil {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}
	return false
}
