package xerrors

import (
	"context"
	"errors"
	"net"
	"strings"
)

// TransportError is a failure to complete an HTTP exchange: DNS, dial, TLS,
// reset connections, timeouts and cancellation. No status code was received.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString("transport")
	if e.Method != "" {
		b.WriteString(" ")
		b.WriteString(e.Method)
	}
	if e.URL != "" {
		b.WriteString(" ")
		b.WriteString(e.URL)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the exchange failed because a deadline passed.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

func Transport(method, url string, err error) *TransportError {
	return &TransportError{Method: method, URL: url, Err: err}
}

func AsTransport(err error) *TransportError {
	var e *TransportError
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsTimeout reports whether err is a TransportError caused by a timeout.
func IsTimeout(err error) bool {
	e := AsTransport(err)
	return e != nil && e.Timeout()
}
