package oauth

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode string

const (
	ErrorCodeAccessDenied    ErrorCode = "access_denied"
	ErrorCodeInvalidRequest  ErrorCode = "invalid_request"
	ErrorCodeInvalidGrant    ErrorCode = "invalid_grant"
	ErrorCodeScopeNotGranted ErrorCode = "scope_not_granted"
)

const (
	ParamCode             = "code"
	ParamState            = "state"
	ParamError            = "error"
	ParamErrorDescription = "error_description"
)

var (
	ErrNoToken        = errors.New("no token found - please authenticate first")
	ErrNoRefreshToken = errors.New("token has no refresh token - the offline scope was not granted")
	ErrStateMismatch  = errors.New("state parameter does not match")
	ErrStateTooShort  = fmt.Errorf("state must be at least %d characters", MinStateLength)
)

// AuthorizationError is a failed authorization-code exchange. Codes are
// single use, so it is never retried.
type AuthorizationError struct {
	StatusCode  int
	Code        ErrorCode
	Description string
	Body        []byte
	Err         error
}

func (e *AuthorizationError) Error() string {
	return describe("authorization failed", e.StatusCode, e.Code, e.Description, e.Err)
}

func (e *AuthorizationError) Unwrap() error { return e.Err }

// RefreshError is terminal for the session: the refresh token is missing,
// revoked or expired and the user has to authorize again.
type RefreshError struct {
	StatusCode  int
	Code        ErrorCode
	Description string
	Body        []byte
	Err         error
}

func (e *RefreshError) Error() string {
	return describe("token refresh failed", e.StatusCode, e.Code, e.Description, e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

func describe(prefix string, status int, code ErrorCode, description string, err error) string {
	var b strings.Builder
	b.WriteString(prefix)
	if status != 0 {
		fmt.Fprintf(&b, " (%d)", status)
	}
	if code != "" {
		b.WriteString(": ")
		b.WriteString(string(code))
		if description != "" {
			b.WriteString(" - ")
			b.WriteString(description)
		}
	}
	if err != nil {
		b.WriteString(": ")
		b.WriteString(err.Error())
	}
	return b.String()
}
