package storage

import (
	"fmt"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/whoopy/internal/oauth"
)

const (
	FieldAccessToken = "access_token"
	FieldExpiresAt   = "expires_at"
)

// MalformedTokenError is a persisted token that cannot be decoded or lacks
// a required field.
type MalformedTokenError struct {
	Field string
	Err   error
}

func (e *MalformedTokenError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed token: missing %s", e.Field)
	}
	return fmt.Sprintf("malformed token: %v", e.Err)
}

func (e *MalformedTokenError) Unwrap() error { return e.Err }

type record struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at"`
	Scope        []string   `json:"scope"`
	TokenType    string     `json:"token_type"`
}

// Marshal encodes every attribute of token. An empty token type is written
// as bearer.
func Marshal(token *oauth.Token) ([]byte, error) {
	if token == nil {
		return nil, &MalformedTokenError{Field: FieldAccessToken}
	}
	expiresAt := token.ExpiresAt.UTC()
	return go_json.MarshalIndent(record{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    &expiresAt,
		Scope:        token.Scopes,
		TokenType:    tokenTypeOrBearer(token.TokenType),
	}, "", "  ")
}

// Unmarshal decodes data written by Marshal. access_token and expires_at are
// required; token_type defaults to bearer.
func Unmarshal(data []byte) (*oauth.Token, error) {
	var r record
	if err := go_json.Unmarshal(data, &r); err != nil {
		return nil, &MalformedTokenError{Err: err}
	}
	if r.AccessToken == "" {
		return nil, &MalformedTokenError{Field: FieldAccessToken}
	}
	if r.ExpiresAt == nil {
		return nil, &MalformedTokenError{Field: FieldExpiresAt}
	}

	return &oauth.Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    tokenTypeOrBearer(r.TokenType),
		ExpiresAt:    r.ExpiresAt.UTC(),
		Scopes:       r.Scope,
	}, nil
}

func tokenTypeOrBearer(tokenType string) string {
	if tokenType == "" {
		return oauth.TokenTypeBearer
	}
	return tokenType
}
