package oauth

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const TokenTypeBearer = "bearer"

// Token is the credential set issued by the provider. Values are copied
// out of Source; callers never share the instance Source refreshes.
type Token struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    time.Time
	Scopes       []string
}

// Renewable reports whether a refresh token is present. Without one,
// expiry is terminal.
func (t *Token) Renewable() bool {
	return t != nil && t.RefreshToken != ""
}

// StaleAt reports whether the access token must not be used at now. A token
// is stale from margin before ExpiresAt onward; a zero ExpiresAt is always stale.
func (t *Token) StaleAt(now time.Time, margin time.Duration) bool {
	if t == nil || t.AccessToken == "" || t.ExpiresAt.IsZero() {
		return true
	}
	return !now.Before(t.ExpiresAt.Add(-margin))
}

func (t *Token) HasScope(scope string) bool {
	return t != nil && slices.Contains(t.Scopes, scope)
}

func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	c := *t
	c.Scopes = slices.Clone(t.Scopes)
	return &c
}

// OAuth2 converts to the golang.org/x/oauth2 representation.
func (t *Token) OAuth2() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.ExpiresAt,
	}
	if len(t.Scopes) > 0 {
		tok = tok.WithExtra(map[string]any{"scope": strings.Join(t.Scopes, " ")})
	}
	return tok
}

func fromOAuth2(tok *oauth2.Token, fallbackScopes []string) *Token {
	t := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    strings.ToLower(tok.TokenType),
		ExpiresAt:    tok.Expiry,
	}
	if t.TokenType == "" {
		t.TokenType = TokenTypeBearer
	}
	if scope, ok := tok.Extra("scope").(string); ok && strings.TrimSpace(scope) != "" {
		t.Scopes = strings.Fields(scope)
	} else {
		t.Scopes = slices.Clone(fallbackScopes)
	}
	return t
}

func missingScopes(requested []string, granted []string) []string {
	var missing []string
	for _, s := range requested {
		if !slices.Contains(granted, s) {
			missing = append(missing, s)
		}
	}
	return missing
}
