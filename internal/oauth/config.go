package oauth

import (
	"slices"

	"github.com/garrettladley/whoopy/internal/config"
	"golang.org/x/oauth2"
)

const (
	DefaultAuthURL  = "https://api.prod.whoop.com/oauth/oauth2/auth"
	DefaultTokenURL = "https://api.prod.whoop.com/oauth/oauth2/token" //nolint:gosec // not credentials, just endpoint URL
)

const (
	ScopeOffline             = "offline"
	ScopeReadRecovery        = "read:recovery"
	ScopeReadCycles          = "read:cycles"
	ScopeReadSleep           = "read:sleep"
	ScopeReadWorkout         = "read:workout"
	ScopeReadProfile         = "read:profile"
	ScopeReadBodyMeasurement = "read:body_measurement"
)

var defaultScopes = []string{
	ScopeOffline,
	ScopeReadRecovery,
	ScopeReadCycles,
	ScopeReadSleep,
	ScopeReadWorkout,
	ScopeReadProfile,
	ScopeReadBodyMeasurement,
}

// DefaultScopes returns every read scope plus offline, so a refresh token is issued.
func DefaultScopes() []string {
	return slices.Clone(defaultScopes)
}

// Config holds the registered application's credentials. It is passed
// explicitly to NewFlow; nothing here is read from process state.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
}

func NewConfig(whoop config.Whoop) Config {
	return Config{
		ClientID:     whoop.ClientID,
		ClientSecret: whoop.ClientSecret,
		RedirectURL:  whoop.RedirectURL,
		Scopes:       whoop.Scopes,
		AuthURL:      whoop.AuthURL,
		TokenURL:     whoop.TokenURL,
	}
}

func (c Config) oauth2() *oauth2.Config {
	scopes := c.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes()
	}
	authURL := c.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	tokenURL := c.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       slices.Clone(scopes),
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
