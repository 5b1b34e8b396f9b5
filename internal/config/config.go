package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/garrettladley/whoopy/internal/xslog"
)

type Config struct {
	Whoop      Whoop
	TokenStore string `env:"TOKEN_STORE" envDefault:"file://~/.config/whoopy/token.json"`
	LogLevel   xslog.Level `env:"LOG_LEVEL" envDefault:"info"`
}

type Whoop struct {
	ClientID      string        `env:"WHOOP_CLIENT_ID"`
	ClientSecret  string        `env:"WHOOP_CLIENT_SECRET"`
	RedirectURL   string        `env:"WHOOP_REDIRECT_URL" envDefault:"http://127.0.0.1:8910/callback"`
	Scopes        []string      `env:"WHOOP_SCOPES" envSeparator:","`
	BaseURL       string        `env:"WHOOP_BASE_URL" envDefault:"https://api.prod.whoop.com/developer"`
	AuthURL       string        `env:"WHOOP_AUTH_URL" envDefault:"https://api.prod.whoop.com/oauth/oauth2/auth"`
	TokenURL      string        `env:"WHOOP_TOKEN_URL" envDefault:"https://api.prod.whoop.com/oauth/oauth2/token"`
	Timeout       time.Duration `env:"WHOOP_TIMEOUT" envDefault:"30s"`
	RefreshMargin time.Duration `env:"WHOOP_REFRESH_MARGIN" envDefault:"30s"`
	RateLimit     int           `env:"WHOOP_RATE_LIMIT" envDefault:"100"`
	// RateLimitURL shares the request budget across processes through redis.
	RateLimitURL string `env:"WHOOP_RATE_LIMIT_URL"`
}

func Read() (Config, error) {
	return env.ParseAs[Config]()
}

// HasCredentials reports whether the client id and secret are both set.
func (w Whoop) HasCredentials() bool {
	return w.ClientID != "" && w.ClientSecret != ""
}
