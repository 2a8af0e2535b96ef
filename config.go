package userforms

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config is read from USERFORMS_* environment variables.
type Config struct {
	Addr            string        `env:"USERFORMS_ADDR" envDefault:":8080"`
	BaseURL         string        `env:"USERFORMS_BASE_URL" envDefault:"http://localhost:8080"`
	DatabasePath    string        `env:"USERFORMS_DB" envDefault:"userforms.db"`
	MediaDir        string        `env:"USERFORMS_MEDIA_DIR" envDefault:"media"`
	TokenSecret     string        `env:"USERFORMS_TOKEN_SECRET"`
	TokenIssuer     string        `env:"USERFORMS_TOKEN_ISSUER" envDefault:"userforms"`
	SessionTTL      time.Duration `env:"USERFORMS_SESSION_TTL" envDefault:"24h"`
	PreviewTTL      time.Duration `env:"USERFORMS_PREVIEW_TTL" envDefault:"30m"`
	NavigationDelay time.Duration `env:"USERFORMS_NAVIGATION_DELAY" envDefault:"100ms"`
	CookieName      string        `env:"USERFORMS_COOKIE_NAME" envDefault:"session"`
	SecureCookies   bool          `env:"USERFORMS_SECURE_COOKIES" envDefault:"false"`
	TrustProxy      bool          `env:"USERFORMS_TRUST_PROXY" envDefault:"false"`
	MaxUploadBytes  int64         `env:"USERFORMS_MAX_UPLOAD_BYTES" envDefault:"8388608"`
	LogLevel        string        `env:"USERFORMS_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"USERFORMS_LOG_FORMAT" envDefault:"text"`

	GoogleClientID        string `env:"USERFORMS_GOOGLE_CLIENT_ID"`
	GoogleClientSecret    string `env:"USERFORMS_GOOGLE_CLIENT_SECRET"`
	MicrosoftClientID     string `env:"USERFORMS_MICROSOFT_CLIENT_ID"`
	MicrosoftClientSecret string `env:"USERFORMS_MICROSOFT_CLIENT_SECRET"`
}

// ParseConfig loads configuration from environment variables.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	return cfg, nil
}

// OAuthProviders builds the providers that have credentials configured.
func (c Config) OAuthProviders() []OAuthProvider {
	var out []OAuthProvider
	if c.GoogleClientID != "" {
		out = append(out, NewGoogleProvider(c.GoogleClientID, c.GoogleClientSecret, c.BaseURL+"/oauth/google/callback"))
	}
	if c.MicrosoftClientID != "" {
		out = append(out, NewMicrosoftProvider(c.MicrosoftClientID, c.MicrosoftClientSecret, c.BaseURL+"/oauth/microsoft/callback"))
	}
	return out
}
