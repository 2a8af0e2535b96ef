package userforms_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywasm/userforms"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := userforms.ParseConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 100*time.Millisecond, cfg.NavigationDelay)
	assert.Equal(t, "session", cfg.CookieName)
	assert.Equal(t, int64(8<<20), cfg.MaxUploadBytes)
	assert.Empty(t, cfg.OAuthProviders())
}

func TestParseConfigFromEnv(t *testing.T) {
	t.Setenv("USERFORMS_ADDR", ":9090")
	t.Setenv("USERFORMS_SESSION_TTL", "2h")
	t.Setenv("USERFORMS_SECURE_COOKIES", "true")
	t.Setenv("USERFORMS_BASE_URL", "https://forms.example.com")
	t.Setenv("USERFORMS_GOOGLE_CLIENT_ID", "gid")
	t.Setenv("USERFORMS_GOOGLE_CLIENT_SECRET", "gsecret")

	cfg, err := userforms.ParseConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.SecureCookies)

	providers := cfg.OAuthProviders()
	require.Len(t, providers, 1)
	assert.Equal(t, "google", providers[0].Name())
	assert.Contains(t, providers[0].AuthCodeURL("s"), "redirect_uri=https%3A%2F%2Fforms.example.com%2Foauth%2Fgoogle%2Fcallback")
}

func TestParseConfigInvalid(t *testing.T) {
	t.Setenv("USERFORMS_SESSION_TTL", "forever")
	_, err := userforms.ParseConfig()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	l, err := userforms.NewLogger("debug", "json")
	require.NoError(t, err)
	assert.Equal(t, "debug", l.GetLevel().String())

	_, err = userforms.NewLogger("loud", "text")
	assert.Error(t, err)
}
