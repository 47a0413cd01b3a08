package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgconfig "github.com/lifemirror/lifemirror/pkg/config"
)

const validSecret = "0123456789abcdef"

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", DevOwner: "me"}
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.AuthEnabled())
}

func TestAuthConfig_DisabledModeNeedsDevOwner(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is required when auth is disabled")
}

func TestAuthConfig_EmptyModeDefaultsJWT(t *testing.T) {
	cfg := AuthConfig{Secret: validSecret}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, AuthModeJWT, cfg.Mode)
	assert.True(t, cfg.AuthEnabled())
}

func TestAuthConfig_JWTSecret(t *testing.T) {
	tests := []struct {
		secret string
		want   string
	}{
		{"", "is required in jwt mode"},
		{"short", "at least 16"},
	}
	for _, tt := range tests {
		cfg := AuthConfig{Mode: "jwt", Secret: tt.secret}
		err := cfg.Validate()
		require.Error(t, err, tt.secret)
		assert.Contains(t, err.Error(), tt.want)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Secret: validSecret}
	assert.Error(t, cfg.Validate())
}

func TestFullConfig_Validation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Secret = validSecret
	require.NoError(t, cfg.Validate())

	cfg.Events.DashboardThrottle = -time.Second
	assert.ErrorContains(t, cfg.Validate(), "events")

	cfg = NewDefaultConfig()
	err := cfg.Validate()
	require.Error(t, err, "default config has no secret")
	assert.True(t, strings.HasPrefix(err.Error(), "auth:"))

	cfg = NewDefaultConfig()
	cfg.Auth.Secret = validSecret
	cfg.App.HTTP.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  log_level: debug
  http:
    port: 9090
sqlite:
  path: ${LM_TEST_DB_DIR}/life.db
auth:
  mode: jwt
  secret: from-yaml-0123456789
events:
  dashboard_throttle: 500ms
`), 0o600))

	t.Setenv("LM_TEST_DB_DIR", "/var/lib/lifemirror")
	t.Setenv("LIFEMIRROR_AUTH_SECRET", "from-env-0123456789")

	cfg := NewDefaultConfig()
	require.NoError(t, pkgconfig.Load(path, cfg))

	assert.Equal(t, slog.LevelDebug, cfg.App.LogLevel)
	assert.Equal(t, ":9090", cfg.App.HTTP.Address())
	assert.Equal(t, "/var/lib/lifemirror/life.db", cfg.SQLite.Path)
	assert.Equal(t, "from-env-0123456789", cfg.Auth.Secret)
	assert.Equal(t, "lifemirror", cfg.Auth.Issuer, "default kept when absent from file")
	assert.Equal(t, 500*time.Millisecond, cfg.Events.DashboardThrottle)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  mode: jwt\n  secret: short\n"), 0o600))

	cfg := NewDefaultConfig()
	err := pkgconfig.Load(path, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}
