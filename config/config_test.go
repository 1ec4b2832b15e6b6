package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("BASE_URL", "https://badges.example.org/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.org, ,https://b.example.org")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://badges.example.org", cfg.BaseURL)
	assert.Equal(t, "https://badges.example.org", cfg.BadgeIssuer)
	assert.Equal(t, "/uploads", cfg.UploadsBaseURL)
	assert.Equal(t, 5*time.Second, cfg.ContextTimeout)
	assert.Equal(t, 16, cfg.SlugAttempts)
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "noop", cfg.EmailProvider)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("CONTEXT_TIMEOUT", "250ms")
	t.Setenv("AWARD_SLUG_ATTEMPTS", "4")
	t.Setenv("BADGE_ISSUER", "Example Org")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.ContextTimeout)
	assert.Equal(t, 4, cfg.SlugAttempts)
	assert.Equal(t, "Example Org", cfg.BadgeIssuer)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad timeout", env: map[string]string{"CONTEXT_TIMEOUT": "soon"}},
		{name: "negative attempts", env: map[string]string{"AWARD_SLUG_ATTEMPTS": "-1"}},
		{name: "production without secret", env: map[string]string{"GO_ENV": "production", "JWT_SECRET": ""}},
		{name: "ses without sender", env: map[string]string{"EMAIL_PROVIDER": "ses", "EMAIL_FROM_ADDRESS": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GO_ENV", "test")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}
