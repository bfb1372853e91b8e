package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HEALTHDASH_API_BASE_URL", "https://backend.example.com/api")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "https://backend.example.com/api", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Storage.DataDir)
}

func TestLoad_MissingBaseURL(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend.baseurl")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HEALTHDASH_API_BASE_URL", "https://backend.example.com/api")
	t.Setenv("HEALTHDASH_ADDR", "127.0.0.1:9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("HEALTHDASH_API_TIMEOUT", "25s")
	t.Setenv("HEALTHDASH_DATA_DIR", "/tmp/healthdash-test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, 25*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "/tmp/healthdash-test", cfg.Storage.DataDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_AltBaseURLVar(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://other.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.com", cfg.Backend.BaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg: Config{
				Backend: BackendConfig{BaseURL: "https://api.example.com", Timeout: time.Second},
			},
		},
		{
			name:    "missing base URL",
			cfg:     Config{Backend: BackendConfig{Timeout: time.Second}},
			wantErr: true,
		},
		{
			name: "relative base URL",
			cfg: Config{
				Backend: BackendConfig{BaseURL: "/api", Timeout: time.Second},
			},
			wantErr: true,
		},
		{
			name: "zero timeout",
			cfg: Config{
				Backend: BackendConfig{BaseURL: "https://api.example.com"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
