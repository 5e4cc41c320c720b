package configs_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admina-mcp/admina-mcp/configs"
	"github.com/admina-mcp/admina-mcp/internal/domain"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "admina.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADMINA_CONFIG_FILE", "")
	t.Setenv("ADMINA_BASE_URL", "")
	t.Setenv("ADMINA_ARRAY_ENCODING", "")

	cfg, err := configs.Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, ":8081", cfg.AdminAddr)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/tmp/admina-mcp.log", cfg.LogFile)
	assert.True(t, cfg.OtelExporterOtlpInsecure)
	assert.Equal(t, domain.ArrayRepeat, cfg.ArrayEncodings.Default)
	assert.Empty(t, cfg.BaseURL)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("ADMINA_BASE_URL", "http://localhost:9999/api/v1")
	t.Setenv("ADMINA_HTTP_CLIENT_TIMEOUT", "2s")
	t.Setenv("ADMINA_ARRAY_ENCODING", "comma")
	t.Setenv("ADMINA_LOG_LEVEL", "debug")
	t.Setenv("ADMINA_ADMIN_TOKEN", "s3cret")

	cfg, err := configs.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/api/v1", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, domain.ArrayComma, cfg.ArrayEncodings.Default)
	assert.Equal(t, slog.LevelDebug, cfg.ParsedLogLevel())
	assert.Equal(t, "s3cret", cfg.AdminToken)
}

func TestConfig_ValidateAdmin(t *testing.T) {
	tests := []struct {
		name    string
		cfg     configs.Config
		wantErr bool
	}{
		{name: "enabled with token", cfg: configs.Config{AdminAddr: ":8081", AdminToken: "t"}},
		{name: "enabled without token", cfg: configs.Config{AdminAddr: ":8081"}, wantErr: true},
		{name: "disabled", cfg: configs.Config{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateAdmin()
			if tt.wantErr {
				assert.ErrorIs(t, err, configs.ErrAdminTokenRequired)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoad_InvalidArrayEncoding(t *testing.T) {
	t.Setenv("ADMINA_ARRAY_ENCODING", "pipes")

	_, err := configs.Load()
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := writeConfigFile(t, `
base_url: https://staging.example.com/api/v1
array_encoding:
  default: comma
  tools:
    get_service_accounts:
      workspaceIds: repeat
`)
	t.Setenv("ADMINA_CONFIG_FILE", path)

	cfg, err := configs.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com/api/v1", cfg.BaseURL)
	assert.Equal(t, domain.ArrayComma, cfg.ArrayEncodings.Default)
	assert.Equal(t, domain.ArrayRepeat, cfg.ArrayEncodings.Override("get_service_accounts", "workspaceIds"))
	assert.Equal(t, domain.ArrayDefault, cfg.ArrayEncodings.Override("get_service_accounts", "roles"))
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
base_url: https://staging.example.com/api/v1
array_encoding:
  default: comma
`)
	t.Setenv("ADMINA_CONFIG_FILE", path)
	t.Setenv("ADMINA_BASE_URL", "http://localhost:1234")
	t.Setenv("ADMINA_ARRAY_ENCODING", "repeat")

	cfg, err := configs.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:1234", cfg.BaseURL)
	assert.Equal(t, domain.ArrayRepeat, cfg.ArrayEncodings.Default)
}

func TestLoad_FileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv("ADMINA_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := configs.Load()
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("bad encoding in file", func(t *testing.T) {
		t.Setenv("ADMINA_CONFIG_FILE", writeConfigFile(t, "array_encoding:\n  default: pipes\n"))
		_, err := configs.Load()
		assert.ErrorContains(t, err, "failed to unmarshal config file")
	})
}

func TestLoadCredentials(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name: "both set",
			env:  map[string]string{"ADMINA_API_KEY": "key", "ADMINA_ORGANIZATION_ID": "org"},
		},
		{
			name:    "missing key",
			env:     map[string]string{"ADMINA_ORGANIZATION_ID": "org"},
			wantErr: "ADMINA_API_KEY is required",
		},
		{
			name:    "missing organization",
			env:     map[string]string{"ADMINA_API_KEY": "key"},
			wantErr: "ADMINA_ORGANIZATION_ID is required",
		},
		{
			name:    "missing both",
			env:     map[string]string{},
			wantErr: "ADMINA_API_KEY and ADMINA_ORGANIZATION_ID are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ADMINA_API_KEY", "")
			t.Setenv("ADMINA_ORGANIZATION_ID", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			creds, err := configs.LoadCredentials()
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "key", creds.APIKey)
			assert.Equal(t, "org", creds.OrganizationID)
		})
	}
}
