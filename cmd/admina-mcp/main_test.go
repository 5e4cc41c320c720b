package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admina-mcp/admina-mcp/configs"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestToolsCommand(t *testing.T) {
	out, err := execute(t, "tools")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 29)
	assert.True(t, strings.HasPrefix(lines[0], "get_organization_info"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "admina-mcp dev")
}

func TestServeCommand_InvalidTransport(t *testing.T) {
	_, err := execute(t, "serve", "--transport", "websocket")
	assert.ErrorContains(t, err, `invalid transport "websocket"`)
}

func TestServeCommand_SSERequiresAdminToken(t *testing.T) {
	t.Setenv("ADMINA_CONFIG_FILE", "")
	t.Setenv("ADMINA_OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("ADMINA_ADMIN_ADDR", "127.0.0.1:0")
	t.Setenv("ADMINA_ADMIN_TOKEN", "")

	_, err := execute(t, "serve", "--transport", "sse")
	require.Error(t, err)
	assert.ErrorIs(t, err, configs.ErrAdminTokenRequired)
}

func TestCheckCommand(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/organizations/org-1", r.URL.Path)
			assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "org-1", "name": "Example"})
		}))
		defer server.Close()

		t.Setenv("ADMINA_CONFIG_FILE", "")
		t.Setenv("ADMINA_API_KEY", "key")
		t.Setenv("ADMINA_ORGANIZATION_ID", "org-1")
		t.Setenv("ADMINA_BASE_URL", server.URL+"/api/v1")
		t.Setenv("ADMINA_LOG_LEVEL", "error")

		out, err := execute(t, "check")
		require.NoError(t, err)
		assert.Contains(t, out, `"name": "Example"`)
	})

	t.Run("unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		t.Setenv("ADMINA_CONFIG_FILE", "")
		t.Setenv("ADMINA_API_KEY", "wrong")
		t.Setenv("ADMINA_ORGANIZATION_ID", "org-1")
		t.Setenv("ADMINA_BASE_URL", server.URL+"/api/v1")
		t.Setenv("ADMINA_LOG_LEVEL", "error")

		_, err := execute(t, "check")
		assert.ErrorContains(t, err, "Admina API error:")
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Setenv("ADMINA_CONFIG_FILE", "")
		t.Setenv("ADMINA_API_KEY", "")
		t.Setenv("ADMINA_ORGANIZATION_ID", "")

		_, err := execute(t, "check")
		assert.EqualError(t, err, "Error: admina configuration missing: ADMINA_API_KEY and ADMINA_ORGANIZATION_ID are required")
	})
}
