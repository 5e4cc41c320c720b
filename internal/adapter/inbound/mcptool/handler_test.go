package mcptool_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admina-mcp/admina-mcp/internal/adapter/inbound/mcptool"
	"github.com/admina-mcp/admina-mcp/internal/domain"
	"github.com/admina-mcp/admina-mcp/internal/usecase"
)

type fakeInvoker struct {
	result   any
	err      error
	gotName  string
	gotInput map[string]any
}

func (f *fakeInvoker) Execute(ctx context.Context, toolName string, args map[string]any) (any, error) {
	f.gotName = toolName
	f.gotInput = args
	return f.result, f.err
}

func callTool(t *testing.T, inv *fakeInvoker, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := mcptool.NewHandler(inv, logger)

	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := h.HandlerFor(name)(context.Background(), req)
	require.NoError(t, err, "failures are reported in the result, not as protocol errors")
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	return result
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestHandler_Success(t *testing.T) {
	inv := &fakeInvoker{result: map[string]any{"items": []any{map[string]any{"id": 1.0}}}}
	args := map[string]any{"status": "active"}

	result := callTool(t, inv, "get_devices", args)

	assert.False(t, result.IsError)
	assert.Equal(t, "get_devices", inv.gotName)
	assert.Equal(t, args, inv.gotInput)
	assert.Equal(t, "{\n  \"items\": [\n    {\n      \"id\": 1\n    }\n  ]\n}", textOf(t, result))
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantText string
	}{
		{
			name: "validation error",
			err: &domain.ValidationError{Issues: []domain.FieldIssue{
				{Path: "deviceId", Message: "Required"},
				{Path: "limit", Message: "maximum: 500 exceeds 200"},
			}},
			wantText: "Invalid input:\ndeviceId: Required\nlimit: maximum: 500 exceeds 200",
		},
		{
			name:     "api error",
			err:      domain.NewAPIError(http.StatusNotFound, nil),
			wantText: "Admina API error: Not found",
		},
		{
			name: "api error with details",
			err: fmt.Errorf("wrapped: %w", domain.NewAPIError(http.StatusUnprocessableEntity, map[string]any{
				"errorId":      "invalid_limit",
				"errorDetails": map[string]any{"limit": "too large"},
			})),
			wantText: "Admina API error: invalid_limit\nDetails: {\n  \"limit\": \"too large\"\n}",
		},
		{
			name:     "unknown tool",
			err:      fmt.Errorf("tool 'nope': %w", usecase.ErrToolNotFound),
			wantText: "Unknown tool: get_devices",
		},
		{
			name:     "missing configuration",
			err:      fmt.Errorf("%w: ADMINA_API_KEY is required", domain.ErrMissingConfig),
			wantText: "Error: admina configuration missing: ADMINA_API_KEY is required",
		},
		{
			name:     "other error",
			err:      errors.New("boom"),
			wantText: "Error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, &fakeInvoker{err: tt.err}, "get_devices", nil)
			assert.True(t, result.IsError)
			assert.Equal(t, tt.wantText, textOf(t, result))
		})
	}
}

func TestHandler_UnencodableResult(t *testing.T) {
	result := callTool(t, &fakeInvoker{result: map[string]any{"c": make(chan int)}}, "get_devices", nil)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "Error: failed to encode result")
}

func TestRenderResult_Null(t *testing.T) {
	text, err := mcptool.RenderResult(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", text)
}
