// Package mcptool adapts tool invocations to mcp-go handlers and renders
// results and errors as text content.
package mcptool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpGoServer "github.com/mark3labs/mcp-go/server"

	"github.com/admina-mcp/admina-mcp/internal/domain"
	"github.com/admina-mcp/admina-mcp/internal/usecase"
)

// Invoker executes one tool call.
type Invoker interface {
	Execute(ctx context.Context, toolName string, args map[string]any) (any, error)
}

// Handler builds mcp-go tool handlers backed by an Invoker.
type Handler struct {
	invoker Invoker
	logger  *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(invoker Invoker, logger *slog.Logger) *Handler {
	return &Handler{
		invoker: invoker,
		logger:  logger.With("component", "mcptool_handler"),
	}
}

// HandlerFor implements usecase.ToolHandlerFactory. Every failure is reported
// as an error result; the returned Go error is always nil.
func (h *Handler) HandlerFor(toolName string) mcpGoServer.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := h.invoker.Execute(ctx, toolName, request.GetArguments())
		if err != nil {
			h.logger.Debug("Tool call failed", slog.String("tool_name", toolName), slog.Any("error", err))
			return mcp.NewToolResultError(RenderError(toolName, err)), nil
		}
		text, err := RenderResult(result)
		if err != nil {
			h.logger.Error("Failed to render tool result", slog.String("tool_name", toolName), slog.Any("error", err))
			return mcp.NewToolResultError("Error: " + err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

// RenderResult pretty-prints the upstream JSON with a two-space indent.
func RenderResult(result any) (string, error) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(out), nil
}

// RenderError produces the user-facing text for a failed tool call.
func RenderError(toolName string, err error) string {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return domain.FormatValidationError(vErr)
	}
	if apiErr, ok := domain.AsAPIError(err); ok {
		return domain.FormatAPIError(apiErr)
	}
	if errors.Is(err, usecase.ErrToolNotFound) {
		return "Unknown tool: " + toolName
	}
	return "Error: " + err.Error()
}
