package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	mcpGoServer "github.com/mark3labs/mcp-go/server"

	"github.com/admina-mcp/admina-mcp/internal/domain"
)

// Standard errors returned by use cases and adapters.
var (
	ErrToolNotFound = errors.New("tool not found")
)

// --- Upstream API ---

// APICaller is the single point of outbound communication with the Admina API.
// Failures are always returned as *domain.APIError, or domain.ErrMissingConfig
// when the credentials are not configured.
type APICaller interface {
	Call(ctx context.Context, endpoint string, query domain.Query, method string, body any) (any, error)
}

// --- Tool catalog ---

// BuildFunc decodes validated tool arguments and produces the upstream request.
// It never performs I/O.
type BuildFunc func(args json.RawMessage) (domain.Request, error)

// ToolDefinition pairs an MCP tool (name, description, input schema) with its
// request builder.
type ToolDefinition struct {
	Tool  mcp.Tool
	Build BuildFunc
}

// Name returns the tool name.
func (d ToolDefinition) Name() string {
	return d.Tool.Name
}

// ToolRepository stores the tool catalog.
type ToolRepository interface {
	// Save stores the definitions, replacing any with the same name.
	Save(ctx context.Context, defs []ToolDefinition) error

	// List retrieves all stored definitions sorted by name.
	List(ctx context.Context) ([]ToolDefinition, error)

	// FindByName retrieves a definition by its unique tool name.
	FindByName(ctx context.Context, name string) (*ToolDefinition, error)
}

// --- MCP Server Abstraction ---

// MCPServerAdapter defines what the registration use case needs from the
// underlying MCP server (mcp-go).
type MCPServerAdapter interface {
	AddTool(tool mcp.Tool, handlerFunc mcpGoServer.ToolHandlerFunc)
}

// ToolHandlerFactory creates the MCP handler that serves one tool.
type ToolHandlerFactory interface {
	HandlerFor(toolName string) mcpGoServer.ToolHandlerFunc
}
