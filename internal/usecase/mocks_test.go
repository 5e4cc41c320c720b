package usecase_test

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpGoServer "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/mock"

	"github.com/admina-mcp/admina-mcp/internal/domain"
	"github.com/admina-mcp/admina-mcp/internal/usecase"
)

// MockToolRepository is a mock implementation of the ToolRepository interface.
type MockToolRepository struct {
	mock.Mock
}

func (m *MockToolRepository) Save(ctx context.Context, defs []usecase.ToolDefinition) error {
	args := m.Called(ctx, defs)
	return args.Error(0)
}

func (m *MockToolRepository) List(ctx context.Context) ([]usecase.ToolDefinition, error) {
	args := m.Called(ctx)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.([]usecase.ToolDefinition), args.Error(1)
}

func (m *MockToolRepository) FindByName(ctx context.Context, name string) (*usecase.ToolDefinition, error) {
	args := m.Called(ctx, name)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.(*usecase.ToolDefinition), args.Error(1)
}

// MockAPICaller is a mock implementation of the APICaller interface.
type MockAPICaller struct {
	mock.Mock
}

func (m *MockAPICaller) Call(ctx context.Context, endpoint string, query domain.Query, method string, body any) (any, error) {
	args := m.Called(ctx, endpoint, query, method, body)
	return args.Get(0), args.Error(1)
}

// MockMCPServer is a mock implementation of the MCPServerAdapter interface.
type MockMCPServer struct {
	mock.Mock
}

func (m *MockMCPServer) AddTool(tool mcp.Tool, handler mcpGoServer.ToolHandlerFunc) {
	m.Called(tool, handler)
}

// stubHandlers returns a no-op handler for every tool and records the names.
type stubHandlers struct {
	names []string
}

func (s *stubHandlers) HandlerFor(toolName string) mcpGoServer.ToolHandlerFunc {
	s.names = append(s.names, toolName)
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(toolName), nil
	}
}
