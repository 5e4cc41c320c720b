package usecase

import (
	"context"
	"fmt"
	"log/slog"
)

// RegisterToolsUseCase stores the tool catalog and exposes every tool on the
// MCP server.
type RegisterToolsUseCase struct {
	catalog    []ToolDefinition
	repository ToolRepository
	server     MCPServerAdapter
	handlers   ToolHandlerFactory
	logger     *slog.Logger
}

// NewRegisterToolsUseCase creates a new RegisterToolsUseCase.
func NewRegisterToolsUseCase(
	catalog []ToolDefinition,
	repository ToolRepository,
	server MCPServerAdapter,
	handlers ToolHandlerFactory,
	logger *slog.Logger,
) *RegisterToolsUseCase {
	return &RegisterToolsUseCase{
		catalog:    catalog,
		repository: repository,
		server:     server,
		handlers:   handlers,
		logger:     logger.With("usecase", "RegisterTools"),
	}
}

// Execute saves the catalog to the repository, then registers each tool with
// its handler. Tools with an empty or duplicate name are rejected.
func (uc *RegisterToolsUseCase) Execute(ctx context.Context) error {
	uc.logger.Info("Registering tools", slog.Int("tool_count", len(uc.catalog)))

	seen := make(map[string]bool, len(uc.catalog))
	for i, def := range uc.catalog {
		name := def.Name()
		if name == "" {
			return fmt.Errorf("tool at index %d has no name", i)
		}
		if seen[name] {
			return fmt.Errorf("duplicate tool name %q", name)
		}
		seen[name] = true
		if def.Build == nil {
			return fmt.Errorf("tool %q has no request builder", name)
		}
	}

	if err := uc.repository.Save(ctx, uc.catalog); err != nil {
		uc.logger.Error("Failed to save tool catalog", slog.Any("error", err))
		return fmt.Errorf("failed to save tool catalog: %w", err)
	}

	for _, def := range uc.catalog {
		uc.server.AddTool(def.Tool, uc.handlers.HandlerFor(def.Name()))
		uc.logger.Debug("Registered tool", slog.String("tool_name", def.Name()))
	}

	uc.logger.Info("Successfully registered tools", slog.Int("tool_count", len(uc.catalog)))
	return nil
}
