package usecase

import (
	"context"
	"fmt"
	"log/slog"
)

// ListToolsUseCase provides the functionality to list available tools.
type ListToolsUseCase struct {
	repository ToolRepository
	logger     *slog.Logger
}

// NewListToolsUseCase creates a new ListToolsUseCase.
func NewListToolsUseCase(repository ToolRepository, logger *slog.Logger) *ListToolsUseCase {
	return &ListToolsUseCase{
		repository: repository,
		logger:     logger.With("usecase", "ListTools"),
	}
}

// Execute retrieves all tools currently stored in the repository, sorted by name.
func (uc *ListToolsUseCase) Execute(ctx context.Context) ([]ToolDefinition, error) {
	uc.logger.Debug("Listing tools")
	defs, err := uc.repository.List(ctx)
	if err != nil {
		uc.logger.Error("Failed to list tools from repository", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list tools from repository: %w", err)
	}
	uc.logger.Debug("Successfully listed tools", slog.Int("count", len(defs)))
	return defs, nil
}
