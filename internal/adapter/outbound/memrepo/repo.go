package memrepo

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/admina-mcp/admina-mcp/internal/usecase"
)

// InMemoryToolRepository keeps the tool catalog in memory, keyed by tool name.
type InMemoryToolRepository struct {
	mu     sync.RWMutex
	tools  map[string]usecase.ToolDefinition
	logger *slog.Logger
}

// NewInMemoryToolRepository creates a new in-memory repository.
func NewInMemoryToolRepository(logger *slog.Logger) *InMemoryToolRepository {
	return &InMemoryToolRepository{
		tools:  make(map[string]usecase.ToolDefinition),
		logger: logger.With("component", "mem_repo"),
	}
}

// Save stores the given definitions, replacing any with the same name.
func (r *InMemoryToolRepository) Save(ctx context.Context, defs []usecase.ToolDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for i, def := range defs {
		if def.Name() == "" {
			r.logger.Warn("Skipping tool with empty name during save", slog.Int("index", i))
			continue
		}
		r.tools[def.Name()] = def
		count++
	}
	r.logger.Info("Saved tools", slog.Int("count", count), slog.Int("total_tools", len(r.tools)))
	return nil
}

// List returns all stored definitions sorted by name.
func (r *InMemoryToolRepository) List(ctx context.Context) ([]usecase.ToolDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]usecase.ToolDefinition, 0, len(r.tools))
	for _, def := range r.tools {
		list = append(list, def)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	r.logger.Debug("Listed tools from repository", slog.Int("count", len(list)))
	return list, nil
}

// FindByName retrieves a definition by its name.
func (r *InMemoryToolRepository) FindByName(ctx context.Context, name string) (*usecase.ToolDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.tools[name]
	if !ok {
		r.logger.Warn("Tool definition not found", slog.String("tool_name", name))
		return nil, usecase.ErrToolNotFound
	}
	r.logger.Debug("Found tool definition", slog.String("tool_name", name))
	return &def, nil
}
