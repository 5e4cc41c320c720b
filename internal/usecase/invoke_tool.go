package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/admina-mcp/admina-mcp/internal/domain"
	"github.com/admina-mcp/admina-mcp/internal/validation"
)

// InvokeToolUseCase validates tool arguments, builds the upstream request and
// calls the Admina API.
type InvokeToolUseCase struct {
	repository ToolRepository
	caller     APICaller
	encodings  domain.ArrayEncodings
	logger     *slog.Logger

	mu         sync.Mutex
	validators map[string]*validation.Validator
}

// NewInvokeToolUseCase creates a new InvokeToolUseCase.
func NewInvokeToolUseCase(repo ToolRepository, caller APICaller, encodings domain.ArrayEncodings, logger *slog.Logger) *InvokeToolUseCase {
	return &InvokeToolUseCase{
		repository: repo,
		caller:     caller,
		encodings:  encodings,
		logger:     logger.With("usecase", "InvokeTool"),
		validators: make(map[string]*validation.Validator),
	}
}

// Execute runs one tool invocation. Validation failures are returned as
// *domain.ValidationError before any request is made; upstream failures as
// *domain.APIError.
func (uc *InvokeToolUseCase) Execute(ctx context.Context, toolName string, args map[string]any) (any, error) {
	log := uc.logger.With(slog.String("tool_name", toolName))
	log.Info("Executing tool invocation")

	// 1. Find tool definition
	def, err := uc.repository.FindByName(ctx, toolName)
	if err != nil {
		log.Warn("Tool definition not found", slog.Any("error", err))
		return nil, fmt.Errorf("tool '%s': %w", toolName, err)
	}

	// 2. Validate arguments against the input schema
	validator, err := uc.validator(def)
	if err != nil {
		log.Error("Invalid tool input schema", slog.Any("error", err))
		return nil, fmt.Errorf("tool '%s' has an invalid input schema: %w", toolName, err)
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := validator.Validate(args); err != nil {
		log.Warn("Invalid input parameters", slog.Any("error", err))
		return nil, err
	}

	// 3. Build the request descriptor
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments: %w", err)
	}
	req, err := def.Build(raw)
	if err != nil {
		log.Warn("Failed to build request", slog.Any("error", err))
		return nil, err
	}

	// 4. Serialize filters and call upstream
	query := req.Filters.Query(uc.encodings.Resolver(toolName, req.Filters))
	log.Debug("Invoking upstream API",
		slog.String("method", req.Method),
		slog.String("endpoint", req.Endpoint),
		slog.Int("query_params", len(query)))

	result, err := uc.caller.Call(ctx, req.Endpoint, query, req.Method, req.Body)
	if err != nil {
		log.Error("Upstream call failed", slog.Any("error", err))
		return nil, err
	}

	log.Info("Tool invocation successful")
	return result, nil
}

func (uc *InvokeToolUseCase) validator(def *ToolDefinition) (*validation.Validator, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if v, ok := uc.validators[def.Name()]; ok {
		return v, nil
	}
	v, err := validation.NewValidator(def.Tool.InputSchema)
	if err != nil {
		return nil, err
	}
	uc.validators[def.Name()] = v
	return v, nil
}
