// Package adminhttp serves the operational endpoints that run next to the MCP
// SSE transport.
package adminhttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/admina-mcp/admina-mcp/internal/domain"
	"github.com/admina-mcp/admina-mcp/internal/usecase"
)

// maxBodySize bounds a /tools/{name}/call request body.
const maxBodySize = 1 << 20

// Invoker executes one tool call.
type Invoker interface {
	Execute(ctx context.Context, toolName string, args map[string]any) (any, error)
}

// Handlers struct holds dependencies for the HTTP handlers.
type Handlers struct {
	listTools *usecase.ListToolsUseCase
	invoker   Invoker
	version   string
	token     string
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers struct. Every route except /healthz
// requires "Authorization: Bearer <token>".
func NewHandlers(listTools *usecase.ListToolsUseCase, invoker Invoker, version, token string, logger *slog.Logger) *Handlers {
	return &Handlers{
		listTools: listTools,
		invoker:   invoker,
		version:   version,
		token:     token,
		logger:    logger.With("component", "adminhttp_handler"),
	}
}

// Router returns the admin routes.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(requireBearer(h.token))
		r.Get("/tools", h.handleListTools)
		r.Post("/tools/{name}/call", h.handleCallTool)
		r.Get("/openapi.json", h.handleOpenAPI)
	})
	return r
}

// ToolSummary is one entry of the /tools response.
type ToolSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToolsResponse is the /tools response body.
type ToolsResponse struct {
	Tools []ToolSummary `json:"tools"`
}

// ErrorResponse is the body of every failed admin request.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Kind    domain.ErrorKind    `json:"kind,omitempty"`
	ErrorID string              `json:"errorId,omitempty"`
	Details any                 `json:"details,omitempty"`
	Issues  []domain.FieldIssue `json:"issues,omitempty"`
}

func (h *Handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListTools implements GET /tools
func (h *Handlers) handleListTools(w http.ResponseWriter, r *http.Request) {
	defs, err := h.listTools.Execute(r.Context())
	if err != nil {
		h.logger.Error("Failed to list tools", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := ToolsResponse{Tools: make([]ToolSummary, 0, len(defs))}
	for _, def := range defs {
		resp.Tools = append(resp.Tools, ToolSummary{Name: def.Name(), Description: def.Tool.Description})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCallTool implements POST /tools/{name}/call. The body is the tool's
// argument object; an empty body means no arguments.
func (h *Handlers) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	log := h.logger.With(slog.String("tool", name), slog.String("request_id", middleware.GetReqID(r.Context())))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}

	args := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "request body must be a JSON object"})
			return
		}
	}

	result, err := h.invoker.Execute(r.Context(), name, args)
	if err != nil {
		status, resp := errorResponse(err)
		if status >= http.StatusInternalServerError {
			log.Error("Tool call failed", slog.Any("error", err))
		} else {
			log.Debug("Tool call rejected", slog.Any("error", err))
		}
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleOpenAPI implements GET /openapi.json
func (h *Handlers) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	defs, err := h.listTools.Execute(r.Context())
	if err != nil {
		h.logger.Error("Failed to list tools", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	doc, err := Document(defs, h.version)
	if err != nil {
		h.logger.Error("Failed to build OpenAPI document", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// errorResponse maps an invocation failure to an HTTP status and body.
func errorResponse(err error) (int, ErrorResponse) {
	var validationErr *domain.ValidationError
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, ErrorResponse{Error: "invalid input", Issues: validationErr.Issues}
	case errors.As(err, &apiErr):
		status := apiErr.HTTPStatus
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return status, ErrorResponse{
			Error:   apiErr.Message,
			Kind:    apiErr.Kind,
			ErrorID: apiErr.ErrorID,
			Details: apiErr.ErrorDetails,
		}
	case errors.Is(err, usecase.ErrToolNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrMissingConfig):
		return http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: err.Error()}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
