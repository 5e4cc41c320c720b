// Package tools defines the Admina tool catalog: each tool's input schema and
// the pure function that turns validated arguments into an upstream request.
package tools

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/admina-mcp/admina-mcp/internal/domain"
	"github.com/admina-mcp/admina-mcp/internal/usecase"
	"github.com/admina-mcp/admina-mcp/internal/validation"
)

// Catalog returns every tool definition.
func Catalog() []usecase.ToolDefinition {
	var defs []usecase.ToolDefinition
	defs = append(defs, organizationTools()...)
	defs = append(defs, deviceTools()...)
	defs = append(defs, fieldTools()...)
	defs = append(defs, identityTools()...)
	defs = append(defs, serviceTools()...)
	return defs
}

// define binds a tool to a typed params struct P and its request builder.
func define[P any](tool mcp.Tool, build func(P) domain.Request) usecase.ToolDefinition {
	return usecase.ToolDefinition{
		Tool: tool,
		Build: func(args json.RawMessage) (domain.Request, error) {
			var params P
			if err := validation.Decode(args, &params); err != nil {
				return domain.Request{}, err
			}
			return build(params), nil
		},
	}
}

type noParams struct{}

func pathID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func pathString(s string) string {
	return url.PathEscape(s)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func get(endpoint string, filters domain.Filters) domain.Request {
	return domain.Request{Method: http.MethodGet, Endpoint: endpoint, Filters: filters}
}

func deleteRequest(endpoint string) domain.Request {
	return domain.Request{Method: http.MethodDelete, Endpoint: endpoint}
}

func withBody(method, endpoint string, filters domain.Filters, body any) domain.Request {
	return domain.Request{Method: method, Endpoint: endpoint, Filters: filters, Body: body}
}
