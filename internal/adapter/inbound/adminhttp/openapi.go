package adminhttp

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/admina-mcp/admina-mcp/internal/usecase"
)

// bearerScheme names the security scheme guarding every route but /healthz.
const bearerScheme = "bearerAuth"

// Document describes the admin routes, with one call operation per tool whose
// request body is the tool's input schema.
func Document(defs []usecase.ToolDefinition, version string) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "admina-mcp admin",
			Description: "Operational endpoints and direct tool invocation for the Admina MCP server.",
			Version:     version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				bearerScheme: &openapi3.SecuritySchemeRef{
					Value: openapi3.NewSecurityScheme().WithType("http").WithScheme("bearer").
						WithDescription("The value of ADMINA_ADMIN_TOKEN"),
				},
			},
		},
		Security: *openapi3.NewSecurityRequirements().With(openapi3.NewSecurityRequirement().Authenticate(bearerScheme)),
	}

	health := simpleOperation("health", "Liveness check")
	health.Security = openapi3.NewSecurityRequirements()
	doc.Paths.Set("/healthz", &openapi3.PathItem{Get: health})
	doc.Paths.Set("/tools", &openapi3.PathItem{Get: simpleOperation("listTools", "List the registered tools")})

	for _, def := range defs {
		schema, err := toolSchema(def)
		if err != nil {
			return nil, fmt.Errorf("tool %q: %w", def.Name(), err)
		}

		op := openapi3.NewOperation()
		op.OperationID = def.Name()
		op.Summary = def.Tool.Description
		op.Tags = []string{"tools"}
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(schema),
		}
		op.Responses = openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().
				WithDescription("Upstream response body").
				WithJSONSchema(openapi3.NewSchema())}),
			openapi3.WithStatus(400, errorResponseRef("Invalid input")),
			openapi3.WithStatus(401, errorResponseRef("Missing or invalid admin token")),
			openapi3.WithStatus(404, errorResponseRef("Unknown tool or upstream resource not found")),
			openapi3.WithStatus(503, errorResponseRef("Admina credentials are not configured")),
		)
		doc.Paths.Set("/tools/"+def.Name()+"/call", &openapi3.PathItem{Post: op})
	}
	return doc, nil
}

// toolSchema converts a tool input schema into an OpenAPI schema.
func toolSchema(def usecase.ToolDefinition) (*openapi3.Schema, error) {
	raw, err := json.Marshal(def.Tool.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input schema: %w", err)
	}
	schema := openapi3.NewSchema()
	if err := json.Unmarshal(raw, schema); err != nil {
		return nil, fmt.Errorf("failed to convert input schema: %w", err)
	}
	return schema, nil
}

func simpleOperation(id, summary string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("OK").
			WithJSONSchema(openapi3.NewObjectSchema())}),
	)
	return op
}

func errorResponseRef(description string) *openapi3.ResponseRef {
	schema := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("kind", openapi3.NewStringSchema()).
		WithProperty("errorId", openapi3.NewStringSchema())
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription(description).
		WithJSONSchema(schema)}
}
