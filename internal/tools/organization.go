package tools

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/admina-mcp/admina-mcp/internal/domain"
	"github.com/admina-mcp/admina-mcp/internal/usecase"
)

// OrganizationInfoTool is the tool used by the credentials check.
const OrganizationInfoTool = "get_organization_info"

func organizationTools() []usecase.ToolDefinition {
	return []usecase.ToolDefinition{
		define(mcp.NewTool(OrganizationInfoTool,
			mcp.WithDescription("Get information about the organization, such as its name, status and settings."),
			mcp.WithReadOnlyHintAnnotation(true),
		), func(noParams) domain.Request {
			return get("", nil)
		}),
	}
}
