package tools

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/admina-mcp/admina-mcp/internal/domain"
	"github.com/admina-mcp/admina-mcp/internal/usecase"
)

var (
	accountRoles     = []string{"admin", "guest", "other"}
	accountStatuses  = []string{"active", "on_leave", "draft", "preactive", "retired", "untracked"}
	accountTypes     = []string{"employee", "guest", "system", "unknown"}
	alertTypes       = []string{"retired_account", "inactive_account", "on_leave_account", "unknown_account", "public_files"}
	alertStatuses    = []string{"muted", "unmuted"}
	languages        = []string{"ja", "en"}
	peopleSortFields = []string{"service", "twoFa", "lastActivity"}
)

func serviceTools() []usecase.ToolDefinition {
	return []usecase.ToolDefinition{
		define(getPeopleAccountsTool(), buildGetPeopleAccounts),
		define(getServicesTool(), buildGetServices),
		define(getServiceAccountsTool(), buildGetServiceAccounts),
		define(getProvisioningMetaTool(), buildGetProvisioningMeta),
		define(createServiceAccountTool(), buildCreateServiceAccount),
	}
}

// --- get_people_accounts ---

type getPeopleAccountsParams struct {
	PeopleID     int64    `json:"peopleId"`
	Limit        *int64   `json:"limit"`
	Cursor       *string  `json:"cursor"`
	Role         *string  `json:"role"`
	TwoFa        *bool    `json:"twoFa"`
	Keyword      *string  `json:"keyword"`
	ServiceIDs   []int64  `json:"serviceIds"`
	WorkspaceIDs []int64  `json:"workspaceIds"`
	SortBy       *string  `json:"sortBy"`
	SortOrder    *string  `json:"sortOrder"`
	Licenses     []string `json:"licenses"`
	Status       *string  `json:"status"`
}

func getPeopleAccountsTool() mcp.Tool {
	return mcp.NewTool("get_people_accounts",
		mcp.WithDescription("Return the service accounts of a person. The peopleId can be obtained from the get_identities tool."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("peopleId", mcp.Required(), Integer(), mcp.Description("The people ID")),
		mcp.WithNumber("limit", Integer(), mcp.Description("Maximum number of items to return per page")),
		mcp.WithString("cursor", mcp.Description("Cursor to paginate through results")),
		mcp.WithString("role", mcp.Enum(accountRoles...), mcp.Description("Filter by account role")),
		mcp.WithBoolean("twoFa", mcp.Description("Filter by two-factor authentication")),
		mcp.WithString("keyword", mcp.Description("Search by keyword")),
		mcp.WithArray("serviceIds", mcp.Items(integerItems()), mcp.Description("Filter by service IDs")),
		mcp.WithArray("workspaceIds", mcp.Items(integerItems()), mcp.Description("Filter by workspace IDs")),
		mcp.WithString("sortBy", mcp.Enum(peopleSortFields...), mcp.Description("Sort by field")),
		mcp.WithString("sortOrder", mcp.Enum(sortOrders...), mcp.Description("Sort order for the results")),
		mcp.WithArray("licenses", mcp.Items(stringItems()), mcp.Description("Filter by license")),
		mcp.WithString("status", mcp.Enum(accountStatuses...), mcp.Description("Filter by employee status")),
	)
}

func buildGetPeopleAccounts(p getPeopleAccountsParams) domain.Request {
	filters := domain.Filters{}.
		Add("limit", p.Limit).
		Add("cursor", p.Cursor).
		Add("role", p.Role).
		Add("twoFa", p.TwoFa).
		Add("keyword", p.Keyword).
		Add("serviceIds", p.ServiceIDs).
		Add("workspaceIds", p.WorkspaceIDs).
		Add("sortBy", p.SortBy).
		Add("sortOrder", p.SortOrder).
		Add("licenses", p.Licenses).
		Add("status", p.Status)
	return get("/people/"+pathID(p.PeopleID)+"/accounts", filters)
}

// --- get_services ---

type getServicesParams struct {
	Limit     *int64  `json:"limit"`
	Cursor    *string `json:"cursor"`
	Keyword   *string `json:"keyword"`
	SortBy    *string `json:"sortBy"`
	SortOrder *string `json:"sortOrder"`
}

func getServicesTool() mcp.Tool {
	return mcp.NewTool("get_services",
		mcp.WithDescription("Return a list of services, along with the preview of the accounts. Can be searched by the service name by keyword"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("limit", Integer(), mcp.Description("Maximum number of items to return per page")),
		mcp.WithString("cursor", mcp.Description("Cursor to paginate through results")),
		mcp.WithString("keyword", mcp.Description("Search by service name")),
		mcp.WithString("sortBy", mcp.Description("Sort by field")),
		mcp.WithString("sortOrder", mcp.Description("Sort order for the results")),
	)
}

func buildGetServices(p getServicesParams) domain.Request {
	filters := domain.Filters{}.
		Add("limit", p.Limit).
		Add("cursor", p.Cursor).
		Add("keyword", p.Keyword).
		Add("sortBy", p.SortBy).
		Add("sortOrder", p.SortOrder)
	return get("/services", filters)
}

// --- get_service_accounts ---

type getServiceAccountsParams struct {
	ServiceID        int64    `json:"serviceId"`
	Limit            *int64   `json:"limit"`
	Cursor           *string  `json:"cursor"`
	Keyword          *string  `json:"keyword"`
	SortBy           *string  `json:"sortBy"`
	SortOrder        *string  `json:"sortOrder"`
	WorkspaceIDs     []int64  `json:"workspaceIds"`
	TwoFa            *bool    `json:"twoFa"`
	Roles            []string `json:"roles"`
	ServiceRoles     []string `json:"serviceRoles"`
	Types            []string `json:"types"`
	EmployeeTypes    []string `json:"employeeTypes"`
	EmployeeStatuses []string `json:"employeeStatuses"`
	Statuses         []string `json:"statuses"`
	IncludeDeleted   *bool    `json:"includeDeleted"`
	ExpandIdentities *bool    `json:"expandIdentities"`
	OnlyInactive     *bool    `json:"onlyInactive"`
	Licenses         []string `json:"licenses"`
	AlertType        *string  `json:"alertType"`
	AlertStatus      *string  `json:"alertStatus"`
}

func getServiceAccountsTool() mcp.Tool {
	return mcp.NewTool("get_service_accounts",
		mcp.WithDescription("Return a list of accounts for a specific service. The serviceId can be obtained from the get_services tool. Can be searched by email/name of the account by keyword"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("serviceId", mcp.Required(), Integer(), mcp.Description("The service ID")),
		mcp.WithNumber("limit", Integer(), mcp.Description("Maximum number of items to return per page")),
		mcp.WithString("cursor", mcp.Description("Cursor to paginate through results")),
		mcp.WithString("keyword", mcp.Description("Search by email or name of the account")),
		mcp.WithString("sortBy", mcp.Description("Sort by field")),
		mcp.WithString("sortOrder", mcp.Description("Sort order for the results")),
		mcp.WithArray("workspaceIds", mcp.Items(integerItems()), mcp.Description("Filter by workspace IDs")),
		mcp.WithBoolean("twoFa", mcp.Description("Filter by two-factor authentication")),
		mcp.WithArray("roles", mcp.Items(enumItems(accountRoles...)), ExactlyOne(),
			mcp.Description("Filter by role. Must contain exactly one element")),
		mcp.WithArray("serviceRoles", mcp.Items(stringItems()), mcp.Description("Filter by service-specific roles")),
		mcp.WithArray("types", mcp.Items(enumItems(accountTypes...)), mcp.Description("Filter by account type")),
		mcp.WithArray("employeeTypes", mcp.Items(enumItems(employeeTypes...)), ExactlyOne(),
			mcp.Description("Filter by employee type. Must contain exactly one element")),
		mcp.WithArray("employeeStatuses", mcp.Items(enumItems(accountStatuses...)), ExactlyOne(),
			mcp.Description("Filter by employee status. Must contain exactly one element")),
		mcp.WithArray("statuses", mcp.Items(enumItems(accountStatuses...)), ExactlyOne(),
			mcp.Description("Filter by account status. Must contain exactly one element")),
		mcp.WithBoolean("includeDeleted", mcp.Description("Include deleted accounts")),
		mcp.WithBoolean("expandIdentities", mcp.Description("Include the linked identities")),
		mcp.WithBoolean("onlyInactive", mcp.Description("Only return inactive accounts")),
		mcp.WithArray("licenses", mcp.Items(stringItems()), mcp.Description("Filter by license")),
		mcp.WithString("alertType", mcp.Enum(alertTypes...), mcp.Description("Filter by alert type")),
		mcp.WithString("alertStatus", mcp.Enum(alertStatuses...), mcp.Description("Filter by alert status")),
	)
}

func buildGetServiceAccounts(p getServiceAccountsParams) domain.Request {
	filters := domain.Filters{}.
		Add("limit", p.Limit).
		Add("cursor", p.Cursor).
		Add("keyword", p.Keyword).
		Add("sortBy", p.SortBy).
		Add("sortOrder", p.SortOrder).
		Add("workspaceIds", p.WorkspaceIDs).
		Add("twoFa", p.TwoFa).
		Add("roles", p.Roles).
		Add("serviceRoles", p.ServiceRoles).
		Add("types", p.Types).
		Add("employeeTypes", p.EmployeeTypes).
		Add("employeeStatuses", p.EmployeeStatuses).
		Add("statuses", p.Statuses).
		Add("includeDeleted", p.IncludeDeleted).
		Add("expandIdentities", p.ExpandIdentities).
		Add("onlyInactive", p.OnlyInactive).
		Add("licenses", p.Licenses).
		Add("alertType", p.AlertType).
		Add("alertStatus", p.AlertStatus)
	return get("/services/"+pathID(p.ServiceID)+"/accounts", filters)
}

// --- provisioning ---

type getProvisioningMetaParams struct {
	WorkspaceID int64  `json:"workspaceId"`
	Lang        string `json:"lang"`
}

func getProvisioningMetaTool() mcp.Tool {
	return mcp.NewTool("get_provisioning_meta",
		mcp.WithDescription("Step 1 of provisioning: Get provisioning metadata for a workspace. Returns required fields and constraints for creating service accounts."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("workspaceId", mcp.Required(), Integer(), mcp.Description("Workspace ID to get provisioning metadata for")),
		mcp.WithString("lang", mcp.Enum(languages...), mcp.DefaultString("ja"), mcp.Description("Language for field descriptions")),
	)
}

func buildGetProvisioningMeta(p getProvisioningMetaParams) domain.Request {
	filters := domain.Filters{}.Add("lang", orDefault(p.Lang, "ja"))
	return get("/workspaces/"+pathID(p.WorkspaceID)+"/provisioning-meta", filters)
}

type createServiceAccountParams struct {
	WorkspaceID int64  `json:"workspaceId"`
	Lang        string `json:"lang"`

	createServiceAccountBody
}

type createServiceAccountBody struct {
	Data          map[string]any `json:"data"`
	WorkflowRunID *string        `json:"workflowRunId,omitempty"`
}

// Check validates the workflow run ID.
func (p createServiceAccountParams) Check() []domain.FieldIssue {
	if p.WorkflowRunID != nil {
		if err := uuid.Validate(*p.WorkflowRunID); err != nil {
			return []domain.FieldIssue{{Path: "workflowRunId", Message: "Invalid uuid"}}
		}
	}
	return nil
}

func createServiceAccountTool() mcp.Tool {
	return mcp.NewTool("create_service_account",
		mcp.WithDescription("Step 2 of provisioning: Create a service account in a workspace. First call get_provisioning_meta to get required fields, then use this tool with the constructed data object based on the metadata response."),
		mcp.WithNumber("workspaceId", mcp.Required(), Integer(), mcp.Description("Workspace ID to create account in")),
		mcp.WithObject("data", mcp.Required(),
			mcp.Description("Account data based on provisioning metadata from get_provisioning_meta"),
			mcp.AdditionalProperties(map[string]any{
				"anyOf": []any{
					map[string]any{"type": "string"},
					map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
			})),
		mcp.WithString("workflowRunId", Format("uuid"), mcp.Description("Optional workflow run ID for tracking")),
		mcp.WithString("lang", mcp.Enum(languages...), mcp.DefaultString("ja"), mcp.Description("Language for responses")),
	)
}

func buildCreateServiceAccount(p createServiceAccountParams) domain.Request {
	filters := domain.Filters{}.Add("lang", orDefault(p.Lang, "ja"))
	return withBody(http.MethodPost, "/workspaces/"+pathID(p.WorkspaceID)+"/accounts", filters, p.createServiceAccountBody)
}
