package tools

import (
	"net/http"
	"net/mail"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/admina-mcp/admina-mcp/internal/domain"
	"github.com/admina-mcp/admina-mcp/internal/usecase"
)

var (
	employeeStatuses = []string{"active", "on_leave", "draft", "preactive", "retired", "untracked", "archived"}
	employeeTypes    = []string{
		"board_member", "full_time_employee", "fixed_time_employee", "temporary_employee",
		"part_time_employee", "secondment_employee", "contract_employee", "collaborator",
		"group_address", "shared_address", "test_address", "other", "unknown", "unregistered",
	}
	managementTypes = []string{"managed", "external", "system", "unknown", "unregistered"}
)

func identityTools() []usecase.ToolDefinition {
	return []usecase.ToolDefinition{
		define(getIdentitiesTool(), buildGetIdentities),
		define(getIdentityTool(), buildGetIdentity),
		define(createIdentityTool(), buildCreateIdentity),
		define(updateIdentityTool(), buildUpdateIdentity),
		define(mcp.NewTool("delete_identity",
			mcp.WithDescription("Delete an identity."),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithString("identityId", mcp.Required(), mcp.Description("The ID of the identity to delete")),
		), func(p identityRef) domain.Request {
			return deleteRequest("/identity/" + pathString(p.IdentityID))
		}),
		define(mergeIdentitiesTool(), buildMergeIdentities),
		define(mcp.NewTool("get_identities_stats",
			mcp.WithDescription("Return identity counts by status and type."),
			mcp.WithReadOnlyHintAnnotation(true),
		), func(noParams) domain.Request {
			return get("/identity/stats", nil)
		}),
		define(checkIdentityManagementTypeTool(), buildCheckIdentityManagementType),
		define(mcp.NewTool("get_identity_field_configuration",
			mcp.WithDescription("Return the identity field configuration of the organization, or the effective configuration for one identity."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithString("identityId", mcp.Description("Optional identity ID to get the effective configuration for a specific identity")),
		), func(p optionalIdentityRef) domain.Request {
			return get("/identity/configuration/configuration", domain.Filters{}.Add("identityId", p.IdentityID))
		}),
		define(mcp.NewTool("get_identity_config",
			mcp.WithDescription("Return the field configuration that applies to a specific identity."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithString("identityId", mcp.Required(), mcp.Description("The ID of the identity")),
		), func(p identityRef) domain.Request {
			return get("/identity/configuration/configuration/"+pathString(p.IdentityID), nil)
		}),
	}
}

type identityRef struct {
	IdentityID string `json:"identityId"`
}

type optionalIdentityRef struct {
	IdentityID *string `json:"identityId"`
}

// --- get_identities ---

type getIdentitiesParams struct {
	Limit       *int64   `json:"limit"`
	Cursor      *string  `json:"cursor"`
	Types       []string `json:"types"`
	Statuses    []string `json:"statuses"`
	Departments []string `json:"departments"`
	Keyword     *string  `json:"keyword"`
}

func getIdentitiesTool() mcp.Tool {
	return mcp.NewTool("get_identities",
		mcp.WithDescription("Return a list of identities. Can be filtered by the status, department and type. Can also search by the email or name by keyword"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("limit", Integer(), mcp.Description("Maximum number of items to return per page")),
		mcp.WithString("cursor", mcp.Description("Cursor to paginate through results")),
		mcp.WithArray("types", mcp.Items(stringItems()), mcp.Description("Filter by identity type")),
		mcp.WithArray("statuses", mcp.Items(enumItems(employeeStatuses...)), ExactlyOne(),
			mcp.Description("Filter by status. Must contain exactly one element")),
		mcp.WithArray("departments", mcp.Items(stringItems()), mcp.Description("Filter by department")),
		mcp.WithString("keyword", mcp.Description("Search by email or name")),
	)
}

func buildGetIdentities(p getIdentitiesParams) domain.Request {
	filters := domain.Filters{}.
		Add("limit", p.Limit).
		Add("cursor", p.Cursor).
		Add("types", p.Types).
		Add("statuses", p.Statuses).
		Add("departments", p.Departments).
		Add("keyword", p.Keyword)
	return get("/identity", filters)
}

// --- get_identity ---

type getIdentityParams struct {
	IdentityID string   `json:"identityId"`
	Expands    []string `json:"expands"`
}

func getIdentityTool() mcp.Tool {
	return mcp.NewTool("get_identity",
		mcp.WithDescription("Return a single identity."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("identityId", mcp.Required(), mcp.Description("The ID of the identity to retrieve")),
		mcp.WithArray("expands", mcp.Items(enumItems("customFieldsMetadata")),
			mcp.Description("Expand other datasets when fetching the identity (e.g. customFieldsMetadata)")),
	)
}

func buildGetIdentity(p getIdentityParams) domain.Request {
	return get("/identity/"+pathString(p.IdentityID), domain.Filters{}.Add("expands", p.Expands))
}

// --- create_identity / update_identity ---

type department struct {
	Name Nullable[string] `json:"name,omitzero"`
}

type lifecycle struct {
	ContractStartAt   Nullable[string] `json:"contractStartAt,omitzero"`
	ContractEndAt     Nullable[string] `json:"contractEndAt,omitzero"`
	SuspensionStartAt Nullable[string] `json:"suspensionStartAt,omitzero"`
	SuspensionEndAt   Nullable[string] `json:"suspensionEndAt,omitzero"`
}

type manager struct {
	ID Nullable[string] `json:"id,omitzero"`
}

// identityProfile holds the optional identity attributes shared by create and update.
type identityProfile struct {
	ManagementType  Nullable[string]     `json:"managementType,omitzero"`
	DisplayName     Nullable[string]     `json:"displayName,omitzero"`
	PrimaryEmail    Nullable[string]     `json:"primaryEmail,omitzero"`
	SecondaryEmails Nullable[[]string]   `json:"secondaryEmails,omitzero"`
	CompanyName     Nullable[string]     `json:"companyName,omitzero"`
	WorkLocation    Nullable[string]     `json:"workLocation,omitzero"`
	Department      Nullable[department] `json:"department,omitzero"`
	JobTitle        Nullable[string]     `json:"jobTitle,omitzero"`
	EmployeeID      Nullable[string]     `json:"employeeId,omitzero"`
	Lifecycle       *lifecycle           `json:"lifecycle,omitempty"`
	Note            Nullable[string]     `json:"note,omitzero"`
	CustomFields    map[string]any       `json:"customFields,omitzero"`
	Manager         *manager             `json:"manager,omitempty"`
}

func identityProfileOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("managementType", mcp.Enum(managementTypes...), AllowNull(), mcp.Description("Management type of the employee")),
		mcp.WithString("displayName", AllowNull(), mcp.Description("Display name of the employee")),
		mcp.WithString("primaryEmail", AllowNull(), mcp.Description("Primary email of the employee")),
		mcp.WithArray("secondaryEmails", mcp.Items(stringItems()), AllowNull(), mcp.Description("Secondary emails of the employee")),
		mcp.WithString("companyName", AllowNull(), mcp.Description("Company name of the employee")),
		mcp.WithString("workLocation", AllowNull(), mcp.Description("Work location of the employee")),
		mcp.WithObject("department", AllowNull(), mcp.Description("Department of the employee"),
			mcp.Properties(map[string]any{"name": nullableString("Department name")})),
		mcp.WithString("jobTitle", AllowNull(), mcp.Description("Job title of the employee")),
		mcp.WithString("employeeId", AllowNull(), mcp.Description("Employee ID of the employee")),
		mcp.WithObject("lifecycle", mcp.Description("Lifecycle of the employee"),
			mcp.Properties(map[string]any{
				"contractStartAt":   nullableString("Contract start date (YYYY-MM-DD)"),
				"contractEndAt":     nullableString("Contract end date (YYYY-MM-DD)"),
				"suspensionStartAt": nullableString("Suspension start date (YYYY-MM-DD)"),
				"suspensionEndAt":   nullableString("Suspension end date (YYYY-MM-DD)"),
			})),
		mcp.WithString("note", AllowNull(), mcp.Description("Notes of the employee")),
		mcp.WithObject("customFields", mcp.Description("Custom fields of the employee, keyed by attribute code")),
		mcp.WithObject("manager", mcp.Description("Manager of the employee"),
			mcp.Properties(map[string]any{"id": nullableString("Manager identity ID")})),
	}
}

type createIdentityParams struct {
	EmployeeStatus string `json:"employeeStatus"`
	EmployeeType   string `json:"employeeType"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`

	identityProfile
}

func createIdentityTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Create a new identity (employee record)."),
		mcp.WithString("employeeStatus", mcp.Required(), mcp.Enum(employeeStatuses...), mcp.Description("Extended status of the employee")),
		mcp.WithString("employeeType", mcp.Required(), mcp.Enum(employeeTypes...), mcp.Description("Type of the employee")),
		mcp.WithString("firstName", mcp.Required(), mcp.Description("First name of the employee")),
		mcp.WithString("lastName", mcp.Required(), mcp.Description("Last name of the employee")),
	}
	return mcp.NewTool("create_identity", append(opts, identityProfileOptions()...)...)
}

func buildCreateIdentity(p createIdentityParams) domain.Request {
	return withBody(http.MethodPost, "/identity", nil, p)
}

type updateIdentityParams struct {
	IdentityID string `json:"identityId"`

	updateIdentityBody
}

type updateIdentityBody struct {
	EmployeeStatus *string `json:"employeeStatus,omitempty"`
	EmployeeType   *string `json:"employeeType,omitempty"`
	FirstName      *string `json:"firstName,omitempty"`
	LastName       *string `json:"lastName,omitempty"`

	identityProfile
}

func updateIdentityTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Update an identity. Only the provided fields change; nullable fields can be cleared with null."),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("identityId", mcp.Required(), mcp.Description("The ID of the identity to update")),
		mcp.WithString("employeeStatus", mcp.Enum(employeeStatuses...), mcp.Description("Extended status of the employee")),
		mcp.WithString("employeeType", mcp.Enum(employeeTypes...), mcp.Description("Type of the employee")),
		mcp.WithString("firstName", mcp.Description("First name of the employee")),
		mcp.WithString("lastName", mcp.Description("Last name of the employee")),
	}
	return mcp.NewTool("update_identity", append(opts, identityProfileOptions()...)...)
}

func buildUpdateIdentity(p updateIdentityParams) domain.Request {
	return withBody(http.MethodPut, "/identity/"+pathString(p.IdentityID), nil, p.updateIdentityBody)
}

// --- merge_identities ---

type peopleMerge struct {
	FromPeopleID int64 `json:"fromPeopleId"`
	ToPeopleID   int64 `json:"toPeopleId"`
}

type identityMerge struct {
	FromIdentityID string `json:"fromIdentityId"`
	ToIdentityID   string `json:"toIdentityId"`
}

type mergeIdentitiesParams struct {
	Merges         []peopleMerge   `json:"merges,omitzero"`
	IdentityMerges []identityMerge `json:"identityMerges,omitzero"`
}

// Check requires at least one merge operation.
func (p mergeIdentitiesParams) Check() []domain.FieldIssue {
	if p.Merges == nil && p.IdentityMerges == nil {
		return []domain.FieldIssue{{Message: "either merges or identityMerges must be provided"}}
	}
	return nil
}

func mergeIdentitiesTool() mcp.Tool {
	positive := map[string]any{"type": "integer", "minimum": 1}
	return mcp.NewTool("merge_identities",
		mcp.WithDescription("Merge people or identities into one another. Provide merges, identityMerges, or both."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithArray("merges", MinItems(1), MaxItems(50),
			mcp.Description("Array of people merge operations (1-50 items)"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"fromPeopleId": withDescription(positive, "Source people ID to merge from"),
					"toPeopleId":   withDescription(positive, "Target people ID to merge into"),
				},
				"required": []string{"fromPeopleId", "toPeopleId"},
			})),
		mcp.WithArray("identityMerges", MinItems(1), MaxItems(50),
			mcp.Description("Array of identity merge operations (1-50 items)"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"fromIdentityId": stringSchema("Source identity ID to merge from"),
					"toIdentityId":   stringSchema("Target identity ID to merge into"),
				},
				"required": []string{"fromIdentityId", "toIdentityId"},
			})),
	)
}

func buildMergeIdentities(p mergeIdentitiesParams) domain.Request {
	return withBody(http.MethodPost, "/identity/merge", nil, p)
}

// --- check_identity_management_type ---

type checkIdentityManagementTypeParams struct {
	Email      *string `json:"email"`
	IdentityID *string `json:"identityId"`
}

// Check validates the email address.
func (p checkIdentityManagementTypeParams) Check() []domain.FieldIssue {
	if p.Email != nil {
		if _, err := mail.ParseAddress(*p.Email); err != nil {
			return []domain.FieldIssue{{Path: "email", Message: "Invalid email"}}
		}
	}
	return nil
}

func checkIdentityManagementTypeTool() mcp.Tool {
	return mcp.NewTool("check_identity_management_type",
		mcp.WithDescription("Check which management type a new identity with the given email, or an existing identity, would get."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("email", Format("email"), mcp.Description("Email of the new Identity to check")),
		mcp.WithString("identityId", mcp.Description("Identity Id to be checked")),
	)
}

func buildCheckIdentityManagementType(p checkIdentityManagementTypeParams) domain.Request {
	filters := domain.Filters{}.
		Add("email", p.Email).
		Add("identityId", p.IdentityID)
	return get("/identity/check", filters)
}

func withDescription(schema map[string]any, description string) map[string]any {
	out := make(map[string]any, len(schema)+1)
	for k, v := range schema {
		out[k] = v
	}
	out["description"] = description
	return out
}
