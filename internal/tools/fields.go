package tools

import (
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/admina-mcp/admina-mcp/internal/domain"
	"github.com/admina-mcp/admina-mcp/internal/usecase"
)

var customFieldKinds = []string{"text", "number", "date", "dropdown"}

// DropdownValue is one option of a dropdown custom field.
type DropdownValue struct {
	ID    string  `json:"id"`
	Value string  `json:"value"`
	Group *string `json:"group,omitempty"`
}

// DropdownConfiguration lists the options of a dropdown custom field.
type DropdownConfiguration struct {
	Values []DropdownValue `json:"values"`
}

func fieldTools() []usecase.ToolDefinition {
	return []usecase.ToolDefinition{
		define(mcp.NewTool("get_device_custom_fields",
			mcp.WithDescription("Return the custom fields defined for devices."),
			mcp.WithReadOnlyHintAnnotation(true),
		), func(noParams) domain.Request {
			return get("/fields/custom", nil)
		}),
		define(createDeviceCustomFieldTool(), buildCreateDeviceCustomField),
		define(updateDeviceCustomFieldTool(), buildUpdateDeviceCustomField),
		define(mcp.NewTool("delete_device_custom_field",
			mcp.WithDescription("Delete a device custom field."),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithNumber("customFieldId", mcp.Required(), Integer(),
				mcp.Description("The ID of the custom field to delete. Make sure user wants to delete a device custom field and not an identity custom field")),
		), func(p customFieldRef) domain.Request {
			return deleteRequest("/fields/custom/" + pathID(p.CustomFieldID))
		}),

		define(mcp.NewTool("get_identity_custom_fields",
			mcp.WithDescription("Return the custom fields defined for identities."),
			mcp.WithReadOnlyHintAnnotation(true),
		), func(noParams) domain.Request {
			return get("/identity/fields/custom", nil)
		}),
		define(createIdentityCustomFieldTool(), buildCreateIdentityCustomField),
		define(updateIdentityCustomFieldTool(), buildUpdateIdentityCustomField),
		define(mcp.NewTool("delete_identity_custom_field",
			mcp.WithDescription("Delete an identity custom field."),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithNumber("customFieldId", mcp.Required(), Integer(),
				mcp.Description("The ID of the custom field to delete. Make sure user wants to delete an identity custom field and not a device custom field")),
		), func(p customFieldRef) domain.Request {
			return deleteRequest("/identity/fields/custom/" + pathID(p.CustomFieldID))
		}),
	}
}

type customFieldRef struct {
	CustomFieldID int64 `json:"customFieldId"`
}

func configurationOption() mcp.PropertyOption {
	return mcp.Properties(dropdownConfigurationSchema())
}

// --- device custom fields ---

type createDeviceCustomFieldParams struct {
	AttributeName string                 `json:"attributeName"`
	AttributeCode string                 `json:"attributeCode"`
	Kind          string                 `json:"kind"`
	Configuration *DropdownConfiguration `json:"configuration,omitempty"`
}

func createDeviceCustomFieldTool() mcp.Tool {
	return mcp.NewTool("create_device_custom_field",
		mcp.WithDescription("Create a custom field for devices."),
		mcp.WithString("attributeName", mcp.Required(), mcp.Description("Display label for the custom field")),
		mcp.WithString("attributeCode", mcp.Required(),
			mcp.Description("Unique identifier for the custom field. Must contain only lowercase letters, numbers, and underscores")),
		mcp.WithString("kind", mcp.Required(), mcp.Description("The type of the custom field"), mcp.Enum(customFieldKinds...)),
		mcp.WithObject("configuration", configurationOption(),
			mcp.Description("Dropdown configuration with values. Only required for 'dropdown' kind fields.")),
		RequireNested("configuration", "values"),
	)
}

func buildCreateDeviceCustomField(p createDeviceCustomFieldParams) domain.Request {
	return withBody(http.MethodPost, "/fields/custom", nil, p)
}

type updateDeviceCustomFieldParams struct {
	CustomFieldID int64 `json:"customFieldId"`

	updateDeviceCustomFieldBody
}

type updateDeviceCustomFieldBody struct {
	VisibleForType []string                        `json:"visibleForType,omitzero"`
	Configuration  Nullable[DropdownConfiguration] `json:"configuration,omitzero"`
	AttributeName  *string                         `json:"attributeName,omitempty"`
	AttributeCode  *string                         `json:"attributeCode,omitempty"`
}

func updateDeviceCustomFieldTool() mcp.Tool {
	return mcp.NewTool("update_device_custom_field",
		mcp.WithDescription("Update a device custom field."),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithNumber("customFieldId", mcp.Required(), Integer(), mcp.Description("The ID of the custom field to update")),
		mcp.WithArray("visibleForType", mcp.Items(enumItems(deviceTypes...)),
			mcp.Description("List of device types this field is visible for")),
		mcp.WithObject("configuration", configurationOption(), AllowNull(),
			mcp.Description("Dropdown configuration (values can be added, removed, reordered, or modified). Only for dropdown type fields.")),
		mcp.WithString("attributeName", mcp.Description("Display label for the custom field")),
		mcp.WithString("attributeCode",
			mcp.Description("Unique identifier for the custom field. Must contain only lowercase letters, numbers, and underscores.")),
		RequireNested("configuration", "values"),
	)
}

func buildUpdateDeviceCustomField(p updateDeviceCustomFieldParams) domain.Request {
	return withBody(http.MethodPatch, "/fields/custom/"+pathID(p.CustomFieldID), nil, p.updateDeviceCustomFieldBody)
}

// --- identity custom fields ---

type serviceSource struct {
	ServiceFieldID string `json:"serviceFieldId"`
	WorkspaceID    int64  `json:"workspaceId"`
}

type createIdentityCustomFieldParams struct {
	Kind          string                 `json:"kind"`
	ServiceSource serviceSource          `json:"serviceSource"`
	AttributeName string                 `json:"attributeName"`
	AttributeCode string                 `json:"attributeCode"`
	Configuration *DropdownConfiguration `json:"configuration"`
}

func createIdentityCustomFieldTool() mcp.Tool {
	return mcp.NewTool("create_identity_custom_field",
		mcp.WithDescription("Create a custom field for identities, sourced from a service workspace field."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("The type of the custom field"), mcp.Enum(customFieldKinds...)),
		mcp.WithObject("configuration", configurationOption(),
			mcp.Description("Dropdown configuration (values can be added, removed, reordered, or modified). Only required for dropdown type fields.")),
		mcp.WithString("attributeName", mcp.Required(), mcp.Description("Display label for the custom field")),
		mcp.WithString("attributeCode", mcp.Required(),
			mcp.Description("Unique identifier for the custom field. Must contain only lowercase letters, numbers, and underscores.")),
		mcp.WithObject("serviceSource", mcp.Required(),
			mcp.Description("The service workspace field this custom field is sourced from"),
			mcp.Properties(map[string]any{
				"serviceFieldId": stringSchema("Field ID of the service. Pick a service and one of its workspaces from the get_services tool."),
				"workspaceId":    map[string]any{"type": "integer", "description": "Workspace ID number for the service source. This can be obtained from the get_services tool."},
			})),
		RequireNested("configuration", "values"),
		RequireNested("serviceSource", "serviceFieldId", "workspaceId"),
	)
}

// buildCreateIdentityCustomField always sends configuration, as null unless the
// field is a dropdown.
func buildCreateIdentityCustomField(p createIdentityCustomFieldParams) domain.Request {
	if p.Kind != "dropdown" {
		p.Configuration = nil
	}
	return withBody(http.MethodPost, "/identity/fields/custom", nil, p)
}

type updateIdentityCustomFieldParams struct {
	CustomFieldID int64 `json:"customFieldId"`

	updateIdentityCustomFieldBody
}

type updateIdentityCustomFieldBody struct {
	AttributeName *string                         `json:"attributeName,omitempty"`
	AttributeCode *string                         `json:"attributeCode,omitempty"`
	Configuration Nullable[DropdownConfiguration] `json:"configuration,omitzero"`
}

func updateIdentityCustomFieldTool() mcp.Tool {
	return mcp.NewTool("update_identity_custom_field",
		mcp.WithDescription("Update an identity custom field."),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithNumber("customFieldId", mcp.Required(), Integer(), mcp.Description("The ID of the custom field to update")),
		mcp.WithString("attributeName", mcp.Description("Display label for the custom field")),
		mcp.WithString("attributeCode",
			mcp.Description("Unique identifier for the custom field. Must contain only lowercase letters, numbers, and underscores.")),
		mcp.WithObject("configuration", configurationOption(), AllowNull(),
			mcp.Description("Dropdown configuration (values can be added, removed, reordered, or modified). Only for dropdown type fields.")),
		RequireNested("configuration", "values"),
	)
}

func buildUpdateIdentityCustomField(p updateIdentityCustomFieldParams) domain.Request {
	return withBody(http.MethodPatch, "/identity/fields/custom/"+pathID(p.CustomFieldID), nil, p.updateIdentityCustomFieldBody)
}
