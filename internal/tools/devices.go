package tools

import (
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/admina-mcp/admina-mcp/internal/domain"
	"github.com/admina-mcp/admina-mcp/internal/usecase"
)

var (
	deviceStatuses     = []string{"in_stock", "pre_use", "active", "missing", "malfunction", "decommissioned"}
	deviceMetaStatuses = append(append([]string{}, deviceStatuses...), "on_order")
	deviceTypes        = []string{"pc", "phone", "other"}
	sortOrders         = []string{"ASC", "DESC"}
)

func deviceTools() []usecase.ToolDefinition {
	return []usecase.ToolDefinition{
		define(getDevicesTool(), buildGetDevices),
		define(searchDevicesTool(), buildSearchDevices),
		define(createDeviceTool(), buildCreateDevice),
		define(updateDeviceTool(), buildUpdateDevice),
		define(updateDeviceMetaTool(), buildUpdateDeviceMeta),
	}
}

// --- get_devices ---

type getDevicesParams struct {
	Status       *string `json:"status"`
	AssetNumber  *string `json:"asset_number"`
	SerialNumber *string `json:"serial_number"`
	IdentityID   *string `json:"identityId"`
	PeopleID     *int64  `json:"peopleId"`
	Locale       string  `json:"locale"`
	Limit        *int64  `json:"limit"`
	Cursor       *string `json:"cursor"`
	Type         *string `json:"type"`
}

func getDevicesTool() mcp.Tool {
	return mcp.NewTool("get_devices",
		mcp.WithDescription("Return a list of devices. Can be filtered by the status, asset number, serial number, or identityId which can be obtained from the get_identities tool."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("status", mcp.Description("Filter by device status"), mcp.Enum(deviceStatuses...)),
		mcp.WithString("asset_number", mcp.Description("Filter by asset number")),
		mcp.WithString("serial_number", mcp.Description("Filter by serial number")),
		mcp.WithString("identityId", mcp.Description("Filter by the identity the device is assigned to")),
		mcp.WithNumber("peopleId", mcp.Description("Filter by the people ID the device is assigned to"), Integer()),
		mcp.WithString("locale", mcp.Description("Translate the field names and labels to the specified locale"),
			mcp.Enum("ja", "en"), mcp.DefaultString("ja")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of items to return per page"), Integer()),
		mcp.WithString("cursor", mcp.Description("Cursor to paginate through results")),
		mcp.WithString("type", mcp.Description("Filter by device type")),
	)
}

func buildGetDevices(p getDevicesParams) domain.Request {
	filters := domain.Filters{}.
		Add("status", p.Status).
		Add("asset_number", p.AssetNumber).
		Add("serial_number", p.SerialNumber).
		Add("identityId", p.IdentityID).
		Add("peopleId", p.PeopleID).
		Add("locale", orDefault(p.Locale, "ja")).
		Add("limit", p.Limit).
		Add("cursor", p.Cursor).
		Add("type", p.Type)
	return get("/devices", filters)
}

// --- search_devices ---

type deviceFilterOptions struct {
	MinDate   *string  `json:"minDate,omitempty"`
	MaxDate   *string  `json:"maxDate,omitempty"`
	MinNumber *float64 `json:"minNumber,omitempty"`
	MaxNumber *float64 `json:"maxNumber,omitempty"`
	Eq        *string  `json:"eq,omitempty"`
}

type searchDevicesParams struct {
	Limit     *int64   `json:"limit"`
	Cursor    *string  `json:"cursor"`
	SortBy    *string  `json:"sortBy"`
	SortOrder *string  `json:"sortOrder"`
	Expands   []string `json:"expands"`

	searchDevicesBody
}

type searchDevicesBody struct {
	PeopleID       *int64                         `json:"peopleId,omitempty"`
	Type           *string                        `json:"type,omitempty"`
	EmployeeStatus *string                        `json:"employeeStatus,omitempty"`
	SearchTerm     *string                        `json:"searchTerm,omitempty"`
	SearchFields   []string                       `json:"searchFields,omitzero"`
	Filters        map[string]deviceFilterOptions `json:"filters,omitzero"`
}

func searchDevicesTool() mcp.Tool {
	filterOptions := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"minDate":   stringSchema("Only supported by fields with `date` kind"),
			"maxDate":   stringSchema("Only supported by fields with `date` kind"),
			"minNumber": map[string]any{"type": "number", "description": "Only supported by fields with `number` kind and few special fields such as `$age`"},
			"maxNumber": map[string]any{"type": "number", "description": "Only supported by fields with `number` kind and few special fields such as `$age`"},
			"eq":        stringSchema("Only supported by fields with `dropdown` kind"),
		},
	}

	return mcp.NewTool("search_devices",
		mcp.WithDescription("Search devices with full-text search, person or status filters and advanced per-field filters. Pagination and sorting are passed as query parameters."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("limit", mcp.Description("Maximum number of items to return per page"), Integer(), mcp.Max(200)),
		mcp.WithString("cursor", mcp.Description("Base64-encoded cursor for pagination")),
		mcp.WithString("sortBy", mcp.Description("Sort by field. Format: `<preset | custom>.<unique field name>` or `people.displayName`")),
		mcp.WithString("sortOrder", mcp.Description("Sort order for the results"), mcp.Enum("DESC", "ASC")),
		mcp.WithArray("expands", mcp.Description("Expand other datasets when fetching devices"),
			mcp.Items(enumItems("relatedIdentity", "customFieldsMetadata"))),
		mcp.WithNumber("peopleId", mcp.Description("Filter devices by the people ID assigned to them"), Integer()),
		mcp.WithString("type", mcp.Description("Filter devices by device type"), mcp.Enum(deviceTypes...)),
		mcp.WithString("employeeStatus", mcp.Description("Filter devices by the employment status of the assigned person"),
			mcp.Enum("active", "on_leave", "draft", "preactive", "retired", "untracked")),
		mcp.WithString("searchTerm", mcp.Description("Search term to filter devices")),
		mcp.WithArray("searchFields", mcp.Description("Field names to search within when using searchTerm. Supports memo, people fields, preset fields, and custom fields"),
			mcp.Items(stringItems())),
		mcp.WithObject("filters", mcp.Description("Advanced filters. Keys look like `preset.<unique field name>`. There are certain extra virtual fields, such as `$age`"),
			mcp.AdditionalProperties(filterOptions)),
	)
}

func buildSearchDevices(p searchDevicesParams) domain.Request {
	filters := domain.Filters{}.
		Add("limit", p.Limit).
		Add("cursor", p.Cursor).
		Add("sortBy", p.SortBy).
		Add("sortOrder", p.SortOrder).
		AddArray("expands", p.Expands, domain.ArrayRepeat)
	return withBody(http.MethodPost, "/devices/search", filters, p.searchDevicesBody)
}

type updateDeviceParams struct {
	DeviceID int64          `json:"deviceId"`
	Memo     *string        `json:"memo"`
	Fields   map[string]any `json:"fields"`
}

type deviceFieldsBody struct {
	Fields map[string]any `json:"fields"`
	Memo   *string        `json:"memo,omitempty"`
}

// devicePresetFields describes the preset device fields. verb is "create" or
// "update" and only changes the descriptions of the three required presets.
func devicePresetFields(verb string) map[string]any {
	required := " (REQUIRED for " + verb + ")"
	return map[string]any{
		"preset.asset_number": stringSchema("Asset number" + required),
		"preset.subtype": enumSchema("Device subtype"+required,
			"desktop_pc", "laptop_pc", "tablet_pc", "phone", "monitor", "server", "peripheral_device", "other"),
		"preset.model_name":            stringSchema("Model name" + required),
		"preset.serial_number":         stringSchema("Serial number"),
		"preset.model_number":          stringSchema("Model number"),
		"preset.memory":                stringSchema("Memory specification"),
		"preset.hdd_ssd":               stringSchema("Storage specification"),
		"preset.cpu":                   stringSchema("CPU specification"),
		"preset.os":                    stringSchema("Operating system"),
		"preset.size":                  stringSchema("Size/dimensions"),
		"preset.manufacturer":          stringSchema("Manufacturer name"),
		"preset.supplier":              stringSchema("Supplier name"),
		"preset.procurement_method":    enumSchema("Procurement method", "purchase", "lease", "rental", "other"),
		"preset.purchase_date":         stringSchema("Purchase date (YYYY-MM-DD format)"),
		"preset.purchase_cost":         map[string]any{"type": "number", "description": "Purchase cost"},
		"preset.warranty_period":       stringSchema("Warranty period"),
		"preset.decommission_date":     stringSchema("Decommission date (YYYY-MM-DD format)"),
		"preset.scheduled_return_date": stringSchema("Scheduled return date (YYYY-MM-DD format)"),
		"preset.fixed_asset":           enumSchema("Fixed asset status", "yes", "no"),
		"preset.phone_number":          stringSchema("Phone number (for phone devices)"),
		"preset.sim_number":            stringSchema("SIM number (for phone devices)"),
		"preset.mobile_plan":           stringSchema("Mobile plan (for phone devices)"),
		"preset.hostname":              stringSchema("Hostname"),
		"preset.version":               stringSchema("Version"),
		"preset.keyboard_layout":       enumSchema("Keyboard layout", "us", "uk", "jis", "other"),
		"preset.usage_start_date":      stringSchema("Usage start date (YYYY-MM-DD format)"),
		"preset.usage_end_date":        stringSchema("Usage end date (YYYY-MM-DD format)"),
	}
}

// --- create_device ---

type createDeviceParams struct {
	Memo   *string        `json:"memo"`
	Fields map[string]any `json:"fields"`
}

func createDeviceTool() mcp.Tool {
	return mcp.NewTool("create_device",
		mcp.WithDescription("Register a new device. preset.asset_number, preset.subtype and preset.model_name must be provided. Custom fields use keys like `custom.<code>`."),
		mcp.WithString("memo", mcp.Description("Additional notes or memo about the device")),
		mcp.WithObject("fields", mcp.Required(),
			mcp.Description("Device field values. Note: preset.asset_number, preset.subtype, and preset.model_name are required"),
			mcp.Properties(devicePresetFields("create")),
			mcp.AdditionalProperties(map[string]any{"type": []any{"string", "number"}}),
		),
		RequireNested("fields", "preset.asset_number", "preset.subtype", "preset.model_name"),
	)
}

func buildCreateDevice(p createDeviceParams) domain.Request {
	return withBody(http.MethodPost, "/devices", nil, deviceFieldsBody{Fields: p.Fields, Memo: p.Memo})
}

// --- update_device ---

func updateDeviceTool() mcp.Tool {
	return mcp.NewTool("update_device",
		mcp.WithDescription("Update the field values of a device. preset.asset_number, preset.subtype and preset.model_name must always be provided. Custom fields use keys like `custom.<code>`."),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithNumber("deviceId", mcp.Required(), mcp.Description("The ID of the device to update"), Integer()),
		mcp.WithString("memo", mcp.Description("Additional notes or memo about the device")),
		mcp.WithObject("fields", mcp.Required(),
			mcp.Description("Device field values. Note: preset.asset_number, preset.subtype, and preset.model_name are always required"),
			mcp.Properties(devicePresetFields("update")),
			mcp.AdditionalProperties(map[string]any{"type": []any{"string", "number"}}),
		),
		RequireNested("fields", "preset.asset_number", "preset.subtype", "preset.model_name"),
	)
}

func buildUpdateDevice(p updateDeviceParams) domain.Request {
	body := deviceFieldsBody{Fields: p.Fields, Memo: p.Memo}
	return withBody(http.MethodPatch, "/devices/"+pathID(p.DeviceID), nil, body)
}

// --- update_device_meta ---

type updateDeviceMetaParams struct {
	DeviceID int64 `json:"deviceId"`

	updateDeviceMetaBody
}

type updateDeviceMetaBody struct {
	Status              *string          `json:"status,omitempty"`
	PeopleID            Nullable[int64]  `json:"peopleId,omitzero"`
	AssignmentStartDate Nullable[string] `json:"assignmentStartDate,omitzero"`
	AssignmentEndDate   Nullable[string] `json:"assignmentEndDate,omitzero"`
	Location1           *string          `json:"location1,omitempty"`
	Location2           *string          `json:"location2,omitempty"`
}

func updateDeviceMetaTool() mcp.Tool {
	return mcp.NewTool("update_device_meta",
		mcp.WithDescription("Update the status, assignment and location of a device."),
		mcp.WithNumber("deviceId", mcp.Required(), mcp.Description("The ID of the device to update"), Integer()),
		mcp.WithString("status", mcp.Enum(deviceMetaStatuses...),
			mcp.Description("Device status. If 'in_stock' or 'decommissioned', device will be unassigned and assignment dates cleared")),
		mcp.WithNumber("peopleId", Integer(), AllowNull(),
			mcp.Description("People ID to assign device to. Set to null to unassign. Cannot assign if status is 'in_stock' or 'decommissioned'")),
		mcp.WithString("assignmentStartDate", AllowNull(),
			mcp.Description("Assignment start date (YYYY-MM-DD). Cannot set if status is 'in_stock' or 'decommissioned'")),
		mcp.WithString("assignmentEndDate", AllowNull(),
			mcp.Description("Assignment end date (YYYY-MM-DD). Cannot set if status is 'in_stock' or 'decommissioned'")),
		mcp.WithString("location1", mcp.Description("Primary location information")),
		mcp.WithString("location2", mcp.Description("Secondary location information")),
	)
}

func buildUpdateDeviceMeta(p updateDeviceMetaParams) domain.Request {
	return withBody(http.MethodPatch, "/devices/"+pathID(p.DeviceID)+"/meta", nil, p.updateDeviceMetaBody)
}
