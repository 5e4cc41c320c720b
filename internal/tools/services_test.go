package tools_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admina-mcp/admina-mcp/internal/domain"
)

func TestGetPeopleAccounts(t *testing.T) {
	req := mustBuild(t, "get_people_accounts", map[string]any{
		"peopleId":   42.0,
		"twoFa":      false,
		"serviceIds": []any{1.0, 2.0},
		"sortBy":     "lastActivity",
	})
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/people/42/accounts", req.Endpoint)
	assert.Equal(t, "twoFa=false&serviceIds=1&serviceIds=2&sortBy=lastActivity", req.Filters.Encode())
}

func TestGetServices(t *testing.T) {
	req := mustBuild(t, "get_services", map[string]any{"keyword": "slack", "limit": 5.0})
	assert.Equal(t, "/services", req.Endpoint)
	assert.Equal(t, "limit=5&keyword=slack", req.Filters.Encode())
}

func TestGetServiceAccounts(t *testing.T) {
	t.Run("filters in declared order", func(t *testing.T) {
		req := mustBuild(t, "get_service_accounts", map[string]any{
			"serviceId":      9.0,
			"roles":          []any{"admin"},
			"workspaceIds":   []any{3.0},
			"includeDeleted": true,
			"alertType":      "inactive_account",
		})
		assert.Equal(t, "/services/9/accounts", req.Endpoint)
		assert.Equal(t, "workspaceIds=3&roles=admin&includeDeleted=true&alertType=inactive_account", req.Filters.Encode())
	})

	t.Run("comma override", func(t *testing.T) {
		req := mustBuild(t, "get_service_accounts", map[string]any{
			"serviceId":    9.0,
			"workspaceIds": []any{3.0, 4.0},
		})
		encodings := domain.ArrayEncodings{Tools: map[string]map[string]domain.ArrayEncoding{
			"get_service_accounts": {"workspaceIds": domain.ArrayComma},
		}}
		query := req.Filters.Query(encodings.Resolver("get_service_accounts", req.Filters))
		assert.Equal(t, "workspaceIds=3%2C4", query.Encode())
	})

	t.Run("single element filters", func(t *testing.T) {
		_, err := build(t, "get_service_accounts", map[string]any{
			"serviceId":        9.0,
			"roles":            []any{"admin", "guest"},
			"employeeStatuses": []any{},
		})
		assert.Equal(t, []string{"employeeStatuses", "roles"}, issuePaths(t, err))
	})
}

func TestGetProvisioningMeta(t *testing.T) {
	req := mustBuild(t, "get_provisioning_meta", map[string]any{"workspaceId": 15.0})
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/workspaces/15/provisioning-meta", req.Endpoint)
	assert.Equal(t, "lang=ja", req.Filters.Encode())

	req = mustBuild(t, "get_provisioning_meta", map[string]any{"workspaceId": 15.0, "lang": "en"})
	assert.Equal(t, "lang=en", req.Filters.Encode())
}

func TestCreateServiceAccount(t *testing.T) {
	data := map[string]any{"email": "new@example.com", "groups": []any{"eng", "all"}}

	t.Run("with workflow run", func(t *testing.T) {
		req := mustBuild(t, "create_service_account", map[string]any{
			"workspaceId":   15.0,
			"data":          data,
			"workflowRunId": "6f1c2a7e-3b5d-4f8a-9c0e-1d2b3c4d5e6f",
		})
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/workspaces/15/accounts", req.Endpoint)
		assert.Equal(t, "lang=ja", req.Filters.Encode())
		assert.JSONEq(t, `{
			"data": {"email": "new@example.com", "groups": ["eng", "all"]},
			"workflowRunId": "6f1c2a7e-3b5d-4f8a-9c0e-1d2b3c4d5e6f"
		}`, bodyJSON(t, req))
	})

	t.Run("invalid workflow run id", func(t *testing.T) {
		_, err := build(t, "create_service_account", map[string]any{
			"workspaceId":   15.0,
			"data":          data,
			"workflowRunId": "run-1",
		})
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "workflowRunId: Invalid uuid", vErr.Issues[0].String())
	})

	t.Run("data values must be strings or string lists", func(t *testing.T) {
		_, err := build(t, "create_service_account", map[string]any{
			"workspaceId": 15.0,
			"data":        map[string]any{"seats": 3.0},
		})
		assert.Equal(t, []string{"data"}, issuePaths(t, err))
	})
}
