package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/admina-mcp/admina-mcp/internal/domain"
	"github.com/admina-mcp/admina-mcp/internal/usecase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type listParams struct {
	Status *string  `json:"status"`
	Tags   []string `json:"tags"`
	Limit  *int64   `json:"limit"`
}

func listDevicesDefinition() *usecase.ToolDefinition {
	return &usecase.ToolDefinition{
		Tool: mcp.NewTool("list_things",
			mcp.WithString("status", mcp.Required(), mcp.Enum("active", "missing")),
			mcp.WithArray("tags", mcp.Items(map[string]any{"type": "string"})),
			mcp.WithNumber("limit", mcp.Max(200)),
		),
		Build: func(args json.RawMessage) (domain.Request, error) {
			var p listParams
			if err := json.Unmarshal(args, &p); err != nil {
				return domain.Request{}, err
			}
			if p.Limit != nil && *p.Limit == 0 {
				return domain.Request{}, &domain.ValidationError{Issues: []domain.FieldIssue{{Path: "limit", Message: "must not be zero"}}}
			}
			filters := domain.Filters{}.Add("status", p.Status).Add("tags", p.Tags).Add("limit", p.Limit)
			return domain.Request{Method: http.MethodGet, Endpoint: "/things", Filters: filters}, nil
		},
	}
}

func updateThingDefinition() *usecase.ToolDefinition {
	return &usecase.ToolDefinition{
		Tool: mcp.NewTool("update_thing",
			mcp.WithNumber("id", mcp.Required()),
			mcp.WithString("memo"),
		),
		Build: func(args json.RawMessage) (domain.Request, error) {
			var p struct {
				ID   int64  `json:"id"`
				Memo string `json:"memo"`
			}
			if err := json.Unmarshal(args, &p); err != nil {
				return domain.Request{}, err
			}
			return domain.Request{
				Method:   http.MethodPatch,
				Endpoint: "/things/123",
				Body:     map[string]any{"memo": p.Memo},
			}, nil
		},
	}
}

func TestInvokeToolUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	upstream := map[string]any{"items": []any{}, "meta": map[string]any{"nextCursor": nil}}
	notFound := domain.NewAPIError(http.StatusNotFound, map[string]any{"errorId": "thing_not_found"})

	tests := []struct {
		name       string
		def        *usecase.ToolDefinition
		encodings  domain.ArrayEncodings
		toolName   string
		args       map[string]any
		mockSetup  func(*MockToolRepository, *MockAPICaller)
		wantResult any
		checkErr   func(t *testing.T, err error)
	}{
		{
			name:     "Success - query built in order with repeated arrays",
			def:      listDevicesDefinition(),
			toolName: "list_things",
			args:     map[string]any{"status": "active", "tags": []any{"a", "b"}, "limit": 10.0},
			mockSetup: func(repo *MockToolRepository, caller *MockAPICaller) {
				want := domain.Query{}.Add("status", "active").Add("tags", "a").Add("tags", "b").Add("limit", "10")
				caller.On("Call", mock.Anything, "/things", want, http.MethodGet, nil).Return(upstream, nil).Once()
			},
			wantResult: upstream,
		},
		{
			name:      "Success - per-tool comma override",
			def:       listDevicesDefinition(),
			encodings: domain.ArrayEncodings{Tools: map[string]map[string]domain.ArrayEncoding{"list_things": {"tags": domain.ArrayComma}}},
			toolName:  "list_things",
			args:      map[string]any{"status": "active", "tags": []any{"a", "b"}},
			mockSetup: func(repo *MockToolRepository, caller *MockAPICaller) {
				want := domain.Query{}.Add("status", "active").Add("tags", "a,b")
				caller.On("Call", mock.Anything, "/things", want, http.MethodGet, nil).Return(upstream, nil).Once()
			},
			wantResult: upstream,
		},
		{
			name:     "Success - unknown arguments ignored",
			def:      listDevicesDefinition(),
			toolName: "list_things",
			args:     map[string]any{"status": "missing", "unexpected": true},
			mockSetup: func(repo *MockToolRepository, caller *MockAPICaller) {
				want := domain.Query{}.Add("status", "missing")
				caller.On("Call", mock.Anything, "/things", want, http.MethodGet, nil).Return(upstream, nil).Once()
			},
			wantResult: upstream,
		},
		{
			name:     "Success - body passed for PATCH",
			def:      updateThingDefinition(),
			toolName: "update_thing",
			args:     map[string]any{"id": 123.0, "memo": "x"},
			mockSetup: func(repo *MockToolRepository, caller *MockAPICaller) {
				caller.On("Call", mock.Anything, "/things/123", domain.Query{}, http.MethodPatch, map[string]any{"memo": "x"}).
					Return(map[string]any{"id": 123.0}, nil).Once()
			},
			wantResult: map[string]any{"id": 123.0},
		},
		{
			name:     "Failure - tool not found",
			toolName: "missing_tool",
			args:     map[string]any{},
			mockSetup: func(repo *MockToolRepository, caller *MockAPICaller) {
				repo.On("FindByName", mock.Anything, "missing_tool").Return(nil, usecase.ErrToolNotFound).Once()
			},
			checkErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, usecase.ErrToolNotFound)
			},
		},
		{
			name:     "Failure - schema validation before any call",
			def:      listDevicesDefinition(),
			toolName: "list_things",
			args:     map[string]any{"limit": 500.0},
			checkErr: func(t *testing.T, err error) {
				var vErr *domain.ValidationError
				require.ErrorAs(t, err, &vErr)
				paths := []string{}
				for _, issue := range vErr.Issues {
					paths = append(paths, issue.Path)
				}
				assert.Equal(t, []string{"status", "limit"}, paths)
			},
		},
		{
			name:     "Failure - builder check before any call",
			def:      listDevicesDefinition(),
			toolName: "list_things",
			args:     map[string]any{"status": "active", "limit": 0.0},
			checkErr: func(t *testing.T, err error) {
				var vErr *domain.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "limit: must not be zero", vErr.Issues[0].String())
			},
		},
		{
			name:     "Failure - upstream 404 surfaces as NotFound",
			def:      listDevicesDefinition(),
			toolName: "list_things",
			args:     map[string]any{"status": "active"},
			mockSetup: func(repo *MockToolRepository, caller *MockAPICaller) {
				caller.On("Call", mock.Anything, "/things", mock.Anything, http.MethodGet, nil).Return(nil, notFound).Once()
			},
			checkErr: func(t *testing.T, err error) {
				apiErr, ok := domain.AsAPIError(err)
				require.True(t, ok)
				assert.Equal(t, domain.KindNotFound, apiErr.Kind)
				assert.Equal(t, http.StatusNotFound, apiErr.HTTPStatus)
			},
		},
		{
			name:     "Failure - missing configuration",
			def:      listDevicesDefinition(),
			toolName: "list_things",
			args:     map[string]any{"status": "active"},
			mockSetup: func(repo *MockToolRepository, caller *MockAPICaller) {
				caller.On("Call", mock.Anything, "/things", mock.Anything, http.MethodGet, nil).
					Return(nil, errors.Join(domain.ErrMissingConfig, errors.New("ADMINA_API_KEY"))).Once()
			},
			checkErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrMissingConfig)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockToolRepository)
			caller := new(MockAPICaller)
			if tt.def != nil {
				repo.On("FindByName", mock.Anything, tt.toolName).Return(tt.def, nil)
			}
			if tt.mockSetup != nil {
				tt.mockSetup(repo, caller)
			}

			uc := usecase.NewInvokeToolUseCase(repo, caller, tt.encodings, testLogger())
			result, err := uc.Execute(ctx, tt.toolName, tt.args)

			if tt.checkErr != nil {
				require.Error(t, err)
				tt.checkErr(t, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantResult, result)
			}

			repo.AssertExpectations(t)
			caller.AssertExpectations(t)
			if tt.mockSetup == nil {
				caller.AssertNotCalled(t, "Call", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestInvokeToolUseCase_ValidatorCached(t *testing.T) {
	repo := new(MockToolRepository)
	caller := new(MockAPICaller)
	def := listDevicesDefinition()
	repo.On("FindByName", mock.Anything, "list_things").Return(def, nil)
	caller.On("Call", mock.Anything, "/things", mock.Anything, http.MethodGet, nil).Return(map[string]any{}, nil)

	uc := usecase.NewInvokeToolUseCase(repo, caller, domain.ArrayEncodings{}, testLogger())
	for range 3 {
		_, err := uc.Execute(context.Background(), "list_things", map[string]any{"status": "active"})
		require.NoError(t, err)
	}
	caller.AssertNumberOfCalls(t, "Call", 3)
}
