package admina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/admina-mcp/admina-mcp/internal/domain"
)

const (
	// DefaultBaseURL is the production Admina API root.
	DefaultBaseURL = "https://api.itmc.i.moneyforward.com/api/v1"

	instrumentationName = "github.com/admina-mcp/admina-mcp/internal/adapter/outbound/admina"
)

// Credentials identify the caller to the Admina API.
type Credentials struct {
	APIKey         string
	OrganizationID string
}

// Client implements usecase.APICaller over net/http.
type Client struct {
	baseURL        string
	apiKey         string
	organizationID string
	httpClient     *http.Client
	logger         *slog.Logger
	tracer         trace.Tracer
	requests       metric.Int64Counter
}

// New creates a Client. Both credentials are required.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if creds.APIKey == "" || creds.OrganizationID == "" {
		var missing []string
		if creds.APIKey == "" {
			missing = append(missing, "API key")
		}
		if creds.OrganizationID == "" {
			missing = append(missing, "organization ID")
		}
		return nil, fmt.Errorf("%w: %s required", domain.ErrMissingConfig, strings.Join(missing, " and "))
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	meter := otel.Meter(instrumentationName)
	requests, err := meter.Int64Counter("admina.client.requests",
		metric.WithDescription("Admina API calls by method and outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	return &Client{
		baseURL:        strings.TrimRight(o.baseURL, "/"),
		apiKey:         creds.APIKey,
		organizationID: creds.OrganizationID,
		httpClient:     o.httpClient,
		logger:         o.logger.With("component", "admina_client"),
		tracer:         otel.Tracer(instrumentationName),
		requests:       requests,
	}, nil
}

// URL returns the full request URL for endpoint and query.
func (c *Client) URL(endpoint string, query domain.Query) string {
	u := c.baseURL + "/organizations/" + url.PathEscape(c.organizationID) + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Call issues one request and returns the decoded JSON response verbatim.
// body is sent only for methods that accept one. Every failure is an *domain.APIError.
func (c *Client) Call(ctx context.Context, endpoint string, query domain.Query, method string, body any) (any, error) {
	ctx, span := c.tracer.Start(ctx, "admina.call", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("admina.endpoint", endpoint),
		))
	defer span.End()

	result, status, err := c.do(ctx, endpoint, query, method, body)

	outcome := "success"
	if status > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	))
	return result, err
}

func (c *Client) do(ctx context.Context, endpoint string, query domain.Query, method string, body any) (any, int, error) {
	log := c.logger.With(
		slog.String("method", method),
		slog.String("endpoint", endpoint),
	)

	// --- 1. Request body (only for methods that allow it) --- //
	var requestBody io.Reader
	if body != nil && domain.AllowsBody(method) {
		jsonData, err := json.Marshal(body)
		if err != nil {
			log.Error("Failed to marshal request body", slog.Any("error", err))
			return nil, 0, domain.NewTransportError(fmt.Errorf("failed to marshal request body: %w", err))
		}
		requestBody = bytes.NewReader(jsonData)
		log.Debug("Prepared request body", slog.Int("size", len(jsonData)))
	} else if body != nil {
		log.Warn("Body ignored for method without request body")
	}

	// --- 2. Create HTTP request --- //
	finalURL := c.URL(endpoint, query)
	req, err := http.NewRequestWithContext(ctx, method, finalURL, requestBody)
	if err != nil {
		log.Error("Failed to create HTTP request", slog.Any("error", err))
		return nil, 0, domain.NewTransportError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	if len(query) > 0 {
		log.Debug("Added query parameters", slog.String("query", query.Encode()))
	}

	// --- 3. Execute request --- //
	log.Debug("Executing HTTP request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("HTTP request failed", slog.Any("error", err))
		return nil, 0, domain.NewTransportError(fmt.Errorf("request execution failed: %w", err))
	}
	defer resp.Body.Close()

	log = log.With(slog.Int("status_code", resp.StatusCode))
	log.Debug("Received HTTP response")

	// --- 4. Process response --- //
	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", slog.Any("error", err))
		return nil, resp.StatusCode, domain.NewTransportError(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload any
		if len(respBodyBytes) > 0 {
			if err := json.Unmarshal(respBodyBytes, &payload); err != nil {
				payload = string(respBodyBytes)
			}
		}
		apiErr := domain.NewAPIError(resp.StatusCode, payload)
		log.Warn("Received non-success status code",
			slog.String("kind", string(apiErr.Kind)),
			slog.String("error_id", apiErr.ErrorID))
		return nil, resp.StatusCode, apiErr
	}

	if len(bytes.TrimSpace(respBodyBytes)) == 0 {
		return nil, resp.StatusCode, nil
	}
	var resultData any
	if err := json.Unmarshal(respBodyBytes, &resultData); err != nil {
		log.Error("Failed to unmarshal JSON response", slog.Any("error", err))
		return nil, resp.StatusCode, domain.NewTransportError(fmt.Errorf("failed to decode response body: %w", err))
	}
	return resultData, resp.StatusCode, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, query domain.Query) (any, error) {
	return c.Call(ctx, endpoint, query, http.MethodGet, nil)
}

// Post issues a POST request. A nil body is sent as an empty object.
func (c *Client) Post(ctx context.Context, endpoint string, query domain.Query, body any) (any, error) {
	return c.Call(ctx, endpoint, query, http.MethodPost, orEmpty(body))
}

// Put issues a PUT request. A nil body is sent as an empty object.
func (c *Client) Put(ctx context.Context, endpoint string, body any) (any, error) {
	return c.Call(ctx, endpoint, nil, http.MethodPut, orEmpty(body))
}

// Patch issues a PATCH request. A nil body is sent as an empty object.
func (c *Client) Patch(ctx context.Context, endpoint string, body any) (any, error) {
	return c.Call(ctx, endpoint, nil, http.MethodPatch, orEmpty(body))
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string) (any, error) {
	return c.Call(ctx, endpoint, nil, http.MethodDelete, nil)
}

func orEmpty(body any) any {
	if body == nil {
		return map[string]any{}
	}
	return body
}
