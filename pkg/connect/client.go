package connect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-hclog"
)

// DefaultBaseURL is the Connect REST endpoint assumed when none is
// configured.
const DefaultBaseURL = "http://localhost:8083"

// API is the remote connector-management capability the harness consumes.
// The concrete implementation is bound at harness construction; tests bind a
// stub.
type API interface {
	// RegisterConnector submits a connector registration request.
	RegisterConnector(ctx context.Context, cfg ConnectorConfig) error

	// ConnectorStatus fetches the current status of a named connector.
	ConnectorStatus(ctx context.Context, name string) (*ConnectorStatus, error)

	// DeleteConnector removes a named connector.
	DeleteConnector(ctx context.Context, name string) error
}

// APIError is a non-2xx response from the Connect API, carrying the remote
// error detail.
type APIError struct {
	StatusCode int    `json:"error_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("connect API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with HTTP status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ClientConfig holds configuration for the Connect API client.
type ClientConfig struct {
	// BaseURL is the Connect REST endpoint (default: DefaultBaseURL).
	BaseURL string

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client

	// Logger (default: hclog.NewNullLogger()).
	Logger hclog.Logger
}

// Client is the HTTP implementation of API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     hclog.Logger
}

// NewClient creates a Connect API client, filling in defaults for unset
// fields.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger.Named("connect-client"),
	}
}

// RegisterConnector POSTs the configuration to /connectors. Any non-2xx
// response, including 409 for a name that already exists, is returned as an
// *APIError; duplicate-name semantics belong to the remote service.
func (c *Client) RegisterConnector(ctx context.Context, cfg ConnectorConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal connector config: %w", err)
	}

	c.logger.Debug("registering connector", "name", cfg.Name, "url", c.baseURL)

	if _, err := c.do(ctx, http.MethodPost, "/connectors", payload); err != nil {
		return err
	}
	return nil
}

// ConnectorStatus GETs /connectors/{name}/status.
func (c *Client) ConnectorStatus(ctx context.Context, name string) (*ConnectorStatus, error) {
	body, err := c.do(ctx, http.MethodGet, "/connectors/"+name+"/status", nil)
	if err != nil {
		return nil, err
	}
	status, err := ParseConnectorStatus(body)
	if err != nil {
		return nil, fmt.Errorf("invalid connector status response: %w", err)
	}
	return status, nil
}

// RegisteredSettings GETs /connectors/{name}/config and decodes the property
// map into typed settings.
func (c *Client) RegisteredSettings(ctx context.Context, name string) (ConnectorSettings, error) {
	body, err := c.do(ctx, http.MethodGet, "/connectors/"+name+"/config", nil)
	if err != nil {
		return ConnectorSettings{}, err
	}
	var raw map[string]string
	if err := json.Unmarshal(body, &raw); err != nil {
		return ConnectorSettings{}, fmt.Errorf("invalid connector config response: %w", err)
	}
	return SettingsFromMap(raw)
}

// Connectors GETs /connectors and returns the registered connector names.
func (c *Client) Connectors(ctx context.Context) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, "/connectors", nil)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(body, &names); err != nil {
		return nil, fmt.Errorf("invalid connectors response: %w", err)
	}
	return names, nil
}

// DeleteConnector DELETEs /connectors/{name}.
func (c *Client) DeleteConnector(ctx context.Context, name string) error {
	c.logger.Debug("deleting connector", "name", name)
	_, err := c.do(ctx, http.MethodDelete, "/connectors/"+name, nil)
	return err
}

// do performs one request and returns the response body. Non-2xx responses
// are converted to *APIError with the remote error detail when the body
// carries one.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connect API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(resp.StatusCode, body)
	}
	return body, nil
}

// apiError builds an *APIError from an error response body. Connect reports
// errors as {"error_code": ..., "message": ...}; anything else is kept
// verbatim as the message.
func apiError(statusCode int, body []byte) error {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	apiErr.StatusCode = statusCode
	return apiErr
}
