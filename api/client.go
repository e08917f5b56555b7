// Package api implements the account-settings REST calls the flows depend on:
// settings retrieval and patch, time-zone lookup, and the site-language
// preference and activation endpoints.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	contentTypeJSON       = "application/json"
	contentTypeMergePatch = "application/merge-patch+json"
	contentTypeForm       = "application/x-www-form-urlencoded"
)

// Client calls the user account REST API.
type Client struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	timeZones    *ristretto.Cache[string, []TimeZone]
	timeZonesTTL time.Duration
}

// Option customises a Client.
type Option func(c *Client)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// WithAuthToken sends token as a bearer credential on every request.
func WithAuthToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithTimeZoneCache caches country time-zone lists for ttl.
func WithTimeZoneCache(cache *ristretto.Cache[string, []TimeZone], ttl time.Duration) Option {
	return func(c *Client) {
		c.timeZones = cache
		c.timeZonesTTL = ttl
	}
}

// NewTimeZoneCache creates a cache bounded to maxCountries entries. Each
// country costs 1.
func NewTimeZoneCache(maxCountries int64) (*ristretto.Cache[string, []TimeZone], error) {
	if maxCountries <= 0 {
		maxCountries = 300
	}
	return ristretto.NewCache(&ristretto.Config[string, []TimeZone]{
		NumCounters:        maxCountries * 10,
		MaxCost:            maxCountries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	ret := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Close releases the time-zone cache.
func (c *Client) Close() {
	if c.timeZones != nil {
		c.timeZones.Close()
	}
}

func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	body, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(body, dest); err != nil {
		return &Error{Message: fmt.Sprintf("invalid response from %s", path), Err: err}
	}
	return nil
}

func (c *Client) patchJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", path, err)
	}
	body, err := c.doRequest(ctx, http.MethodPatch, path, contentTypeMergePatch, strings.NewReader(string(data)))
	if err != nil {
		return err
	}
	if dest == nil || len(body) == 0 {
		return nil
	}
	if err = json.Unmarshal(body, dest); err != nil {
		return &Error{Message: fmt.Sprintf("invalid response from %s", path), Err: err}
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("%s %s failed", method, path), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Message: "read response", Err: err}
	}
	if resp.StatusCode >= 400 {
		return nil, responseError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

type errorBody struct {
	FieldErrors map[string]struct {
		UserMessage      string `json:"user_message"`
		DeveloperMessage string `json:"developer_message"`
	} `json:"field_errors"`
	DeveloperMessage string `json:"developer_message"`
}

func responseError(statusCode int, body []byte) *Error {
	ret := &Error{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("request failed with status code %d", statusCode),
	}
	var decoded errorBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ret
	}
	if decoded.FieldErrors != nil {
		ret.FieldErrors = make(FieldErrors, len(decoded.FieldErrors))
		for field, fieldErr := range decoded.FieldErrors {
			message := fieldErr.UserMessage
			if message == "" {
				message = fieldErr.DeveloperMessage
			}
			ret.FieldErrors[camelCase(field)] = message
		}
	}
	return ret
}
