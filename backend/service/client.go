package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/config"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/metrics"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/pkg/logger"
	"github.com/tidwall/gjson"
)

// ErrNotFound is returned when the backend answers 404
var ErrNotFound = errors.New("resource not found")

// APIError is a failure reported by the backend, either as a non-2xx status
// or as a {success:false} envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error: status %d", e.Status)
	}
	return fmt.Sprintf("backend error: %s (status %d)", e.Message, e.Status)
}

// IsAbsent reports whether err means the record does not exist yet: an HTTP
// 404 or a lookup answered with success:false.
func IsAbsent(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status < 300
}

// Client is the shared REST client for the backend of record
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.BackendConfig) *Client {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// request describes one backend call. route is the path template used as a
// metrics label; path is the concrete path.
type request struct {
	method      string
	route       string
	path        string
	query       url.Values
	body        any
	rawBody     io.Reader
	contentType string
}

// do sends the request and returns the raw body of a 2xx answer
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// send performs the call and maps error statuses. The caller owns the
// returned body.
func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	var reader io.Reader
	contentType := r.contentType
	if r.rawBody != nil {
		reader = r.rawBody
	} else if r.body != nil {
		jsonData, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
		contentType = "application/json"
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if requestID, ok := ctx.Value(logger.RequestIDKey).(string); ok && requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordGatewayCall(r.method, r.route, "transport_error", time.Since(start))
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	elapsed := time.Since(start)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		metrics.RecordGatewayCall(r.method, r.route, "not_found", elapsed)
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		metrics.RecordGatewayCall(r.method, r.route, "error", elapsed)
		logger.Warn(ctx, "backend call failed", "method", r.method, "route", r.route, "status", resp.StatusCode)
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(body)}
	}

	metrics.RecordGatewayCall(r.method, r.route, "ok", elapsed)
	return resp, nil
}

// errorMessage pulls a human message out of an error body
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}
	for _, key := range []string{"message", "error", "msg"} {
		if v := gjson.GetBytes(body, key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func (c *Client) get(ctx context.Context, route, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, request{method: http.MethodGet, route: route, path: path, query: query})
}

func (c *Client) post(ctx context.Context, route, path string, body any) ([]byte, error) {
	return c.do(ctx, request{method: http.MethodPost, route: route, path: path, body: body})
}

func (c *Client) put(ctx context.Context, route, path string, body any) ([]byte, error) {
	return c.do(ctx, request{method: http.MethodPut, route: route, path: path, body: body})
}

func (c *Client) delete(ctx context.Context, route, path string) ([]byte, error) {
	return c.do(ctx, request{method: http.MethodDelete, route: route, path: path})
}

// seg escapes one path segment
func seg(s string) string {
	return url.PathEscape(strings.TrimSpace(s))
}
