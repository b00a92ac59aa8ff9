// Package httpjson implements assistants.Transport with net/http and
// encoding/json.
//
// Headers set on every request:
//   - Authorization: Bearer <Config.APIKey>
//   - OpenAI-Beta: <Config.Beta> (the protocol-version marker)
//   - OpenAI-Organization: <Config.Organization> (when set)
//   - Content-Type: application/json (when a body is sent)
//   - every entry of Config.Headers
//
// The transport makes exactly one attempt per call. Failures are returned as
// *assistants.TransportError.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/haowjy/meridian-assistants-go"
)

// Transport sends JSON requests to the base URL of the call's Config.
type Transport struct {
	httpClient *http.Client
	logger     *zap.Logger
}

var _ assistants.Transport = (*Transport)(nil)

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		t.httpClient = c
	}
}

// WithLogger sets the logger used for per-request debug logs.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// New creates a transport. Without options it uses an http.Client with a
// 120 second timeout and a no-op logger. Config.Timeout, when set, bounds
// each call through its context.
func New(opts ...Option) *Transport {
	t := &Transport{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.Named("httpjson")
	return t
}

// Get issues a GET request.
func (t *Transport) Get(ctx context.Context, cfg assistants.Config, path string) (assistants.Response, error) {
	return t.do(ctx, cfg, http.MethodGet, path, nil)
}

// Post issues a POST request with body encoded as JSON.
func (t *Transport) Post(ctx context.Context, cfg assistants.Config, path string, body any) (assistants.Response, error) {
	return t.do(ctx, cfg, http.MethodPost, path, body)
}

// Delete issues a DELETE request.
func (t *Transport) Delete(ctx context.Context, cfg assistants.Config, path string) (assistants.Response, error) {
	return t.do(ctx, cfg, http.MethodDelete, path, nil)
}

func (t *Transport) do(ctx context.Context, cfg assistants.Config, method, path string, body any) (assistants.Response, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	httpReq, err := t.buildHTTPRequest(ctx, cfg, method, path, body)
	if err != nil {
		return nil, &assistants.TransportError{
			Method:  method,
			Path:    path,
			Message: err.Error(),
			Err:     assistants.ErrInvalidRequest,
		}
	}

	start := time.Now()
	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		t.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, &assistants.TransportError{
			Method:    method,
			Path:      path,
			Message:   err.Error(),
			Retryable: !errors.Is(err, context.Canceled),
			Err:       assistants.ErrNetwork,
		}
	}
	defer resp.Body.Close()

	t.logger.Debug("request complete",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &assistants.TransportError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to read response body: %v", err),
			Retryable:  true,
			Err:        assistants.ErrNetwork,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, assistants.NewStatusError(method, path, resp.StatusCode, errorMessage(raw))
	}

	var out assistants.Response
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		message := "response body is not a JSON object"
		if err != nil {
			message = fmt.Sprintf("failed to parse response: %v", err)
		}
		return nil, &assistants.TransportError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    message,
			Err:        assistants.ErrDecode,
		}
	}

	return out, nil
}

// buildHTTPRequest creates the HTTP request for one call.
func (t *Transport) buildHTTPRequest(ctx context.Context, cfg assistants.Config, method, path string, body any) (*http.Request, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("config has no base URL")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + path
	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	for k, v := range cfg.Headers {
		httpReq.Header.Set(k, v)
	}
	if cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}
	if cfg.Organization != "" {
		httpReq.Header.Set("OpenAI-Organization", cfg.Organization)
	}
	if cfg.Beta != "" {
		httpReq.Header.Set("OpenAI-Beta", cfg.Beta)
	}
	if reader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	return httpReq, nil
}

// errorMessage extracts error.message from an API error body, falling back
// to the raw body.
func errorMessage(raw []byte) string {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    any    `json:"code"`
		} `json:"error"`
	}

	if err := json.Unmarshal(raw, &errResp); err != nil || errResp.Error.Message == "" {
		return strings.TrimSpace(string(raw))
	}
	return errResp.Error.Message
}
