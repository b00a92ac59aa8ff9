// Package stainless implements assistants.Transport on top of the generic
// request engine that ships with anthropic-sdk-go (Client.Execute).
//
// Unlike httpjson, this transport retries on connection errors, 408, 409, 429
// and 5xx responses with exponential backoff and honors Retry-After. The
// engine's Anthropic defaults (X-Api-Key, anthropic-version) are stripped from
// every request; authentication comes from assistants.Config only.
package stainless

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/haowjy/meridian-assistants-go"
)

// DefaultMaxRetries is the number of retries after the first attempt.
const DefaultMaxRetries = 2

// Transport sends requests through an anthropic.Client's Execute method.
type Transport struct {
	client *anthropic.Client
	logger *zap.Logger
}

var _ assistants.Transport = (*Transport)(nil)

type settings struct {
	maxRetries int
	httpClient *http.Client
	logger     *zap.Logger
	extra      []option.RequestOption
}

// Option configures a Transport.
type Option func(*settings)

// WithMaxRetries sets how many times a failed call is retried (0 disables retries).
func WithMaxRetries(n int) Option {
	return func(s *settings) {
		s.maxRetries = n
	}
}

// WithHTTPClient replaces the http.Client used by the request engine.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		s.httpClient = c
	}
}

// WithLogger sets the logger; every attempt (including retries) is logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithRequestOptions appends raw request options applied to every call.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(s *settings) {
		s.extra = append(s.extra, opts...)
	}
}

// New creates a transport.
func New(opts ...Option) *Transport {
	s := &settings{
		maxRetries: DefaultMaxRetries,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	logger := s.logger.Named("stainless")

	clientOpts := []option.RequestOption{
		option.WithMaxRetries(s.maxRetries),
		option.WithMiddleware(logAttempts(logger)),
	}
	if s.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(s.httpClient))
	}
	clientOpts = append(clientOpts, s.extra...)

	client := anthropic.NewClient(clientOpts...)

	return &Transport{
		client: &client,
		logger: logger,
	}
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
	if cfg.BaseURL == "" {
		return nil, &assistants.TransportError{
			Method:  method,
			Path:    path,
			Message: "config has no base URL",
			Err:     assistants.ErrInvalidRequest,
		}
	}

	var out assistants.Response
	// The engine resolves paths against the base URL; a leading slash would
	// drop the base URL's own path (e.g. "/v1").
	err := t.client.Execute(ctx, method, strings.TrimPrefix(path, "/"), body, &out, requestOptions(cfg)...)
	if err != nil {
		return nil, classify(method, path, err)
	}
	if out == nil {
		return nil, &assistants.TransportError{
			Method:  method,
			Path:    path,
			Message: "response body is not a JSON object",
			Err:     assistants.ErrDecode,
		}
	}
	return out, nil
}

// requestOptions maps a Config onto per-call request options.
func requestOptions(cfg assistants.Config) []option.RequestOption {
	baseURL := cfg.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithHeaderDel("X-Api-Key"),
		option.WithHeaderDel("anthropic-version"),
	}

	for k, v := range cfg.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithHeader("Authorization", "Bearer "+cfg.APIKey))
	} else {
		opts = append(opts, option.WithHeaderDel("Authorization"))
	}
	if cfg.Organization != "" {
		opts = append(opts, option.WithHeader("OpenAI-Organization", cfg.Organization))
	}
	if cfg.Beta != "" {
		opts = append(opts, option.WithHeader("OpenAI-Beta", cfg.Beta))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return opts
}

// classify converts an engine error into *assistants.TransportError.
func classify(method, path string, err error) *assistants.TransportError {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return assistants.NewStatusError(method, path, apiErr.StatusCode, errorMessage(apiErr.RawJSON()))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	// The engine reports non-JSON success bodies with a plain error that
	// names the content-type.
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || strings.Contains(err.Error(), "content-type") {
		return &assistants.TransportError{
			Method:  method,
			Path:    path,
			Message: fmt.Sprintf("failed to parse response: %v", err),
			Err:     assistants.ErrDecode,
		}
	}

	return &assistants.TransportError{
		Method:    method,
		Path:      path,
		Message:   err.Error(),
		Retryable: !errors.Is(err, context.Canceled),
		Err:       assistants.ErrNetwork,
	}
}

// errorMessage extracts error.message from an API error body.
func errorMessage(raw string) string {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(raw), &errResp); err != nil || errResp.Error.Message == "" {
		return strings.TrimSpace(raw)
	}
	return errResp.Error.Message
}

// logAttempts returns a middleware that logs every HTTP attempt.
func logAttempts(logger *zap.Logger) option.Middleware {
	return func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		start := time.Now()
		resp, err := next(req)

		fields := []zap.Field{
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("elapsed", time.Since(start)),
		}
		if resp != nil {
			fields = append(fields, zap.Int("status", resp.StatusCode))
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		logger.Debug("attempt", fields...)

		return resp, err
	}
}
