// Package lorem implements assistants.Transport as an in-memory fake of the
// threads, messages and runs endpoints. Assistant replies are lorem ipsum.
//
// Runs advance one step each time they are retrieved:
//
//	queued -> in_progress -> completed            (no function tools)
//	queued -> in_progress -> requires_action      (function tools)
//	requires_action --submit_tool_outputs--> in_progress -> completed
//	any non-terminal --cancel--> cancelling -> cancelled
//
// Calls whose Config does not carry the assistants=v1 marker are rejected the
// way the real API rejects them.
package lorem

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	loremgen "github.com/bozaro/golorem"
	"go.uber.org/zap"

	"github.com/haowjy/meridian-assistants-go"
)

// Transport is an in-memory assistants backend. Safe for concurrent use.
type Transport struct {
	mu        sync.Mutex
	generator *loremgen.Lorem
	logger    *zap.Logger
	now       func() time.Time
	seq       int
	threads   map[string]*thread
}

var _ assistants.Transport = (*Transport)(nil)

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the logger used for per-call debug logs.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// WithClock overrides the time source used for created_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Transport) {
		t.now = now
	}
}

// New creates an empty backend.
func New(opts ...Option) *Transport {
	t := &Transport{
		generator: loremgen.New(),
		logger:    zap.NewNop(),
		now:       time.Now,
		threads:   make(map[string]*thread),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.Named("lorem")
	return t
}

// Get issues a GET request.
func (t *Transport) Get(ctx context.Context, cfg assistants.Config, path string) (assistants.Response, error) {
	return t.do(ctx, cfg, http.MethodGet, path, nil)
}

// Post issues a POST request.
func (t *Transport) Post(ctx context.Context, cfg assistants.Config, path string, body any) (assistants.Response, error) {
	return t.do(ctx, cfg, http.MethodPost, path, body)
}

// Delete issues a DELETE request.
func (t *Transport) Delete(ctx context.Context, cfg assistants.Config, path string) (assistants.Response, error) {
	return t.do(ctx, cfg, http.MethodDelete, path, nil)
}

// request is one decoded call.
type request struct {
	method   string
	path     string
	segments []string
	query    url.Values
	body     map[string]any
}

func (t *Transport) do(ctx context.Context, cfg assistants.Config, method, path string, body any) (assistants.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, &assistants.TransportError{
			Method:  method,
			Path:    path,
			Message: err.Error(),
			Err:     assistants.ErrNetwork,
		}
	}

	req, err := parseRequest(method, path, body)
	if err != nil {
		return nil, &assistants.TransportError{
			Method:  method,
			Path:    path,
			Message: err.Error(),
			Err:     assistants.ErrInvalidRequest,
		}
	}

	if cfg.Beta != assistants.BetaAssistantsV1 {
		return nil, assistants.NewStatusError(method, path, http.StatusBadRequest,
			fmt.Sprintf("You must provide the 'OpenAI-Beta' header to access the Assistants API. Please try again by setting the header 'OpenAI-Beta: %s'.", assistants.BetaAssistantsV1))
	}

	t.mu.Lock()
	out, status, message := t.route(req)
	t.mu.Unlock()

	t.logger.Debug("call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
	)

	if status != http.StatusOK {
		return nil, assistants.NewStatusError(method, path, status, message)
	}
	return toResponse(out)
}

// parseRequest splits the path and normalizes the body the way it would
// arrive over the wire.
func parseRequest(method, path string, body any) (*request, error) {
	u, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	var segments []string
	for _, raw := range strings.Split(strings.Trim(u.EscapedPath(), "/"), "/") {
		seg, err := url.PathUnescape(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid path segment %q: %w", raw, err)
		}
		segments = append(segments, seg)
	}

	req := &request{
		method:   method,
		path:     path,
		segments: segments,
		query:    u.Query(),
		body:     map[string]any{},
	}
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		if err := json.Unmarshal(encoded, &req.body); err != nil || req.body == nil {
			return nil, fmt.Errorf("request body must be a JSON object")
		}
	}
	return req, nil
}

// toResponse round-trips v through JSON so callers see the same value types
// a network transport would produce.
func toResponse(v any) (assistants.Response, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, &assistants.TransportError{Message: err.Error(), Err: assistants.ErrDecode}
	}
	var out assistants.Response
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, &assistants.TransportError{Message: err.Error(), Err: assistants.ErrDecode}
	}
	return out, nil
}

// route dispatches a request. Caller holds t.mu.
func (t *Transport) route(req *request) (any, int, string) {
	s := req.segments
	if len(s) == 0 || s[0] != "threads" {
		return notFoundRoute(req)
	}

	switch {
	case len(s) == 1 && req.method == http.MethodPost:
		return t.createThread(req.body)
	case len(s) == 2 && req.method == http.MethodGet:
		return t.retrieveThread(s[1])
	case len(s) == 2 && req.method == http.MethodDelete:
		return t.deleteThread(s[1])
	case len(s) == 3 && s[2] == "messages" && req.method == http.MethodPost:
		return t.createMessage(s[1], req.body)
	case len(s) == 3 && s[2] == "messages" && req.method == http.MethodGet:
		return t.listMessages(s[1], req.query)
	case len(s) == 4 && s[2] == "messages" && req.method == http.MethodGet:
		return t.retrieveMessage(s[1], s[3])
	case len(s) == 3 && s[2] == "runs" && req.method == http.MethodPost:
		return t.createRun(s[1], req.body)
	case len(s) == 3 && s[2] == "runs" && req.method == http.MethodGet:
		return t.listRuns(s[1], req.query)
	case len(s) == 4 && s[2] == "runs" && req.method == http.MethodGet:
		return t.retrieveRun(s[1], s[3])
	case len(s) == 5 && s[2] == "runs" && s[4] == "cancel" && req.method == http.MethodPost:
		return t.cancelRun(s[1], s[3])
	case len(s) == 5 && s[2] == "runs" && s[4] == "submit_tool_outputs" && req.method == http.MethodPost:
		return t.submitToolOutputs(s[1], s[3], req.body)
	}
	return notFoundRoute(req)
}

func notFoundRoute(req *request) (any, int, string) {
	return nil, http.StatusNotFound, fmt.Sprintf("Invalid URL (%s %s)", req.method, req.path)
}

func (t *Transport) nextID(prefix string) string {
	t.seq++
	return fmt.Sprintf("%s_lorem%06d", prefix, t.seq)
}

func (t *Transport) timestamp() int64 {
	return t.now().Unix()
}
