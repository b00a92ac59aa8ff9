package assistants

import (
	"context"
	"net/http"
	"sync"
)

// Test helper functions shared across test files

// recordedCall is one call observed by recordingTransport.
type recordedCall struct {
	Method string
	Path   string
	Config Config
	Body   any
}

// recordingTransport records every call and replies with a canned response
// or error.
type recordingTransport struct {
	mu    sync.Mutex
	calls []recordedCall

	response Response
	err      error
}

var _ Transport = (*recordingTransport)(nil)

func (t *recordingTransport) record(method string, cfg Config, path string, body any) (Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, recordedCall{Method: method, Path: path, Config: cfg, Body: body})
	if t.err != nil {
		return nil, t.err
	}
	if t.response != nil {
		return t.response, nil
	}
	return Response{"id": "obj_1"}, nil
}

func (t *recordingTransport) Get(_ context.Context, cfg Config, path string) (Response, error) {
	return t.record(http.MethodGet, cfg, path, nil)
}

func (t *recordingTransport) Post(_ context.Context, cfg Config, path string, body any) (Response, error) {
	return t.record(http.MethodPost, cfg, path, body)
}

func (t *recordingTransport) Delete(_ context.Context, cfg Config, path string) (Response, error) {
	return t.record(http.MethodDelete, cfg, path, nil)
}

func (t *recordingTransport) Calls() []recordedCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]recordedCall(nil), t.calls...)
}

func testConfig() Config {
	return Config{
		APIKey:  "sk-test",
		BaseURL: "https://api.example.test/v1",
		Headers: map[string]string{"X-Trace": "abc"},
	}
}
