package stainless

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/haowjy/meridian-assistants-go"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   map[string]any
}

type reply struct {
	status int
	body   string
}

// newServer serves the given replies in order, repeating the last one.
func newServer(t *testing.T, replies ...reply) (*httptest.Server, func() []capturedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		captured []capturedRequest
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := capturedRequest{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
		}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &c.Body)
		}

		mu.Lock()
		captured = append(captured, c)
		n := len(captured)
		mu.Unlock()

		rep := replies[len(replies)-1]
		if n <= len(replies) {
			rep = replies[n-1]
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After-Ms", "1")
		w.WriteHeader(rep.status)
		_, _ = w.Write([]byte(rep.body))
	}))
	t.Cleanup(srv.Close)

	return srv, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), captured...)
	}
}

func configFor(srv *httptest.Server) assistants.Config {
	return assistants.Config{
		APIKey:       "sk-test",
		BaseURL:      srv.URL + "/v1",
		Organization: "org-1",
		Beta:         "ignored",
		Headers:      map[string]string{"X-Trace": "abc"},
	}
}

func TestTransport_RunCreateHeaders(t *testing.T) {
	srv, captured := newServer(t, reply{200, `{"id":"run_1","object":"thread.run","status":"queued"}`})
	runs := assistants.NewRunResource(New(WithLogger(zap.NewExample())))

	resp, err := runs.Create(context.Background(), configFor(srv), "thread_abc", assistants.Payload{"assistant_id": "asst_xxx"})
	require.NoError(t, err)
	assert.Equal(t, "run_1", resp.ID())

	reqs := captured()
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/v1/threads/thread_abc/runs", req.Path)
	assert.Equal(t, map[string]any{"assistant_id": "asst_xxx"}, req.Body)
	assert.Equal(t, "assistants=v1", req.Header.Get("OpenAI-Beta"), "resource overrides the config marker")
	assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
	assert.Equal(t, "org-1", req.Header.Get("OpenAI-Organization"))
	assert.Equal(t, "abc", req.Header.Get("X-Trace"))
	assert.Empty(t, req.Header.Get("X-Api-Key"))
	assert.Empty(t, req.Header.Get("anthropic-version"))
}

func TestTransport_ListQueryAndEscaping(t *testing.T) {
	srv, captured := newServer(t, reply{200, `{"object":"list","data":[],"has_more":false}`})
	messages := assistants.NewMessageResource(New())

	_, err := messages.List(context.Background(), configFor(srv), "a/b", &assistants.ListParams{Limit: 5, Order: assistants.OrderDesc})
	require.NoError(t, err)

	req := captured()[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/v1/threads/a%2Fb/messages", req.Path)
	assert.Equal(t, "limit=5&order=desc", req.Query)
	assert.Nil(t, req.Body)
}

func TestTransport_RetriesTransientFailures(t *testing.T) {
	srv, captured := newServer(t,
		reply{503, `{"error":{"message":"overloaded"}}`},
		reply{429, `{"error":{"message":"slow down"}}`},
		reply{200, `{"id":"r1","object":"thread.run","status":"cancelling"}`},
	)
	runs := assistants.NewRunResource(New())

	resp, err := runs.Cancel(context.Background(), configFor(srv), "t1", "r1")
	require.NoError(t, err)
	assert.Equal(t, "cancelling", resp.String("status"))

	reqs := captured()
	require.Len(t, reqs, 3)
	for _, req := range reqs {
		assert.Equal(t, "/v1/threads/t1/runs/r1/cancel", req.Path)
		assert.NotNil(t, req.Body, "body is replayed on every attempt")
	}
}

func TestTransport_RetriesExhausted(t *testing.T) {
	srv, captured := newServer(t, reply{500, `{"error":{"message":"internal"}}`})
	threads := assistants.NewThreadResource(New(WithMaxRetries(1)))

	_, err := threads.Retrieve(context.Background(), configFor(srv), "t1")
	require.Error(t, err)
	assert.ErrorIs(t, err, assistants.ErrUnavailable)
	assert.True(t, assistants.IsRetryable(err))
	assert.Len(t, captured(), 2)
}

func TestTransport_ClientErrorsAreNotRetried(t *testing.T) {
	srv, captured := newServer(t, reply{404, `{"error":{"message":"No thread found with id 't1'."}}`})
	threads := assistants.NewThreadResource(New())

	_, err := threads.Retrieve(context.Background(), configFor(srv), "t1")
	require.Error(t, err)

	var te *assistants.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 404, te.StatusCode)
	assert.Equal(t, "No thread found with id 't1'.", te.Message)
	assert.ErrorIs(t, err, assistants.ErrNotFound)
	assert.Len(t, captured(), 1)
}

func TestTransport_DecodeErrors(t *testing.T) {
	for _, body := range []string{`[1,2,3]`, `null`} {
		srv, _ := newServer(t, reply{200, body})

		_, err := assistants.NewThreadResource(New()).Retrieve(context.Background(), configFor(srv), "t1")
		assert.ErrorIs(t, err, assistants.ErrDecode, "body %q", body)
	}
}

func TestTransport_NetworkError(t *testing.T) {
	srv, _ := newServer(t, reply{200, `{}`})
	cfg := configFor(srv)
	srv.Close()

	_, err := assistants.NewThreadResource(New(WithMaxRetries(0))).Retrieve(context.Background(), cfg, "t1")
	assert.ErrorIs(t, err, assistants.ErrNetwork)
}

func TestTransport_MissingBaseURL(t *testing.T) {
	_, err := assistants.NewThreadResource(New()).Retrieve(context.Background(), assistants.Config{}, "t1")
	assert.ErrorIs(t, err, assistants.ErrInvalidRequest)
}
