package assistants

import (
	"context"
)

// Response is the decoded JSON body returned by a Transport.
// No schema is enforced; see decode.go for typed views.
type Response map[string]any

// String returns the value at key when it is a string, or "".
func (r Response) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// ID returns the "id" field of the response.
func (r Response) ID() string {
	return r.String("id")
}

// Object returns the "object" field of the response.
func (r Response) Object() ObjectType {
	return ObjectType(r.String("object"))
}

// Transport performs the HTTP exchange for the resources in this package.
// Implementations own connection handling, authentication headers, retries,
// timeouts and JSON encoding/decoding.
//
// Types used by this interface:
//   - Config: defined in config.go
//   - Response: defined above
//
// Every call made by ThreadResource, MessageResource and RunResource passes a
// Config whose Beta field is BetaAssistantsV1. Paths are rooted at "/threads"
// and may carry a query string.
//
// Implementations in this module:
//   - transport/httpjson: net/http + encoding/json
//   - transport/stainless: request engine from anthropic-sdk-go (retries)
//   - transport/lorem: in-memory fake backend for tests and demos
type Transport interface {
	// Get issues a GET request for path.
	Get(ctx context.Context, cfg Config, path string) (Response, error)

	// Post issues a POST request for path with body encoded as JSON.
	// A nil body sends no request body.
	Post(ctx context.Context, cfg Config, path string, body any) (Response, error)

	// Delete issues a DELETE request for path.
	Delete(ctx context.Context, cfg Config, path string) (Response, error)
}
