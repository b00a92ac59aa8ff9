package assistants

import (
	"context"
)

// MessageResource builds and sends requests for messages within a thread.
type MessageResource struct {
	transport Transport
}

// NewMessageResource creates a message resource over the given transport.
func NewMessageResource(transport Transport) *MessageResource {
	return &MessageResource{transport: transport}
}

// Build normalizes input and keeps only role, content and file_ids.
//
//	Build(Payload{"role": "user", "content": "hi", "bogus": 1})
//	// => Payload{"role": "user", "content": "hi"}
func (r *MessageResource) Build(input Input) Payload {
	return messageFields.filter(input)
}

// Create sends POST /threads/{threadID}/messages.
func (r *MessageResource) Create(ctx context.Context, cfg Config, threadID string, payload Payload) (Response, error) {
	return r.transport.Post(ctx, cfg.WithBeta(BetaAssistantsV1), resourcePath(threadID, "messages"), jsonBody(payload))
}

// Retrieve sends GET /threads/{threadID}/messages/{messageID}.
func (r *MessageResource) Retrieve(ctx context.Context, cfg Config, threadID, messageID string) (Response, error) {
	return r.transport.Get(ctx, cfg.WithBeta(BetaAssistantsV1), resourcePath(threadID, "messages", messageID))
}

// List sends GET /threads/{threadID}/messages. Optional params add
// pagination to the query string and are validated before anything is sent.
func (r *MessageResource) List(ctx context.Context, cfg Config, threadID string, params ...*ListParams) (Response, error) {
	p := mergeListParams(params)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return r.transport.Get(ctx, cfg.WithBeta(BetaAssistantsV1), withQuery(resourcePath(threadID, "messages"), p.Encode()))
}
