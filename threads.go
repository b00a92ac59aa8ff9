package assistants

import (
	"context"
)

// ThreadResource builds and sends requests for conversation threads.
// It holds no mutable state and is safe for concurrent use.
type ThreadResource struct {
	transport Transport
}

// NewThreadResource creates a thread resource over the given transport.
func NewThreadResource(transport Transport) *ThreadResource {
	return &ThreadResource{transport: transport}
}

// Build normalizes input and keeps only the fields a thread accepts: messages.
func (r *ThreadResource) Build(input Input) Payload {
	return threadFields.filter(input)
}

// Create sends POST /threads with payload as the JSON body.
func (r *ThreadResource) Create(ctx context.Context, cfg Config, payload Payload) (Response, error) {
	return r.transport.Post(ctx, cfg.WithBeta(BetaAssistantsV1), threadsPath, jsonBody(payload))
}

// Retrieve sends GET /threads/{threadID}.
func (r *ThreadResource) Retrieve(ctx context.Context, cfg Config, threadID string) (Response, error) {
	return r.transport.Get(ctx, cfg.WithBeta(BetaAssistantsV1), resourcePath(threadID))
}

// Delete sends DELETE /threads/{threadID}.
func (r *ThreadResource) Delete(ctx context.Context, cfg Config, threadID string) (Response, error) {
	return r.transport.Delete(ctx, cfg.WithBeta(BetaAssistantsV1), resourcePath(threadID))
}

// AddMessage sends POST /threads/{threadID}/messages.
// messagePayload is sent as is; shape it with MessageResource.Build first.
func (r *ThreadResource) AddMessage(ctx context.Context, cfg Config, threadID string, messagePayload Payload) (Response, error) {
	return r.transport.Post(ctx, cfg.WithBeta(BetaAssistantsV1), resourcePath(threadID, "messages"), jsonBody(messagePayload))
}

