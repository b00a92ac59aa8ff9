package assistants

import (
	"context"
)

// RunResource builds and sends requests for runs of an assistant on a thread.
//
// A run that stops in "requires_action" waits for SubmitToolOutputs. Polling,
// retries and timeouts are left to the caller and the Transport.
type RunResource struct {
	transport Transport
}

// NewRunResource creates a run resource over the given transport.
func NewRunResource(transport Transport) *RunResource {
	return &RunResource{transport: transport}
}

// Build normalizes input and keeps only assistant_id, model, instructions and tools.
func (r *RunResource) Build(input Input) Payload {
	return runFields.filter(input)
}

// Create sends POST /threads/{threadID}/runs.
func (r *RunResource) Create(ctx context.Context, cfg Config, threadID string, payload Payload) (Response, error) {
	return r.transport.Post(ctx, cfg.WithBeta(BetaAssistantsV1), resourcePath(threadID, "runs"), jsonBody(payload))
}

// Retrieve sends GET /threads/{threadID}/runs/{runID}.
func (r *RunResource) Retrieve(ctx context.Context, cfg Config, threadID, runID string) (Response, error) {
	return r.transport.Get(ctx, cfg.WithBeta(BetaAssistantsV1), resourcePath(threadID, "runs", runID))
}

// List sends GET /threads/{threadID}/runs.
func (r *RunResource) List(ctx context.Context, cfg Config, threadID string, params ...*ListParams) (Response, error) {
	p := mergeListParams(params)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return r.transport.Get(ctx, cfg.WithBeta(BetaAssistantsV1), withQuery(resourcePath(threadID, "runs"), p.Encode()))
}

// Cancel sends POST /threads/{threadID}/runs/{runID}/cancel with an empty JSON object.
func (r *RunResource) Cancel(ctx context.Context, cfg Config, threadID, runID string) (Response, error) {
	return r.transport.Post(ctx, cfg.WithBeta(BetaAssistantsV1), resourcePath(threadID, "runs", runID, "cancel"), Payload{})
}

// SubmitToolOutputs sends POST /threads/{threadID}/runs/{runID}/submit_tool_outputs
// with body {"tool_outputs": toolOutputs}. Each output is passed through
// unvalidated; ToolOutput builds the usual {tool_call_id, output} shape.
func (r *RunResource) SubmitToolOutputs(ctx context.Context, cfg Config, threadID, runID string, toolOutputs []map[string]any) (Response, error) {
	if toolOutputs == nil {
		toolOutputs = []map[string]any{}
	}
	return r.transport.Post(ctx, cfg.WithBeta(BetaAssistantsV1), resourcePath(threadID, "runs", runID, "submit_tool_outputs"), Payload{
		"tool_outputs": toolOutputs,
	})
}
