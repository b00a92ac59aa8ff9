package assistants

import (
	"context"
)

// Client bundles the thread, message and run resources over one Transport
// and a default Config. It is a convenience; each resource can also be used
// on its own with an explicit Config per call.
type Client struct {
	Threads  *ThreadResource
	Messages *MessageResource
	Runs     *RunResource

	config Config
}

// NewClient creates a client that sends every call through transport with cfg.
func NewClient(transport Transport, cfg Config) *Client {
	return &Client{
		Threads:  NewThreadResource(transport),
		Messages: NewMessageResource(transport),
		Runs:     NewRunResource(transport),
		config:   cfg.WithBeta(cfg.Beta),
	}
}

// Config returns a copy of the client's default configuration.
func (c *Client) Config() Config {
	return c.config.WithBeta(c.config.Beta)
}

// CreateThread creates a thread seeded with the given messages (may be empty).
// Each message is passed through MessageResource.Build.
func (c *Client) CreateThread(ctx context.Context, messages ...Input) (Response, error) {
	payload := Payload{}
	if len(messages) > 0 {
		built := make([]Payload, 0, len(messages))
		for _, m := range messages {
			built = append(built, c.Messages.Build(m))
		}
		payload["messages"] = built
	}
	return c.Threads.Create(ctx, c.config, c.Threads.Build(payload))
}

// SendMessage appends a user message with the given text to a thread.
func (c *Client) SendMessage(ctx context.Context, threadID, content string) (Response, error) {
	return c.Messages.Create(ctx, c.config, threadID, c.Messages.Build(Pairs{
		{Key: "role", Value: "user"},
		{Key: "content", Value: content},
	}))
}

// StartRun creates a run of assistantID on a thread. Extra fields (model,
// instructions, tools) are merged from overrides after filtering.
func (c *Client) StartRun(ctx context.Context, threadID, assistantID string, overrides Input) (Response, error) {
	payload := c.Runs.Build(overrides)
	payload["assistant_id"] = assistantID
	return c.Runs.Create(ctx, c.config, threadID, payload)
}
