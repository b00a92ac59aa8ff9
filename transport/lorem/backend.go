package lorem

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/haowjy/meridian-assistants-go"
)

const (
	defaultModel     = "lorem-fast"
	defaultListLimit = 20
	maxFileIDs       = 10
)

type thread struct {
	id        string
	createdAt int64
	metadata  map[string]any
	messages  []*message
	runs      []*run
}

type message struct {
	id          string
	threadID    string
	createdAt   int64
	role        string
	text        string
	fileIDs     []any
	assistantID string
	runID       string
}

type run struct {
	id           string
	threadID     string
	assistantID  string
	createdAt    int64
	status       openai.RunStatus
	model        string
	instructions string
	tools        []any
	startedAt    *int64
	completedAt  *int64
	cancelledAt  *int64

	// pending holds the tool calls of a requires_action run.
	pending   []map[string]any
	submitted bool
}

func threadNotFound(id string) (any, int, string) {
	return nil, http.StatusNotFound, fmt.Sprintf("No thread found with id '%s'.", id)
}

func badRequest(format string, args ...any) (any, int, string) {
	return nil, http.StatusBadRequest, fmt.Sprintf(format, args...)
}

// Threads

func (t *Transport) createThread(body map[string]any) (any, int, string) {
	var inputs []map[string]any
	if raw, ok := body["messages"]; ok && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return badRequest("Invalid type for 'messages': expected an array.")
		}
		for i, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return badRequest("Invalid type for 'messages[%d]': expected an object.", i)
			}
			if msg := validateMessage(m); msg != "" {
				return badRequest("messages[%d]: %s", i, msg)
			}
			inputs = append(inputs, m)
		}
	}

	th := &thread{
		id:        t.nextID("thread"),
		createdAt: t.timestamp(),
		metadata:  map[string]any{},
	}
	for _, m := range inputs {
		th.messages = append(th.messages, t.newMessage(th.id, m))
	}
	t.threads[th.id] = th

	return threadView(th), http.StatusOK, ""
}

func (t *Transport) retrieveThread(id string) (any, int, string) {
	th, ok := t.threads[id]
	if !ok {
		return threadNotFound(id)
	}
	return threadView(th), http.StatusOK, ""
}

func (t *Transport) deleteThread(id string) (any, int, string) {
	if _, ok := t.threads[id]; !ok {
		return threadNotFound(id)
	}
	delete(t.threads, id)
	return map[string]any{
		"id":      id,
		"object":  assistants.ObjectThreadDeleted,
		"deleted": true,
	}, http.StatusOK, ""
}

func threadView(th *thread) map[string]any {
	return map[string]any{
		"id":         th.id,
		"object":     assistants.ObjectThread,
		"created_at": th.createdAt,
		"metadata":   th.metadata,
	}
}

// Messages

// validateMessage returns a non-empty message when m is not a valid user message.
func validateMessage(m map[string]any) string {
	role, _ := m["role"].(string)
	if role == "" {
		return "Missing required parameter: 'role'."
	}
	if role != "user" {
		return fmt.Sprintf("Invalid value for 'role': '%s'. Only 'user' messages can be created.", role)
	}
	content, ok := m["content"].(string)
	if !ok || content == "" {
		return "Missing required parameter: 'content'."
	}
	if raw, ok := m["file_ids"]; ok && raw != nil {
		ids, ok := raw.([]any)
		if !ok {
			return "Invalid type for 'file_ids': expected an array."
		}
		if len(ids) > maxFileIDs {
			return fmt.Sprintf("Invalid 'file_ids': array too long. Expected at most %d, got %d.", maxFileIDs, len(ids))
		}
	}
	return ""
}

func (t *Transport) newMessage(threadID string, m map[string]any) *message {
	fileIDs, _ := m["file_ids"].([]any)
	if fileIDs == nil {
		fileIDs = []any{}
	}
	content, _ := m["content"].(string)
	role, _ := m["role"].(string)

	return &message{
		id:        t.nextID("msg"),
		threadID:  threadID,
		createdAt: t.timestamp(),
		role:      role,
		text:      content,
		fileIDs:   fileIDs,
	}
}

func (t *Transport) createMessage(threadID string, body map[string]any) (any, int, string) {
	th, ok := t.threads[threadID]
	if !ok {
		return threadNotFound(threadID)
	}
	if msg := validateMessage(body); msg != "" {
		return badRequest("%s", msg)
	}
	if r := activeRun(th); r != nil {
		return badRequest("Can't add messages to %s while a run %s is active.", th.id, r.id)
	}

	m := t.newMessage(th.id, body)
	th.messages = append(th.messages, m)
	return messageView(m), http.StatusOK, ""
}

func (t *Transport) retrieveMessage(threadID, messageID string) (any, int, string) {
	th, ok := t.threads[threadID]
	if !ok {
		return threadNotFound(threadID)
	}
	for _, m := range th.messages {
		if m.id == messageID {
			return messageView(m), http.StatusOK, ""
		}
	}
	return nil, http.StatusNotFound, fmt.Sprintf("No message found with id '%s'.", messageID)
}

func (t *Transport) listMessages(threadID string, query url.Values) (any, int, string) {
	th, ok := t.threads[threadID]
	if !ok {
		return threadNotFound(threadID)
	}

	ids := make([]string, len(th.messages))
	views := make(map[string]any, len(th.messages))
	for i, m := range th.messages {
		ids[i] = m.id
		views[m.id] = messageView(m)
	}
	return listView(ids, views, query)
}

func messageView(m *message) map[string]any {
	var assistantID, runID any
	if m.assistantID != "" {
		assistantID = m.assistantID
	}
	if m.runID != "" {
		runID = m.runID
	}

	return map[string]any{
		"id":         m.id,
		"object":     assistants.ObjectMessage,
		"created_at": m.createdAt,
		"thread_id":  m.threadID,
		"role":       m.role,
		"content": []any{
			map[string]any{
				"type": "text",
				"text": map[string]any{
					"value":       m.text,
					"annotations": []any{},
				},
			},
		},
		"file_ids":     m.fileIDs,
		"assistant_id": assistantID,
		"run_id":       runID,
		"metadata":     map[string]any{},
	}
}

// Runs

func activeRun(th *thread) *run {
	for _, r := range th.runs {
		if !assistants.IsTerminal(r.status) {
			return r
		}
	}
	return nil
}

func (t *Transport) findRun(threadID, runID string) (*thread, *run, int, string) {
	th, ok := t.threads[threadID]
	if !ok {
		_, status, msg := threadNotFound(threadID)
		return nil, nil, status, msg
	}
	for _, r := range th.runs {
		if r.id == runID {
			return th, r, http.StatusOK, ""
		}
	}
	return nil, nil, http.StatusNotFound, fmt.Sprintf("No run found with id '%s'.", runID)
}

func (t *Transport) createRun(threadID string, body map[string]any) (any, int, string) {
	th, ok := t.threads[threadID]
	if !ok {
		return threadNotFound(threadID)
	}

	assistantID, _ := body["assistant_id"].(string)
	if assistantID == "" {
		return badRequest("Missing required parameter: 'assistant_id'.")
	}
	if r := activeRun(th); r != nil {
		return badRequest("Thread %s already has an active run %s.", th.id, r.id)
	}

	tools, msg := validateTools(body["tools"])
	if msg != "" {
		return badRequest("%s", msg)
	}

	model, _ := body["model"].(string)
	if model == "" {
		model = defaultModel
	}
	instructions, _ := body["instructions"].(string)

	r := &run{
		id:           t.nextID("run"),
		threadID:     th.id,
		assistantID:  assistantID,
		createdAt:    t.timestamp(),
		status:       openai.RunStatusQueued,
		model:        model,
		instructions: instructions,
		tools:        tools,
	}
	th.runs = append(th.runs, r)

	return runView(r), http.StatusOK, ""
}

// validateTools checks tool definitions and returns them as a non-nil list.
func validateTools(raw any) ([]any, string) {
	if raw == nil {
		return []any{}, ""
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, "Invalid type for 'tools': expected an array."
	}
	for i, item := range list {
		tool, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Sprintf("Invalid type for 'tools[%d]': expected an object.", i)
		}
		switch tool["type"] {
		case assistants.ToolTypeCodeInterpreter, assistants.ToolTypeRetrieval:
		case assistants.ToolTypeFunction:
			fn, _ := tool["function"].(map[string]any)
			if name, _ := fn["name"].(string); name == "" {
				return nil, fmt.Sprintf("Missing required parameter: 'tools[%d].function.name'.", i)
			}
		default:
			return nil, fmt.Sprintf("Invalid value for 'tools[%d].type': '%v'.", i, tool["type"])
		}
	}
	return list, ""
}

func (t *Transport) retrieveRun(threadID, runID string) (any, int, string) {
	th, r, status, msg := t.findRun(threadID, runID)
	if status != http.StatusOK {
		return nil, status, msg
	}
	t.advance(th, r)
	return runView(r), http.StatusOK, ""
}

// advance moves r one step along its lifecycle.
func (t *Transport) advance(th *thread, r *run) {
	now := t.timestamp()

	switch r.status {
	case openai.RunStatusQueued:
		r.status = openai.RunStatusInProgress
		r.startedAt = &now
	case openai.RunStatusInProgress:
		if !r.submitted {
			if calls := t.toolCalls(r); len(calls) > 0 {
				r.status = openai.RunStatusRequiresAction
				r.pending = calls
				return
			}
		}
		r.status = openai.RunStatusCompleted
		r.completedAt = &now
		th.messages = append(th.messages, &message{
			id:          t.nextID("msg"),
			threadID:    th.id,
			createdAt:   now,
			role:        "assistant",
			text:        t.generator.Paragraph(1, 3),
			fileIDs:     []any{},
			assistantID: r.assistantID,
			runID:       r.id,
		})
	case openai.RunStatusCancelling:
		r.status = openai.RunStatusCancelled
		r.cancelledAt = &now
	}
}

// toolCalls builds one call per function tool with lorem arguments that
// follow the tool's parameter schema.
func (t *Transport) toolCalls(r *run) []map[string]any {
	var calls []map[string]any
	for _, item := range r.tools {
		tool, _ := item.(map[string]any)
		if tool["type"] != assistants.ToolTypeFunction {
			continue
		}
		fn, _ := tool["function"].(map[string]any)
		name, _ := fn["name"].(string)
		params, _ := fn["parameters"].(map[string]any)

		args, _ := json.Marshal(t.fakeArguments(params))
		calls = append(calls, map[string]any{
			"id":   t.nextID("call"),
			"type": assistants.ToolTypeFunction,
			"function": map[string]any{
				"name":      name,
				"arguments": string(args),
			},
		})
	}
	return calls
}

func (t *Transport) fakeArguments(schema map[string]any) map[string]any {
	args := map[string]any{}
	props, _ := schema["properties"].(map[string]any)

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop, _ := props[name].(map[string]any)
		switch prop["type"] {
		case "integer", "number":
			args[name] = 42
		case "boolean":
			args[name] = true
		case "array":
			args[name] = []any{t.generator.Word(3, 8)}
		default:
			if enum, ok := prop["enum"].([]any); ok && len(enum) > 0 {
				args[name] = enum[0]
				continue
			}
			args[name] = t.generator.Word(3, 8)
		}
	}
	return args
}

func (t *Transport) listRuns(threadID string, query url.Values) (any, int, string) {
	th, ok := t.threads[threadID]
	if !ok {
		return threadNotFound(threadID)
	}

	ids := make([]string, len(th.runs))
	views := make(map[string]any, len(th.runs))
	for i, r := range th.runs {
		ids[i] = r.id
		views[r.id] = runView(r)
	}
	return listView(ids, views, query)
}

func (t *Transport) cancelRun(threadID, runID string) (any, int, string) {
	_, r, status, msg := t.findRun(threadID, runID)
	if status != http.StatusOK {
		return nil, status, msg
	}
	if assistants.IsTerminal(r.status) || r.status == openai.RunStatusCancelling {
		return badRequest("Cannot cancel run with status '%s'.", r.status)
	}
	r.status = openai.RunStatusCancelling
	r.pending = nil
	return runView(r), http.StatusOK, ""
}

func (t *Transport) submitToolOutputs(threadID, runID string, body map[string]any) (any, int, string) {
	_, r, status, msg := t.findRun(threadID, runID)
	if status != http.StatusOK {
		return nil, status, msg
	}
	if r.status != openai.RunStatusRequiresAction {
		return badRequest("Runs in status \"%s\" do not accept tool outputs.", r.status)
	}

	outputs, ok := body["tool_outputs"].([]any)
	if !ok {
		return badRequest("Missing required parameter: 'tool_outputs'.")
	}

	got := map[string]bool{}
	for i, item := range outputs {
		out, _ := item.(map[string]any)
		id, _ := out["tool_call_id"].(string)
		if id == "" {
			return badRequest("Missing required parameter: 'tool_outputs[%d].tool_call_id'.", i)
		}
		got[id] = true
	}

	var expected, missing []string
	for _, call := range r.pending {
		id, _ := call["id"].(string)
		expected = append(expected, id)
		if !got[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 || len(got) != len(expected) {
		return badRequest("Expected tool outputs for call_ids [%s], got [%s].",
			strings.Join(expected, ", "), strings.Join(sortedKeys(got), ", "))
	}

	r.status = openai.RunStatusInProgress
	r.pending = nil
	r.submitted = true
	return runView(r), http.StatusOK, ""
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runView(r *run) map[string]any {
	view := map[string]any{
		"id":              r.id,
		"object":          assistants.ObjectRun,
		"created_at":      r.createdAt,
		"thread_id":       r.threadID,
		"assistant_id":    r.assistantID,
		"status":          r.status,
		"required_action": nil,
		"last_error":      nil,
		"started_at":      r.startedAt,
		"completed_at":    r.completedAt,
		"cancelled_at":    r.cancelledAt,
		"failed_at":       nil,
		"model":           r.model,
		"instructions":    r.instructions,
		"tools":           r.tools,
		"file_ids":        []any{},
		"metadata":        map[string]any{},
	}
	if r.status == openai.RunStatusRequiresAction {
		view["required_action"] = map[string]any{
			"type": openai.RequiredActionTypeSubmitToolOutputs,
			"submit_tool_outputs": map[string]any{
				"tool_calls": r.pending,
			},
		}
	}
	return view
}

// Lists

// listView pages through ids (oldest first) following the limit, order,
// after and before query parameters.
func listView(ids []string, views map[string]any, query url.Values) (any, int, string) {
	limit := defaultListLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			return badRequest("Invalid 'limit': expected an integer between 1 and 100, got '%s'.", raw)
		}
		limit = n
	}

	ordered := append([]string(nil), ids...)
	switch order := query.Get("order"); order {
	case "", assistants.OrderDesc:
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	case assistants.OrderAsc:
	default:
		return badRequest("Invalid 'order': expected 'asc' or 'desc', got '%s'.", order)
	}

	if after := query.Get("after"); after != "" {
		ordered = afterCursor(ordered, after)
	}
	if before := query.Get("before"); before != "" {
		ordered = beforeCursor(ordered, before)
	}

	hasMore := len(ordered) > limit
	if hasMore {
		ordered = ordered[:limit]
	}

	data := make([]any, len(ordered))
	for i, id := range ordered {
		data[i] = views[id]
	}

	var firstID, lastID any
	if len(ordered) > 0 {
		firstID = ordered[0]
		lastID = ordered[len(ordered)-1]
	}

	return map[string]any{
		"object":   assistants.ObjectList,
		"data":     data,
		"first_id": firstID,
		"last_id":  lastID,
		"has_more": hasMore,
	}, http.StatusOK, ""
}

func afterCursor(ids []string, cursor string) []string {
	for i, id := range ids {
		if id == cursor {
			return ids[i+1:]
		}
	}
	return nil
}

func beforeCursor(ids []string, cursor string) []string {
	for i, id := range ids {
		if id == cursor {
			return ids[:i]
		}
	}
	return nil
}
