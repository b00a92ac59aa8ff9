package assistants

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/sashabaranov/go-openai"
)

// Tool type constants accepted in a run's "tools" field
const (
	ToolTypeCodeInterpreter = "code_interpreter"
	ToolTypeRetrieval       = "retrieval"
	ToolTypeFunction        = "function"
)

// ExecutionSide indicates where tool execution happens
type ExecutionSide string

const (
	ExecutionSideServer ExecutionSide = "server" // API executes the tool
	ExecutionSideClient ExecutionSide = "client" // Caller executes and submits outputs
)

// ToolExecutionSide returns where a tool of the given type runs.
// Only function tools pause a run for SubmitToolOutputs.
func ToolExecutionSide(toolType string) ExecutionSide {
	if toolType == ToolTypeFunction {
		return ExecutionSideClient
	}
	return ExecutionSideServer
}

// CodeInterpreterTool returns the code_interpreter entry for a run's tools list.
func CodeInterpreterTool() map[string]any {
	return map[string]any{"type": ToolTypeCodeInterpreter}
}

// RetrievalTool returns the retrieval entry for a run's tools list.
func RetrievalTool() map[string]any {
	return map[string]any{"type": ToolTypeRetrieval}
}

// FunctionTool returns a function entry for a run's tools list.
// parameters must be a JSON schema with type "object".
func FunctionTool(name, description string, parameters map[string]any) (map[string]any, error) {
	if name == "" {
		return nil, errors.New("function name is required")
	}
	if parameters == nil {
		return nil, fmt.Errorf("function %s: parameters are required", name)
	}
	if schemaType, ok := parameters["type"].(string); !ok || schemaType != "object" {
		return nil, fmt.Errorf("function %s: parameters must be a JSON schema with type 'object'", name)
	}

	function := map[string]any{
		"name":       name,
		"parameters": parameters,
	}
	if description != "" {
		function["description"] = description
	}

	return map[string]any{
		"type":     ToolTypeFunction,
		"function": function,
	}, nil
}

// ToolOutput builds one entry of SubmitToolOutputs' tool_outputs list.
func ToolOutput(toolCallID, output string) map[string]any {
	return map[string]any{
		"tool_call_id": toolCallID,
		"output":       output,
	}
}

// ToolHandler executes one function tool call. args holds the decoded JSON
// arguments the model produced.
type ToolHandler func(args map[string]any) (any, error)

// TypedToolHandler adapts a handler taking typed params. The arguments are
// decoded with mapstructure, so P uses `mapstructure:"..."` tags.
func TypedToolHandler[P any, R any](handler func(P) (R, error)) ToolHandler {
	return func(args map[string]any) (any, error) {
		params, err := DecodeArguments[P](args)
		if err != nil {
			return nil, err
		}
		return handler(params)
	}
}

// DecodeArguments decodes function-call arguments into P.
func DecodeArguments[P any](args map[string]any) (P, error) {
	var params P
	if err := mapstructure.Decode(args, &params); err != nil {
		return params, fmt.Errorf("failed to decode tool arguments: %w", err)
	}
	return params, nil
}

// ToolSet maps function names to handlers and answers the tool calls of a
// run waiting in requires_action.
type ToolSet struct {
	handlers map[string]ToolHandler
}

// NewToolSet creates an empty tool set.
func NewToolSet() *ToolSet {
	return &ToolSet{handlers: make(map[string]ToolHandler)}
}

// Register adds a handler for the function name, replacing any previous one.
func (s *ToolSet) Register(name string, handler ToolHandler) *ToolSet {
	s.handlers[name] = handler
	return s
}

// Names returns the registered function names in sorted order.
func (s *ToolSet) Names() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Outputs runs the handler for every tool call the run requires and returns
// the list to pass to RunResource.SubmitToolOutputs.
//
// Handler failures and unknown functions become outputs of the form
// "error: ..." so the assistant sees them; malformed arguments abort.
func (s *ToolSet) Outputs(run openai.Run) ([]map[string]any, error) {
	if run.Status != openai.RunStatusRequiresAction || run.RequiredAction == nil || run.RequiredAction.SubmitToolOutputs == nil {
		return nil, fmt.Errorf("run %s does not require tool outputs (status %s)", run.ID, run.Status)
	}

	calls := run.RequiredAction.SubmitToolOutputs.ToolCalls
	outputs := make([]map[string]any, 0, len(calls))
	for _, call := range calls {
		handler, ok := s.handlers[call.Function.Name]
		if !ok {
			outputs = append(outputs, ToolOutput(call.ID, fmt.Sprintf("error: unknown function %s", call.Function.Name)))
			continue
		}

		args := map[string]any{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("failed to unmarshal arguments of tool call %s: %w", call.ID, err)
			}
		}

		result, err := handler(args)
		if err != nil {
			outputs = append(outputs, ToolOutput(call.ID, fmt.Sprintf("error: %s", err.Error())))
			continue
		}

		output, err := stringifyOutput(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal output of tool call %s: %w", call.ID, err)
		}
		outputs = append(outputs, ToolOutput(call.ID, output))
	}
	return outputs, nil
}

// stringifyOutput returns strings unchanged and JSON-encodes everything else.
func stringifyOutput(result any) (string, error) {
	if s, ok := result.(string); ok {
		return s, nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
