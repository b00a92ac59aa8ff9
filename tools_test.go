package assistants

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sashabaranov/go-openai"
)

type weatherParams struct {
	City  string `mapstructure:"city"`
	Units string `mapstructure:"units"`
}

func requiresActionRun(calls ...openai.ToolCall) openai.Run {
	return openai.Run{
		ID:     "run_1",
		Status: openai.RunStatusRequiresAction,
		RequiredAction: &openai.RunRequiredAction{
			Type:              openai.RequiredActionTypeSubmitToolOutputs,
			SubmitToolOutputs: &openai.SubmitToolOutputs{ToolCalls: calls},
		},
	}
}

func functionCall(id, name, args string) openai.ToolCall {
	return openai.ToolCall{
		ID:   id,
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestFunctionTool(t *testing.T) {
	schema := map[string]any{"type": "object", "properties": map[string]any{}}

	tool, err := FunctionTool("get_weather", "Weather lookup", schema)
	if err != nil {
		t.Fatalf("FunctionTool() error = %v", err)
	}
	if tool["type"] != ToolTypeFunction {
		t.Errorf("type = %v", tool["type"])
	}
	fn := tool["function"].(map[string]any)
	if fn["name"] != "get_weather" || fn["description"] != "Weather lookup" {
		t.Errorf("function = %v", fn)
	}

	tests := []struct {
		name   string
		fname  string
		params map[string]any
	}{
		{"missing name", "", schema},
		{"nil params", "f", nil},
		{"non-object schema", "f", map[string]any{"type": "string"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FunctionTool(tt.fname, "", tt.params); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestToolExecutionSide(t *testing.T) {
	if ToolExecutionSide(ToolTypeFunction) != ExecutionSideClient {
		t.Error("function tools run on the client")
	}
	if ToolExecutionSide(ToolTypeCodeInterpreter) != ExecutionSideServer || ToolExecutionSide(ToolTypeRetrieval) != ExecutionSideServer {
		t.Error("built-in tools run on the server")
	}
}

func TestDecodeArguments(t *testing.T) {
	params, err := DecodeArguments[weatherParams](map[string]any{"city": "Paris", "units": "metric", "extra": 1})
	if err != nil {
		t.Fatalf("DecodeArguments() error = %v", err)
	}
	if params.City != "Paris" || params.Units != "metric" {
		t.Errorf("params = %+v", params)
	}

	if _, err := DecodeArguments[weatherParams](map[string]any{"city": []int{1}}); err == nil {
		t.Error("expected decode error for wrong type")
	}
}

func TestToolSet_Outputs(t *testing.T) {
	tools := NewToolSet().
		Register("get_weather", TypedToolHandler(func(p weatherParams) (string, error) {
			return "sunny in " + p.City, nil
		})).
		Register("add", func(args map[string]any) (any, error) {
			return map[string]any{"sum": args["a"].(float64) + args["b"].(float64)}, nil
		}).
		Register("broken", func(map[string]any) (any, error) {
			return nil, errors.New("boom")
		})

	run := requiresActionRun(
		functionCall("c1", "get_weather", `{"city":"Paris"}`),
		functionCall("c2", "add", `{"a":40,"b":2}`),
		functionCall("c3", "broken", ``),
		functionCall("c4", "missing", `{}`),
	)

	got, err := tools.Outputs(run)
	if err != nil {
		t.Fatalf("Outputs() error = %v", err)
	}

	want := []map[string]any{
		ToolOutput("c1", "sunny in Paris"),
		ToolOutput("c2", `{"sum":42}`),
		ToolOutput("c3", "error: boom"),
		ToolOutput("c4", "error: unknown function missing"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Outputs() = %v, want %v", got, want)
	}

	if names := tools.Names(); !reflect.DeepEqual(names, []string{"add", "broken", "get_weather"}) {
		t.Errorf("Names() = %v", names)
	}
}

func TestToolSet_Outputs_Errors(t *testing.T) {
	tools := NewToolSet().Register("f", func(map[string]any) (any, error) { return "ok", nil })

	if _, err := tools.Outputs(openai.Run{ID: "run_1", Status: openai.RunStatusCompleted}); err == nil {
		t.Error("expected error for run not requiring action")
	}

	if _, err := tools.Outputs(requiresActionRun(functionCall("c1", "f", `{not json`))); err == nil {
		t.Error("expected error for malformed arguments")
	}
}
