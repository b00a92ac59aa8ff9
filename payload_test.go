package assistants

import (
	"reflect"
	"testing"
)

func TestBuild_DropsUnknownFields(t *testing.T) {
	messages := NewMessageResource(&recordingTransport{})

	got := messages.Build(Payload{"role": "user", "content": "hi", "bogus": 1})
	want := Payload{"role": "user", "content": "hi"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %v, want %v", got, want)
	}
}

func TestBuild_MessageExample(t *testing.T) {
	messages := NewMessageResource(&recordingTransport{})

	got := messages.Build(Payload{"role": "user", "content": "What's the weather like?"})
	want := Payload{"role": "user", "content": "What's the weather like?"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %v, want %v", got, want)
	}
}

func TestBuild_PairsAndPayloadAgree(t *testing.T) {
	transport := &recordingTransport{}
	builders := map[string]func(Input) Payload{
		"thread":  NewThreadResource(transport).Build,
		"message": NewMessageResource(transport).Build,
		"run":     NewRunResource(transport).Build,
	}

	pairs := Pairs{
		{Key: "role", Value: "user"},
		{Key: "content", Value: "hello"},
		{Key: "assistant_id", Value: "asst_1"},
		{Key: "messages", Value: []any{}},
		{Key: "instructions", Value: "be brief"},
		{Key: "unknown", Value: true},
	}
	payload := Payload{
		"role":         "user",
		"content":      "hello",
		"assistant_id": "asst_1",
		"messages":     []any{},
		"instructions": "be brief",
		"unknown":      true,
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			fromPairs := build(pairs)
			fromPayload := build(payload)
			if !reflect.DeepEqual(fromPairs, fromPayload) {
				t.Errorf("Build(pairs) = %v, Build(payload) = %v", fromPairs, fromPayload)
			}
		})
	}
}

func TestBuild_AllowedFieldsOnly(t *testing.T) {
	transport := &recordingTransport{}
	everything := Payload{
		"messages":     []any{},
		"role":         "user",
		"content":      "x",
		"file_ids":     []string{"file_1"},
		"assistant_id": "asst_1",
		"model":        "gpt-4-turbo",
		"instructions": "i",
		"tools":        []any{CodeInterpreterTool()},
		"metadata":     map[string]any{"k": "v"},
		"stream":       true,
	}

	tests := []struct {
		name    string
		build   func(Input) Payload
		allowed fieldSet
		want    int
	}{
		{"thread", NewThreadResource(transport).Build, threadFields, 1},
		{"message", NewMessageResource(transport).Build, messageFields, 3},
		{"run", NewRunResource(transport).Build, runFields, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build(everything)
			if len(got) != tt.want {
				t.Errorf("Build() kept %d fields, want %d: %v", len(got), tt.want, got)
			}
			for k := range got {
				if !tt.allowed.Has(k) {
					t.Errorf("Build() kept disallowed field %q", k)
				}
			}
		})
	}
}

func TestBuild_Idempotent(t *testing.T) {
	runs := NewRunResource(&recordingTransport{})

	inputs := []Input{
		nil,
		Payload{},
		Payload{"assistant_id": "asst_1", "foo": "bar"},
		Pairs{{Key: "model", Value: "gpt-4"}, {Key: "tools", Value: []any{RetrievalTool()}}},
	}

	for _, in := range inputs {
		once := runs.Build(in)
		twice := runs.Build(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Build(Build(%v)) = %v, want %v", in, twice, once)
		}
	}
}

func TestBuild_NilInputIsEmpty(t *testing.T) {
	threads := NewThreadResource(&recordingTransport{})

	got := threads.Build(nil)
	if got == nil {
		t.Fatal("Build(nil) returned nil payload")
	}
	if len(got) != 0 {
		t.Errorf("Build(nil) = %v, want empty", got)
	}
}

func TestPairs_LastValueWins(t *testing.T) {
	pairs := Pairs{
		{Key: "role", Value: "assistant"},
		{Key: "role", Value: "user"},
	}

	got := pairs.AsPayload()
	if got["role"] != "user" {
		t.Errorf("AsPayload()[role] = %v, want user", got["role"])
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	messages := NewMessageResource(&recordingTransport{})
	in := Payload{"role": "user", "bogus": 1}

	_ = messages.Build(in)

	if _, ok := in["bogus"]; !ok {
		t.Error("Build() removed a key from the caller's payload")
	}
}
