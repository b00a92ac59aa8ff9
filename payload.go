package assistants

// Payload is a JSON request body keyed by field name.
type Payload map[string]any

// Pair is a single key/value entry of an ordered field list.
type Pair struct {
	Key   string
	Value any
}

// Pairs is an ordered list of fields. A repeated key keeps its last value
// once normalized.
type Pairs []Pair

// Input is accepted by every resource's Build method.
// Both Payload and Pairs implement it.
type Input interface {
	AsPayload() Payload
}

// AsPayload returns a shallow copy of p.
func (p Payload) AsPayload() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// AsPayload folds the pairs into a Payload.
func (ps Pairs) AsPayload() Payload {
	out := make(Payload, len(ps))
	for _, pair := range ps {
		out[pair.Key] = pair.Value
	}
	return out
}

// fieldSet is the static allow-list of request fields for one resource.
type fieldSet map[string]struct{}

func newFieldSet(names ...string) fieldSet {
	set := make(fieldSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Has reports whether name is an accepted field.
func (s fieldSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// filter normalizes input and drops every key outside the set.
// Unknown keys are not an error.
func (s fieldSet) filter(input Input) Payload {
	out := Payload{}
	if input == nil {
		return out
	}

	for k, v := range input.AsPayload() {
		if s.Has(k) {
			out[k] = v
		}
	}
	return out
}

var (
	threadFields  = newFieldSet("messages")
	messageFields = newFieldSet("role", "content", "file_ids")
	runFields     = newFieldSet("assistant_id", "model", "instructions", "tools")
)

// jsonBody returns p, or an empty object when p is nil, so a nil Payload is sent
// as "{}" rather than "null".
func jsonBody(p Payload) Payload {
	if p == nil {
		return Payload{}
	}
	return p
}
