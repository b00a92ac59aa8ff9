package assistants

// ObjectType is the "object" discriminator the API puts on every response.
// Using a typed constant prevents typos when matching responses.
type ObjectType string

// Known object types
const (
	// ObjectThread is a conversation thread
	ObjectThread ObjectType = "thread"

	// ObjectThreadDeleted is returned by DELETE /threads/{id}
	ObjectThreadDeleted ObjectType = "thread.deleted"

	// ObjectMessage is a message within a thread
	ObjectMessage ObjectType = "thread.message"

	// ObjectRun is a run of an assistant on a thread
	ObjectRun ObjectType = "thread.run"

	// ObjectList wraps paginated results in "data"
	ObjectList ObjectType = "list"
)

// String returns the string representation of the object type
func (o ObjectType) String() string {
	return string(o)
}

// IsValid returns true if the object type is a known type
func (o ObjectType) IsValid() bool {
	switch o {
	case ObjectThread, ObjectThreadDeleted, ObjectMessage, ObjectRun, ObjectList:
		return true
	default:
		return false
	}
}
