package assistants

import (
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// decodeInto converts an untyped Response into a typed go-openai value by
// re-encoding it as JSON. The response's "object" field is checked against
// want when want is non-empty.
func decodeInto(resp Response, want ObjectType, out any) error {
	if resp == nil {
		return fmt.Errorf("%w: empty response", ErrDecode)
	}
	if want != "" {
		if got := resp.Object(); got != "" && got != want {
			return fmt.Errorf("%w: expected object %q, got %q", ErrDecode, want, got)
		}
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal response: %v", ErrDecode, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// DecodeThread converts a thread response into openai.Thread.
func DecodeThread(resp Response) (openai.Thread, error) {
	var thread openai.Thread
	err := decodeInto(resp, ObjectThread, &thread)
	return thread, err
}

// DecodeDeletion converts a DELETE /threads/{id} response.
func DecodeDeletion(resp Response) (openai.ThreadDeleteResponse, error) {
	var deleted openai.ThreadDeleteResponse
	err := decodeInto(resp, ObjectThreadDeleted, &deleted)
	return deleted, err
}

// DecodeMessage converts a message response into openai.Message.
func DecodeMessage(resp Response) (openai.Message, error) {
	var message openai.Message
	err := decodeInto(resp, ObjectMessage, &message)
	return message, err
}

// DecodeMessages converts a message list response.
func DecodeMessages(resp Response) (openai.MessagesList, error) {
	var list openai.MessagesList
	err := decodeInto(resp, ObjectList, &list)
	return list, err
}

// DecodeRun converts a run response into openai.Run.
func DecodeRun(resp Response) (openai.Run, error) {
	var run openai.Run
	err := decodeInto(resp, ObjectRun, &run)
	return run, err
}

// DecodeRuns converts a run list response.
func DecodeRuns(resp Response) (openai.RunList, error) {
	var list openai.RunList
	err := decodeInto(resp, ObjectList, &list)
	return list, err
}

// MessageText concatenates the text parts of a message, skipping images.
func MessageText(message openai.Message) string {
	var text string
	for _, part := range message.Content {
		if part.Text == nil {
			continue
		}
		if text != "" {
			text += "\n"
		}
		text += part.Text.Value
	}
	return text
}

// IsTerminal reports whether a run status is final: completed, failed,
// cancelled or expired.
func IsTerminal(status openai.RunStatus) bool {
	switch status {
	case openai.RunStatusCompleted, openai.RunStatusFailed, openai.RunStatusCancelled, openai.RunStatusExpired:
		return true
	default:
		return false
	}
}
