package assistants

import (
	"net/url"
	"strconv"
)

// Sort orders accepted by list endpoints.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListParams controls pagination of list endpoints.
// All fields are optional; zero values are omitted from the query string.
type ListParams struct {
	// Limit is the page size (1-100, API default 20)
	Limit int

	// Order sorts by created_at: "asc" or "desc"
	Order string

	// After is a cursor: an object ID to list after
	After string

	// Before is a cursor: an object ID to list before
	Before string
}

// Validate checks the list parameters. A nil receiver is valid.
func (p *ListParams) Validate() error {
	if p == nil {
		return nil
	}

	if p.Limit != 0 && (p.Limit < 1 || p.Limit > 100) {
		return &ValidationError{
			Field:  "limit",
			Value:  p.Limit,
			Reason: "must be between 1 and 100",
			Err:    ErrInvalidRequest,
		}
	}

	if p.Order != "" && p.Order != OrderAsc && p.Order != OrderDesc {
		return &ValidationError{
			Field:  "order",
			Value:  p.Order,
			Reason: "must be 'asc' or 'desc'",
			Err:    ErrInvalidRequest,
		}
	}

	return nil
}

// Encode returns the query string for the parameters (without "?").
// A nil receiver or all-zero parameters encode to "".
func (p *ListParams) Encode() string {
	if p == nil {
		return ""
	}

	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	if p.After != "" {
		q.Set("after", p.After)
	}
	if p.Before != "" {
		q.Set("before", p.Before)
	}
	return q.Encode()
}

// mergeListParams picks the last non-nil params from a variadic argument.
func mergeListParams(params []*ListParams) *ListParams {
	var out *ListParams
	for _, p := range params {
		if p != nil {
			out = p
		}
	}
	return out
}
