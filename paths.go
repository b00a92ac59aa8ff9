package assistants

import (
	"net/url"
	"strings"
)

// threadsPath is the root of every path built by this package.
const threadsPath = "/threads"

// resourcePath joins threadsPath with escaped identifier segments.
// Identifiers are opaque; they are escaped, never validated.
//
//	resourcePath("t1", "runs", "r1") == "/threads/t1/runs/r1"
func resourcePath(segments ...string) string {
	var b strings.Builder
	b.WriteString(threadsPath)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// withQuery appends an encoded query string to path when non-empty.
func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
