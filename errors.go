package whoa

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/whoa/internal/engine"
	"github.com/reoring/whoa/internal/registry"
	"github.com/reoring/whoa/internal/schema"
	"github.com/reoring/whoa/wire"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeUnsupportedMember = "unsupported_member"
	CodeTruncated         = "truncated"
	CodeMalformedPresence = "malformed_presence"
	CodeMalformedLength   = "malformed_length"
	CodeMalformedValue    = "malformed_value"
	CodeInvalidType       = "invalid_type"
	CodeInvalidTag        = "invalid_tag"
	CodeMaxDepth          = "max_depth"
	CodeIOError           = "io_error"
	CodeHandler           = "handler"
)

// Typed causes. Use errors.As on any error returned by this package.
type (
	UnsupportedMemberError     = schema.UnsupportedMemberError
	InvalidTagError            = schema.InvalidTagError
	InvalidTypeError           = schema.InvalidTypeError
	HandlerError               = schema.HandlerError
	TruncatedStreamError       = wire.TruncatedStreamError
	MalformedPresenceFlagError = wire.MalformedPresenceFlagError
	MalformedLengthError       = wire.MalformedLengthError
	MalformedValueError        = wire.MalformedValueError
	MaxDepthError              = engine.MaxDepthError
)

var (
	// ErrHandlerRegistered is returned when a type already has a handler.
	ErrHandlerRegistered = registry.ErrRegistered
	// ErrNilRoot is returned when Serialize is given a nil value.
	ErrNilRoot = engine.ErrNilRoot
)

// Issue describes a single serialization failure.
type Issue struct {
	Path    string // JSON Pointer to the member (for example: /Inner/Count).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints.
	Cause   error  // Underlying typed error.
	Offset  int64  // Byte offset in the stream (-1 when unknown).
	// Params carries structured parameters (e.g., {"type":"chan int"}) for
	// i18n and observability.
	Params map[string]any
}

// Issues is the error type returned by Serialize and Deserialize. Failures
// abort immediately, so it normally holds exactly one Issue.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. truncated at /Songs: stream ended before the value was complete
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes each issue's cause to errors.Is and errors.As.
func (iss Issues) Unwrap() []error {
	out := make([]error, 0, len(iss))
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
