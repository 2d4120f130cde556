package whoa

import (
	"errors"
	"reflect"
	"strconv"

	"github.com/reoring/whoa/i18n"
	"github.com/reoring/whoa/internal/engine"
)

// IssueAt creates an Issue at the given path with a translated message.
func IssueAt(path, code string, cause error, offset int64, params map[string]any) Issue {
	data := make(map[string]string, len(params))
	for k, v := range params {
		switch x := v.(type) {
		case string:
			data[k] = x
		case int:
			data[k] = strconv.Itoa(x)
		}
	}
	if path == "" {
		path = "/"
	}
	return Issue{Path: path, Code: code, Message: i18n.T(code, data), Cause: cause, Offset: offset, Params: params}
}

// toIssues classifies err into a single Issue. nil and existing Issues pass
// through unchanged.
func toIssues(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(Issues); ok {
		return err
	}

	var path string
	var pe *engine.PathError
	if errors.As(err, &pe) {
		path = pe.Path
	}

	var (
		code   = CodeIOError
		offset = int64(-1)
		params map[string]any
	)
	var (
		trunc    *TruncatedStreamError
		presence *MalformedPresenceFlagError
		length   *MalformedLengthError
		value    *MalformedValueError
		depth    *MaxDepthError
		unsup    *UnsupportedMemberError
		tag      *InvalidTagError
		typ      *InvalidTypeError
		handler  *HandlerError
	)
	switch {
	case errors.As(err, &trunc):
		code, offset = CodeTruncated, trunc.Offset
		params = map[string]any{"need": trunc.Need, "got": trunc.Got}
	case errors.As(err, &presence):
		code, offset = CodeMalformedPresence, presence.Offset
		params = map[string]any{"flag": int(presence.Flag)}
	case errors.As(err, &length):
		code, offset = CodeMalformedLength, length.Offset
		params = map[string]any{"length": length.Length, "max": length.Max}
	case errors.As(err, &value):
		code, offset = CodeMalformedValue, value.Offset
		params = map[string]any{"kind": value.Kind}
	case errors.As(err, &depth):
		code = CodeMaxDepth
		params = map[string]any{"max": depth.Max}
	case errors.As(err, &unsup):
		code = CodeUnsupportedMember
		if path == "" {
			path = unsup.Path
		}
		params = map[string]any{"type": typeName(unsup.Type)}
	case errors.As(err, &tag):
		code = CodeInvalidTag
		params = map[string]any{"member": tag.Member}
	case errors.As(err, &typ):
		code = CodeInvalidType
		params = map[string]any{"type": typeName(typ.Type)}
	case errors.As(err, &handler):
		code = CodeHandler
		params = map[string]any{"type": typeName(handler.Type)}
	case errors.Is(err, ErrNilRoot):
		code = CodeInvalidType
		params = map[string]any{"type": "nil"}
	}
	return Issues{IssueAt(path, code, err, offset, params)}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}
