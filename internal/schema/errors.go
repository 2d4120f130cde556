package schema

import (
	"fmt"
	"reflect"
)

// UnsupportedMemberError reports a member with no codec, no handler and no
// classifiable layout, found while building under Strict options.
type UnsupportedMemberError struct {
	Owner reflect.Type // struct declaring the member
	Path  string       // member path from the root type, e.g. /Inner/Data
	Type  reflect.Type // offending type (may be an element type)
}

func (e *UnsupportedMemberError) Error() string {
	return fmt.Sprintf("schema: unsupported member %s of %s: no codec for %s", e.Path, e.Owner, e.Type)
}

// InvalidTagError reports a malformed whoa struct tag or an inconsistent use of
// explicit member ordinals.
type InvalidTagError struct {
	Owner  reflect.Type
	Member string
	Reason string
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("schema: invalid tag on %s.%s: %s", e.Owner, e.Member, e.Reason)
}

// InvalidTypeError reports a root type that is neither a struct, a pointer to a
// struct, nor a type with a registered handler.
type InvalidTypeError struct {
	Type reflect.Type
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("schema: %s is not a struct or a type with a registered handler", e.Type)
}

// HandlerError wraps a failure returned by a registered custom handler.
type HandlerError struct {
	Type reflect.Type
	Err  error
}

func (e *HandlerError) Error() string { return fmt.Sprintf("schema: handler for %s: %v", e.Type, e.Err) }
func (e *HandlerError) Unwrap() error { return e.Err }
