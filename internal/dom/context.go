package dom

import (
	"errors"
	"fmt"
)

// ErrCodeInvalidContext identifies a context that resolved to no element.
const ErrCodeInvalidContext = "INVALID_CONTEXT"

// ContextError reports a context that could not be resolved to an element
// where exactly one was required.
type ContextError struct {
	Code    string
	Label   string // operation that needed the element
	Message string
}

// Error implements the error interface.
func (e *ContextError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Label, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any ContextError with the same code, so sentinel values work
// with errors.Is.
func (e *ContextError) Is(target error) bool {
	t, ok := target.(*ContextError)
	return ok && t.Code == e.Code
}

// IsInvalidContext reports whether err is an invalid context error.
func IsInvalidContext(err error) bool {
	var ce *ContextError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInvalidContext
	}
	return false
}

// Context describes where an operation starts: one element, a list of
// elements or a selector evaluated by a Document.
type Context interface {
	Elements() ([]Element, error)
}

// Single wraps one element. A nil element resolves to nothing.
type Single struct {
	Element Element
}

// Elements implements Context.
func (s Single) Elements() ([]Element, error) {
	if s.Element == nil {
		return nil, nil
	}
	return []Element{s.Element}, nil
}

// List wraps several elements; only the first is used where one is required.
type List []Element

// Elements implements Context.
func (l List) Elements() ([]Element, error) {
	return l, nil
}

// Resolve returns the first element of the context or an invalid context
// error labelled with the requesting operation.
func Resolve(label string, ctx Context) (Element, error) {
	if ctx == nil {
		return nil, &ContextError{Code: ErrCodeInvalidContext, Label: label, Message: "no context given"}
	}
	elements, err := ctx.Elements()
	if err != nil {
		return nil, fmt.Errorf("%s: resolve context: %w", label, err)
	}
	if len(elements) == 0 || elements[0] == nil {
		return nil, &ContextError{Code: ErrCodeInvalidContext, Label: label, Message: "context resolved to no element"}
	}
	return elements[0], nil
}
