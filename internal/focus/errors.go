package focus

import "github.com/roach88/focusnav/internal/dom"

// ErrInvalidContext matches, with errors.Is, every error returned when a
// context resolves to no element.
var ErrInvalidContext error = &dom.ContextError{Code: dom.ErrCodeInvalidContext, Message: "invalid context"}
