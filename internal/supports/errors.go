package supports

import (
	"errors"
	"fmt"
)

// Error codes for probe failures.
const (
	ErrCodeUnsupportedProbe = "UNSUPPORTED_PROBE"
	ErrCodeProbeFailed      = "PROBE_FAILED"
)

// ErrUnsupportedProbe is matched by errors.Is for probes that cannot run in
// the current environment at all.
var ErrUnsupportedProbe = errors.New("probe not supported")

// ProbeError describes why a capability could not be determined.
type ProbeError struct {
	Code       string
	Capability Capability
	Err        error
}

// Error implements the error interface.
func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Capability, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Capability)
}

// Unwrap returns the underlying error.
func (e *ProbeError) Unwrap() error {
	return e.Err
}

// Is matches ErrUnsupportedProbe for unsupported probe errors.
func (e *ProbeError) Is(target error) bool {
	return target == ErrUnsupportedProbe && e.Code == ErrCodeUnsupportedProbe
}

// Unsupported builds an unsupported probe error.
func Unsupported(c Capability, cause error) *ProbeError {
	return &ProbeError{Code: ErrCodeUnsupportedProbe, Capability: c, Err: cause}
}

// Failed builds a probe failure, for errors of the host rather than the probe.
func Failed(c Capability, cause error) *ProbeError {
	return &ProbeError{Code: ErrCodeProbeFailed, Capability: c, Err: cause}
}

// IsUnsupported reports whether err marks an unsupported probe.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedProbe)
}
