package supports

import (
	"context"
	"errors"
)

// Host executes probes.
type Host interface {
	Probe(ctx context.Context, p Probe) (bool, error)
}

// TableHost answers probes from a recorded capability table. Capabilities
// missing from the table are unsupported probes.
type TableHost Set

var _ Host = TableHost(nil)

// Probe implements Host.
func (t TableHost) Probe(ctx context.Context, p Probe) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, Failed(p.Capability, err)
	}
	v, ok := t[p.Capability]
	if !ok {
		return false, Unsupported(p.Capability, errors.New("no recorded value"))
	}
	return v, nil
}

// HostFunc adapts a function to Host.
type HostFunc func(ctx context.Context, p Probe) (bool, error)

// Probe implements Host.
func (f HostFunc) Probe(ctx context.Context, p Probe) (bool, error) {
	return f(ctx, p)
}
