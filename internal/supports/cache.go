package supports

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Cache memoizes probe results per capability.
//
// Population is an atomic load-or-store: when two callers race on the same
// capability both probe, the first stored value wins and both observe it.
// Values never change until Reset.
type Cache struct {
	host   Host
	values atomic.Pointer[sync.Map] // Capability -> bool
}

// NewCache returns an empty cache probing through host.
func NewCache(host Host) *Cache {
	c := &Cache{host: host}
	c.values.Store(new(sync.Map))
	return c
}

// FromSet returns a cache pre-populated with a recorded set. Capabilities
// absent from the set resolve to false.
func FromSet(set Set) *Cache {
	c := NewCache(TableHost(set))
	values := c.values.Load()
	for k, v := range set {
		values.Store(k, v)
	}
	return c
}

// Get returns the capability, probing it on first use.
//
// A probe that cannot run resolves to false and the false is cached. A
// probe aborted by ctx resolves to false without being cached, so a later
// call probes again.
func (c *Cache) Get(ctx context.Context, capability Capability) bool {
	values := c.values.Load()
	if v, ok := values.Load(capability); ok {
		return v.(bool)
	}

	p, ok := ProbeFor(capability)
	if !ok {
		slog.Debug("unknown capability", "capability", capability)
		return false
	}

	value, err := c.host.Probe(ctx, p)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			slog.Debug("probe aborted", "capability", capability, "error", err)
			return false
		}
		if IsUnsupported(err) {
			slog.Debug("probe unsupported, assuming false", "capability", capability, "error", err)
		} else {
			slog.Warn("probe failed, assuming false", "capability", capability, "error", err)
		}
		value = false
	}

	actual, _ := values.LoadOrStore(capability, value)
	return actual.(bool)
}

// Set returns a snapshot of every registered capability, probing those not
// yet populated.
func (c *Cache) Set(ctx context.Context) Set {
	out := make(Set, len(probes))
	for _, p := range probes {
		out[p.Capability] = c.Get(ctx, p.Capability)
	}
	return out
}

// Populated returns the capabilities populated so far without probing.
func (c *Cache) Populated() Set {
	out := make(Set)
	c.values.Load().Range(func(k, v any) bool {
		out[k.(Capability)] = v.(bool)
		return true
	})
	return out
}

// Reset drops every populated value at once. The next access probes again.
// A probe in flight during Reset stores into the discarded generation.
func (c *Cache) Reset() {
	c.values.Store(new(sync.Map))
}
