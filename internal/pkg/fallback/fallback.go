// Package fallback runs an operation through a primary executor and switches
// to an equivalent fallback when the primary path is not installed.
package fallback

import (
	"context"
	"log"
	"sync/atomic"
)

type Executor[T any] func(ctx context.Context) (T, error)

const (
	capUnknown int32 = iota
	capAvailable
	capMissing
)

// Capability caches the result of a probe for the primary path.
type Capability struct {
	check func(ctx context.Context) bool
	state atomic.Int32
}

func NewCapability(check func(ctx context.Context) bool) *Capability {
	return &Capability{check: check}
}

// Available runs the probe once and remembers the answer. A failed probe is
// not cached so a later call can retry.
func (c *Capability) Available(ctx context.Context) bool {
	switch c.state.Load() {
	case capAvailable:
		return true
	case capMissing:
		return false
	}
	if c.check == nil {
		return true
	}
	if c.check(ctx) {
		c.state.Store(capAvailable)
		return true
	}
	if ctx.Err() == nil {
		c.state.Store(capMissing)
	}
	return false
}

func (c *Capability) MarkMissing() { c.state.Store(capMissing) }

type Strategy[T any] struct {
	Name     string
	Primary  Executor[T]
	Fallback Executor[T]
	Probe    *Capability
	// Missing recognizes the "primary path not installed" signature.
	Missing func(error) bool
}

func (s Strategy[T]) Run(ctx context.Context) (T, error) {
	if s.Primary == nil || (s.Probe != nil && !s.Probe.Available(ctx)) {
		return s.Fallback(ctx)
	}

	out, err := s.Primary(ctx)
	if err == nil {
		return out, nil
	}
	if s.Fallback == nil || s.Missing == nil || !s.Missing(err) {
		return out, err
	}

	log.Printf("fallback_used strategy=%s err=%q", s.Name, err.Error())
	if s.Probe != nil {
		s.Probe.MarkMissing()
	}
	return s.Fallback(ctx)
}
