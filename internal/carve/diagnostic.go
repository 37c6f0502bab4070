package carve

import (
	"fmt"
	"sync"
)

type Kind int

const (
	// DegeneratePlane: a prism face built from a zero length edge.
	DegeneratePlane Kind = iota
	// UnresolvableBridge: an enclosed marking could not be joined to the
	// triangle around it, so the triangle was left uncut.
	UnresolvableBridge
	// EarFallback: ear selection ran out of valid ears and relaxed its checks.
	EarFallback
	// OutlineSplit: a self-intersecting marking outline was split.
	OutlineSplit
)

func (k Kind) String() string {
	switch k {
	case DegeneratePlane:
		return "degenerate plane"
	case UnresolvableBridge:
		return "unresolvable bridge"
	case EarFallback:
		return "ear fallback"
	case OutlineSplit:
		return "outline split"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Diagnostic is a recoverable problem. Face is the hull face being processed,
// or -1 when unknown.
type Diagnostic struct {
	Kind    Kind
	Face    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("face %d: %s: %s", d.Face, d.Kind, d.Message)
}

type Reporter interface {
	Report(d Diagnostic)
}

// Collector is a Reporter that keeps everything. It is safe to share between
// goroutines.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.diags...)
}

type discard struct{}

func (discard) Report(Diagnostic) {}
