package control

import "sync/atomic"

// Metrics holds the atomic counters every worker contributes to during a
// search. They are sampled, never reset, at iteration boundaries; each
// Analyze call starts from a fresh Metrics.
type Metrics struct {
	Nodes       atomic.Uint64
	TTHits      atomic.Uint64
	TTCuts      atomic.Uint64
	PVCuts      atomic.Uint64
	NullMoveCuts atomic.Uint64
}

// Clear zeroes every counter.
func (m *Metrics) Clear() {
	m.Nodes.Store(0)
	m.TTHits.Store(0)
	m.TTCuts.Store(0)
	m.PVCuts.Store(0)
	m.NullMoveCuts.Store(0)
}
