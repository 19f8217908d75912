package control

import "sync/atomic"

// Generation is a monotonic counter advanced once per Engine.Search call,
// used by the transposition table to age out entries from previous
// searches without clearing the whole table.
type Generation struct {
	n atomic.Uint64
}

// Next advances the generation and returns the new value.
func (g *Generation) Next() uint64 {
	return g.n.Add(1)
}

// Current returns the current generation without advancing it.
func (g *Generation) Current() uint64 {
	return g.n.Load()
}
