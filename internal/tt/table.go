// Package tt implements the lock-free transposition table described in
// SPEC_FULL.md §4.2/§6.1: N buckets of K=4 slots, each slot a single
// atomic.Uint64, probed and stored without any mutex.
//
// The CAS-retry-store pattern is adapted from a pointer-swapped *node
// design to an in-place packed-uint64 design, since §6.1 mandates one
// atomic word per slot rather than a pointer indirection.
package tt

import (
	"sync/atomic"

	"github.com/corechess/engine/internal/score"
)

// K is the number of slots per bucket.
const K = 4

// ageWeight is W_age from the replacement-policy formula in SPEC_FULL.md
// §4.2: prefer evicting entries from older generations over merely shallow
// ones.
const ageWeight = 8

// Table is a fixed-capacity, lock-free transposition table.
type Table struct {
	slots []atomic.Uint64
	mask  uint64 // bucket-index mask: buckets-1
	gen   atomic.Uint32
}

// NewTable allocates a table sized to fit within bytes, rounding the bucket
// count down to a power of two. bytes must be positive.
func NewTable(bytes int) *Table {
	if bytes < K*8 {
		bytes = K * 8
	}
	buckets := uint64(bytes) / (K * 8)
	buckets = prevPowerOfTwo(buckets)
	if buckets == 0 {
		buckets = 1
	}
	return &Table{
		slots: make([]atomic.Uint64, buckets*K),
		mask:  buckets - 1,
	}
}

func prevPowerOfTwo(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	p := uint64(1)
	for p*2 <= n {
		p *= 2
	}
	return p
}

// Buckets returns the number of buckets (always a power of two).
func (t *Table) Buckets() uint64 { return t.mask + 1 }

// Slots returns the total slot count, Buckets()*K.
func (t *Table) Slots() int { return len(t.slots) }

// Probe scans the bucket key maps to for a slot whose tag matches the
// high 16 bits of key. It is lock-free and wait-free: every load is a
// single atomic read, and a torn read is impossible to observe because the
// tag and payload live in the same 64-bit word.
func (t *Table) Probe(key uint64) (Entry, bool) {
	base := bucketIndex(key, t.mask) * K
	tag := keyTag(key)
	for i := uint64(0); i < K; i++ {
		word := t.slots[base+i].Load()
		if word == 0 {
			continue
		}
		e := decode(word)
		if e.KeyTag == tag {
			return e, true
		}
	}
	return Entry{}, false
}

// Store writes e under key, choosing a victim slot within the bucket by the
// replacement policy in SPEC_FULL.md §4.2 and retrying the
// compare-and-swap up to three times before giving up silently.
func (t *Table) Store(key uint64, e Entry) {
	base := bucketIndex(key, t.mask) * K
	tag := keyTag(key)
	e.KeyTag = tag
	e.Generation = uint8(t.gen.Load() & 1)
	newWord := encode(e)

	for attempt := 0; attempt < 3; attempt++ {
		victim, old := t.chooseVictim(base, tag, e)
		if victim < 0 {
			return
		}
		slot := &t.slots[base+uint64(victim)]
		if slot.CompareAndSwap(old, newWord) {
			return
		}
		// Lost the race; another writer touched this slot. Retry against
		// fresh bucket state, or give up after three attempts as specified.
	}
}

// chooseVictim returns the slot index within the bucket to overwrite, and
// the word currently occupying it (for the CAS). It returns -1 if no write
// should happen at all (e.g. an existing same-key entry that the incoming
// entry isn't allowed to replace).
func (t *Table) chooseVictim(base uint64, tag uint16, incoming Entry) (int, uint64) {
	currentGen := uint32(t.gen.Load() & 1)

	bestIdx := -1
	var bestWord uint64
	var bestScore int64 = -1

	for i := 0; i < K; i++ {
		word := t.slots[base+uint64(i)].Load()
		if word == 0 {
			return i, 0
		}
		existing := decode(word)
		if existing.KeyTag == tag {
			if incoming.Depth >= existing.Depth || incoming.Bound == BoundExact {
				return i, word
			}
			return -1, 0
		}
		ageTerm := int64((uint32(currentGen)^uint32(existing.Generation))&1) * ageWeight
		depthTerm := int64(score.MaxDepth - existing.Depth)
		v := ageTerm + depthTerm
		if v > bestScore {
			bestScore = v
			bestIdx = i
			bestWord = word
		}
	}
	return bestIdx, bestWord
}

// AdvanceGeneration flips the generation bit new stores will be tagged
// with, letting entries from a previous search be preferred as victims.
// Called once per Engine.Search/Analyze call.
func (t *Table) AdvanceGeneration() {
	t.gen.Add(1)
}

// Clear zeroes every slot in O(N).
func (t *Table) Clear() {
	for i := range t.slots {
		t.slots[i].Store(0)
	}
}

// HashFull estimates table occupancy in permille, sampling the first 1000
// slots (or all of them if smaller), matching the cheap sampling approach
// engines in this domain use to avoid an O(N) scan on every UCI "info".
func (t *Table) HashFull() int {
	sample := 1000
	if sample > len(t.slots) {
		sample = len(t.slots)
	}
	if sample == 0 {
		return 0
	}
	used := 0
	for i := 0; i < sample; i++ {
		if t.slots[i].Load() != 0 {
			used++
		}
	}
	return used * 1000 / sample
}

// Best-move legality is re-validated by the caller (SPEC_FULL §4.2:
// "best_move is verified for legality before use"); the table itself never
// touches a board.Position.
