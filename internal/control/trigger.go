package control

import "sync/atomic"

// Trigger is a one-shot cancellation flag. It starts armed; Disarm trips it
// exactly once and reports whether this call was the one that tripped it,
// mirroring fetch_and(false)'s "return the previous value" semantics so the
// polling workers, the context watcher and an external Stop() call can race
// safely.
type Trigger struct {
	armed atomic.Bool
}

// NewTrigger returns an armed Trigger.
func NewTrigger() *Trigger {
	t := &Trigger{}
	t.armed.Store(true)
	return t
}

// IsArmed reports whether the trigger has not yet been disarmed.
func (t *Trigger) IsArmed() bool {
	return t.armed.Load()
}

// Disarm trips the trigger. It is idempotent: only the first call returns
// true.
func (t *Trigger) Disarm() bool {
	return t.armed.CompareAndSwap(true, false)
}
