package hazard

import "sync/atomic"

// Holder is bound to a single hazard cell for its whole life. Protect
// publishes a claim in the cell and Clear retracts it. A Holder cannot be
// rebound to another cell; get a new one from the Table instead. Callers
// typically defer Clear right after obtaining it so that every return path
// retracts the claim.
type Holder[T any] struct {
	_    noCopy
	cell *atomic.Pointer[T]
}

// Protect loads src, publishes the loaded value in the Holder's cell, and
// repeats until src still holds the published value. It returns that value,
// which may be nil, and which is safe to dereference until the next Protect
// or Clear on the Holder. Any earlier claim of the Holder is replaced.
func (h *Holder[T]) Protect(src *atomic.Pointer[T]) *T {
	return protect(h.cell, src)
}

// Clear empties the Holder's cell. It is safe to call more than once.
func (h *Holder[T]) Clear() { h.cell.Store(nil) }
