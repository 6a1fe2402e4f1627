package hazard

import (
	"sync/atomic"
	"unsafe"
)

const (
	cacheLine = 64                            // typical size of a cache line
	cellSize  = unsafe.Sizeof(uintptr(0))     // size of an atomic.Pointer
	lineCells = int(cacheLine / cellSize)     // hazard cells that fit in a line
	sliceSize = unsafe.Sizeof([]uintptr(nil)) // size of a slice header
)

// threadSlot is the state owned by a single thread index. Any thread may load
// the hazard cells during a scan, but only the owner stores into them or
// touches the pending list. Both halves are padded out to a cache line so
// that scanners reading the cells do not contend with the owner's list.
type threadSlot[T any] struct {
	hazards []atomic.Pointer[T]
	_       [cacheLine - sliceSize]byte

	pending pendingList[T]
	_       [cacheLine - pendingSize]byte
}

// newHazards allocates the cells for one thread, rounded up to whole cache
// lines to keep one thread's stores away from its neighbours' cells.
func newHazards[T any](slots int) []atomic.Pointer[T] {
	n := (slots + lineCells - 1) / lineCells * lineCells
	return make([]atomic.Pointer[T], n)[:slots:slots]
}
