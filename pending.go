package hazard

import (
	"sync/atomic"
	"unsafe"
)

const pendingSize = unsafe.Sizeof([]uintptr(nil)) + unsafe.Sizeof(int64(0))

// pendingList holds the objects a thread retired that no scan has yet proven
// unreferenced. Only the owning thread pushes or sweeps. The length is
// mirrored into an atomic so other goroutines can read an approximate count
// without racing on the slice.
type pendingList[T any] struct {
	objs []*T
	n    atomic.Int64
}

// push takes ownership of obj.
func (p *pendingList[T]) push(obj *T) {
	p.objs = append(p.objs, obj)
	p.n.Store(int64(len(p.objs)))
}

// sweep hands every object that no hazard cell of t references to the free
// function and keeps the rest, preserving their order.
func (p *pendingList[T]) sweep(t *Table[T]) {
	kept := p.objs[:0]
	for _, obj := range p.objs {
		if t.isProtected(obj) {
			kept = append(kept, obj)
			continue
		}
		t.free(obj)
	}

	// clear the tail so the backing array does not keep freed objects alive.
	for i := len(kept); i < len(p.objs); i++ {
		p.objs[i] = nil
	}
	p.objs = kept
	p.n.Store(int64(len(kept)))
}

// len returns the approximate number of pending objects. It is safe to call
// from any goroutine.
func (p *pendingList[T]) len() int { return int(p.n.Load()) }
