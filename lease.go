package hazard

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// leases hands out thread indexes to goroutines so that callers without a
// natural thread number can still own a slot of the Table exclusively.
type leases struct {
	mu     sync.Mutex
	free   []int  // released indexes, reused most recent first
	next   int    // smallest index never leased
	leased []bool // leased[i] is true while index i is out
}

func (l *leases) acquire() (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var id int
	if n := len(l.free); n > 0 {
		id, l.free = l.free[n-1], l.free[:n-1]
	} else if l.next < len(l.leased) {
		id = l.next
		l.next++
	} else {
		return 0, false
	}
	l.leased[id] = true
	return id, true
}

func (l *leases) release(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.leased[id] {
		panic(fmt.Sprintf("hazard: thread %d released without being acquired", id))
	}
	l.leased[id] = false
	l.free = append(l.free, id)
}

// Thread is an exclusive lease on one thread index of a Table. It lets a
// goroutine use the Table without picking an index itself. Mixing leased
// Threads with direct use of the same indexes is not supported.
type Thread[T any] struct {
	t  *Table[T]
	id int
}

// Acquire leases an unused thread index. It returns false if every index is
// already leased. The Thread must be Released exactly once.
func (t *Table[T]) Acquire() (Thread[T], bool) {
	id, ok := t.leases.acquire()
	if !ok {
		return Thread[T]{}, false
	}
	return Thread[T]{t: t, id: id}, true
}

// ID returns the thread index the Thread holds.
func (th Thread[T]) ID() int { return th.id }

// Holder returns a Holder bound to hazard cell pos of the Thread.
func (th Thread[T]) Holder(pos int) Holder[T] { return th.t.Holder(th.id, pos) }

// Protect publishes the value of src into hazard cell pos of the Thread.
func (th Thread[T]) Protect(pos int, src *atomic.Pointer[T]) *T {
	return th.t.Protect(th.id, pos, src)
}

// Clear empties hazard cell pos of the Thread.
func (th Thread[T]) Clear(pos int) { th.t.Clear(th.id, pos) }

// Retire retires obj on behalf of the Thread. See Table.Retire.
func (th Thread[T]) Retire(obj *T) { th.t.Retire(th.id, obj) }

// Pending returns the number of objects the Thread retired that are not yet
// freed.
func (th Thread[T]) Pending() int { return th.t.Pending(th.id) }

// Release clears every hazard cell of the Thread, frees what it can of the
// Thread's pending objects, and returns the index to the Table. Objects that
// are still protected elsewhere stay pending on the index for its next owner.
func (th Thread[T]) Release() {
	for pos := 0; pos < th.t.slots; pos++ {
		th.t.Clear(th.id, pos)
	}
	th.t.Retire(th.id, nil)
	th.t.leases.release(th.id)
}
