package hazard

import (
	"fmt"
	"sync/atomic"
)

// Config controls the shape of a Table and what happens to reclaimed objects.
// The zero value gives one hazard cell per thread and leaves reclaimed objects
// to the garbage collector.
type Config[T any] struct {
	// Slots is the number of hazard cells each thread owns. Zero means one.
	Slots int

	// Free is called with every retired object once a scan proves that no
	// hazard cell references it. It runs on the goroutine that called Retire
	// and must not call back into the Table with the same thread index.
	Free func(*T)
}

// Table holds a fixed number of hazard cells for each of a fixed number of
// threads, along with each thread's list of retired objects that could not
// be freed yet. Threads are identified by an index in [0, Threads()). A
// Table must not be copied after first use.
type Table[T any] struct {
	_ noCopy

	threads []threadSlot[T]
	slots   int
	free    func(*T)
	leases  leases
}

// New constructs a Table for the given number of threads. Every hazard cell
// starts out empty.
func New[T any](threads int, cfg Config[T]) *Table[T] {
	if threads < 0 {
		panic(fmt.Sprintf("hazard: negative thread count %d", threads))
	}
	slots := cfg.Slots
	if slots == 0 {
		slots = 1
	} else if slots < 0 {
		panic(fmt.Sprintf("hazard: negative slot count %d", slots))
	}
	free := cfg.Free
	if free == nil {
		free = func(*T) {}
	}

	t := &Table[T]{
		threads: make([]threadSlot[T], threads),
		slots:   slots,
		free:    free,
		leases:  leases{leased: make([]bool, threads)},
	}
	for i := range t.threads {
		t.threads[i].hazards = newHazards[T](slots)
	}
	return t
}

// Threads returns the number of thread indexes the Table was built with.
func (t *Table[T]) Threads() int { return len(t.threads) }

// Slots returns the number of hazard cells each thread owns.
func (t *Table[T]) Slots() int { return t.slots }

// Holder returns a Holder bound to hazard cell pos of the thread. It panics
// if either index is out of range.
func (t *Table[T]) Holder(thread, pos int) Holder[T] {
	return Holder[T]{cell: t.cell(thread, pos)}
}

// Protect publishes the value of src into hazard cell pos of the thread and
// returns it once it is stable. See Holder.Protect.
func (t *Table[T]) Protect(thread, pos int, src *atomic.Pointer[T]) *T {
	return protect(t.cell(thread, pos), src)
}

// Clear empties hazard cell pos of the thread.
func (t *Table[T]) Clear(thread, pos int) {
	t.cell(thread, pos).Store(nil)
}

// Retire hands ownership of obj to the Table on behalf of the thread and
// then scans every object the thread has retired so far, freeing those that
// no hazard cell references. A nil obj only performs the scan. Objects that
// are still protected stay pending until a later Retire on the same thread.
//
// Only the goroutine currently acting as the thread may call Retire for it.
func (t *Table[T]) Retire(thread int, obj *T) {
	s := t.slot(thread)
	if obj != nil {
		s.pending.push(obj)
	}
	s.pending.sweep(t)
}

// Pending returns the number of objects the thread has retired that are not
// yet freed. It may be called from any goroutine, and is only a snapshot.
func (t *Table[T]) Pending(thread int) int {
	return t.slot(thread).pending.len()
}

// PendingUnsafe returns the total number of retired objects that are not yet
// freed across all threads. The threads keep retiring while it sums, so the
// result is approximate and only useful for monitoring.
func (t *Table[T]) PendingUnsafe() (n int) {
	for i := range t.threads {
		n += t.threads[i].pending.len()
	}
	return n
}

// isProtected reports if any hazard cell of any thread currently holds obj.
func (t *Table[T]) isProtected(obj *T) bool {
	for i := range t.threads {
		hazards := t.threads[i].hazards
		for j := range hazards {
			if hazards[j].Load() == obj {
				return true
			}
		}
	}
	return false
}

func (t *Table[T]) slot(thread int) *threadSlot[T] {
	if uint(thread) >= uint(len(t.threads)) {
		panic(fmt.Sprintf("hazard: thread %d out of range [0, %d)", thread, len(t.threads)))
	}
	return &t.threads[thread]
}

func (t *Table[T]) cell(thread, pos int) *atomic.Pointer[T] {
	s := t.slot(thread)
	if uint(pos) >= uint(t.slots) {
		panic(fmt.Sprintf("hazard: slot %d out of range [0, %d)", pos, t.slots))
	}
	return &s.hazards[pos]
}

// protect stores the value of src into cell until a load of src after the
// store observes the same value. Once it returns, any Retire that could free
// the returned object must load the cell after our store, and so sees it.
func protect[T any](cell, src *atomic.Pointer[T]) *T {
	ptr := src.Load()
	for {
		cell.Store(ptr)
		next := src.Load()
		if next == ptr {
			return ptr
		}
		ptr = next
	}
}

// noCopy may be embedded into structs which must not be copied after first
// use. It is recognized by go vet's copylocks checker.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
