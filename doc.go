// package hazard provides hazard pointers: a way for lock-free data structures to know
// when nobody is reading an object that was unlinked from them anymore.
//
// Consider a lock-free stack whose popped nodes are recycled through a pool. A reader
// that loads the head and then dereferences it may be racing a pop that already put the
// node back into the pool and handed it to someone else:
//
//	func Peek() int {
//		n := head.Load()
//		return n.value // n may have been recycled
//	}
//
//	func Pop() *node {
//		for {
//			n := head.Load()
//			if head.CompareAndSwap(n, n.next) {
//				pool.Put(n)
//				return n
//			}
//		}
//	}
//
// With a Table, readers publish the pointer they are about to use in a hazard cell and
// writers retire unlinked nodes instead of recycling them directly. A retired node is
// only handed to Free once no hazard cell holds it:
//
//	var table = hazard.New[node](threads, hazard.Config[node]{Free: pool.Put})
//
//	func Peek(thread int) int {
//		h := table.Holder(thread, 0)
//		defer h.Clear()
//		return h.Protect(&head).value
//	}
//
//	func Pop(thread int) {
//		h := table.Holder(thread, 0)
//		defer h.Clear()
//		for {
//			n := h.Protect(&head)
//			if head.CompareAndSwap(n, n.next) {
//				h.Clear()
//				table.Retire(thread, n)
//				return
//			}
//		}
//	}
//
// Each thread index must be used by only one goroutine at a time. Goroutines without a
// natural index can lease one with Table.Acquire.
//
// Reclamation is a linear scan of every hazard cell for every pending object, so it is
// meant for tables with a modest number of threads and cells. Objects that stay protected
// remain pending on the retiring thread until one of its later Retire calls finds them
// unprotected; nothing bounds how many can pend. Pending and PendingUnsafe report the
// backlog so callers can throttle themselves.
package hazard
