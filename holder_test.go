package hazard

import (
	"sync/atomic"
	"testing"

	"github.com/zeebo/assert"
)

func TestHolder(t *testing.T) {
	tb, fl := newTestTable(2, 1)
	a, b := &object{id: 1}, &object{id: 2}
	var src atomic.Pointer[object]

	h := tb.Holder(1, 0)
	assert.That(t, h.cell.Load() == nil)

	src.Store(a)
	assert.That(t, h.Protect(&src) == a)

	// protecting again replaces the claim on a with one on b.
	src.Store(b)
	assert.That(t, h.Protect(&src) == b)
	tb.Retire(0, a)
	tb.Retire(0, b)
	assert.That(t, a.freed)
	assert.That(t, !b.freed)

	// protecting a nil source drops the claim entirely.
	src.Store(nil)
	assert.That(t, h.Protect(&src) == nil)
	assert.That(t, h.cell.Load() == nil)
	tb.Retire(0, nil)
	assert.That(t, b.freed)

	h.Clear()
	h.Clear()
	assert.That(t, h.cell.Load() == nil)
	assert.Equal(t, fl.Len(), 2)
}

func TestHolderScope(t *testing.T) {
	tb, _ := newTestTable(1, 1)
	x := &object{id: 1}
	var src atomic.Pointer[object]
	src.Store(x)

	read := func(fail bool) (id int, ok bool) {
		h := tb.Holder(0, 0)
		defer h.Clear()

		obj := h.Protect(&src)
		if fail {
			return 0, false
		}
		return obj.id, true
	}

	id, ok := read(false)
	assert.That(t, ok)
	assert.Equal(t, id, 1)
	assert.That(t, tb.threads[0].hazards[0].Load() == nil)

	_, ok = read(true)
	assert.That(t, !ok)
	assert.That(t, tb.threads[0].hazards[0].Load() == nil)

	func() {
		defer func() { _ = recover() }()
		h := tb.Holder(0, 0)
		defer h.Clear()
		h.Protect(&src)
		panic("boom")
	}()
	assert.That(t, tb.threads[0].hazards[0].Load() == nil)

	tb.Retire(0, x)
	assert.That(t, x.freed)
}

func TestHolderSharesCell(t *testing.T) {
	tb, _ := newTestTable(1, 2)
	x := &object{}
	var src atomic.Pointer[object]
	src.Store(x)

	h := tb.Holder(0, 1)
	h.Protect(&src)
	assert.That(t, tb.threads[0].hazards[1].Load() == x)
	assert.That(t, tb.threads[0].hazards[0].Load() == nil)

	// the non-scoped form addresses the same cell.
	tb.Clear(0, 1)
	assert.That(t, h.cell.Load() == nil)
}
