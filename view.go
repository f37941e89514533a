package dynbox

import "unsafe"

// Take moves the occupant out of the box if its concrete type is
// exactly T. The box becomes empty without disposing the value:
// ownership, including any eventual Dispose call, transfers back to
// the caller. The zero T and false are returned when the box is empty
// or holds a different type.
func Take[I any, T any](b *Box[I]) (T, bool) {
	var out T
	if b.tab == nil || b.rtyp != typeOf[T]() {
		return out, false
	}
	copy(bytesOf(unsafe.Pointer(&out), b.size), b.buf[:b.size])
	b.reset()
	return out, true
}

// View is a generation-checked handle to a box's occupant. Unlike the
// raw interface values returned by Get and GetMut, a View detects that
// the box has since been mutated and reports the occupant as absent
// instead of aliasing reused storage.
type View[I any] struct {
	box *Box[I]
	gen uint64
}

// View captures a handle to the current occupant. The handle goes
// stale on the next Set, Clear, Take or Close.
func (b *Box[I]) View() View[I] {
	return View[I]{box: b, gen: b.gen}
}

// Valid reports whether the view still refers to a live occupant.
func (v View[I]) Valid() bool {
	return v.box != nil && v.box.gen == v.gen && v.box.tab != nil
}

// Get returns the occupant through the capability interface, or absent
// if the view is stale or the box was empty when it was captured.
func (v View[I]) Get() (I, bool) {
	if !v.Valid() {
		var zero I
		return zero, false
	}
	return v.box.Get()
}
