// Package dynbox provides a fixed-capacity inline container for a
// single type-erased value. A Box[I] owns zero or one value of any
// concrete type whose implementation of the capability interface I is
// captured at store time; the value's representation lives in a byte
// buffer owned by the box, so the steady state of storing and
// dispatching through pointer-free occupants is allocation free.
//
// Boxes are move-only and single-threaded: there is no copy operation,
// and callers needing concurrent access must wrap the whole box in
// their own mutual exclusion.
package dynbox

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/rawbytedev/dynbox/internal/layout"
)

// Disposer is the optional cleanup capability. Occupants implementing
// it have Dispose invoked exactly once when the box destroys them:
// on Clear, on an overwriting Set, or on Close. Take hands the
// occupant back to the caller without disposing it.
type Disposer interface {
	Dispose()
}

// Box holds at most one value implementing the capability interface I,
// stored inline in a buffer of the capacity fixed at construction.
// A nil dispatch word means empty. Boxes must be created with New.
type Box[I any] struct {
	words []uint64 // backing allocation; keeps buf reachable and aligned
	buf   []byte

	tab     unsafe.Pointer // dispatch word of the occupant's I implementation
	dropTab unsafe.Pointer // dispatch word of its Disposer implementation, if any
	rtyp    reflect.Type   // occupant's concrete type
	size    int
	direct  bool // occupant rides in the data word (pointer-shaped types)
	anchor  any  // pins referents of pointer-bearing occupants
	gen     uint64
}

// New creates an empty box with the given capacity in bytes. The
// capacity never grows; storing a larger value panics. I must be an
// interface type and capacity must be non-negative.
func New[I any](capacity int) *Box[I] {
	if t := typeOf[I](); t.Kind() != reflect.Interface {
		panic("dynbox: capability must be an interface type, got " + t.String())
	}
	if capacity < 0 {
		panic(fmt.Sprintf("dynbox: negative capacity %d", capacity))
	}
	words, buf := layout.Backing(capacity)
	return &Box[I]{words: words, buf: buf}
}

// Set stores v, transferring ownership into the box. The previous
// occupant, if any, is disposed exactly once before v becomes visible.
// Set validates everything before mutating anything, so a panicking
// call leaves the box exactly as it was: it panics if T is itself an
// interface type, if T does not implement I, or if T's size or
// alignment exceed what the storage can hold.
//
// Set is a package-level function because Go methods cannot declare
// their own type parameters.
func Set[I any, T any](b *Box[I], v T) {
	if b.words == nil {
		panic("dynbox: Set on an uninitialized Box, use New")
	}
	t := typeOf[T]()
	if t.Kind() == reflect.Interface {
		panic("dynbox: Set requires a concrete type, got interface " + t.String())
	}
	size := int(t.Size())
	if size > len(b.buf) {
		panic(fmt.Sprintf("dynbox: %s needs %d bytes, box capacity is %d", t, size, len(b.buf)))
	}
	if a := t.Align(); a > layout.StoreAlign {
		panic(fmt.Sprintf("dynbox: %s requires alignment %d, storage provides %d", t, a, layout.StoreAlign))
	}

	// Capture the dispatch words before touching box state. The *T
	// route keeps the occupant addressable in the buffer and costs no
	// allocation (boxing a nil pointer builds no value); it covers
	// every T that is not itself pointer-shaped. For pointer-shaped
	// concrete types the interface data word is the value, so the word
	// itself is what gets stored.
	var tab, dropTab unsafe.Pointer
	direct := false
	if i, ok := any((*T)(nil)).(I); ok {
		tab = layout.Header(&i).Tab
		if d, ok := any((*T)(nil)).(Disposer); ok {
			dropTab = layout.Header(&d).Tab
		}
	} else if i, ok := any(v).(I); ok {
		tab = layout.Header(&i).Tab
		direct = true
		if d, ok := any(v).(Disposer); ok {
			dropTab = layout.Header(&d).Tab
		}
	} else {
		panic("dynbox: " + t.String() + " does not implement the capability interface")
	}

	if b.tab != nil {
		b.dispose()
	}
	copy(b.buf[:size], bytesOf(unsafe.Pointer(&v), size))
	b.tab, b.dropTab = tab, dropTab
	b.rtyp, b.size, b.direct = t, size, direct
	// Byte storage is invisible to the garbage collector. When the
	// occupant embeds references, retain the boxed source so the
	// referents of the value as stored stay reachable.
	if layout.HasPointers(t) {
		b.anchor = v
	} else {
		b.anchor = nil
	}
	b.gen++
}

// Clear disposes the occupant exactly once and empties the box. It is
// a no-op on an empty box. Any interface value previously obtained
// from Get, GetMut or a View must not be used afterward.
func (b *Box[I]) Clear() {
	if b.tab == nil {
		return
	}
	b.dispose()
	b.reset()
}

// Empty reports whether the box holds no value.
func (b *Box[I]) Empty() bool {
	return b.tab == nil
}

// Get returns a borrowed view of the occupant through the capability
// interface, or absent if the box is empty. The view stays valid only
// until the next Set, Clear, Take or Close; it must not be used to
// mutate the occupant (use GetMut). The view's dynamic type is a
// pointer to the occupant, so dispatch reaches pointer-receiver
// methods as well.
func (b *Box[I]) Get() (I, bool) {
	if b.tab == nil {
		var zero I
		return zero, false
	}
	return layout.Pack[I](b.tab, b.data()), true
}

// GetMut returns the exclusive mutable view of the occupant, or absent
// if the box is empty. Only one mutable view may be in use at a time;
// Go interfaces cannot enforce that, so exclusivity is caller
// discipline. Mutating pointer-receiver methods act on the stored
// bytes in place. For pointer-bearing occupants, replacing embedded
// references through the view is out of contract: the box pins only
// the referents of the value as it was stored.
func (b *Box[I]) GetMut() (I, bool) {
	return b.Get()
}

// Close clears the box and always returns nil. It exists because Go
// cannot run cleanup when the box itself becomes unreachable; callers
// defer Close the way they would any resource handle.
func (b *Box[I]) Close() error {
	b.Clear()
	return nil
}

// Capacity returns the fixed storage size in bytes.
func (b *Box[I]) Capacity() int {
	return len(b.buf)
}

// Size returns the occupant's representation size in bytes, 0 when
// empty.
func (b *Box[I]) Size() int {
	return b.size
}

// ConcreteType returns the occupant's concrete type, nil when empty.
func (b *Box[I]) ConcreteType() reflect.Type {
	return b.rtyp
}

// data returns the interface data word for the current occupant: the
// storage address, or for pointer-shaped occupants the stored word
// itself.
func (b *Box[I]) data() unsafe.Pointer {
	p := unsafe.Pointer(&b.words[0])
	if b.direct {
		return *(*unsafe.Pointer)(p)
	}
	return p
}

func (b *Box[I]) dispose() {
	if b.dropTab != nil {
		layout.Pack[Disposer](b.dropTab, b.data()).Dispose()
	}
}

func (b *Box[I]) reset() {
	b.tab, b.dropTab = nil, nil
	b.rtyp, b.size, b.direct = nil, 0, false
	b.anchor = nil
	b.gen++
}
