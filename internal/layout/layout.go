package layout

import (
	"reflect"
	"unsafe"
)

// StoreAlign is the alignment guaranteed for backing storage. Backing
// is allocated in uint64 words, so the base address satisfies every
// alignment a Go type can require on the host.
const StoreAlign = int(unsafe.Alignof(uint64(0)))

// Iface mirrors the runtime representation of an interface value: a
// dispatch word (itab, or the type pointer for the empty interface)
// followed by a data word. It cannot be used portably; the layout is
// an implementation detail of the Go runtime.
type Iface struct {
	Tab  unsafe.Pointer
	Data unsafe.Pointer
}

// Header aliases the interface value at v. I must be an interface type.
func Header[I any](v *I) *Iface {
	return (*Iface)(unsafe.Pointer(v))
}

// Pack assembles an interface value of type I from a dispatch word and
// a data word. The caller must guarantee that tab identifies an
// implementation of I and that data points at (or, for pointer-shaped
// implementations, is) a live value of that implementation.
func Pack[I any](tab, data unsafe.Pointer) I {
	var out I
	h := (*Iface)(unsafe.Pointer(&out))
	h.Tab = tab
	h.Data = data
	return out
}

// Backing allocates n bytes of storage aligned to StoreAlign. The word
// slice is the real allocation; holding it keeps the byte view
// reachable. At least one word is allocated so the base address exists
// even for n == 0.
func Backing(n int) ([]uint64, []byte) {
	const wordSize = int(unsafe.Sizeof(uint64(0)))
	words := (n + wordSize - 1) / wordSize
	if words == 0 {
		words = 1
	}
	w := make([]uint64, words)
	return w, unsafe.Slice((*byte)(unsafe.Pointer(&w[0])), n)
}

// HasPointers reports whether values of t embed words the garbage
// collector must treat as references: pointers, maps, chans, funcs,
// interfaces, slices and strings, anywhere in the layout. Byte storage
// is opaque to the collector, so such values need their referents
// pinned separately.
func HasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map,
		reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && HasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if HasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
