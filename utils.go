package dynbox

import (
	"reflect"
	"unsafe"
)

// typeOf returns the reflect.Type of T without materializing a value.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// bytesOf aliases the n-byte representation of the value at p.
func bytesOf(p unsafe.Pointer, n int) []byte {
	return unsafe.Slice((*byte)(p), n)
}
