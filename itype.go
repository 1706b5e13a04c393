package hashmap

import (
	"unsafe"
)

type iKind uint8

// Kind values mirror internal/abi.
const (
	kindMask          iKind = (1 << 5) - 1
	kindChan          iKind = 18
	kindPointer       iKind = 22
	kindString        iKind = 24
	kindUnsafePointer iKind = 26
)

// iType is the leading part of the runtime type descriptor, up to Kind_.
// Only PtrBytes, Size_ and Kind_ are read.
//
// Notes:
//   - This relies on Go's internal type representation
//   - It should be verified for compatibility with each Go version upgrade
type iType struct {
	Size_    uintptr
	PtrBytes uintptr // number of (prefix) bytes in the type that can contain pointers
	_        uint32  // hash
	_        uint8   // tflag
	_        uint8   // align
	_        uint8   // field align
	Kind_    iKind
}

func (t *iType) Kind() iKind {
	return t.Kind_ & kindMask
}

// addressKind reports whether values of the kind are a bare address that
// == compares by identity.
func (t *iType) addressKind() bool {
	switch t.Kind() {
	case kindPointer, kindChan, kindUnsafePointer:
		return true
	}
	return false
}

type iEmptyInterface struct {
	Type *iType
	Data unsafe.Pointer
}

// efaceOf exposes the type and data words of a. The type is nil for a nil
// interface, which is what the zero value of an interface-typed K gives.
func efaceOf(a *any) *iEmptyInterface {
	return (*iEmptyInterface)(unsafe.Pointer(a))
}

func iTypeOf(a any) *iType {
	return efaceOf(&a).Type
}
