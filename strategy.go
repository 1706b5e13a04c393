package hashmap

import (
	"fmt"
	"unsafe"
)

// EqualityStrategy decides whether two keys are the same key.
//
// Implementations must be reflexive, symmetric and transitive over the key
// domain, and must agree with the HashStrategy used alongside them: keys that
// are Equal must hash to the same bucket at the same capacity. Neither rule is
// checked at runtime; a violation shows up as duplicate-looking entries.
type EqualityStrategy[K any] interface {
	Equal(a, b K) bool
}

// HashStrategy maps a key to a bucket index.
//
// Hash must return a value in [0, Capacity()) and must be a pure function of
// the key and the capacity. Resized returns a strategy with the same
// algorithm configured for a different bucket count; Rehash uses it to build
// the replacement strategy.
type HashStrategy[K any] interface {
	Hash(key K) int
	Capacity() int
	Resized(capacity int) HashStrategy[K]
}

// EqualFunc adapts an ordinary function to EqualityStrategy.
type EqualFunc[K any] func(a, b K) bool

func (f EqualFunc[K]) Equal(a, b K) bool {
	return f(a, b)
}

// DefaultEqual is value equality (==).
type DefaultEqual[K comparable] struct{}

func (DefaultEqual[K]) Equal(a, b K) bool {
	return a == b
}

type byteSumMode uint8

const (
	byteSumUnresolved byteSumMode = iota
	byteSumRaw
	byteSumString
	byteSumFormat
	byteSumDynamic
)

// byteSumModeOf picks the representation ByteSum reads for K.
func byteSumModeOf[K any]() byteSumMode {
	switch typ := iTypeOf(*new(K)); {
	case typ == nil:
		// interface-typed K, resolved per value
		return byteSumDynamic
	case typ.Kind() == kindString:
		return byteSumString
	case typ.PtrBytes == 0 || typ.addressKind():
		return byteSumRaw
	default:
		return byteSumFormat
	}
}

// ByteSum is the default HashStrategy. It sums the unsigned bytes of the
// key's representation and reduces the total modulo the bucket count.
//
// The representation is:
//   - the key's memory for pointer-free types (integers, floats, arrays and
//     structs of those) and for pointers, channels and unsafe.Pointer, whose
//     memory is the address they compare by
//   - the string contents for string-kinded keys
//   - the %#v rendering for structs and arrays carrying pointers; nested
//     pointers render as addresses
//   - for interface-typed keys, the same choice made on the dynamic value
//
// ByteSum is deliberately simple and not a general-purpose hash: keys whose
// bytes are permutations of each other always collide, integer keys spread
// only over a few hundred distinct sums, and for floats +0 and -0 hash apart
// although they compare equal. Supply a custom strategy when distribution
// matters.
//
// The zero ByteSum has no buckets; use NewByteSum or Resized.
type ByteSum[K any] struct {
	buckets int
	mode    byteSumMode
}

// NewByteSum returns a ByteSum strategy for capacity buckets.
func NewByteSum[K any](capacity int) ByteSum[K] {
	return ByteSum[K]{buckets: capacity, mode: byteSumModeOf[K]()}
}

func (h ByteSum[K]) Hash(key K) int {
	mode := h.mode
	if mode == byteSumUnresolved {
		mode = byteSumModeOf[K]()
	}
	var sum uint64
	switch mode {
	case byteSumRaw:
		sum = sumBytes(unsafe.Slice((*byte)(unsafe.Pointer(&key)), unsafe.Sizeof(key)))
	case byteSumString:
		sum = sumString(*(*string)(unsafe.Pointer(&key)))
	case byteSumDynamic:
		sum = sumDynamic(any(key))
	default:
		sum = sumBytes(fmt.Appendf(nil, "%#v", key))
	}
	return int(sum % uint64(h.buckets))
}

func (h ByteSum[K]) Capacity() int {
	return h.buckets
}

func (h ByteSum[K]) Resized(capacity int) HashStrategy[K] {
	h.buckets = capacity
	if h.mode == byteSumUnresolved {
		h.mode = byteSumModeOf[K]()
	}
	return h
}

// sumDynamic sums the representation of the value held by an interface.
func sumDynamic(key any) uint64 {
	eface := efaceOf(&key)
	switch typ := eface.Type; {
	case typ == nil:
		return 0
	case typ.Kind() == kindString:
		return sumString(*(*string)(eface.Data))
	case typ.addressKind():
		// stored directly in the data word
		return sumBytes(unsafe.Slice((*byte)(unsafe.Pointer(&eface.Data)), unsafe.Sizeof(eface.Data)))
	case typ.PtrBytes == 0:
		return sumBytes(unsafe.Slice((*byte)(eface.Data), typ.Size_))
	default:
		return sumBytes(fmt.Appendf(nil, "%#v", key))
	}
}

func sumBytes(b []byte) uint64 {
	var sum uint64
	for _, c := range b {
		sum += uint64(c)
	}
	return sum
}

func sumString(s string) uint64 {
	var sum uint64
	for i := 0; i < len(s); i++ {
		sum += uint64(s[i])
	}
	return sum
}

// ModHash reduces a caller-supplied 64-bit hash modulo the bucket count.
//
//	h := NewModHash(64, func(k int) uint64 { return uint64(k) })
type ModHash[K any] struct {
	fn      func(key K) uint64
	buckets int
}

// NewModHash returns a ModHash strategy for capacity buckets.
func NewModHash[K any](capacity int, fn func(key K) uint64) ModHash[K] {
	return ModHash[K]{fn: fn, buckets: capacity}
}

func (h ModHash[K]) Hash(key K) int {
	return int(h.fn(key) % uint64(h.buckets))
}

func (h ModHash[K]) Capacity() int {
	return h.buckets
}

func (h ModHash[K]) Resized(capacity int) HashStrategy[K] {
	h.buckets = capacity
	return h
}
