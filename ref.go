package hashmap

// Ref is a handle to one stored entry.
//
// A Ref stays valid until its entry is erased, or until the map is rehashed
// or cleared (both invalidate every Ref issued before). Key, Value, Set and
// Pointer panic on an invalid Ref, the same way indexing past the end of a
// slice does; use Valid or Load to test first. The zero Ref is invalid.
//
// The key cannot be changed through a Ref; the value can.
type Ref[K comparable, V any] struct {
	m   *Hashmap[K, V]
	e   *entry[K, V]
	gen uint64
}

func (m *Hashmap[K, V]) ref(e *entry[K, V]) Ref[K, V] {
	if e == nil {
		return Ref[K, V]{}
	}
	return Ref[K, V]{m: m, e: e, gen: m.gen}
}

// Valid reports whether the Ref still designates a live entry.
func (r Ref[K, V]) Valid() bool {
	return r.e != nil && !r.e.erased && r.gen == r.m.gen
}

func (r Ref[K, V]) mustValid() *entry[K, V] {
	if !r.Valid() {
		panic("hashmap: use of invalid Ref")
	}
	return r.e
}

// Key returns the entry's key.
func (r Ref[K, V]) Key() K {
	return r.mustValid().key
}

// Value returns the entry's current value.
func (r Ref[K, V]) Value() V {
	return r.mustValid().value
}

// Set replaces the entry's value in place.
func (r Ref[K, V]) Set(value V) {
	r.mustValid().value = value
}

// Pointer returns the address of the stored value. The pointer carries no
// staleness check of its own: it must not be used past the Ref's validity.
func (r Ref[K, V]) Pointer() *V {
	return &r.mustValid().value
}

// Load returns the value, or the zero value and false if the Ref is invalid.
func (r Ref[K, V]) Load() (value V, ok bool) {
	if !r.Valid() {
		return value, false
	}
	return r.e.value, true
}
