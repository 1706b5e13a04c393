package hashmap

// DefaultInitialCapacity is the bucket count of a map built without a
// custom HashStrategy or WithInitialCapacity.
const DefaultInitialCapacity = 101

// Hashmap is an unordered associative container using separate chaining.
//
// Each bucket holds a chain of entries kept in insertion order. A
// HashStrategy picks the bucket for a key and an EqualityStrategy tells keys
// apart inside a chain; both are pluggable and default to ByteSum and ==.
//
// The element count (Len) and the bucket count (Capacity) are independent:
// the table never grows by itself, only through Rehash.
//
// Hashmap is not safe for concurrent use. Callers sharing a map between
// goroutines must serialize every call, reads included.
//
// The zero Hashmap is empty and ready to use with the default strategies
// and DefaultInitialCapacity buckets.
type Hashmap[K comparable, V any] struct {
	table    bucketArray[K, V]
	hash     HashStrategy[K]
	equal    EqualityStrategy[K]
	size     int
	gen      uint64
	rehashes uint32
}

// MapConfig defines configurable Hashmap options.
type MapConfig struct {
	initialCapacity int
}

// WithInitialCapacity sets the number of buckets the default ByteSum
// strategy starts with. Values <= 0 are ignored. It has no effect when a
// custom HashStrategy is supplied: that strategy's Capacity is used as is.
func WithInitialCapacity(buckets int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.initialCapacity = buckets
	}
}

// New creates a Hashmap with the default strategies.
func New[K comparable, V any](options ...func(*MapConfig)) *Hashmap[K, V] {
	return NewWithStrategies[K, V](nil, nil, options...)
}

// NewWithStrategies creates a Hashmap with custom key equality and hashing.
//
// Parameters:
//   - equal: nil uses DefaultEqual
//   - hash: nil uses ByteSum; a non-nil strategy fixes the initial bucket count
//   - WithInitialCapacity option for the default strategy's bucket count
func NewWithStrategies[K comparable, V any](
	equal EqualityStrategy[K],
	hash HashStrategy[K],
	options ...func(*MapConfig),
) *Hashmap[K, V] {
	m := &Hashmap[K, V]{}
	m.Init(equal, hash, options...)
	return m
}

// Init sets up the strategies of a Hashmap, discarding any content.
// It is meant for zero-value maps that need custom strategies; see
// NewWithStrategies for the parameters.
//
// Init panics if the HashStrategy reports a non-positive Capacity.
func (m *Hashmap[K, V]) Init(
	equal EqualityStrategy[K],
	hash HashStrategy[K],
	options ...func(*MapConfig),
) {
	c := &MapConfig{initialCapacity: DefaultInitialCapacity}
	for _, o := range options {
		o(c)
	}
	if c.initialCapacity <= 0 {
		c.initialCapacity = DefaultInitialCapacity
	}
	if equal == nil {
		equal = DefaultEqual[K]{}
	}
	if hash == nil {
		hash = NewByteSum[K](c.initialCapacity)
	}
	if hash.Capacity() <= 0 {
		panic("hashmap: hash strategy capacity must be positive")
	}

	m.equal = equal
	m.hash = hash
	m.table = newBucketArray[K, V](hash.Capacity())
	m.size = 0
	m.gen++
}

func (m *Hashmap[K, V]) init() {
	if m.hash == nil {
		m.Init(nil, nil)
	}
}

// Find returns a Ref to the entry with the given key, or false.
// Find never modifies the map.
func (m *Hashmap[K, V]) Find(key K) (Ref[K, V], bool) {
	m.init()
	b := m.hash.Hash(key)
	i := m.table.indexOf(b, key, m.equal)
	if i < 0 {
		return Ref[K, V]{}, false
	}
	return m.ref(m.table.chains[b][i]), true
}

// Insert adds key with value unless an equal key is already stored.
//
// When the key is new the entry is appended to its chain and inserted is
// true. Otherwise the stored value is left untouched and the returned Ref
// designates the existing entry.
func (m *Hashmap[K, V]) Insert(key K, value V) (ref Ref[K, V], inserted bool) {
	m.init()
	b := m.hash.Hash(key)
	if i := m.table.indexOf(b, key, m.equal); i >= 0 {
		return m.ref(m.table.chains[b][i]), false
	}
	e := &entry[K, V]{key: key, value: value}
	m.table.push(b, e)
	m.size++
	return m.ref(e), true
}

// Index returns a Ref to the value stored under key, inserting the zero
// value first if the key is absent. The returned Ref is always valid.
//
//	m.Index(4).Set(35)
func (m *Hashmap[K, V]) Index(key K) Ref[K, V] {
	var zero V
	ref, _ := m.Insert(key, zero)
	return ref
}

// Erase removes the entry with the given key.
//
// If the key is absent Erase returns (zero Ref, false) and changes nothing.
// Otherwise removed is true and next designates the entry that followed the
// removed one in scan order (ascending bucket index, then chain order), or
// is the zero Ref if the removed entry was the last one. Finding the
// successor may walk empty buckets, so it costs up to O(Capacity) in a
// sparse table.
func (m *Hashmap[K, V]) Erase(key K) (next Ref[K, V], removed bool) {
	m.init()
	b := m.hash.Hash(key)
	i := m.table.indexOf(b, key, m.equal)
	if i < 0 {
		return Ref[K, V]{}, false
	}
	succ := m.table.successor(b, i)
	m.table.remove(b, i).erased = true
	m.size--
	return m.ref(succ), true
}

// Rehash rebuilds the table with capacity buckets.
//
// Nothing happens unless capacity is greater than Len: the gate is the
// population, not the current bucket count, so Rehash may also shrink a
// sparse table. Otherwise a new strategy is obtained from
// HashStrategy.Resized, every entry is moved to the chain it hashes to
// under it, and the old table is dropped. Len is unchanged. Every Ref issued
// before the call becomes invalid.
func (m *Hashmap[K, V]) Rehash(capacity int) {
	m.init()
	if capacity <= m.size {
		return
	}
	hash := m.hash.Resized(capacity)
	m.table = m.table.redistribute(hash)
	m.hash = hash
	m.gen++
	m.rehashes++
}

// Len returns the number of stored entries.
func (m *Hashmap[K, V]) Len() int {
	return m.size
}

// Capacity returns the current number of buckets.
func (m *Hashmap[K, V]) Capacity() int {
	m.init()
	return m.table.len()
}

// IsZero reports whether the map holds no entries.
func (m *Hashmap[K, V]) IsZero() bool {
	return m.size == 0
}

// Load returns the value stored under key.
func (m *Hashmap[K, V]) Load(key K) (value V, ok bool) {
	if ref, found := m.Find(key); found {
		return ref.e.value, true
	}
	return value, false
}

// HasKey to check if the key exist
func (m *Hashmap[K, V]) HasKey(key K) bool {
	_, ok := m.Find(key)
	return ok
}

// Clear removes every entry, keeping the current strategies and bucket
// count. Every Ref issued before the call becomes invalid.
func (m *Hashmap[K, V]) Clear() {
	m.init()
	m.table = newBucketArray[K, V](m.hash.Capacity())
	m.size = 0
	m.gen++
}
