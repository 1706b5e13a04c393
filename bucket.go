package hashmap

import (
	"slices"
	"unsafe"
)

// chainBlockLen is the capacity of the first backing array of a chain:
// one cache line worth of entry pointers.
const chainBlockLen = max(1, int(CacheLineSize/unsafe.Sizeof(uintptr(0))))

// entry is a stored key/value pair. The key never changes after insertion;
// erased marks an entry that has been unlinked from its chain so that
// outstanding Refs to it can tell.
type entry[K comparable, V any] struct {
	key    K
	value  V
	erased bool
}

// bucketArray is a fixed number of chains. Every entry sits in the chain
// whose index its key hashes to under the owning map's HashStrategy.
// Chains keep insertion order.
type bucketArray[K comparable, V any] struct {
	chains [][]*entry[K, V]
}

func newBucketArray[K comparable, V any](capacity int) bucketArray[K, V] {
	return bucketArray[K, V]{chains: make([][]*entry[K, V], capacity)}
}

func (a *bucketArray[K, V]) len() int {
	return len(a.chains)
}

// indexOf returns the position of key in chain b, or -1.
func (a *bucketArray[K, V]) indexOf(b int, key K, eq EqualityStrategy[K]) int {
	for i, e := range a.chains[b] {
		if eq.Equal(e.key, key) {
			return i
		}
	}
	return -1
}

// push appends e to the end of chain b.
func (a *bucketArray[K, V]) push(b int, e *entry[K, V]) {
	if a.chains[b] == nil {
		a.chains[b] = make([]*entry[K, V], 0, chainBlockLen)
	}
	a.chains[b] = append(a.chains[b], e)
}

// remove unlinks the i-th entry of chain b, keeping the order of the rest.
func (a *bucketArray[K, V]) remove(b, i int) *entry[K, V] {
	e := a.chains[b][i]
	a.chains[b] = slices.Delete(a.chains[b], i, i+1)
	return e
}

// successor returns the entry after position (b, i) in scan order: the next
// one in the same chain, or else the head of the next non-empty chain.
func (a *bucketArray[K, V]) successor(b, i int) *entry[K, V] {
	if i+1 < len(a.chains[b]) {
		return a.chains[b][i+1]
	}
	for b++; b < len(a.chains); b++ {
		if len(a.chains[b]) != 0 {
			return a.chains[b][0]
		}
	}
	return nil
}

// walk visits every entry in scan order until yield returns false.
func (a *bucketArray[K, V]) walk(yield func(e *entry[K, V]) bool) {
	for _, chain := range a.chains {
		for _, e := range chain {
			if !yield(e) {
				return
			}
		}
	}
}

// redistribute moves every entry of a into a fresh array sized for hash,
// appending each to the chain it hashes to. Relative order of entries that
// land in the same new chain follows the old scan order.
func (a *bucketArray[K, V]) redistribute(hash HashStrategy[K]) bucketArray[K, V] {
	next := newBucketArray[K, V](hash.Capacity())
	a.walk(func(e *entry[K, V]) bool {
		next.push(hash.Hash(e.key), e)
		return true
	})
	return next
}
