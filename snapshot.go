package hashmap

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ToMap collect all entries and return a map[K]V
func (m *Hashmap[K, V]) ToMap() map[K]V {
	return m.ToMapWithLimit(-1)
}

// ToMapWithLimit collect up to limit entries into a map[K]V, limit < 0 is no limit.
// Entries are taken in scan order.
func (m *Hashmap[K, V]) ToMapWithLimit(limit int) map[K]V {
	if limit == 0 {
		return map[K]V{}
	}
	if limit < 0 {
		limit = math.MaxInt
	}
	a := make(map[K]V, min(m.size, limit))
	m.table.walk(func(e *entry[K, V]) bool {
		a[e.key] = e.value
		limit--
		return limit > 0
	})
	return a
}

// FromMap stores every pair of source, overwriting values of keys that are
// already present.
func (m *Hashmap[K, V]) FromMap(source map[K]V) {
	for k, v := range source {
		m.Index(k).Set(v)
	}
}

// Clone returns an independent copy with the same strategies, bucket count
// and chain order. Values are copied by assignment.
func (m *Hashmap[K, V]) Clone() *Hashmap[K, V] {
	m.init()
	clone := &Hashmap[K, V]{
		table:    newBucketArray[K, V](m.table.len()),
		hash:     m.hash,
		equal:    m.equal,
		size:     m.size,
		gen:      1,
		rehashes: m.rehashes,
	}
	for b, chain := range m.table.chains {
		for _, e := range chain {
			clone.table.push(b, &entry[K, V]{key: e.key, value: e.value})
		}
	}
	return clone
}

// String implement the formatting output interface fmt.Stringer
func (m *Hashmap[K, V]) String() string {
	const limit = 1024
	return strings.Replace(fmt.Sprint(m.ToMapWithLimit(limit)), "map[", "Hashmap[", 1)
}

var (
	jsonMarshal   func(v any) ([]byte, error)
	jsonUnmarshal func(data []byte, v any) error
)

// SetDefaultJSONMarshal sets the default JSON serialization and deserialization functions.
// If not set, the standard library is used by default.
func SetDefaultJSONMarshal(marshal func(v any) ([]byte, error), unmarshal func(data []byte, v any) error) {
	jsonMarshal, jsonUnmarshal = marshal, unmarshal
}

// MarshalJSON encodes the map as a JSON object.
func (m *Hashmap[K, V]) MarshalJSON() ([]byte, error) {
	if jsonMarshal != nil {
		return jsonMarshal(m.ToMap())
	}
	return json.Marshal(m.ToMap())
}

// UnmarshalJSON decodes a JSON object and stores its pairs with FromMap.
// Existing entries with other keys are kept.
func (m *Hashmap[K, V]) UnmarshalJSON(data []byte) error {
	var a map[K]V
	if jsonUnmarshal != nil {
		if err := jsonUnmarshal(data, &a); err != nil {
			return err
		}
	} else {
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
	}
	m.FromMap(a)
	return nil
}

// Stats returns statistics for the Hashmap. It is an O(Capacity + Len)
// operation, so it should be used only for diagnostics or debugging purposes.
func (m *Hashmap[K, V]) Stats() *MapStats {
	m.init()
	stats := &MapStats{
		Buckets:       m.table.len(),
		Counter:       m.size,
		TotalRehashes: m.rehashes,
		MinChain:      math.MaxInt,
	}
	for _, chain := range m.table.chains {
		n := len(chain)
		stats.Size += n
		if n == 0 {
			stats.EmptyBuckets++
		}
		if n > 1 {
			stats.Collisions += n - 1
		}
		stats.MinChain = min(stats.MinChain, n)
		stats.MaxChain = max(stats.MaxChain, n)
	}
	stats.LoadFactor = float64(stats.Size) / float64(stats.Buckets)
	return stats
}

// MapStats is Hashmap statistics.
//
// Warning: map statistics are intended to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type MapStats struct {
	// Buckets is the number of buckets (chains) in the table.
	Buckets int
	// EmptyBuckets is the number of buckets that hold no entries.
	EmptyBuckets int
	// Size is the number of entries found by walking every chain.
	Size int
	// Counter is the element count the map maintains. It always equals
	// Size unless a strategy broke its contract.
	Counter int
	// Collisions is the number of entries that share a chain with an
	// earlier entry.
	Collisions int
	// MinChain is the length of the shortest chain.
	MinChain int
	// MaxChain is the length of the longest chain.
	MaxChain int
	// LoadFactor is Size divided by Buckets.
	LoadFactor float64
	// TotalRehashes is the number of times Rehash rebuilt the table.
	TotalRehashes uint32
}

// ToString returns string representation of map stats.
func (s *MapStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("MapStats{\n")
	sb.WriteString(fmt.Sprintf("Buckets:       %d\n", s.Buckets))
	sb.WriteString(fmt.Sprintf("EmptyBuckets:  %d\n", s.EmptyBuckets))
	sb.WriteString(fmt.Sprintf("Size:          %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("Counter:       %d\n", s.Counter))
	sb.WriteString(fmt.Sprintf("Collisions:    %d\n", s.Collisions))
	sb.WriteString(fmt.Sprintf("MinChain:      %d\n", s.MinChain))
	sb.WriteString(fmt.Sprintf("MaxChain:      %d\n", s.MaxChain))
	sb.WriteString(fmt.Sprintf("LoadFactor:    %.3f\n", s.LoadFactor))
	sb.WriteString(fmt.Sprintf("TotalRehashes: %d\n", s.TotalRehashes))
	sb.WriteString("}\n")
	return sb.String()
}
