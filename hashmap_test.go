package hashmap

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	testDataSmall [8]string
	testData      [128]string
	testDataLarge [16 << 10]string
)

func init() {
	for i := range testDataSmall {
		testDataSmall[i] = fmt.Sprintf("%b", i)
	}
	for i := range testData {
		testData[i] = fmt.Sprintf("%b", i)
	}
	for i := range testDataLarge {
		testDataLarge[i] = fmt.Sprintf("%b", i)
	}
}

type structKey struct {
	Service  uint32
	Instance uint32
}

// identityHash places integer keys in bucket key % capacity.
func identityHash(capacity int) ModHash[int] {
	return NewModHash(capacity, func(k int) uint64 { return uint64(k) })
}

// checkInvariants verifies bucket placement, the element count and key
// uniqueness by walking the raw table.
func checkInvariants[K comparable, V any](t *testing.T, m *Hashmap[K, V]) {
	t.Helper()
	n := 0
	seen := make(map[K]int)
	for b, chain := range m.table.chains {
		for _, e := range chain {
			if got := m.hash.Hash(e.key); got != b {
				t.Fatalf("key %v stored in bucket %d, hashes to %d", e.key, b, got)
			}
			if e.erased {
				t.Fatalf("key %v is linked but marked erased", e.key)
			}
			if prev, ok := seen[e.key]; ok {
				t.Fatalf("key %v stored twice (buckets %d and %d)", e.key, prev, b)
			}
			seen[e.key] = b
			n++
		}
	}
	if n != m.Len() {
		t.Fatalf("walked %d entries, Len()=%d", n, m.Len())
	}
	if m.Capacity() != m.hash.Capacity() {
		t.Fatalf("table has %d buckets, strategy %d", m.Capacity(), m.hash.Capacity())
	}
}

func chainKeys[K comparable, V any](m *Hashmap[K, V], b int) []K {
	var keys []K
	for _, e := range m.table.chains[b] {
		keys = append(keys, e.key)
	}
	return keys
}

func TestHashmap_EndToEnd(t *testing.T) {
	m := New[int, int]()

	ref, inserted := m.Insert(4, 40)
	if !inserted || ref.Value() != 40 {
		t.Fatalf("first insert got (%v,%v)", ref.Value(), inserted)
	}
	ref, inserted = m.Insert(4, 41)
	if inserted || ref.Value() != 40 {
		t.Fatalf("second insert got (%v,%v), want (40,false)", ref.Value(), inserted)
	}
	next, removed := m.Erase(4)
	if !removed || next.Valid() {
		t.Fatalf("erase got (%v,%v), want (invalid,true)", next.Valid(), removed)
	}
	if _, ok := m.Find(4); ok {
		t.Fatalf("4 still found after erase")
	}
	checkInvariants(t, m)
}

func TestHashmap_ZeroValue(t *testing.T) {
	var m Hashmap[int, string]
	if m.Len() != 0 || !m.IsZero() {
		t.Fatalf("zero map not empty")
	}
	if _, ok := m.Find(1); ok {
		t.Fatalf("found key in zero map")
	}
	if m.Capacity() != DefaultInitialCapacity {
		t.Fatalf("capacity got %d, want %d", m.Capacity(), DefaultInitialCapacity)
	}
	m.Index(7).Set("seven")
	if v, ok := m.Load(7); !ok || v != "seven" {
		t.Fatalf("load got (%q,%v)", v, ok)
	}
}

func TestHashmap_WithInitialCapacity(t *testing.T) {
	for _, tc := range []struct {
		buckets, want int
	}{
		{1, 1},
		{17, 17},
		{0, DefaultInitialCapacity},
		{-3, DefaultInitialCapacity},
	} {
		m := New[int, int](WithInitialCapacity(tc.buckets))
		if m.Capacity() != tc.want {
			t.Fatalf("WithInitialCapacity(%d): capacity %d, want %d", tc.buckets, m.Capacity(), tc.want)
		}
	}

	// a custom strategy's capacity wins
	m := NewWithStrategies[int, int](nil, identityHash(5), WithInitialCapacity(50))
	if m.Capacity() != 5 {
		t.Fatalf("capacity got %d, want 5", m.Capacity())
	}
}

func TestHashmap_InitPanicsOnBadCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewWithStrategies[int, int](nil, identityHash(0))
}

func TestHashmap_Uniqueness(t *testing.T) {
	m := New[string, int](WithInitialCapacity(7))
	for round := 0; round < 3; round++ {
		for i, k := range testData {
			ref, inserted := m.Insert(k, i+round*1000)
			if inserted != (round == 0) {
				t.Fatalf("round %d key %q inserted=%v", round, k, inserted)
			}
			if ref.Value() != i {
				t.Fatalf("round %d key %q value %d, want %d", round, k, ref.Value(), i)
			}
		}
	}
	if m.Len() != len(testData) {
		t.Fatalf("Len()=%d, want %d", m.Len(), len(testData))
	}
	checkInvariants(t, m)
}

func TestHashmap_FindPresence(t *testing.T) {
	m := New[int, int](WithInitialCapacity(13))
	for i := 0; i < 200; i++ {
		m.Insert(i, i*10)
	}
	for i := 0; i < 200; i += 3 {
		m.Erase(i)
	}
	for i := -10; i < 210; i++ {
		ref, ok := m.Find(i)
		want := i >= 0 && i < 200 && i%3 != 0
		if ok != want {
			t.Fatalf("Find(%d) ok=%v, want %v", i, ok, want)
		}
		if ok && (ref.Key() != i || ref.Value() != i*10) {
			t.Fatalf("Find(%d) got (%d,%d)", i, ref.Key(), ref.Value())
		}
	}
	checkInvariants(t, m)
}

func TestHashmap_InsertAppendsToChain(t *testing.T) {
	m := NewWithStrategies[int, int](nil, identityHash(3))
	for _, k := range []int{9, 0, 3, 1, 6} {
		m.Insert(k, k)
	}
	if diff := cmp.Diff([]int{9, 0, 3, 6}, chainKeys(m, 0)); diff != "" {
		t.Fatalf("chain 0 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1}, chainKeys(m, 1)); diff != "" {
		t.Fatalf("chain 1 (-want +got):\n%s", diff)
	}
	if len(m.table.chains[2]) != 0 {
		t.Fatalf("chain 2 not empty")
	}
}

func TestHashmap_EraseRemovesExactlyOne(t *testing.T) {
	m := New[int, int](WithInitialCapacity(4))
	for i := 0; i < 50; i++ {
		m.Insert(i, i)
	}
	for i := 0; i < 50; i += 2 {
		before := m.Len()
		if _, removed := m.Erase(i); !removed {
			t.Fatalf("Erase(%d) not removed", i)
		}
		if m.Len() != before-1 {
			t.Fatalf("Erase(%d): Len %d -> %d", i, before, m.Len())
		}
		if m.HasKey(i) {
			t.Fatalf("Erase(%d): key still present", i)
		}
	}
	checkInvariants(t, m)
}

func TestHashmap_EraseAbsent(t *testing.T) {
	m := New[int, int]()
	m.Insert(1, 1)
	next, removed := m.Erase(2)
	if removed || next.Valid() {
		t.Fatalf("erase absent got (%v,%v)", next.Valid(), removed)
	}
	if m.Len() != 1 {
		t.Fatalf("Len()=%d, want 1", m.Len())
	}
	if _, removed = m.Erase(1); !removed {
		t.Fatalf("erase present failed")
	}
	if _, removed = m.Erase(1); removed {
		t.Fatalf("second erase reported removal")
	}
}

func TestHashmap_EraseSuccessor(t *testing.T) {
	// with 2 buckets 4 and 6 share bucket 0 and 5 lands in bucket 1
	m := New[int, int](WithInitialCapacity(2))
	m.Insert(4, 40)
	m.Insert(6, 60)
	m.Insert(5, 50)

	next, removed := m.Erase(4)
	if !removed || !next.Valid() || next.Key() != 6 || next.Value() != 60 {
		t.Fatalf("Erase(4) got (%v,%v), want next=6", next, removed)
	}

	// last in its chain: continue into the next bucket
	next, removed = m.Erase(6)
	if !removed || !next.Valid() || next.Key() != 5 {
		t.Fatalf("Erase(6) got (%v,%v), want next=5", next, removed)
	}

	// last in scan order
	next, removed = m.Erase(5)
	if !removed || next.Valid() {
		t.Fatalf("Erase(5) got (%v,%v), want (invalid,true)", next, removed)
	}
	if !m.IsZero() {
		t.Fatalf("map not empty")
	}
}

func TestHashmap_EraseSuccessorSkipsEmptyBuckets(t *testing.T) {
	m := NewWithStrategies[int, string](nil, identityHash(10))
	m.Insert(8, "eight")
	m.Insert(1, "one")
	m.Insert(11, "eleven")
	m.Insert(7, "seven")

	next, _ := m.Erase(11)
	if next.Key() != 7 {
		t.Fatalf("Erase(11) next=%v, want 7", next.Key())
	}
	next, _ = m.Erase(1)
	if next.Key() != 7 {
		t.Fatalf("Erase(1) next=%v, want 7", next.Key())
	}
	next, _ = m.Erase(7)
	if next.Key() != 8 {
		t.Fatalf("Erase(7) next=%v, want 8", next.Key())
	}
	// the hint is usable after removal
	next.Set("EIGHT")
	if v, _ := m.Load(8); v != "EIGHT" {
		t.Fatalf("Load(8)=%q", v)
	}
}

func TestHashmap_EraseKeepsChainOrder(t *testing.T) {
	m := NewWithStrategies[int, int](nil, NewModHash(4, func(int) uint64 { return 2 }))
	for i := 0; i < 6; i++ {
		m.Insert(i, i)
	}
	next, _ := m.Erase(2)
	if next.Key() != 3 {
		t.Fatalf("next=%d, want 3", next.Key())
	}
	if diff := cmp.Diff([]int{0, 1, 3, 4, 5}, chainKeys(m, 2)); diff != "" {
		t.Fatalf("chain (-want +got):\n%s", diff)
	}
	checkInvariants(t, m)
}

func TestHashmap_ScanWithEraseHint(t *testing.T) {
	m := New[int, int](WithInitialCapacity(5))
	for i := 0; i < 40; i++ {
		m.Insert(i, i)
	}
	// drain the map by always erasing the hinted successor
	first := m.table.successor(0, -1)
	if first == nil {
		t.Fatalf("no head entry")
	}
	key := first.key
	n := 0
	for {
		next, removed := m.Erase(key)
		if !removed {
			t.Fatalf("Erase(%d) not removed", key)
		}
		n++
		if !next.Valid() {
			break
		}
		key = next.Key()
	}
	if n != 40 || m.Len() != 0 {
		t.Fatalf("erased %d, Len()=%d", n, m.Len())
	}
}

func TestHashmap_Index(t *testing.T) {
	m := New[int, int]()
	ref := m.Index(42)
	if !ref.Valid() || ref.Value() != 0 {
		t.Fatalf("Index(42) got %v", ref)
	}
	if _, ok := m.Find(42); !ok {
		t.Fatalf("Find(42) failed after Index")
	}

	m.Index(4).Set(35)
	m.Index(4).Set(60)
	if v, _ := m.Load(4); v != 60 {
		t.Fatalf("Load(4)=%d, want 60", v)
	}
	*m.Index(4).Pointer() += 1
	if v, _ := m.Load(4); v != 61 {
		t.Fatalf("Load(4)=%d, want 61", v)
	}
	if m.Len() != 2 {
		t.Fatalf("Len()=%d, want 2", m.Len())
	}

	// an existing value is not reset
	m.Insert(9, 90)
	if m.Index(9).Value() != 90 {
		t.Fatalf("Index(9) reset the value")
	}
}

func TestHashmap_Rehash(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < 100; i++ {
		m.Insert(i, i*i)
	}
	before := m.ToMap()

	m.Rehash(107)
	if m.Capacity() != 107 {
		t.Fatalf("Capacity()=%d, want 107", m.Capacity())
	}
	if m.Len() != 100 {
		t.Fatalf("Len()=%d, want 100", m.Len())
	}
	if diff := cmp.Diff(before, m.ToMap()); diff != "" {
		t.Fatalf("contents changed (-before +after):\n%s", diff)
	}
	if got := m.Stats().TotalRehashes; got != 1 {
		t.Fatalf("TotalRehashes=%d", got)
	}
	checkInvariants(t, m)

	// inserting after a rehash uses the new strategy
	m.Insert(1000, 1)
	checkInvariants(t, m)
}

func TestHashmap_RehashGate(t *testing.T) {
	m := New[int, int](WithInitialCapacity(3))
	for i := 0; i < 10; i++ {
		m.Insert(i, i)
	}
	before := m.ToMap()
	ref, _ := m.Find(3)

	for _, n := range []int{-1, 0, 5, 10} {
		m.Rehash(n)
		if m.Capacity() != 3 {
			t.Fatalf("Rehash(%d) changed capacity to %d", n, m.Capacity())
		}
	}
	if diff := cmp.Diff(before, m.ToMap()); diff != "" {
		t.Fatalf("contents changed (-before +after):\n%s", diff)
	}
	if !ref.Valid() {
		t.Fatalf("gated Rehash invalidated a Ref")
	}

	m.Rehash(11)
	if m.Capacity() != 11 || m.Len() != 10 {
		t.Fatalf("Rehash(11): capacity %d, len %d", m.Capacity(), m.Len())
	}
	checkInvariants(t, m)
}

func TestHashmap_RehashComparesPopulation(t *testing.T) {
	m := New[int, int]()
	m.Insert(1, 1)
	m.Insert(2, 2)
	m.Insert(3, 3)

	// fewer buckets than before but more than entries
	m.Rehash(4)
	if m.Capacity() != 4 {
		t.Fatalf("Capacity()=%d, want 4", m.Capacity())
	}
	// the element count is not replaced by the bucket count
	if m.Len() != 3 {
		t.Fatalf("Len()=%d, want 3", m.Len())
	}
	checkInvariants(t, m)
}

func TestHashmap_RehashCustomStrategy(t *testing.T) {
	m := NewWithStrategies[int, int](nil, identityHash(4))
	for _, k := range []int{0, 4, 8, 1} {
		m.Insert(k, k)
	}
	m.Rehash(8)
	if diff := cmp.Diff([]int{0, 8}, chainKeys(m, 0)); diff != "" {
		t.Fatalf("chain 0 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{4}, chainKeys(m, 4)); diff != "" {
		t.Fatalf("chain 4 (-want +got):\n%s", diff)
	}
	if _, ok := m.hash.(ModHash[int]); !ok {
		t.Fatalf("strategy type changed to %T", m.hash)
	}
	checkInvariants(t, m)
}

func TestHashmap_CustomEquality(t *testing.T) {
	fold := func(k string) uint64 {
		var sum uint64
		for _, b := range []byte(strings.ToLower(k)) {
			sum += uint64(b)
		}
		return sum
	}
	m := NewWithStrategies[string, int](
		EqualFunc[string](strings.EqualFold),
		NewModHash(31, fold),
	)
	m.Insert("Gopher", 1)
	ref, inserted := m.Insert("GOPHER", 2)
	if inserted || ref.Value() != 1 || ref.Key() != "Gopher" {
		t.Fatalf("got (%q,%d,%v)", ref.Key(), ref.Value(), inserted)
	}
	if _, ok := m.Find("gopher"); !ok {
		t.Fatalf("case-folded lookup failed")
	}
	if _, removed := m.Erase("gOPHER"); !removed || m.Len() != 0 {
		t.Fatalf("case-folded erase failed")
	}
}

func TestHashmap_InconsistentStrategies(t *testing.T) {
	// EqualFold with a byte-sum hash: "a" and "A" land in different
	// buckets, so the equality is never consulted between them.
	m := NewWithStrategies[string, int](EqualFunc[string](strings.EqualFold), nil)
	m.Insert("a", 1)
	if _, inserted := m.Insert("A", 2); !inserted {
		t.Fatalf("expected a duplicate-looking entry")
	}
	if m.Len() != 2 {
		t.Fatalf("Len()=%d, want 2", m.Len())
	}
}

func TestHashmap_StructKeys(t *testing.T) {
	m := New[structKey, string](WithInitialCapacity(16))
	for i := uint32(0); i < 64; i++ {
		m.Insert(structKey{i % 8, i}, fmt.Sprint(i))
	}
	for i := uint32(0); i < 64; i++ {
		if v, ok := m.Load(structKey{i % 8, i}); !ok || v != fmt.Sprint(i) {
			t.Fatalf("key %d got (%q,%v)", i, v, ok)
		}
	}
	checkInvariants(t, m)
}

func TestHashmap_Clear(t *testing.T) {
	m := New[string, int](WithInitialCapacity(9))
	for i, k := range testDataSmall {
		m.Insert(k, i)
	}
	m.Rehash(20)
	ref, _ := m.Find(testDataSmall[0])
	m.Clear()
	if !m.IsZero() || m.Capacity() != 20 {
		t.Fatalf("after Clear: len %d capacity %d", m.Len(), m.Capacity())
	}
	if ref.Valid() {
		t.Fatalf("Ref survived Clear")
	}
	if _, ok := m.Find(testDataSmall[0]); ok {
		t.Fatalf("key survived Clear")
	}
	checkInvariants(t, m)
}

func TestHashmap_LargeRandomized(t *testing.T) {
	m := New[string, int](WithInitialCapacity(31))
	model := make(map[string]int)
	for i, k := range testDataLarge {
		switch i % 5 {
		case 0, 1, 2:
			if _, inserted := m.Insert(k, i); inserted {
				model[k] = i
			}
		case 3:
			_, removed := m.Erase(testDataLarge[i/2])
			_, had := model[testDataLarge[i/2]]
			if removed != had {
				t.Fatalf("Erase(%q) removed=%v, model had=%v", testDataLarge[i/2], removed, had)
			}
			delete(model, testDataLarge[i/2])
		case 4:
			if i%1000 == 4 {
				m.Rehash(m.Len() + 1 + i/100)
			}
		}
	}
	if diff := cmp.Diff(model, m.ToMap()); diff != "" {
		t.Fatalf("map diverged from model (-want +got):\n%s", diff)
	}
	checkInvariants(t, m)
}
