package main

import (
	"fmt"
	"io"

	"github.com/llxisdsh/hashmap"
	"go.uber.org/zap"
)

func describeNext[K comparable, V any](next hashmap.Ref[K, V]) string {
	if !next.Valid() {
		return "none"
	}
	return fmt.Sprintf("%v:%v", next.Key(), next.Value())
}

// walkthrough replays the classic demonstration of the container on an
// int->int map and an int->string employee table.
func walkthrough(w io.Writer, capacity int, log *zap.Logger) error {
	m := hashmap.New[int, int](hashmap.WithInitialCapacity(capacity))
	log.Info("walkthrough started", zap.Int("capacity", m.Capacity()))

	fmt.Fprintln(w, "## insert")
	for _, kv := range [][2]int{{4, 40}, {6, 60}, {6, 60}} {
		ref, inserted := m.Insert(kv[0], kv[1])
		fmt.Fprintf(w, "insert(%d, %d) -> value %d inserted=%v\n", kv[0], kv[1], ref.Value(), inserted)
	}

	fmt.Fprintln(w, "## erase")
	for _, k := range []int{4, 6} {
		next, removed := m.Erase(k)
		fmt.Fprintf(w, "erase(%d) -> removed=%v next=%s\n", k, removed, describeNext(next))
	}

	fmt.Fprintln(w, "## rehash")
	for _, kv := range [][2]int{{4, 40}, {6, 60}, {5, 40}} {
		m.Insert(kv[0], kv[1])
	}
	refs := make([]hashmap.Ref[int, int], 0, 3)
	for _, k := range []int{4, 6, 5} {
		ref, _ := m.Find(k)
		refs = append(refs, ref)
	}
	before := m.Capacity()
	m.Rehash(before + 6)
	log.Debug("rehashed", zap.Int("from", before), zap.Int("to", m.Capacity()))
	fmt.Fprintf(w, "rehash(%d): capacity %d -> %d, len %d\n", before+6, before, m.Capacity(), m.Len())
	for i, k := range []int{4, 6, 5} {
		ref, _ := m.Find(k)
		fmt.Fprintf(w, "key %d: old ref valid=%v, value %d\n", k, refs[i].Valid(), ref.Value())
	}

	fmt.Fprintln(w, "## find / index")
	report := func() {
		if ref, ok := m.Find(4); ok {
			fmt.Fprintf(w, "4 maps to %d\n", ref.Value())
		} else {
			fmt.Fprintln(w, "cannot find 4 in map")
		}
	}
	report()
	m.Erase(4)
	report()
	m.Index(4).Set(35)
	m.Index(4).Set(60)
	report()

	fmt.Fprintln(w, "## employees")
	employees := hashmap.New[int, string](hashmap.WithInitialCapacity(capacity))
	for _, e := range []struct {
		num  int
		name string
	}{
		{123, "Mike"},
		{345, "Charlie"},
		{192, "Joe"},
		{752, "Paul"},
		{328, "Peter"},
		{501, "Ann"},
	} {
		employees.Index(e.num).Set(e.name)
	}
	if ref, ok := employees.Find(345); ok {
		fmt.Fprintf(w, "%d:%s\n", ref.Key(), ref.Value())
	}
	if _, ok := employees.Find(999); !ok {
		fmt.Fprintln(w, "999: employee not found")
	}
	employees.Erase(192)
	if !employees.HasKey(192) {
		fmt.Fprintln(w, "192: employee removed successfully")
	}
	fmt.Fprint(w, employees.Stats().ToString())

	log.Info("walkthrough done", zap.Int("employees", employees.Len()))
	return nil
}
