package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/llxisdsh/hashmap"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type op struct {
	line  int
	name  string
	key   int
	value string
}

// arity is the number of arguments after the op name; -1 means a key
// followed by a free-form value (the rest of the line).
var arity = map[string]int{
	"insert": -1,
	"set":    -1,
	"get":    1,
	"find":   1,
	"erase":  1,
	"rehash": 1,
	"len":    0,
	"stats":  0,
	"dump":   0,
}

// maxRehashBuckets bounds the bucket count a script may ask for.
const maxRehashBuckets = 1 << 24

func parseScript(r io.Reader) ([]op, error) {
	var ops []op
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		o := op{line: line, name: fields[0]}
		n, ok := arity[o.name]
		if !ok {
			return nil, errors.Errorf("line %d: unknown op %q", line, o.name)
		}
		args := fields[1:]
		switch {
		case n == -1 && len(args) < 2:
			return nil, errors.Errorf("line %d: %s wants a key and a value", line, o.name)
		case n >= 0 && len(args) != n:
			return nil, errors.Errorf("line %d: %s wants %d argument(s), got %d", line, o.name, n, len(args))
		}
		if len(args) > 0 {
			k, err := strconv.Atoi(args[0])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: bad %s argument", line, o.name)
			}
			o.key = k
		}
		if o.name == "rehash" && o.key > maxRehashBuckets {
			return nil, errors.Errorf("line %d: rehash %d exceeds %d buckets", line, o.key, maxRehashBuckets)
		}
		if n == -1 {
			o.value = strings.Join(args[1:], " ")
		}
		ops = append(ops, o)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	return ops, nil
}

// runner applies ops to a Hashmap and mirrors them on an insertion-ordered
// model. Any disagreement between the two is reported as an error.
type runner struct {
	m     *hashmap.Hashmap[int, string]
	model *orderedmap.OrderedMap[int, string]
	out   io.Writer
	log   *zap.Logger
}

func newRunner(out io.Writer, capacity int, log *zap.Logger) *runner {
	return &runner{
		m:     hashmap.New[int, string](hashmap.WithInitialCapacity(capacity)),
		model: orderedmap.NewOrderedMap[int, string](),
		out:   out,
		log:   log,
	}
}

func (r *runner) run(ops []op) error {
	r.log.Info("running script", zap.Int("ops", len(ops)), zap.Int("capacity", r.m.Capacity()))
	for _, o := range ops {
		if err := r.exec(o); err != nil {
			return errors.Wrapf(err, "line %d", o.line)
		}
	}
	if err := r.verify(); err != nil {
		return errors.Wrap(err, "final state")
	}
	r.log.Info("script done", zap.Int("len", r.m.Len()), zap.Int("capacity", r.m.Capacity()))
	return nil
}

func (r *runner) exec(o op) error {
	r.log.Debug("op", zap.Int("line", o.line), zap.String("name", o.name),
		zap.Int("key", o.key), zap.String("value", o.value))

	switch o.name {
	case "insert":
		ref, inserted := r.m.Insert(o.key, o.value)
		want, had := r.model.Get(o.key)
		if !had {
			r.model.Set(o.key, o.value)
			want = o.value
		}
		if inserted == had || ref.Value() != want {
			return errors.Errorf("insert %d: got (%q,%v), model (%q,%v)", o.key, ref.Value(), inserted, want, !had)
		}
		fmt.Fprintf(r.out, "insert %d -> %q inserted=%v\n", o.key, ref.Value(), inserted)

	case "set":
		r.m.Index(o.key).Set(o.value)
		r.model.Set(o.key, o.value)
		fmt.Fprintf(r.out, "set %d = %q\n", o.key, o.value)

	case "get":
		v := r.m.Index(o.key).Value()
		want, had := r.model.Get(o.key)
		if !had {
			r.model.Set(o.key, "")
		}
		if v != want {
			return errors.Errorf("get %d: got %q, model %q", o.key, v, want)
		}
		fmt.Fprintf(r.out, "get %d -> %q\n", o.key, v)

	case "find":
		ref, ok := r.m.Find(o.key)
		want, had := r.model.Get(o.key)
		if ok != had || (ok && ref.Value() != want) {
			return errors.Errorf("find %d: got %v, model (%q,%v)", o.key, ok, want, had)
		}
		if ok {
			fmt.Fprintf(r.out, "find %d -> %q\n", o.key, ref.Value())
		} else {
			fmt.Fprintf(r.out, "find %d -> not found\n", o.key)
		}

	case "erase":
		next, removed := r.m.Erase(o.key)
		if had := r.model.Delete(o.key); removed != had {
			return errors.Errorf("erase %d: removed=%v, model had=%v", o.key, removed, had)
		}
		switch {
		case !removed:
			fmt.Fprintf(r.out, "erase %d -> not found\n", o.key)
		case next.Valid():
			fmt.Fprintf(r.out, "erase %d -> next %d:%q\n", o.key, next.Key(), next.Value())
		default:
			fmt.Fprintf(r.out, "erase %d -> last\n", o.key)
		}

	case "rehash":
		before := r.m.Capacity()
		r.m.Rehash(o.key)
		fmt.Fprintf(r.out, "rehash %d -> capacity %d (was %d)\n", o.key, r.m.Capacity(), before)

	case "len":
		if r.m.Len() != r.model.Len() {
			return errors.Errorf("len: got %d, model %d", r.m.Len(), r.model.Len())
		}
		fmt.Fprintf(r.out, "len %d\n", r.m.Len())

	case "stats":
		fmt.Fprint(r.out, r.m.Stats().ToString())

	case "dump":
		if err := r.verify(); err != nil {
			return err
		}
		for el := r.model.Front(); el != nil; el = el.Next() {
			fmt.Fprintf(r.out, "%d:%q\n", el.Key, el.Value)
		}
	}
	return nil
}

// verify compares the whole map with the model.
func (r *runner) verify() error {
	got := r.m.ToMap()
	if len(got) != r.model.Len() {
		return errors.Errorf("map holds %d entries, model %d", len(got), r.model.Len())
	}
	for el := r.model.Front(); el != nil; el = el.Next() {
		if v, ok := got[el.Key]; !ok || v != el.Value {
			return errors.Errorf("key %d: map (%q,%v), model %q", el.Key, v, ok, el.Value)
		}
	}
	return nil
}
