package machine

// Key identifies a table row: the current state and the symbol under the head.
type Key struct {
	State string
	Read  Symbol
}

// Table maps (state, symbol) to the ordered list of possible transitions.
//
// A Table is built once by a loader and is read-only afterwards, so it is
// safe to share between concurrent searches.
//
// INVARIANTS:
//   - Transitions for a key keep their declaration order
//   - keys holds every key once, in order of first declaration
type Table struct {
	rows map[Key][]Transition
	keys []Key
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[Key][]Transition)}
}

// Add appends a transition to the row for (state, read).
// Repeated declarations for the same key accumulate; this is how
// nondeterminism is expressed, not a conflict.
func (t *Table) Add(state string, read Symbol, tr Transition) {
	k := Key{State: state, Read: read}
	if _, ok := t.rows[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.rows[k] = append(t.rows[k], tr)
}

// Lookup returns the transitions for (state, read) in declaration order.
// The second result is false when the table has no row for the key.
// Callers must not modify the returned slice.
func (t *Table) Lookup(state string, read Symbol) ([]Transition, bool) {
	if t == nil {
		return nil, false
	}
	trs, ok := t.rows[Key{State: state, Read: read}]
	return trs, ok
}

// Keys returns every key in order of first declaration.
func (t *Table) Keys() []Key {
	if t == nil {
		return nil
	}
	out := make([]Key, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the total number of transitions in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, trs := range t.rows {
		n += len(trs)
	}
	return n
}
