package engine

import "github.com/tram-tr/turing-machine/internal/tape"

// node is one entry of the search arena.
type node struct {
	config tape.Configuration
	depth  int
	parent int // arena index of the parent; -1 for the root
}

// frontier is the FIFO queue of arena indexes awaiting expansion.
//
// It is owned by a single Trace call and is not safe for concurrent use.
type frontier struct {
	items []int
}

// newFrontier creates an empty frontier.
func newFrontier() *frontier {
	return &frontier{
		items: make([]int, 0, 64),
	}
}

// Push adds an arena index to the back of the queue.
func (f *frontier) Push(idx int) {
	f.items = append(f.items, idx)
}

// Pop removes and returns the front index.
// Returns (0, false) if the frontier is empty.
func (f *frontier) Pop() (int, bool) {
	if len(f.items) == 0 {
		return 0, false
	}

	idx := f.items[0]

	// Reset to the start of the backing array when draining the last item,
	// so a frontier that repeatedly empties and refills does not creep forward.
	if len(f.items) == 1 {
		f.items = f.items[:0]
	} else {
		f.items = f.items[1:]
	}

	return idx, true
}

// Len returns the number of queued indexes.
func (f *frontier) Len() int {
	return len(f.items)
}

// arena stores every node created by a search.
type arena struct {
	nodes []node
}

// add stores n and returns its index.
func (a *arena) add(n node) int {
	a.nodes = append(a.nodes, n)
	return len(a.nodes) - 1
}

// get returns the node at idx.
func (a *arena) get(idx int) node {
	return a.nodes[idx]
}

// path walks parent links from idx back to the root and returns the
// configurations in root-first order.
func (a *arena) path(idx int) []tape.Configuration {
	depth := a.nodes[idx].depth
	out := make([]tape.Configuration, depth+1)
	for i := depth; idx >= 0; i-- {
		n := a.nodes[idx]
		out[i] = n.config
		idx = n.parent
	}
	return out
}

// Len returns the number of nodes created.
func (a *arena) Len() int {
	return len(a.nodes)
}
