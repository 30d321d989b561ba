package engine

import (
	"fmt"
	"strings"
)

// BudgetPolicy decides which dequeued nodes consume a budget unit.
//
// Accepting and rejecting nodes never consume budget. Expanded nodes always
// do. The policies differ only on dead ends: nodes in a non-halting state
// whose (state, symbol) has no table row.
type BudgetPolicy int

const (
	// CountExpansions charges one unit per expanded node only.
	// Dead ends are free. This is the default.
	CountExpansions BudgetPolicy = iota
	// CountDeadEnds also charges one unit for every dead end.
	CountDeadEnds
)

// String returns the flag spelling of the policy.
func (p BudgetPolicy) String() string {
	switch p {
	case CountExpansions:
		return "expansions"
	case CountDeadEnds:
		return "dead-ends"
	default:
		return fmt.Sprintf("BudgetPolicy(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p BudgetPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParseBudgetPolicy converts a flag value ("expansions" or "dead-ends").
func ParseBudgetPolicy(s string) (BudgetPolicy, error) {
	switch strings.ToLower(s) {
	case "", "expansions":
		return CountExpansions, nil
	case "dead-ends", "deadends":
		return CountDeadEnds, nil
	default:
		return 0, fmt.Errorf("unknown budget policy %q: must be expansions or dead-ends", s)
	}
}

// Budget tracks the steps consumed by one search and enforces the limit.
//
// Each Trace call creates its own Budget.
//
// Unlike a timeout, running out of budget is an outcome of the search
// (BUDGET_EXCEEDED), not an error.
type Budget struct {
	maxSteps int
	used     int
}

// NewBudget creates a budget allowing maxSteps consumptions.
func NewBudget(maxSteps int) *Budget {
	return &Budget{maxSteps: maxSteps}
}

// Consume charges one step.
func (b *Budget) Consume() {
	b.used++
}

// Exhausted reports whether every step has been consumed.
func (b *Budget) Exhausted() bool {
	return b.used >= b.maxSteps
}

// Used returns the number of steps consumed.
func (b *Budget) Used() int {
	return b.used
}

// MaxSteps returns the limit.
func (b *Budget) MaxSteps() int {
	return b.maxSteps
}

// Remaining returns how many steps may still be consumed.
func (b *Budget) Remaining() int {
	if b.used >= b.maxSteps {
		return 0
	}
	return b.maxSteps - b.used
}

// charges reports whether a node of the given kind consumes a unit under p.
func (p BudgetPolicy) charges(kind VisitKind) bool {
	switch kind {
	case VisitExpanded:
		return true
	case VisitDeadEnd:
		return p == CountDeadEnds
	default:
		return false
	}
}
