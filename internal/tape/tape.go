// Package tape models one instantaneous description of a Turing machine and
// the single-step successor rule.
//
// A Configuration is a value: successor generation always builds new
// configurations, and the segments are Go strings, so two configurations
// can share tape text without either being able to change it.
package tape

import (
	"strings"
	"unicode/utf8"

	"github.com/tram-tr/turing-machine/internal/machine"
)

// Configuration is the machine state, the tape, and the head position.
//
// INVARIANTS:
//   - Head is always a defined symbol (Blank when the cell was never written)
//   - Left + Head + Right is the visible tape; cells beyond it are blank
type Configuration struct {
	State string         `json:"state"`
	Left  string         `json:"left"`
	Head  machine.Symbol `json:"head"`
	Right string         `json:"right"`
}

// Initial builds the root configuration for input: the head sits on the
// first symbol (or a blank for empty input) and the rest lies to its right.
func Initial(start, input string) Configuration {
	head, rest := splitFirst(input)
	return Configuration{State: start, Head: head, Right: rest}
}

// String renders the configuration as left,state,head,right.
func (c Configuration) String() string {
	var b strings.Builder
	b.Grow(len(c.Left) + len(c.State) + len(c.Right) + 8)
	b.WriteString(c.Left)
	b.WriteByte(',')
	b.WriteString(c.State)
	b.WriteByte(',')
	b.WriteRune(rune(c.Head))
	b.WriteByte(',')
	b.WriteString(c.Right)
	return b.String()
}

// Tape returns the visible tape with no head marker.
func (c Configuration) Tape() string {
	return c.Left + c.Head.String() + c.Right
}

// Apply performs one transition: write tr.Write under the head, move, and
// enter tr.Next.
func (c Configuration) Apply(tr machine.Transition) Configuration {
	written := tr.Write.String()
	switch tr.Move {
	case machine.Left:
		head, left := splitLast(c.Left)
		return Configuration{State: tr.Next, Left: left, Head: head, Right: written + c.Right}
	default:
		head, right := splitFirst(c.Right)
		return Configuration{State: tr.Next, Left: c.Left + written, Head: head, Right: right}
	}
}

// Successors returns every configuration reachable from c in one step, in
// the declaration order of the matching transitions. A missing table row
// yields nil: the branch is a dead end, not an error.
func Successors(c Configuration, table *machine.Table) []Configuration {
	trs, ok := table.Lookup(c.State, c.Head)
	if !ok || len(trs) == 0 {
		return nil
	}
	out := make([]Configuration, 0, len(trs))
	for _, tr := range trs {
		out = append(out, c.Apply(tr))
	}
	return out
}

// splitFirst returns the first symbol of s and the remainder.
// An empty s yields a blank and an empty remainder.
func splitFirst(s string) (machine.Symbol, string) {
	if s == "" {
		return machine.Blank, ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return machine.Symbol(r), s[size:]
}

// splitLast returns the last symbol of s and everything before it.
// An empty s yields a blank and an empty prefix.
func splitLast(s string) (machine.Symbol, string) {
	if s == "" {
		return machine.Blank, ""
	}
	r, size := utf8.DecodeLastRuneInString(s)
	return machine.Symbol(r), s[:len(s)-size]
}
