package machine

import (
	"fmt"
	"slices"
	"unicode/utf8"
)

// Symbol is a single tape character.
type Symbol rune

// Blank is the reserved symbol that fills the tape outside the written region.
const Blank Symbol = '_'

// String returns the symbol as a one-character string.
func (s Symbol) String() string {
	return string(rune(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Symbol) UnmarshalText(b []byte) error {
	r, size := utf8.DecodeRune(b)
	if len(b) == 0 || size != len(b) || r == utf8.RuneError {
		return fmt.Errorf("symbol %q must be exactly one character", b)
	}
	*s = Symbol(r)
	return nil
}

// Direction is the head movement applied after a write.
type Direction int

const (
	// Right moves the head one cell to the right.
	Right Direction = iota + 1
	// Left moves the head one cell to the left.
	Left
)

// String returns "R" or "L", the spelling used in definition files.
func (d Direction) String() string {
	switch d {
	case Right:
		return "R"
	case Left:
		return "L"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection converts "R" or "L" into a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "R":
		return Right, true
	case "L":
		return Left, true
	default:
		return 0, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Transition is one outcome of reading a symbol in a state.
// All fields are always set; short-form records are normalized by the loaders.
type Transition struct {
	Next  string    `json:"next"`
	Write Symbol    `json:"write"`
	Move  Direction `json:"move"`
}

// Machine is a loaded NTM definition.
//
// INVARIANTS (not enforced, see package doc):
//   - Start, Reject and every element of Accept appear in States
type Machine struct {
	Name          string
	States        []string
	InputAlphabet []Symbol
	TapeAlphabet  []Symbol
	Start         string
	Accept        []string
	Reject        string
	Table         *Table
}

// IsAccept reports whether state is one of the accept states.
func (m *Machine) IsAccept(state string) bool {
	return slices.Contains(m.Accept, state)
}

// IsReject reports whether state is the reject state.
func (m *Machine) IsReject(state string) bool {
	return state == m.Reject
}

// HasState reports whether state was declared on the states line.
func (m *Machine) HasState(state string) bool {
	return slices.Contains(m.States, state)
}
