package machine

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Header line indexes of the delimited text format.
const (
	lineName = iota
	lineStates
	lineInputAlphabet
	lineTapeAlphabet
	lineStart
	lineAccept
	lineReject
	headerLines
)

// maxLineSize bounds a single definition line. Transition lists can get long
// for generated machines, so the bufio default of 64KiB is raised.
const maxLineSize = 1 << 20

// Parse reads a machine in the delimited text format:
//
//	line 0: machine name
//	line 1: states
//	line 2: input alphabet
//	line 3: tape alphabet
//	line 4: start state
//	line 5: accept states
//	line 6: reject state
//	line 7+: curr,read,next  or  curr,read,next,write,L|R
//
// Fields are comma separated and NFC normalized. Empty fields are dropped
// from list lines; empty trailing fields are dropped from transition records.
// Blank lines after the header are ignored.
//
// path is used only to annotate errors and may be empty.
func Parse(r io.Reader, path string) (*Machine, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	m := &Machine{Table: NewTable()}
	index := 0
	for sc.Scan() {
		line := strings.TrimRightFunc(sc.Text(), unicode.IsSpace)
		lineNo := index + 1

		var err error
		switch index {
		case lineName:
			m.Name = firstField(line)
		case lineStates:
			m.States = listFields(line)
		case lineInputAlphabet:
			m.InputAlphabet, err = symbolList(line, path, lineNo)
		case lineTapeAlphabet:
			m.TapeAlphabet, err = symbolList(line, path, lineNo)
		case lineStart:
			m.Start = firstField(line)
		case lineAccept:
			m.Accept = listFields(line)
		case lineReject:
			m.Reject = firstField(line)
		default:
			if line != "" {
				err = parseTransition(m.Table, line, path, lineNo)
			}
		}
		if err != nil {
			return nil, err
		}
		index++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}

	if index < headerLines {
		return nil, &DefinitionError{
			Code:    ErrCodeMissingHeader,
			Message: fmt.Sprintf("expected %d header lines, found %d", headerLines, index),
			Path:    path,
		}
	}

	return m, nil
}

// ParseString is Parse over an in-memory definition.
func ParseString(src string) (*Machine, error) {
	return Parse(strings.NewReader(src), "")
}

// parseTransition adds one transition record to the table.
func parseTransition(t *Table, line, path string, lineNo int) error {
	fields := trimTrailingEmpty(splitFields(line))

	var (
		state, next string
		read, write Symbol
		move        = Right
		err         error
	)

	switch len(fields) {
	case 3, 5:
		state, next = fields[0], fields[2]
		if read, err = parseSymbol(fields[1], path, lineNo); err != nil {
			return err
		}
		write = read
	default:
		return &DefinitionError{
			Code:    ErrCodeMalformedTransition,
			Message: fmt.Sprintf("transition %q has %d fields, want 3 or 5", line, len(fields)),
			Path:    path,
			Line:    lineNo,
		}
	}

	if len(fields) == 5 {
		if write, err = parseSymbol(fields[3], path, lineNo); err != nil {
			return err
		}
		var ok bool
		if move, ok = ParseDirection(fields[4]); !ok {
			return &DefinitionError{
				Code:    ErrCodeInvalidDirection,
				Message: fmt.Sprintf("direction %q must be L or R", fields[4]),
				Path:    path,
				Line:    lineNo,
			}
		}
	}

	t.Add(state, read, Transition{Next: next, Write: write, Move: move})
	return nil
}

// parseSymbol converts a field into a Symbol; the field must hold exactly one character.
func parseSymbol(field, path string, lineNo int) (Symbol, error) {
	r, size := utf8.DecodeRuneInString(field)
	if field == "" || size != len(field) || r == utf8.RuneError {
		return 0, &DefinitionError{
			Code:    ErrCodeInvalidSymbol,
			Message: fmt.Sprintf("symbol %q must be exactly one character", field),
			Path:    path,
			Line:    lineNo,
		}
	}
	return Symbol(r), nil
}

func symbolList(line, path string, lineNo int) ([]Symbol, error) {
	fields := listFields(line)
	out := make([]Symbol, 0, len(fields))
	for _, f := range fields {
		s, err := parseSymbol(f, path, lineNo)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i, f := range fields {
		fields[i] = norm.NFC.String(f)
	}
	return fields
}

// listFields splits a list line and drops every empty field.
func listFields(line string) []string {
	var out []string
	for _, f := range splitFields(line) {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// firstField returns the first field of a single-value line.
func firstField(line string) string {
	return splitFields(line)[0]
}

func trimTrailingEmpty(fields []string) []string {
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

// NormalizeInput returns the NFC form of an input string, so that it splits
// into the same symbols as the definition it is traced against.
func NormalizeInput(s string) string {
	return norm.NFC.String(s)
}
