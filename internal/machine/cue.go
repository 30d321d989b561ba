package machine

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"golang.org/x/text/unicode/norm"
)

// ParseCUE compiles a machine described as a CUE value:
//
//	name:          "zero then blank"
//	states:        ["q0", "q1", "qa", "qr"]
//	inputAlphabet: ["0", "1"]
//	tapeAlphabet:  ["0", "1", "_"]
//	start:         "q0"
//	accept:        ["qa"]
//	reject:        "qr"
//	transitions: [
//		{from: "q0", read: "0", to: "q1"},
//		{from: "q1", read: "_", to: "qa", write: "_", move: "R"},
//	]
//
// A transition sets both write and move, or neither (short form).
// filename is used for error positions.
func ParseCUE(src []byte, filename string) (*Machine, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err, filename)
	}

	m := &Machine{Table: NewTable()}
	var err error

	if m.Name, err = requiredString(v, "name", filename, ErrCodeMissingHeader); err != nil {
		return nil, err
	}
	if m.Start, err = requiredString(v, "start", filename, ErrCodeMissingHeader); err != nil {
		return nil, err
	}
	if m.Reject, err = requiredString(v, "reject", filename, ErrCodeMissingHeader); err != nil {
		return nil, err
	}
	if m.States, err = stringList(v, "states", filename); err != nil {
		return nil, err
	}
	if m.Accept, err = stringList(v, "accept", filename); err != nil {
		return nil, err
	}
	if m.InputAlphabet, err = cueSymbolList(v, "inputAlphabet", filename); err != nil {
		return nil, err
	}
	if m.TapeAlphabet, err = cueSymbolList(v, "tapeAlphabet", filename); err != nil {
		return nil, err
	}

	trVal := v.LookupPath(cue.ParsePath("transitions"))
	if !trVal.Exists() {
		return m, nil // a machine with no transitions rejects everything
	}
	iter, err := trVal.List()
	if err != nil {
		return nil, formatCUEError(err, filename)
	}
	for iter.Next() {
		if err := compileTransition(m.Table, iter.Value(), filename); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// compileTransition adds one CUE transition struct to the table.
func compileTransition(t *Table, v cue.Value, filename string) error {
	line := v.Pos().Line()

	state, err := requiredString(v, "from", filename, ErrCodeMalformedTransition)
	if err != nil {
		return err
	}
	next, err := requiredString(v, "to", filename, ErrCodeMalformedTransition)
	if err != nil {
		return err
	}
	readStr, err := requiredString(v, "read", filename, ErrCodeMalformedTransition)
	if err != nil {
		return err
	}
	read, err := parseSymbol(readStr, filename, line)
	if err != nil {
		return err
	}

	writeVal := v.LookupPath(cue.ParsePath("write"))
	moveVal := v.LookupPath(cue.ParsePath("move"))
	if writeVal.Exists() != moveVal.Exists() {
		return &DefinitionError{
			Code:    ErrCodeMalformedTransition,
			Message: "transition must set both write and move, or neither",
			Path:    filename,
			Line:    line,
		}
	}

	tr := Transition{Next: next, Write: read, Move: Right}
	if writeVal.Exists() {
		writeStr, err := writeVal.String()
		if err != nil {
			return formatCUEError(err, filename)
		}
		if tr.Write, err = parseSymbol(norm.NFC.String(writeStr), filename, line); err != nil {
			return err
		}
		moveStr, err := moveVal.String()
		if err != nil {
			return formatCUEError(err, filename)
		}
		var ok bool
		if tr.Move, ok = ParseDirection(moveStr); !ok {
			return &DefinitionError{
				Code:    ErrCodeInvalidDirection,
				Message: fmt.Sprintf("direction %q must be L or R", moveStr),
				Path:    filename,
				Line:    line,
			}
		}
	}

	t.Add(state, read, tr)
	return nil
}

// requiredString reads a string field of v, reporting its absence with code.
func requiredString(v cue.Value, field, filename string, code DefinitionErrorCode) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &DefinitionError{
			Code:    code,
			Message: fmt.Sprintf("%s is required", field),
			Path:    filename,
			Line:    v.Pos().Line(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err, filename)
	}
	return norm.NFC.String(s), nil
}

// stringList reads an optional list of strings; a missing field yields nil.
func stringList(v cue.Value, field, filename string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err, filename)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err, filename)
		}
		if s = norm.NFC.String(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func cueSymbolList(v cue.Value, field, filename string) ([]Symbol, error) {
	strs, err := stringList(v, field, filename)
	if err != nil {
		return nil, err
	}
	line := v.LookupPath(cue.ParsePath(field)).Pos().Line()
	out := make([]Symbol, 0, len(strs))
	for _, s := range strs {
		sym, err := parseSymbol(s, filename, line)
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, nil
}

// formatCUEError converts the first CUE error into a positioned DefinitionError.
func formatCUEError(err error, filename string) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &DefinitionError{Code: ErrCodeCUE, Message: err.Error(), Path: filename}
	}

	first := errs[0]
	de := &DefinitionError{Code: ErrCodeCUE, Message: first.Error(), Path: filename}
	if positions := errors.Positions(first); len(positions) > 0 && positions[0].IsValid() {
		de.Line = positions[0].Line()
	}
	return de
}
