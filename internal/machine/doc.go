// Package machine holds the definition of a nondeterministic Turing machine
// and the loaders that build it from a definition file.
//
// This package is the foundational layer: tape, engine, report, store and
// cli all import machine; machine imports nothing internal.
//
// Two source formats are supported:
//   - Delimited text: seven header lines followed by one transition per line.
//   - CUE: the same fields expressed as a CUE value (see ParseCUE).
//
// Both loaders produce the same Machine. A transition written in its short
// form (no write symbol, no direction) is normalized at load time to
// "write the symbol read, move right", so the rest of the system only ever
// sees complete Transition records.
//
// Definitions are not validated beyond what is needed to build the table.
// A state that appears in a transition but not in the states line is
// accepted as-is; the engine treats it as a dead end.
package machine
