package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ZeroThenBlank accepts exactly the input "0": it reads the 0 with a short
// transition, then accepts on the blank that follows.
const ZeroThenBlank = `zero then blank
q0,q1,qa,qr
0,1
0,1,_
q0
qa
qr
q0,0,q1
q1,_,qa,_,R
`

// GuessBit is nondeterministic: on each 0 it either keeps the 0 and moves on
// or guesses that this is the last 0, writes 1 and checks for the blank.
// A wrong guess reaches qr; the branch that keeps every 0 dead-ends on the
// blank.
const GuessBit = `guess bit
q0,q1,qa,qr
0,1
0,1,_
q0
qa
qr
q0,0,q0,0,R
q0,0,q1,1,R
q1,_,qa,_,L
q1,0,qr,0,R
`

// Looper moves right forever over blanks; every search on it ends with the
// budget.
const Looper = `looper
q0,qa,qr
0
0,_
q0
qa
qr
q0,_,q0,_,R
q0,0,q0,0,R
`

// ZeroThenBlankCUE is ZeroThenBlank in the CUE format.
const ZeroThenBlankCUE = `name:          "zero then blank"
states:        ["q0", "q1", "qa", "qr"]
inputAlphabet: ["0", "1"]
tapeAlphabet:  ["0", "1", "_"]
start:         "q0"
accept:        ["qa"]
reject:        "qr"
transitions: [
	{from: "q0", read: "0", to: "q1"},
	{from: "q1", read: "_", to: "qa", write: "_", move: "R"},
]
`

// WriteFile writes content to name under dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
