package machine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
)

// DomainMachine prefixes machine hashes. The version suffix allows the
// canonical form to change without colliding with older hashes.
const DomainMachine = "ntm/machine/v2"

// canonicalMachine is the hashed form of a Machine.
// The name is left out so a renamed definition keeps its hash. Sets are
// sorted; the table keeps declaration order because it decides branch
// order during the search.
type canonicalMachine struct {
	States        []string          `json:"states"`
	InputAlphabet []string          `json:"input_alphabet"`
	TapeAlphabet  []string          `json:"tape_alphabet"`
	Start         string            `json:"start"`
	Accept        []string          `json:"accept"`
	Reject        string            `json:"reject"`
	Table         []canonicalRecord `json:"table"`
}

type canonicalRecord struct {
	State string `json:"state"`
	Read  string `json:"read"`
	Next  string `json:"next"`
	Write string `json:"write"`
	Move  string `json:"move"`
}

// Hash returns a content hash of m, stable across loads of the same
// definition regardless of its source format or name.
func Hash(m *Machine) (string, error) {
	c := canonicalMachine{
		States:        sortedCopy(m.States),
		InputAlphabet: symbolStrings(m.InputAlphabet),
		TapeAlphabet:  symbolStrings(m.TapeAlphabet),
		Start:         m.Start,
		Accept:        sortedCopy(m.Accept),
		Reject:        m.Reject,
		Table:         []canonicalRecord{},
	}
	for _, k := range m.Table.Keys() {
		trs, _ := m.Table.Lookup(k.State, k.Read)
		for _, tr := range trs {
			c.Table = append(c.Table, canonicalRecord{
				State: k.State,
				Read:  k.Read.String(),
				Next:  tr.Next,
				Write: tr.Write.String(),
				Move:  tr.Move.String(),
			})
		}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("hash machine: %w", err)
	}
	return hashWithDomain(DomainMachine, data), nil
}

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func sortedCopy(in []string) []string {
	out := slices.Clone(in)
	if out == nil {
		out = []string{}
	}
	slices.Sort(out)
	return out
}

func symbolStrings(in []Symbol) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, s.String())
	}
	slices.Sort(out)
	return out
}
