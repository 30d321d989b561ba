package machine

// Summary is an informational digest of a machine definition.
// It does not judge the definition; it only counts what is there.
type Summary struct {
	Name        string   `json:"name"`
	States      int      `json:"states"`
	Rows        int      `json:"rows"`
	Transitions int      `json:"transitions"`
	Accept      []string `json:"accept"`
	Reject      string   `json:"reject"`
	Start       string   `json:"start"`
	Hash        string   `json:"hash,omitempty"`

	// Branching lists every (state, symbol) row with more than one outcome,
	// in declaration order.
	Branching []Branch `json:"branching,omitempty"`

	// Undeclared lists states reached by a transition but missing from the
	// states line, in order of first reference. The engine treats them as
	// dead ends unless they are accept or reject states.
	Undeclared []string `json:"undeclared,omitempty"`
}

// Branch is a nondeterministic table row.
type Branch struct {
	State  string `json:"state"`
	Read   string `json:"read"`
	FanOut int    `json:"fan_out"`
}

// Deterministic reports whether no row has more than one outcome.
func (s Summary) Deterministic() bool {
	return len(s.Branching) == 0
}

// Describe summarizes m.
func Describe(m *Machine) Summary {
	s := Summary{
		Name:        m.Name,
		States:      len(m.States),
		Transitions: m.Table.Len(),
		Accept:      m.Accept,
		Reject:      m.Reject,
		Start:       m.Start,
	}
	if h, err := Hash(m); err == nil {
		s.Hash = h
	}

	seen := make(map[string]bool)
	note := func(state string) {
		if state == "" || seen[state] || m.HasState(state) {
			return
		}
		seen[state] = true
		s.Undeclared = append(s.Undeclared, state)
	}

	keys := m.Table.Keys()
	s.Rows = len(keys)
	for _, k := range keys {
		trs, _ := m.Table.Lookup(k.State, k.Read)
		if len(trs) > 1 {
			s.Branching = append(s.Branching, Branch{State: k.State, Read: k.Read.String(), FanOut: len(trs)})
		}
		note(k.State)
		for _, tr := range trs {
			note(tr.Next)
		}
	}

	return s
}
