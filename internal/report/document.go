package report

import (
	"github.com/tram-tr/turing-machine/internal/engine"
)

// Document is the JSON form of a report.
type Document struct {
	Machine     string   `json:"machine"`
	Input       string   `json:"input"`
	Outcome     string   `json:"outcome"`
	Verdict     string   `json:"verdict"`
	MaxSteps    int      `json:"max_steps"`
	Policy      string   `json:"policy"`
	Steps       int      `json:"steps"`
	MaxDepth    int      `json:"max_depth"`
	Transitions int      `json:"transitions"`
	Path        []string `json:"path,omitempty"`
	Visited     int      `json:"visited"`
	DeadEnds    int      `json:"dead_ends"`
	Rejected    int      `json:"rejected"`
	RunID       string   `json:"run_id,omitempty"`
}

// NewDocument builds the JSON form of res for machineName.
func NewDocument(machineName string, res engine.Result) Document {
	doc := Document{
		Machine:  machineName,
		Input:    res.Input,
		Outcome:  res.Outcome.String(),
		Verdict:  Verdict(res),
		MaxSteps: res.MaxSteps,
		Policy:   res.Policy.String(),
		Steps:    res.Steps,
		MaxDepth: res.MaxDepth,
		Visited:  res.Visited,
		DeadEnds: res.DeadEnds,
		Rejected: res.Rejected,
	}
	if res.Outcome == engine.Accept {
		doc.Transitions = res.Transitions
		doc.Path = make([]string, len(res.Path))
		for i, c := range res.Path {
			doc.Path[i] = c.String()
		}
	}
	return doc
}
