package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tram-tr/turing-machine/internal/machine"
	"github.com/tram-tr/turing-machine/internal/tape"
)

// DefaultMaxSteps is the step budget used when a caller does not choose one.
const DefaultMaxSteps = 1000

// Outcome is the verdict of a search. Exactly one is reported per Trace.
type Outcome int

const (
	// Accept means an accepting configuration was reached.
	Accept Outcome = iota + 1
	// Reject means the frontier emptied without reaching an accept state.
	Reject
	// BudgetExceeded means the budget ran out while nodes remained.
	// It is inconclusive: neither an acceptance nor a rejection.
	BudgetExceeded
)

// String returns the outcome name used in JSON output and the store.
func (o Outcome) String() string {
	switch o {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	case BudgetExceeded:
		return "budget_exceeded"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(b []byte) error {
	v, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ParseOutcome converts an outcome name back into an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "accept":
		return Accept, nil
	case "reject":
		return Reject, nil
	case "budget_exceeded":
		return BudgetExceeded, nil
	default:
		return 0, fmt.Errorf("unknown outcome %q", s)
	}
}

// Result is everything a search reports.
type Result struct {
	Input    string       `json:"input"`
	Outcome  Outcome      `json:"outcome"`
	MaxSteps int          `json:"max_steps"`
	Policy   BudgetPolicy `json:"policy"`

	// Steps is the number of budget units consumed.
	Steps int `json:"steps"`

	// MaxDepth is the deepest level of any dequeued node.
	MaxDepth int `json:"max_depth"`

	// Transitions is the depth of the accepting node (ACCEPT only).
	Transitions int `json:"transitions"`

	// Path holds the configurations from the root to the accepting node
	// (ACCEPT only).
	Path []tape.Configuration `json:"path,omitempty"`

	// Visited counts dequeued nodes; DeadEnds and Rejected count the
	// branches that ended without an expansion.
	Visited  int `json:"visited"`
	DeadEnds int `json:"dead_ends"`
	Rejected int `json:"rejected"`
}

// Accepted reports whether the outcome is Accept.
func (r Result) Accepted() bool {
	return r.Outcome == Accept
}

// VisitKind classifies a dequeued node.
type VisitKind int

const (
	// VisitAccept is a node in an accept state.
	VisitAccept VisitKind = iota + 1
	// VisitReject is a node in the reject state.
	VisitReject
	// VisitDeadEnd is a node with no transition for its (state, head).
	VisitDeadEnd
	// VisitExpanded is a node whose successors were enqueued.
	VisitExpanded
)

// String returns a short name for logs.
func (k VisitKind) String() string {
	switch k {
	case VisitAccept:
		return "accept"
	case VisitReject:
		return "reject"
	case VisitDeadEnd:
		return "dead_end"
	case VisitExpanded:
		return "expanded"
	default:
		return fmt.Sprintf("VisitKind(%d)", int(k))
	}
}

// Visit describes one dequeued node.
type Visit struct {
	Seq        int // 1-based dequeue order
	Depth      int
	Config     tape.Configuration
	Kind       VisitKind
	Successors int
}

// Observer is called once per dequeued node, in dequeue order.
type Observer func(Visit)

// Engine runs searches against one machine.
//
// An Engine holds no per-search state; each Trace call builds its own
// frontier, arena and budget. Trace is safe for concurrent use as long as
// the Machine is not modified.
type Engine struct {
	machine  *machine.Machine
	policy   BudgetPolicy
	observer Observer
	logger   *slog.Logger
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithBudgetPolicy selects which nodes consume budget.
//
// Default: CountExpansions
func WithBudgetPolicy(p BudgetPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithObserver registers a callback invoked for every dequeued node.
// The observer runs on the Trace goroutine and must not block.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine for m.
func New(m *machine.Machine, opts ...Option) *Engine {
	e := &Engine{
		machine: m,
		policy:  CountExpansions,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Machine returns the machine the engine searches.
func (e *Engine) Machine() *machine.Machine {
	return e.machine
}

// Policy returns the configured budget policy.
func (e *Engine) Policy() BudgetPolicy {
	return e.policy
}

// Trace explores the configuration tree of input breadth-first, consuming
// at most maxSteps budget units, and reports the outcome.
//
// The returned error is non-nil only when the search cannot start (budget
// below 1, no machine) or ctx is cancelled mid-search. Dead ends, the
// reject state and budget exhaustion are reported through Result.Outcome.
func (e *Engine) Trace(ctx context.Context, input string, maxSteps int) (Result, error) {
	if e.machine == nil {
		return Result{}, &SearchError{Code: ErrCodeNoMachine, Message: "engine has no machine"}
	}
	if maxSteps < 1 {
		return Result{}, NewInvalidBudgetError(maxSteps)
	}

	input = machine.NormalizeInput(input)
	e.logger.Debug("trace starting",
		"machine", e.machine.Name,
		"input", input,
		"max_steps", maxSteps,
		"policy", e.policy.String(),
	)

	s := &search{
		machine:  e.machine,
		policy:   e.policy,
		observer: e.observer,
		budget:   NewBudget(maxSteps),
		queue:    newFrontier(),
		nodes:    &arena{},
	}
	res, err := s.run(ctx, tape.Initial(e.machine.Start, input))
	if err != nil {
		e.logger.Debug("trace aborted", "input", input, "err", err)
		return Result{}, err
	}
	res.Input = input

	e.logger.Debug("trace finished",
		"input", input,
		"outcome", res.Outcome.String(),
		"steps", res.Steps,
		"remaining", s.budget.Remaining(),
		"max_depth", res.MaxDepth,
		"visited", res.Visited,
		"nodes", s.nodes.Len(),
	)

	return res, nil
}

// search holds the mutable state of one Trace call.
type search struct {
	machine  *machine.Machine
	policy   BudgetPolicy
	observer Observer
	budget   *Budget
	queue    *frontier
	nodes    *arena
}

// run is the breadth-first loop.
func (s *search) run(ctx context.Context, root tape.Configuration) (Result, error) {
	res := Result{
		MaxSteps: s.budget.MaxSteps(),
		Policy:   s.policy,
	}

	s.queue.Push(s.nodes.add(node{config: root, depth: 0, parent: -1}))

	for s.queue.Len() > 0 {
		if s.budget.Exhausted() {
			res.Outcome = BudgetExceeded
			break
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		idx, _ := s.queue.Pop()
		n := s.nodes.get(idx)

		res.Visited++
		res.MaxDepth = max(res.MaxDepth, n.depth)

		kind, successors := s.visit(idx, n)
		switch kind {
		case VisitAccept:
			res.Outcome = Accept
			res.Transitions = n.depth
			res.Path = s.nodes.path(idx)
		case VisitReject:
			res.Rejected++
		case VisitDeadEnd:
			res.DeadEnds++
		}
		if s.policy.charges(kind) {
			s.budget.Consume()
		}

		if s.observer != nil {
			s.observer(Visit{
				Seq:        res.Visited,
				Depth:      n.depth,
				Config:     n.config,
				Kind:       kind,
				Successors: successors,
			})
		}

		if kind == VisitAccept {
			break
		}
	}

	if res.Outcome == 0 {
		res.Outcome = Reject
	}
	res.Steps = s.budget.Used()

	return res, nil
}

// visit classifies n and, when it is expandable, enqueues its successors.
// It returns the kind and the number of successors enqueued.
func (s *search) visit(idx int, n node) (VisitKind, int) {
	state := n.config.State
	if s.machine.IsAccept(state) {
		return VisitAccept, 0
	}
	if s.machine.IsReject(state) {
		return VisitReject, 0
	}

	next := tape.Successors(n.config, s.machine.Table)
	if len(next) == 0 {
		return VisitDeadEnd, 0
	}

	for _, c := range next {
		s.queue.Push(s.nodes.add(node{config: c, depth: n.depth + 1, parent: idx}))
	}
	return VisitExpanded, len(next)
}
