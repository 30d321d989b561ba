package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tram-tr/turing-machine/internal/logging"
	"github.com/tram-tr/turing-machine/internal/machine"
	"github.com/tram-tr/turing-machine/internal/tape"
	"github.com/tram-tr/turing-machine/internal/testutil"
)

// shortcut has two accepting branches from the root. The deeper one is
// declared first, so only breadth-first order finds the shallow one first.
const shortcut = `shortcut
q0,q1,q2,qa,qr
0
0,_
q0
qa
qr
q0,0,q1,0,R
q0,0,qa,0,R
q1,_,q2,_,R
q2,_,qa,_,R
`

// accent uses a symbol that has a decomposed Unicode form.
const accent = "accent\nq0,qa,qr\n\u00e9\n\u00e9,_\nq0\nqa\nqr\nq0,\u00e9,qa\n"

func mustParse(t *testing.T, src string) *machine.Machine {
	t.Helper()
	m, err := machine.ParseString(src)
	require.NoError(t, err)
	return m
}

func newTestEngine(t *testing.T, src string, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(logging.NewNop())}, opts...)
	return New(mustParse(t, src), opts...)
}

func pathStrings(path []tape.Configuration) []string {
	out := make([]string, len(path))
	for i, c := range path {
		out[i] = c.String()
	}
	return out
}

func TestTrace_AcceptsWithShortestPath(t *testing.T) {
	eng := newTestEngine(t, testutil.ZeroThenBlank)

	res, err := eng.Trace(context.Background(), "0", 10)
	require.NoError(t, err)

	assert.Equal(t, Accept, res.Outcome)
	assert.True(t, res.Accepted())
	assert.Equal(t, 2, res.Transitions)
	assert.Equal(t, 2, res.Steps)
	assert.Equal(t, 2, res.MaxDepth)
	assert.Equal(t, 3, res.Visited)
	assert.Equal(t, []string{",q0,0,", "0,q1,_,", "0_,qa,_,"}, pathStrings(res.Path))
}

func TestTrace_MissingRowRejects(t *testing.T) {
	eng := newTestEngine(t, testutil.ZeroThenBlank)

	res, err := eng.Trace(context.Background(), "1", 10)
	require.NoError(t, err)

	assert.Equal(t, Reject, res.Outcome)
	assert.Equal(t, 0, res.MaxDepth)
	assert.Equal(t, 0, res.Steps)
	assert.Equal(t, 1, res.DeadEnds)
	assert.Empty(t, res.Path)
}

func TestTrace_BudgetExceeded(t *testing.T) {
	eng := newTestEngine(t, testutil.ZeroThenBlank)

	res, err := eng.Trace(context.Background(), "0", 1)
	require.NoError(t, err)

	assert.Equal(t, BudgetExceeded, res.Outcome)
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, 0, res.MaxDepth)
	assert.Equal(t, 1, res.MaxSteps)
	assert.Empty(t, res.Path)
}

func TestTrace_BudgetCheckedBeforeAcceptingNode(t *testing.T) {
	eng := newTestEngine(t, testutil.ZeroThenBlank)

	// Two expansions spend the budget while the accepting node is still queued
	res, err := eng.Trace(context.Background(), "0", 2)
	require.NoError(t, err)

	assert.Equal(t, BudgetExceeded, res.Outcome)
	assert.Equal(t, 2, res.Steps)
	assert.Equal(t, 1, res.MaxDepth)
}

func TestTrace_EmptyInputStartsOnBlank(t *testing.T) {
	var root tape.Configuration
	eng := newTestEngine(t, testutil.ZeroThenBlank, WithObserver(func(v Visit) {
		if v.Seq == 1 {
			root = v.Config
		}
	}))

	res, err := eng.Trace(context.Background(), "", 10)
	require.NoError(t, err)

	assert.Equal(t, machine.Blank, root.Head)
	assert.Equal(t, ",q0,_,", root.String())
	assert.Equal(t, Reject, res.Outcome)
}

func TestTrace_BreadthFirstFindsShallowestAccept(t *testing.T) {
	eng := newTestEngine(t, shortcut)

	res, err := eng.Trace(context.Background(), "0", 100)
	require.NoError(t, err)

	assert.Equal(t, Accept, res.Outcome)
	assert.Equal(t, 1, res.Transitions)
	assert.Equal(t, []string{",q0,0,", "0,qa,_,"}, pathStrings(res.Path))
}

func TestTrace_NondeterministicBranches(t *testing.T) {
	eng := newTestEngine(t, testutil.GuessBit)

	res, err := eng.Trace(context.Background(), "00", 100)
	require.NoError(t, err)

	assert.Equal(t, Accept, res.Outcome)
	assert.Equal(t, 3, res.Transitions)
	assert.Equal(t, 3, res.MaxDepth)
	assert.Equal(t, 4, res.Steps)
	assert.Equal(t, 7, res.Visited)
	assert.Equal(t, 1, res.DeadEnds)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, []string{",q0,0,0", "0,q0,0,", "01,q1,_,", "0,qa,1,_"}, pathStrings(res.Path))
}

func TestTrace_DeadEndPolicyChargesDeadEnds(t *testing.T) {
	eng := newTestEngine(t, testutil.GuessBit, WithBudgetPolicy(CountDeadEnds))

	res, err := eng.Trace(context.Background(), "00", 100)
	require.NoError(t, err)

	assert.Equal(t, Accept, res.Outcome)
	assert.Equal(t, 5, res.Steps)
	assert.Equal(t, CountDeadEnds, res.Policy)
}

func TestTrace_EmptyFrontierWinsOverSpentBudget(t *testing.T) {
	eng := newTestEngine(t, testutil.ZeroThenBlank, WithBudgetPolicy(CountDeadEnds))

	// The root is a dead end that spends the only unit and empties the frontier
	res, err := eng.Trace(context.Background(), "1", 1)
	require.NoError(t, err)

	assert.Equal(t, Reject, res.Outcome)
	assert.Equal(t, 1, res.Steps)
}

func TestTrace_BudgetBoundsSteps(t *testing.T) {
	eng := newTestEngine(t, testutil.Looper)

	for maxSteps := 1; maxSteps <= 20; maxSteps++ {
		res, err := eng.Trace(context.Background(), "0", maxSteps)
		require.NoError(t, err)

		assert.Equal(t, BudgetExceeded, res.Outcome, "max steps %d", maxSteps)
		assert.Equal(t, maxSteps, res.Steps, "max steps %d", maxSteps)
		assert.Equal(t, maxSteps-1, res.MaxDepth, "max steps %d", maxSteps)
	}
}

func TestTrace_RaisingBudgetNeverRevertsVerdict(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		input   string
		verdict Outcome
		reached int // smallest budget that yields the verdict
	}{
		{"zero then blank accepts", testutil.ZeroThenBlank, "0", Accept, 3},
		{"zero then blank rejects", testutil.ZeroThenBlank, "1", Reject, 1},
		{"guess bit accepts", testutil.GuessBit, "000", Accept, 0},
	}

	for _, tt := range tests {
		for _, policy := range []BudgetPolicy{CountExpansions, CountDeadEnds} {
			t.Run(tt.name+"/"+policy.String(), func(t *testing.T) {
				eng := newTestEngine(t, tt.src, WithBudgetPolicy(policy))

				var settled *Result
				for maxSteps := 1; maxSteps <= 40; maxSteps++ {
					res, err := eng.Trace(context.Background(), tt.input, maxSteps)
					require.NoError(t, err)

					if settled == nil {
						if res.Outcome == BudgetExceeded {
							continue
						}
						assert.Equal(t, tt.verdict, res.Outcome, "max steps %d", maxSteps)
						if tt.reached > 0 && policy == CountExpansions {
							assert.Equal(t, tt.reached, maxSteps, "first budget with a verdict")
						}
						settled = &res
						continue
					}

					assert.Equal(t, settled.Outcome, res.Outcome, "max steps %d", maxSteps)
					assert.Equal(t, settled.Transitions, res.Transitions, "max steps %d", maxSteps)
					assert.Equal(t, settled.Steps, res.Steps, "max steps %d", maxSteps)
					assert.Equal(t, pathStrings(settled.Path), pathStrings(res.Path), "max steps %d", maxSteps)
				}
				require.NotNil(t, settled, "no verdict within 40 steps")
			})
		}
	}
}

func TestTrace_DeterministicMachineVisitsOneNodePerDepth(t *testing.T) {
	var visits []Visit
	eng := newTestEngine(t, testutil.ZeroThenBlank, WithObserver(func(v Visit) {
		visits = append(visits, v)
	}))

	_, err := eng.Trace(context.Background(), "0", 10)
	require.NoError(t, err)

	require.Len(t, visits, 3)
	for i, v := range visits {
		assert.Equal(t, i+1, v.Seq)
		assert.Equal(t, i, v.Depth)
	}
	assert.Equal(t, VisitExpanded, visits[0].Kind)
	assert.Equal(t, 1, visits[0].Successors)
	assert.Equal(t, VisitAccept, visits[2].Kind)
}

func TestTrace_ObserverSeesBreadthFirstOrder(t *testing.T) {
	var depths []int
	eng := newTestEngine(t, testutil.GuessBit, WithObserver(func(v Visit) {
		depths = append(depths, v.Depth)
	}))

	_, err := eng.Trace(context.Background(), "000", 100)
	require.NoError(t, err)

	require.NotEmpty(t, depths)
	for i := 1; i < len(depths); i++ {
		assert.GreaterOrEqual(t, depths[i], depths[i-1], "depth decreased at visit %d", i+1)
	}
}

func TestTrace_NormalizesInput(t *testing.T) {
	eng := newTestEngine(t, accent)

	// e followed by a combining acute accent
	res, err := eng.Trace(context.Background(), "e\u0301", 10)
	require.NoError(t, err)

	assert.Equal(t, "\u00e9", res.Input)
	assert.Equal(t, Accept, res.Outcome)
	assert.Equal(t, 1, res.Transitions)
}

func TestTrace_LogsRemainingBudget(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	eng := New(mustParse(t, testutil.ZeroThenBlank), WithLogger(logger))

	_, err := eng.Trace(context.Background(), "0", 10)
	require.NoError(t, err)

	var finished map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		if rec["msg"] == "trace finished" {
			finished = rec
		}
	}
	require.NotNil(t, finished, "no trace finished record")
	assert.Equal(t, float64(2), finished["steps"])
	assert.Equal(t, float64(8), finished["remaining"])
}

func TestTrace_InvalidBudget(t *testing.T) {
	eng := newTestEngine(t, testutil.ZeroThenBlank)

	for _, maxSteps := range []int{0, -1} {
		_, err := eng.Trace(context.Background(), "0", maxSteps)
		require.Error(t, err)
		assert.True(t, IsInvalidBudget(err), "max steps %d", maxSteps)
	}
}

func TestTrace_NoMachine(t *testing.T) {
	_, err := New(nil).Trace(context.Background(), "0", 10)

	var se *SearchError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeNoMachine, se.Code)
	assert.False(t, IsInvalidBudget(err))
}

func TestTrace_CancelledContext(t *testing.T) {
	eng := newTestEngine(t, testutil.Looper)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Trace(ctx, "0", 1000)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrace_ConcurrentSearchesShareMachine(t *testing.T) {
	eng := newTestEngine(t, testutil.GuessBit)
	want, err := eng.Trace(context.Background(), "0000", 500)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = eng.Trace(context.Background(), "0000", 500)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestOutcome_TextRoundTrip(t *testing.T) {
	for _, o := range []Outcome{Accept, Reject, BudgetExceeded} {
		text, err := o.MarshalText()
		require.NoError(t, err)

		var got Outcome
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, o, got)
	}

	_, err := ParseOutcome("maybe")
	assert.Error(t, err)
}
