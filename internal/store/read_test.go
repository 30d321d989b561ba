package store

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tram-tr/turing-machine/internal/engine"
	"github.com/tram-tr/turing-machine/internal/machine"
	"github.com/tram-tr/turing-machine/internal/testutil"
)

func TestReadRun_RoundTripsResult(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	want := acceptedResult()
	written, err := s.WriteRun(ctx, createTestRun("run-1", "zero then blank", want))
	require.NoError(t, err)

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, written.Seq, got.Seq)
	assert.Equal(t, "zero then blank", got.MachineName)
	assert.Equal(t, "test-hash", got.MachineHash)
	assert.Equal(t, want, got.Result)
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ids := testutil.NewFixedGenerator("run-c", "run-a", "run-b")

	for i := 0; i < 3; i++ {
		_, err := s.WriteRun(ctx, createTestRun(ids.Generate(), "m", rejectedResult()))
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 3)

	assert.Equal(t, "run-c", runs[0].ID)
	assert.Equal(t, "run-a", runs[1].ID)
	assert.Equal(t, "run-b", runs[2].ID)
	for i, r := range runs {
		assert.Equal(t, int64(i+1), r.Seq)
		assert.Equal(t, engine.Reject, r.Result.Outcome)
	}
}

func TestListRuns_FiltersByMachine(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, createTestRun("run-1", "alpha", rejectedResult()))
	require.NoError(t, err)
	_, err = s.WriteRun(ctx, createTestRun("run-2", "beta", acceptedResult()))
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx, RunFilter{Machine: "beta"})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Nil(t, runs[0].Result.Path, "ListRuns does not load paths")
}

func TestListRuns_FiltersByHash(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	renamed := createTestRun("run-2", "zero renamed", acceptedResult())
	other := createTestRun("run-3", "zero then blank", rejectedResult())
	other.MachineHash = "other-hash"
	for _, run := range []Run{createTestRun("run-1", "zero then blank", acceptedResult()), renamed, other} {
		_, err := s.WriteRun(ctx, run)
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, RunFilter{MachineHash: "test-hash"})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "run-2", runs[1].ID)

	runs, err = s.ListRuns(ctx, RunFilter{Machine: "zero then blank", MachineHash: "test-hash"})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
}

func TestListRuns_HashQueryUsesIndex(t *testing.T) {
	s := createTestStore(t)

	rows, err := s.db.Query(`EXPLAIN QUERY PLAN SELECT id FROM runs WHERE machine_hash = ? ORDER BY seq ASC`, "h")
	require.NoError(t, err)
	defer rows.Close()

	var plan []string
	for rows.Next() {
		var id, parent, notused int
		var detail string
		require.NoError(t, rows.Scan(&id, &parent, &notused, &detail))
		plan = append(plan, detail)
	}
	require.NoError(t, rows.Err())
	assert.Contains(t, strings.Join(plan, "\n"), "idx_runs_machine_hash")
}

func TestReadRun_RejectsCorruptHead(t *testing.T) {
	tests := []struct {
		name string
		head string
	}{
		{"empty", ""},
		{"two symbols", "01"},
		{"invalid utf8", "\xff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestStore(t)
			ctx := context.Background()

			_, err := s.WriteRun(ctx, createTestRun("run-1", "m", acceptedResult()))
			require.NoError(t, err)
			_, err = s.db.Exec(`UPDATE run_path SET head = ? WHERE run_id = ? AND idx = 1`, tt.head, "run-1")
			require.NoError(t, err)

			_, err = s.ReadRun(ctx, "run-1")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid head symbol")
		})
	}
}

func TestReadRun_KeepsReplacementCharacterSymbol(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	res := acceptedResult()
	res.Path[0].Head = machine.Symbol(utf8.RuneError)
	_, err := s.WriteRun(ctx, createTestRun("run-1", "m", res))
	require.NoError(t, err)

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, machine.Symbol(utf8.RuneError), got.Result.Path[0].Head)
}

func TestListRuns_EmptyIsNotNil(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestUUIDv7Generator_UniqueAndSortable(t *testing.T) {
	gen := UUIDv7Generator{}

	a := gen.Generate()
	b := gen.Generate()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Equal(t, byte('7'), a[14], "version nibble")
}
