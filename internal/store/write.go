package store

import (
	"context"
	"fmt"
)

// WriteRun stores a run and its accepting path in one transaction and
// returns the run with its assigned seq.
//
// run.ID must be set by the caller (see RunIDGenerator). Writing the same
// ID twice fails with a constraint error; runs are never overwritten.
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		return Run{}, fmt.Errorf("write run: empty id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	res := run.Result
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, machine_name, machine_hash, input, max_steps, policy, outcome,
		 steps, max_depth, transitions, visited, dead_ends, rejected)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		seq,
		run.MachineName,
		run.MachineHash,
		res.Input,
		res.MaxSteps,
		res.Policy.String(),
		res.Outcome.String(),
		res.Steps,
		res.MaxDepth,
		res.Transitions,
		res.Visited,
		res.DeadEnds,
		res.Rejected,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	for i, c := range res.Path {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_path (run_id, idx, left_tape, state, head, right_tape)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, i, c.Left, c.State, c.Head.String(), c.Right)
		if err != nil {
			return Run{}, fmt.Errorf("write run path[%d]: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}

	run.Seq = seq
	return run, nil
}
