package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tram-tr/turing-machine/internal/engine"
	"github.com/tram-tr/turing-machine/internal/machine"
	"github.com/tram-tr/turing-machine/internal/tape"
)

const runColumns = `id, seq, machine_name, machine_hash, input, max_steps, policy, outcome,
	steps, max_depth, transitions, visited, dead_ends, rejected`

// ReadRun retrieves a run and its accepting path.
// Returns ErrRunNotFound if no run has the given ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, err
	}

	path, err := s.readPath(ctx, id)
	if err != nil {
		return Run{}, err
	}
	run.Result.Path = path

	return run, nil
}

// RunFilter narrows ListRuns. Empty fields match every run.
type RunFilter struct {
	// Machine matches the name the run was traced under.
	Machine string

	// MachineHash matches the definition content, so runs of a renamed
	// definition are found together.
	MachineHash string
}

// ListRuns returns the runs matching filter ordered by seq. Paths are not
// loaded; use ReadRun.
//
// Returns an empty slice (not nil) if there are no runs.
func (s *Store) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var (
		where []string
		args  []any
	)
	if filter.Machine != "" {
		where = append(where, `machine_name = ?`)
		args = append(args, filter.Machine)
	}
	if filter.MachineHash != "" {
		where = append(where, `machine_hash = ?`)
		args = append(args, filter.MachineHash)
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// readPath returns the stored path of a run, root first.
func (s *Store) readPath(ctx context.Context, runID string) ([]tape.Configuration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT left_tape, state, head, right_tape
		FROM run_path
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run path: %w", err)
	}
	defer rows.Close()

	var path []tape.Configuration
	for rows.Next() {
		var c tape.Configuration
		var head string
		if err := rows.Scan(&c.Left, &c.State, &head, &c.Right); err != nil {
			return nil, fmt.Errorf("scan run path: %w", err)
		}
		r, size := utf8.DecodeRuneInString(head)
		if size != len(head) || (r == utf8.RuneError && size <= 1) {
			return nil, fmt.Errorf("scan run path: invalid head symbol %q at step %d", head, len(path))
		}
		c.Head = machine.Symbol(r)
		path = append(path, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run path: %w", err)
	}

	return path, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run             Run
		policy, outcome string
	)
	res := &run.Result
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.MachineName,
		&run.MachineHash,
		&res.Input,
		&res.MaxSteps,
		&policy,
		&outcome,
		&res.Steps,
		&res.MaxDepth,
		&res.Transitions,
		&res.Visited,
		&res.DeadEnds,
		&res.Rejected,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	if res.Policy, err = engine.ParseBudgetPolicy(policy); err != nil {
		return Run{}, fmt.Errorf("scan run %s: %w", run.ID, err)
	}
	if res.Outcome, err = engine.ParseOutcome(outcome); err != nil {
		return Run{}, fmt.Errorf("scan run %s: %w", run.ID, err)
	}

	return run, nil
}
