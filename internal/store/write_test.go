package store

import (
	"context"
	"testing"
)

func TestWriteRun_Basic(t *testing.T) {
	s := createTestStore(t)

	run, err := s.WriteRun(context.Background(), createTestRun("run-1", "zero then blank", acceptedResult()))
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	if run.Seq != 1 {
		t.Errorf("seq = %d, want 1", run.Seq)
	}

	var machineName, input, outcome, policy string
	var steps, maxDepth, transitions int
	err = s.db.QueryRow(`
		SELECT machine_name, input, outcome, policy, steps, max_depth, transitions
		FROM runs
		WHERE id = ?
	`, "run-1").Scan(&machineName, &input, &outcome, &policy, &steps, &maxDepth, &transitions)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if machineName != "zero then blank" {
		t.Errorf("machine_name = %q, want %q", machineName, "zero then blank")
	}
	if input != "0" {
		t.Errorf("input = %q, want %q", input, "0")
	}
	if outcome != "accept" {
		t.Errorf("outcome = %q, want %q", outcome, "accept")
	}
	if policy != "expansions" {
		t.Errorf("policy = %q, want %q", policy, "expansions")
	}
	if steps != 2 || maxDepth != 2 || transitions != 2 {
		t.Errorf("steps/max_depth/transitions = %d/%d/%d, want 2/2/2", steps, maxDepth, transitions)
	}
}

func TestWriteRun_StoresPathInOrder(t *testing.T) {
	s := createTestStore(t)

	if _, err := s.WriteRun(context.Background(), createTestRun("run-1", "m", acceptedResult())); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	rows, err := s.db.Query(`SELECT state FROM run_path WHERE run_id = ? ORDER BY idx`, "run-1")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	defer rows.Close()

	var states []string
	for rows.Next() {
		var state string
		if err := rows.Scan(&state); err != nil {
			t.Fatalf("scan failed: %v", err)
		}
		states = append(states, state)
	}

	want := []string{"q0", "q1", "qa"}
	if len(states) != len(want) {
		t.Fatalf("path has %d rows, want %d", len(states), len(want))
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("path[%d].state = %q, want %q", i, states[i], want[i])
		}
	}
}

func TestWriteRun_RejectedRunHasNoPath(t *testing.T) {
	s := createTestStore(t)

	if _, err := s.WriteRun(context.Background(), createTestRun("run-1", "m", rejectedResult())); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM run_path`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("run_path rows = %d, want 0", count)
	}
}

func TestWriteRun_AssignsIncreasingSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		run, err := s.WriteRun(ctx, createTestRun(id, "m", rejectedResult()))
		if err != nil {
			t.Fatalf("WriteRun(%s) failed: %v", id, err)
		}
		if run.Seq != int64(i+1) {
			t.Errorf("%s seq = %d, want %d", id, run.Seq, i+1)
		}
	}
}

func TestWriteRun_DuplicateIDFails(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.WriteRun(ctx, createTestRun("run-1", "m", acceptedResult())); err != nil {
		t.Fatalf("first WriteRun() failed: %v", err)
	}
	if _, err := s.WriteRun(ctx, createTestRun("run-1", "m", acceptedResult())); err == nil {
		t.Error("expected error writing duplicate run id")
	}

	// The failed write must not leave extra path rows behind
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM run_path`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 3 {
		t.Errorf("run_path rows = %d, want 3", count)
	}
}

func TestWriteRun_EmptyIDFails(t *testing.T) {
	s := createTestStore(t)

	if _, err := s.WriteRun(context.Background(), createTestRun("", "m", rejectedResult())); err == nil {
		t.Error("expected error for empty run id")
	}
}
