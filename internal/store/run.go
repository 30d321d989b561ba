package store

import (
	"errors"

	"github.com/tram-tr/turing-machine/internal/engine"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("store: run not found")

// Run is one persisted trace.
type Run struct {
	ID          string        `json:"id"`
	Seq         int64         `json:"seq"`
	MachineName string        `json:"machine_name"`
	MachineHash string        `json:"machine_hash"`
	Result      engine.Result `json:"result"`
}
