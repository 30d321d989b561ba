// Package store provides SQLite-backed history of trace runs.
//
// Every run records the machine it was traced against (name and content
// hash), the input, the budget and policy, and the full result. Accepting
// runs also keep their configuration path, so a report can be reprinted
// later without tracing again.
//
// # Ordering
//
//   - Runs are ordered by seq, a counter assigned by the store on write
//   - Queries use ORDER BY seq ASC so listings are identical across reads
//   - Path rows are ordered by idx, root first
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait on lock contention
//   - foreign_keys=ON: Path rows are removed with their run
package store
