// Package engine implements the breadth-first search over the configuration
// tree of a nondeterministic Turing machine.
//
// ARCHITECTURE:
//
// Single-Owner Search Loop:
// A call to Engine.Trace owns a fresh frontier and node arena for its whole
// duration. Nothing is shared between calls except the immutable Machine,
// so one Engine may serve concurrent Trace calls.
//
// Search Flow:
//  1. The root configuration is built from the input and enqueued at depth 0
//  2. Trace dequeues nodes in FIFO order
//  3. An accepting node ends the search; a rejecting node or a node with no
//     successors ends its branch
//  4. Otherwise every successor is enqueued at depth+1 and one budget unit
//     is consumed for the expansion
//  5. The search stops when the frontier empties (REJECT) or the budget is
//     spent while nodes remain (BUDGET_EXCEEDED)
//
// Nodes live in an arena and point at their parent by index. The accepting
// path is rebuilt once, by walking parents back from the accepting node.
//
// DETERMINISM:
// Siblings are enqueued in the declaration order of their transitions, so
// the same machine and input always produce the same trace. Because the
// search is breadth-first, the reported transition count on ACCEPT is the
// minimum depth of any accepting configuration.
package engine
