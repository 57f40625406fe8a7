// Package mapstore defines the key-value map abstraction every storage
// component in this module is built from, plus the atomic batch protocol
// that lets several maps commit or roll back together.
//
// A Store presents three read views over the same keyspace:
//
//   - confirmed: durable state, as of the last successful FinishAtomic.
//   - speculative: confirmed state overlaid with whatever is currently
//     staged in the active atomic batch, if any.
//   - pending: only the staged writes themselves, without the confirmed
//     backing — used by callers that need to know exactly what a batch
//     is about to commit.
//
// Composing several Stores into one unit of work is done with Scope and
// Finalize rather than by hand-rolling start/commit/abort calls at every
// call site; see scope.go.
package mapstore
