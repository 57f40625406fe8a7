// Package ledgertypes holds the opaque, byte-serializable value types that
// flow through the storage core: program and transaction identifiers,
// deployments, executions, fees and the transaction union itself.
//
// None of the cryptographic machinery behind these types lives here —
// verifying keys, certificates and inclusion proofs are carried as opaque
// blobs. The only behavior this package owns is canonical byte encoding
// (so every mapstore backend persists the same bytes) and transaction ID
// computation (a deterministic hash over that encoding).
package ledgertypes
