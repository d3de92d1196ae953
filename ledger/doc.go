// Package ledger holds the main chain and one branch chain per department.
//
// Every chain is append-only and hash linked: block i stores the hash of block i-1, and each
// hash is recomputable from the block's own fields. Appends to one chain are serialized by the
// chain's mutex; a commit touching several chains locks them in a fixed global order (the main
// chain first, then branches by address), so commits on disjoint branches run in parallel and
// overlapping commits never deadlock.
//
// A chain whose stored blocks fail verification is halted: it refuses appends until an
// operator resumes it after it verifies again.
package ledger
