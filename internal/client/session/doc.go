// Package session owns the client's authentication state.
//
// Manager is the only writer of the in-memory Session. Everyone else reads
// immutable snapshots (Snapshot) or follows changes (Subscribe) and asks the
// manager to transition through Restore, Commit, SetBiometricsEnabled and
// Logout.
//
// The state machine has two states, logged-out and logged-in. Restore and
// Commit move to logged-in; Logout moves back. IsAuthenticated is derived,
// never stored: it is true only when both user and token are present.
//
// All secret-store and preference access runs on one persistence worker in
// FIFO order, so a commit's writes are always applied before the clears of a
// logout issued after it. Commit does not wait for its writes; Restore and
// Logout do. Storage failures are logged and swallowed.
package session
