// Package cli provides the interactive ExpenseKeeper command-line client.
//
// It wires configuration, the local SQLite database, the secure store, the
// session manager, the biometric gate and the API services, and runs a REPL
// on top of them. On start the previous session is restored silently; if it
// cannot be restored the user starts logged out.
//
// Key features:
//   - Register / Login / Logout
//   - Biometric login shortcut (enable, disable, bio-login)
//   - List / Add / Edit / Delete expenses
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
