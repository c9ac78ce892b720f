// Package client contains the client-side building blocks that talk to the
// outside world.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     Authentication API (Login, Register) and the Expense API
//     (List/Create/Update/DeleteExpense).
//  2. A JSON-over-HTTP implementation (see HTTPClient) that attaches the
//     bearer token, validates login responses and maps failures onto the
//     error taxonomy below.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Callers match with errors.Is: ErrCredentialsRejected, ErrServerUnreachable,
// ErrUnauthorized, ErrRequestFailed. Non-2xx answers are returned as *APIError
// carrying the server's message for display.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context; cancellation surfaces as ErrServerUnreachable wrapping the
// context error.
package client
