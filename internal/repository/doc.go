// Package repository defines the data access interfaces for Planet App.
//
// This package provides the storage abstraction for users, groups, and the
// membership join relation. The actual implementation is in the sqlite
// subpackage.
//
// # Transactions
//
// All access goes through Store.InTx: the callback receives a Tx bound to a
// single database transaction, which is committed when the callback returns
// nil and rolled back otherwise. Every request to the HTTP API runs inside
// exactly one such transaction, so a multi-step membership reconciliation is
// never partially visible.
//
// # Errors
//
// The implementation reports two conditions distinctly rather than leaking
// driver errors: ErrAlreadyExists for uniqueness violations on create or
// rename, and ErrNotFound when a required update or delete matched no row.
// Both are matched with errors.Is.
package repository
