// Package domain defines the core entity types for Planet App.
//
// # Entities
//
// User is the logical user object exposed on the API. It carries more than
// the users table row: the derived list of group names the user belongs to.
//
// Group is an entity keyed by its unique name. Group membership lives in the
// membership join relation, not on either entity.
//
// # Identity
//
// Users are identified externally by userid and groups by name. Both are
// plain strings chosen by the caller; the integer pkey columns in the store
// never leave the repository layer.
package domain
