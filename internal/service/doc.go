// Package service implements the business logic for Planet App.
//
// # Services
//
// UserService and GroupService coordinate between the HTTP handlers and the
// repository layer. Every operation runs inside a single store transaction,
// so multi-step mutations commit or roll back as a unit.
//
// # Membership reconciliation
//
// Reconciler keeps the membership relation consistent with a declared
// desired state. It is deliberately asymmetric:
//
//   - From the user side (SyncUserGroups), groups are lightweight tags:
//     any that do not exist yet are created, then stale edges are pruned.
//   - From the group side (SetGroupMembers), users are a hard precondition:
//     if any desired member does not exist, the whole operation fails with
//     MissingUsersError and nothing is mutated.
//
// # Errors
//
// Services surface repository.ErrNotFound and repository.ErrAlreadyExists
// unchanged, and add MissingUsersError for the group-side precondition.
package service
