// Package handler implements the HTTP layer of the Planet App API.
//
// # Handlers
//
// UserHandler and GroupHandler decode and validate request bodies, call the
// service layer, and map results to status codes. Validation happens before
// any service call, so a malformed body never mutates state.
//
// # Status mapping
//
// Invalid or schema-non-conforming bodies return 400. Uniqueness collisions
// on create or rename return 409. Missing required entities return 404,
// including a group-membership update that names nonexistent users (the
// response lists the missing ids). Everything else that fails is a 500.
//
// # Response format
//
// Mutations return 200 with an empty body. GET /users/{userid} returns the
// user JSON with groups sorted ascending; GET /groups/{name} returns a JSON
// array of member userids. Errors are returned as {"error": "..."}.
package handler
