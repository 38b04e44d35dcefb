package repository

import (
	"context"
	"errors"

	"planetapp/internal/domain"
)

// ErrAlreadyExists reports a uniqueness violation: creating a user or group
// whose external id is taken, or renaming a user onto a taken id.
var ErrAlreadyExists = errors.New("record already exists")

// ErrNotFound reports that a required row was absent (zero rows affected by
// an update or delete, or a fetch that found nothing where one was required).
var ErrNotFound = errors.New("record not found")

// UserTx is the users-table slice of a transaction.
type UserTx interface {
	// CreateUser inserts a new user row. Returns ErrAlreadyExists if the
	// userid is taken.
	CreateUser(ctx context.Context, user domain.User) error

	// GetUser fetches a user row by userid. Returns (nil, nil) when absent.
	// The returned user carries no groups; membership is read separately.
	GetUser(ctx context.Context, userid string) (*domain.User, error)

	// UpdateUser rewrites the row identified by oldID with the given user,
	// including a possible userid change. Returns ErrNotFound if oldID does
	// not exist and ErrAlreadyExists if the new userid is taken.
	UpdateUser(ctx context.Context, oldID string, user domain.User) error

	// DeleteUser removes a user row. Returns ErrNotFound when absent.
	DeleteUser(ctx context.Context, userid string) error

	// FilterExistingUsers returns the subset of ids that exist as users.
	FilterExistingUsers(ctx context.Context, userids []string) ([]string, error)
}

// GroupTx is the groups-table slice of a transaction.
type GroupTx interface {
	// CreateGroup inserts a new empty group. Returns ErrAlreadyExists if the
	// name is taken.
	CreateGroup(ctx context.Context, name string) error

	// GetGroup fetches a group by name. Returns (nil, nil) when absent.
	GetGroup(ctx context.Context, name string) (*domain.Group, error)

	// DeleteGroup removes a group row. Returns ErrNotFound when absent.
	DeleteGroup(ctx context.Context, name string) error

	// EnsureGroups creates any of the named groups that do not yet exist.
	// Existing names are not an error.
	EnsureGroups(ctx context.Context, names []string) error
}

// MembershipTx is the join-relation slice of a transaction.
type MembershipTx interface {
	// GroupNamesForUser returns the names of all groups the user belongs to,
	// ascending by name.
	GroupNamesForUser(ctx context.Context, userid string) ([]string, error)

	// MembersOfGroup returns the userids of all members of the group.
	// Order is not significant.
	MembersOfGroup(ctx context.Context, name string) ([]string, error)

	// AddUserToGroups inserts an edge (userid, name) for every name.
	// Pre-existing edges are not an error.
	AddUserToGroups(ctx context.Context, userid string, names []string) error

	// AddMembersToGroup inserts an edge (userid, name) for every userid.
	// Pre-existing edges are not an error.
	AddMembersToGroup(ctx context.Context, name string, userids []string) error

	// PruneUserEdges deletes every edge for userid whose group name is not
	// in keep. An empty keep removes all of the user's edges.
	PruneUserEdges(ctx context.Context, userid string, keep []string) error

	// PruneGroupEdges deletes every edge for the group whose userid is not
	// in keep. An empty keep removes all of the group's edges.
	PruneGroupEdges(ctx context.Context, name string, keep []string) error

	// RenameUserEdges rewrites all edges under oldID to newID.
	RenameUserEdges(ctx context.Context, oldID, newID string) error

	// DeleteUserEdges removes every edge referencing the userid.
	DeleteUserEdges(ctx context.Context, userid string) error

	// DeleteGroupEdges removes every edge referencing the group name.
	DeleteGroupEdges(ctx context.Context, name string) error
}

// Tx is the full set of statements available inside one transaction.
type Tx interface {
	UserTx
	GroupTx
	MembershipTx
}

// Store opens transaction scopes against the underlying database.
type Store interface {
	// InTx runs fn inside a single transaction, committing when fn returns
	// nil and rolling back otherwise. The Tx must not be retained after fn
	// returns.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying database handle.
	Close() error
}
