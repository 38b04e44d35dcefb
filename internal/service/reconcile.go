package service

import (
	"context"
	"fmt"
	"sort"

	"planetapp/internal/repository"

	"go.uber.org/zap"
)

// Reconciler computes and applies the minimal edge insert/delete set needed
// to make the membership relation match a declared desired state. Both
// operations run inside the caller's transaction scope.
type Reconciler struct {
	log *zap.Logger
}

// NewReconciler creates a new membership reconciler.
func NewReconciler(log *zap.Logger) *Reconciler {
	return &Reconciler{log: log}
}

// SyncUserGroups makes the user's group set equal to desired.
//
// Groups named in desired that do not exist yet are created first, so no
// edge is ever inserted ahead of its group. Edge insertion is idempotent,
// and pruning runs last so desired is always the final target state
// regardless of prior membership. The userid itself is not validated;
// callers invoke this only after writing the user row.
func (r *Reconciler) SyncUserGroups(ctx context.Context, tx repository.Tx, userid string, desired []string) error {
	if err := tx.EnsureGroups(ctx, desired); err != nil {
		return fmt.Errorf("ensure groups: %w", err)
	}
	if err := tx.AddUserToGroups(ctx, userid, desired); err != nil {
		return fmt.Errorf("add memberships: %w", err)
	}
	if err := tx.PruneUserEdges(ctx, userid, desired); err != nil {
		return fmt.Errorf("prune memberships: %w", err)
	}

	r.log.Debug("synced user groups",
		zap.String("userid", userid),
		zap.Int("group_count", len(desired)))
	return nil
}

// SetGroupMembers makes the group's member set equal to desired.
//
// Unlike the user side, this is strict: every desired member must already
// exist as a user. If any are missing the whole operation fails with
// MissingUsersError and no edge is inserted or pruned. Running inside one
// transaction keeps the existence check and the mutation atomic.
func (r *Reconciler) SetGroupMembers(ctx context.Context, tx repository.Tx, name string, desired []string) error {
	found, err := tx.FilterExistingUsers(ctx, desired)
	if err != nil {
		return fmt.Errorf("check members exist: %w", err)
	}
	if missing := missingFrom(desired, found); len(missing) > 0 {
		return &MissingUsersError{UserIDs: missing}
	}

	if err := tx.AddMembersToGroup(ctx, name, desired); err != nil {
		return fmt.Errorf("add memberships: %w", err)
	}
	if err := tx.PruneGroupEdges(ctx, name, desired); err != nil {
		return fmt.Errorf("prune memberships: %w", err)
	}

	r.log.Debug("set group members",
		zap.String("group", name),
		zap.Int("member_count", len(desired)))
	return nil
}

// missingFrom returns the ids in desired absent from found, sorted ascending.
func missingFrom(desired, found []string) []string {
	have := make(map[string]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}

	var missing []string
	for _, id := range desired {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}
