package service

import (
	"context"

	"planetapp/internal/repository"

	"go.uber.org/zap"
)

// GroupService provides business logic for group operations.
type GroupService struct {
	store      repository.Store
	reconciler *Reconciler
	log        *zap.Logger
}

// NewGroupService creates a new group service.
func NewGroupService(store repository.Store, reconciler *Reconciler, log *zap.Logger) *GroupService {
	return &GroupService{
		store:      store,
		reconciler: reconciler,
		log:        log,
	}
}

// Create inserts a new empty group. Returns repository.ErrAlreadyExists
// when the name is taken.
func (s *GroupService) Create(ctx context.Context, name string) error {
	return s.store.InTx(ctx, func(tx repository.Tx) error {
		return tx.CreateGroup(ctx, name)
	})
}

// Members returns the userids of all members of the group. Returns
// repository.ErrNotFound when the group does not exist.
func (s *GroupService) Members(ctx context.Context, name string) ([]string, error) {
	var members []string
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		group, err := tx.GetGroup(ctx, name)
		if err != nil {
			return err
		}
		if group == nil {
			return repository.ErrNotFound
		}

		members, err = tx.MembersOfGroup(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

// SetMembers replaces the group's membership with the desired list. Returns
// repository.ErrNotFound when the group does not exist and MissingUsersError
// when any desired member is not an existing user; in the latter case no
// edge is inserted or pruned.
func (s *GroupService) SetMembers(ctx context.Context, name string, members []string) error {
	return s.store.InTx(ctx, func(tx repository.Tx) error {
		group, err := tx.GetGroup(ctx, name)
		if err != nil {
			return err
		}
		if group == nil {
			return repository.ErrNotFound
		}

		return s.reconciler.SetGroupMembers(ctx, tx, name, members)
	})
}

// Delete removes the group and every membership edge referencing it.
// Returns repository.ErrNotFound when the group does not exist.
func (s *GroupService) Delete(ctx context.Context, name string) error {
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		if err := tx.DeleteGroup(ctx, name); err != nil {
			return err
		}
		return tx.DeleteGroupEdges(ctx, name)
	})
	if err != nil {
		return err
	}

	s.log.Info("group deleted", zap.String("group", name))
	return nil
}
