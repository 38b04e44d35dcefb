package service

import (
	"context"
	"fmt"

	"planetapp/internal/domain"
	"planetapp/internal/repository"

	"go.uber.org/zap"
)

// UserService provides business logic for user operations.
type UserService struct {
	store      repository.Store
	reconciler *Reconciler
	log        *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(store repository.Store, reconciler *Reconciler, log *zap.Logger) *UserService {
	return &UserService{
		store:      store,
		reconciler: reconciler,
		log:        log,
	}
}

// Create inserts a new user and links it to its declared groups, creating
// any that do not exist yet. Returns repository.ErrAlreadyExists when the
// userid is taken.
func (s *UserService) Create(ctx context.Context, user domain.User) error {
	return s.store.InTx(ctx, func(tx repository.Tx) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		return s.reconciler.SyncUserGroups(ctx, tx, user.UserID, user.Groups)
	})
}

// Get fetches a user with its group names sorted ascending. Returns
// repository.ErrNotFound when the user does not exist.
func (s *UserService) Get(ctx context.Context, userid string) (*domain.User, error) {
	var user *domain.User
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		u, err := tx.GetUser(ctx, userid)
		if err != nil {
			return err
		}
		if u == nil {
			return repository.ErrNotFound
		}

		groups, err := tx.GroupNamesForUser(ctx, userid)
		if err != nil {
			return fmt.Errorf("fetch groups: %w", err)
		}
		u.Groups = groups
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update rewrites the user identified by oldID. When the userid changes, all
// membership edges move to the new identity before group reconciliation, so
// no edge is left referencing the old id. Returns repository.ErrNotFound
// when oldID is absent and repository.ErrAlreadyExists when the new userid
// is taken by another user.
func (s *UserService) Update(ctx context.Context, oldID string, user domain.User) error {
	return s.store.InTx(ctx, func(tx repository.Tx) error {
		if err := tx.UpdateUser(ctx, oldID, user); err != nil {
			return err
		}

		if oldID != user.UserID {
			if err := tx.RenameUserEdges(ctx, oldID, user.UserID); err != nil {
				return err
			}
			s.log.Info("user renamed",
				zap.String("old_userid", oldID),
				zap.String("new_userid", user.UserID))
		}

		return s.reconciler.SyncUserGroups(ctx, tx, user.UserID, user.Groups)
	})
}

// Delete removes the user and every membership edge referencing it.
// Returns repository.ErrNotFound when the user does not exist.
func (s *UserService) Delete(ctx context.Context, userid string) error {
	return s.store.InTx(ctx, func(tx repository.Tx) error {
		if err := tx.DeleteUser(ctx, userid); err != nil {
			return err
		}
		return tx.DeleteUserEdges(ctx, userid)
	})
}
