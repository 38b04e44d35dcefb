package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"planetapp/internal/domain"
	"planetapp/internal/repository"
)

// tx implements repository.Tx over one *sql.Tx.
type tx struct {
	tx *sql.Tx
}

// ============================================================================
// Users
// ============================================================================

func (t *tx) CreateUser(ctx context.Context, user domain.User) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO users (userid, first_name, last_name) VALUES (?, ?, ?)`,
		user.UserID, user.FirstName, user.LastName,
	)
	if isUniqueViolation(err) {
		return repository.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (t *tx) GetUser(ctx context.Context, userid string) (*domain.User, error) {
	var user domain.User
	err := t.tx.QueryRowContext(ctx,
		`SELECT userid, first_name, last_name FROM users WHERE userid = ?`, userid,
	).Scan(&user.UserID, &user.FirstName, &user.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

func (t *tx) UpdateUser(ctx context.Context, oldID string, user domain.User) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE users SET userid = ?, first_name = ?, last_name = ? WHERE userid = ?`,
		user.UserID, user.FirstName, user.LastName, oldID,
	)
	if isUniqueViolation(err) {
		return repository.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (t *tx) DeleteUser(ctx context.Context, userid string) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM users WHERE userid = ?`, userid)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (t *tx) FilterExistingUsers(ctx context.Context, userids []string) ([]string, error) {
	if len(userids) == 0 {
		return nil, nil
	}

	query := `SELECT userid FROM users WHERE userid IN (` + placeholders(len(userids)) + `)`
	rows, err := t.tx.QueryContext(ctx, query, toArgs(userids)...)
	if err != nil {
		return nil, fmt.Errorf("query existing users: %w", err)
	}
	defer rows.Close()

	var found []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan userid: %w", err)
		}
		found = append(found, id)
	}
	return found, rows.Err()
}

// ============================================================================
// Groups
// ============================================================================

func (t *tx) CreateGroup(ctx context.Context, name string) error {
	_, err := t.tx.ExecContext(ctx, `INSERT INTO groups (name) VALUES (?)`, name)
	if isUniqueViolation(err) {
		return repository.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

func (t *tx) GetGroup(ctx context.Context, name string) (*domain.Group, error) {
	var group domain.Group
	err := t.tx.QueryRowContext(ctx,
		`SELECT name FROM groups WHERE name = ?`, name,
	).Scan(&group.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query group: %w", err)
	}
	return &group, nil
}

func (t *tx) DeleteGroup(ctx context.Context, name string) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM groups WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete group rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (t *tx) EnsureGroups(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	stmt, err := t.tx.PrepareContext(ctx, `INSERT OR IGNORE INTO groups (name) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("prepare ensure groups: %w", err)
	}
	defer stmt.Close()

	for _, name := range names {
		if _, err := stmt.ExecContext(ctx, name); err != nil {
			return fmt.Errorf("ensure group %q: %w", name, err)
		}
	}
	return nil
}

// ============================================================================
// Memberships
// ============================================================================

func (t *tx) GroupNamesForUser(ctx context.Context, userid string) ([]string, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT group_name FROM memberships WHERE userid = ? ORDER BY group_name ASC`,
		userid,
	)
	if err != nil {
		return nil, fmt.Errorf("query user groups: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan group name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (t *tx) MembersOfGroup(ctx context.Context, name string) ([]string, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT userid FROM memberships WHERE group_name = ?`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("query group members: %w", err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, id)
	}
	return members, rows.Err()
}

func (t *tx) AddUserToGroups(ctx context.Context, userid string, names []string) error {
	if len(names) == 0 {
		return nil
	}

	stmt, err := t.tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO memberships (userid, group_name) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare membership insert: %w", err)
	}
	defer stmt.Close()

	for _, name := range names {
		if _, err := stmt.ExecContext(ctx, userid, name); err != nil {
			return fmt.Errorf("insert membership (%s, %s): %w", userid, name, err)
		}
	}
	return nil
}

func (t *tx) AddMembersToGroup(ctx context.Context, name string, userids []string) error {
	if len(userids) == 0 {
		return nil
	}

	stmt, err := t.tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO memberships (userid, group_name) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare membership insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range userids {
		if _, err := stmt.ExecContext(ctx, id, name); err != nil {
			return fmt.Errorf("insert membership (%s, %s): %w", id, name, err)
		}
	}
	return nil
}

func (t *tx) PruneUserEdges(ctx context.Context, userid string, keep []string) error {
	if len(keep) == 0 {
		return t.DeleteUserEdges(ctx, userid)
	}

	query := `DELETE FROM memberships WHERE userid = ? AND group_name NOT IN (` +
		placeholders(len(keep)) + `)`
	args := append([]any{userid}, toArgs(keep)...)
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune user edges: %w", err)
	}
	return nil
}

func (t *tx) PruneGroupEdges(ctx context.Context, name string, keep []string) error {
	if len(keep) == 0 {
		return t.DeleteGroupEdges(ctx, name)
	}

	query := `DELETE FROM memberships WHERE group_name = ? AND userid NOT IN (` +
		placeholders(len(keep)) + `)`
	args := append([]any{name}, toArgs(keep)...)
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune group edges: %w", err)
	}
	return nil
}

func (t *tx) RenameUserEdges(ctx context.Context, oldID, newID string) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE memberships SET userid = ? WHERE userid = ?`, newID, oldID)
	if err != nil {
		return fmt.Errorf("rename user edges: %w", err)
	}
	return nil
}

func (t *tx) DeleteUserEdges(ctx context.Context, userid string) error {
	if _, err := t.tx.ExecContext(ctx,
		`DELETE FROM memberships WHERE userid = ?`, userid); err != nil {
		return fmt.Errorf("delete user edges: %w", err)
	}
	return nil
}

func (t *tx) DeleteGroupEdges(ctx context.Context, name string) error {
	if _, err := t.tx.ExecContext(ctx,
		`DELETE FROM memberships WHERE group_name = ?`, name); err != nil {
		return fmt.Errorf("delete group edges: %w", err)
	}
	return nil
}
