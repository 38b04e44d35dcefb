package service

import (
	"fmt"
	"strings"
)

// MissingUsersError reports a group-membership update that referenced users
// who do not exist. UserIDs is sorted ascending.
type MissingUsersError struct {
	UserIDs []string
}

func (e *MissingUsersError) Error() string {
	return fmt.Sprintf("cannot update group membership because the following users don't exist: %s",
		strings.Join(e.UserIDs, ", "))
}
