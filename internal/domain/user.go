package domain

// User is the API-level user object. Groups is derived from the membership
// relation and is sorted ascending by name when read from the store.
type User struct {
	UserID    string   `json:"userid"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Groups    []string `json:"groups"`
}
