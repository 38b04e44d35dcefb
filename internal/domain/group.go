package domain

// Group is an entity with a unique name. Members are not stored on the group;
// they are looked up through the membership relation.
type Group struct {
	Name string `json:"name"`
}
