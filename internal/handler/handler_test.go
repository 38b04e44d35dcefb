package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"planetapp/internal/domain"
	"planetapp/internal/repository/sqlite"
	"planetapp/internal/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := zap.NewNop()
	reconciler := service.NewReconciler(log)
	users := service.NewUserService(store, reconciler, log)
	groups := service.NewGroupService(store, reconciler, log)
	return NewRouter(users, groups, log)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func decodeUser(t *testing.T, rec *httptest.ResponseRecorder) domain.User {
	t.Helper()
	var user domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	return user
}

func decodeMembers(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var members []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &members))
	return members
}

func createUser(t *testing.T, h http.Handler, userid string, groups ...string) {
	t.Helper()
	payload := map[string]any{
		"userid":     userid,
		"first_name": "First",
		"last_name":  "Last",
		"groups":     groups,
	}
	if groups == nil {
		payload["groups"] = []string{}
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/users", string(body))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWelcomePage(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Sun-synchronous_orbit")
}

func TestUserCreateAndFetch(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/users",
		`{"userid": "alice", "first_name": "Alice", "last_name": "Liddell", "groups": ["zeta", "alpha"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/users/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)

	user := decodeUser(t, rec)
	require.Equal(t, "alice", user.UserID)
	require.Equal(t, "Alice", user.FirstName)
	require.Equal(t, "Liddell", user.LastName)
	require.Equal(t, []string{"alpha", "zeta"}, user.Groups)
}

func TestUserFetchNotFound(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/users/ghost", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "user ghost not found", decodeError(t, rec))
}

func TestUserCreateDuplicateConflict(t *testing.T) {
	h := newTestRouter(t)
	createUser(t, h, "alice")

	rec := do(t, h, http.MethodPost, "/users",
		`{"userid": "alice", "first_name": "A", "last_name": "B", "groups": []}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "user alice already exists", decodeError(t, rec))
}

func TestUserCreateInvalidInput(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"userid": "alice"`},
		{"not an object", `"alice"`},
		{"missing userid", `{"first_name": "A", "last_name": "B", "groups": []}`},
		{"missing first_name", `{"userid": "alice", "last_name": "B", "groups": []}`},
		{"missing last_name", `{"userid": "alice", "first_name": "A", "groups": []}`},
		{"missing groups", `{"userid": "alice", "first_name": "A", "last_name": "B"}`},
		{"null userid", `{"userid": null, "first_name": "A", "last_name": "B", "groups": []}`},
		{"userid wrong type", `{"userid": 42, "first_name": "A", "last_name": "B", "groups": []}`},
		{"groups wrong type", `{"userid": "alice", "first_name": "A", "last_name": "B", "groups": "eng"}`},
		{"duplicate groups", `{"userid": "alice", "first_name": "A", "last_name": "B", "groups": ["eng", "eng"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/users", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, "input validation failed", decodeError(t, rec))
		})
	}

	// nothing was written by any rejected request
	rec := do(t, h, http.MethodGet, "/users/alice", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserUpdate(t *testing.T) {
	h := newTestRouter(t)
	createUser(t, h, "alice", "a", "b")

	rec := do(t, h, http.MethodPut, "/users/alice",
		`{"userid": "alice", "first_name": "Alicia", "last_name": "Liddell", "groups": ["b", "c"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/users/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)

	user := decodeUser(t, rec)
	require.Equal(t, "Alicia", user.FirstName)
	require.Equal(t, []string{"b", "c"}, user.Groups)
}

func TestUserUpdateRename(t *testing.T) {
	h := newTestRouter(t)
	createUser(t, h, "alice", "eng")

	rec := do(t, h, http.MethodPut, "/users/alice",
		`{"userid": "al", "first_name": "First", "last_name": "Last", "groups": ["eng"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/users/alice", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/users/al", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"eng"}, decodeUser(t, rec).Groups)

	rec = do(t, h, http.MethodGet, "/groups/eng", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"al"}, decodeMembers(t, rec))
}

func TestUserUpdateNotFound(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPut, "/users/ghost",
		`{"userid": "ghost", "first_name": "A", "last_name": "B", "groups": []}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "user ghost not found", decodeError(t, rec))
}

func TestUserUpdateRenameToTakenID(t *testing.T) {
	h := newTestRouter(t)
	createUser(t, h, "alice")
	createUser(t, h, "bob")

	rec := do(t, h, http.MethodPut, "/users/alice",
		`{"userid": "bob", "first_name": "A", "last_name": "B", "groups": []}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "update failed: userid bob is already taken", decodeError(t, rec))
}

func TestUserUpdateInvalidInputLeavesUserIntact(t *testing.T) {
	h := newTestRouter(t)
	createUser(t, h, "alice", "eng")

	rec := do(t, h, http.MethodPut, "/users/alice", `{"first_name": "A"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/users/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"eng"}, decodeUser(t, rec).Groups)
}

func TestUserDelete(t *testing.T) {
	h := newTestRouter(t)
	createUser(t, h, "alice", "eng")

	rec := do(t, h, http.MethodDelete, "/users/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/users/alice", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/users/alice", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "user alice doesn't exist and cannot be deleted", decodeError(t, rec))

	// the group survives, just without the deleted member
	rec = do(t, h, http.MethodGet, "/groups/eng", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeMembers(t, rec))
}

func TestGroupCreate(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/groups", `{"name": "eng"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/groups/eng", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeMembers(t, rec))
}

func TestGroupCreateDuplicateConflict(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/groups", `{"name": "eng"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/groups", `{"name": "eng"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "group eng already exists", decodeError(t, rec))
}

func TestGroupCreateInvalidInput(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name": `},
		{"missing name", `{}`},
		{"null name", `{"name": null}`},
		{"name wrong type", `{"name": ["eng"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/groups", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, "input validation failed", decodeError(t, rec))
		})
	}
}

func TestGroupMembersNotFound(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/groups/ghost", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "group ghost not found", decodeError(t, rec))
}

func TestGroupSetMembers(t *testing.T) {
	h := newTestRouter(t)
	createUser(t, h, "alice")
	createUser(t, h, "bob")
	createUser(t, h, "carol")

	rec := do(t, h, http.MethodPost, "/groups", `{"name": "eng"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, "/groups/eng", `["alice", "bob"]`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/groups/eng", "")
	require.ElementsMatch(t, []string{"alice", "bob"}, decodeMembers(t, rec))

	// replacement removes alice
	rec = do(t, h, http.MethodPut, "/groups/eng", `["bob", "carol"]`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/groups/eng", "")
	require.ElementsMatch(t, []string{"bob", "carol"}, decodeMembers(t, rec))

	rec = do(t, h, http.MethodGet, "/users/alice", "")
	require.Empty(t, decodeUser(t, rec).Groups)
}

func TestGroupSetMembersMissingUsers(t *testing.T) {
	h := newTestRouter(t)
	createUser(t, h, "alice")

	rec := do(t, h, http.MethodPost, "/groups", `{"name": "eng"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, "/groups/eng", `["alice", "zed", "bob"]`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "cannot update group membership, missing users: bob, zed", decodeError(t, rec))

	// the rejected update changed nothing
	rec = do(t, h, http.MethodGet, "/groups/eng", "")
	require.Empty(t, decodeMembers(t, rec))
}

func TestGroupSetMembersNotFound(t *testing.T) {
	h := newTestRouter(t)
	createUser(t, h, "alice")

	rec := do(t, h, http.MethodPut, "/groups/ghost", `["alice"]`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "group ghost not found", decodeError(t, rec))
}

func TestGroupSetMembersInvalidInput(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/groups", `{"name": "eng"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `["alice"`},
		{"not an array", `{"members": ["alice"]}`},
		{"null body", `null`},
		{"duplicate members", `["alice", "alice"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPut, "/groups/eng", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, "input validation failed", decodeError(t, rec))
		})
	}
}

func TestGroupDelete(t *testing.T) {
	h := newTestRouter(t)
	createUser(t, h, "alice", "eng", "ops")

	rec := do(t, h, http.MethodDelete, "/groups/eng", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/groups/eng", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/groups/eng", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "group eng doesn't exist and cannot be deleted", decodeError(t, rec))

	rec = do(t, h, http.MethodGet, "/users/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"ops"}, decodeUser(t, rec).Groups)
}

func TestEndToEnd(t *testing.T) {
	h := newTestRouter(t)

	// creating a user conjures its groups into existence
	rec := do(t, h, http.MethodPost, "/users",
		`{"userid": "awhite", "first_name": "Alice", "last_name": "White", "groups": ["eng"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/users",
		`{"userid": "bblack", "first_name": "Bob", "last_name": "Black", "groups": []}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/groups/eng", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"awhite"}, decodeMembers(t, rec))

	// enroll bob from the group side
	rec = do(t, h, http.MethodPut, "/groups/eng", `["awhite", "bblack"]`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/users/bblack", "")
	require.Equal(t, []string{"eng"}, decodeUser(t, rec).Groups)

	// bob leaves via a user-side update
	rec = do(t, h, http.MethodPut, "/users/bblack",
		`{"userid": "bblack", "first_name": "Bob", "last_name": "Black", "groups": []}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/groups/eng", "")
	require.Equal(t, []string{"awhite"}, decodeMembers(t, rec))

	// deleting alice empties the group
	rec = do(t, h, http.MethodDelete, "/users/awhite", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/groups/eng", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeMembers(t, rec))
}
