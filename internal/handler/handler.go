package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"planetapp/internal/repository"
	"planetapp/internal/service"
)

// ErrorResponse is the JSON body returned on any failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserHandler handles the /users endpoints.
type UserHandler struct {
	svc      *service.UserService
	validate *validator.Validate
	log      *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.UserService, validate *validator.Validate, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, validate: validate, log: log}
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "input validation failed")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, "input validation failed")
		return
	}

	user := payload.User()
	if err := h.svc.Create(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, fmt.Sprintf("user %s already exists", user.UserID))
			return
		}
		h.log.Error("create user failed", zap.String("userid", user.UserID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Get handles GET /users/{userid}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userid := chi.URLParam(r, "userid")

	user, err := h.svc.Get(r.Context(), userid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("user %s not found", userid))
			return
		}
		h.log.Error("fetch user failed", zap.String("userid", userid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update handles PUT /users/{userid}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userid := chi.URLParam(r, "userid")

	var payload UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "input validation failed")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, "input validation failed")
		return
	}

	user := payload.User()
	if err := h.svc.Update(r.Context(), userid, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, fmt.Sprintf("user %s not found", userid))
		case errors.Is(err, repository.ErrAlreadyExists):
			writeError(w, http.StatusConflict, fmt.Sprintf("update failed: userid %s is already taken", user.UserID))
		default:
			h.log.Error("update user failed", zap.String("userid", userid), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Delete handles DELETE /users/{userid}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userid := chi.URLParam(r, "userid")

	if err := h.svc.Delete(r.Context(), userid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("user %s doesn't exist and cannot be deleted", userid))
			return
		}
		h.log.Error("delete user failed", zap.String("userid", userid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GroupHandler handles the /groups endpoints.
type GroupHandler struct {
	svc      *service.GroupService
	validate *validator.Validate
	log      *zap.Logger
}

// NewGroupHandler creates a new group handler.
func NewGroupHandler(svc *service.GroupService, validate *validator.Validate, log *zap.Logger) *GroupHandler {
	return &GroupHandler{svc: svc, validate: validate, log: log}
}

// Create handles POST /groups.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload GroupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "input validation failed")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, "input validation failed")
		return
	}

	name := *payload.Name
	if err := h.svc.Create(r.Context(), name); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, fmt.Sprintf("group %s already exists", name))
			return
		}
		h.log.Error("create group failed", zap.String("group", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Members handles GET /groups/{name}.
func (h *GroupHandler) Members(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	members, err := h.svc.Members(r.Context(), name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("group %s not found", name))
			return
		}
		h.log.Error("fetch group failed", zap.String("group", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, members)
}

// SetMembers handles PUT /groups/{name}.
func (h *GroupHandler) SetMembers(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var members []string
	if err := json.NewDecoder(r.Body).Decode(&members); err != nil || members == nil {
		writeError(w, http.StatusBadRequest, "input validation failed")
		return
	}
	if err := h.validate.Var(members, "unique"); err != nil {
		writeError(w, http.StatusBadRequest, "input validation failed")
		return
	}

	if err := h.svc.SetMembers(r.Context(), name, members); err != nil {
		var missing *service.MissingUsersError
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, fmt.Sprintf("group %s not found", name))
		case errors.As(err, &missing):
			writeError(w, http.StatusNotFound, fmt.Sprintf("cannot update group membership, missing users: %s",
				strings.Join(missing.UserIDs, ", ")))
		default:
			h.log.Error("update group membership failed", zap.String("group", name), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Delete handles DELETE /groups/{name}.
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.svc.Delete(r.Context(), name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("group %s doesn't exist and cannot be deleted", name))
			return
		}
		h.log.Error("delete group failed", zap.String("group", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
