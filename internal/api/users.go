package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/service"
)

// CreateUser handles POST /api/users and POST /api/auth/register.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) error {
	var req service.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	user, err := h.svc.CreateUser(r.Context(), req)
	if err != nil {
		return err
	}
	slog.Info("user registered", "user", user.Username)
	respond(w, http.StatusCreated, user, "user created")
	return nil
}

// ListUsers handles GET /api/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, users, "")
	return nil
}
