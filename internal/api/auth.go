package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/service"
)

// Login handles POST /api/login and POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	var req service.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	res, err := h.svc.Login(r.Context(), req)
	if err != nil {
		return err
	}
	slog.Info("user logged in", "user", res.User.Username)
	respond(w, http.StatusOK, res, "login successful")
	return nil
}

// Logout handles POST /api/auth/logout by revoking the caller's token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) error {
	claims := GetClaims(r.Context())
	if err := h.svc.Logout(r.Context(), claims); err != nil {
		return err
	}
	slog.Info("user logged out", "user", claims.Username)
	respond(w, http.StatusOK, nil, "logged out")
	return nil
}
