package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/model"
)

// envelope wraps every successful response.
type envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// respond writes data in the success envelope.
func respond(w http.ResponseWriter, status int, data any, message string) {
	jsonResponse(w, status, envelope{Data: data, Message: message})
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return &model.ValidationError{Field: "body", Reason: "invalid request body"}
	}
	return nil
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, &model.ValidationError{Field: "id", Reason: "invalid item id"}
	}
	return id, nil
}

// apiFunc is a handler that reports failure by returning an error.
type apiFunc func(w http.ResponseWriter, r *http.Request) error

func (f apiFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := f(w, r); err != nil {
		writeError(w, r, err)
	}
}

// writeError maps err to a status code and writes it. Unexpected errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr     *model.ValidationError
		conflict *model.ConflictError
		notFound *model.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		jsonError(w, http.StatusBadRequest, verr.Reason)
	case errors.As(err, &conflict):
		jsonError(w, http.StatusConflict, conflict.Error())
	case errors.As(err, &notFound):
		jsonError(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, model.ErrInvalidCredentials):
		slog.Warn("login failed", "remote", r.RemoteAddr, "request_id", requestID(r.Context()))
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, model.ErrUnauthorized):
		jsonError(w, http.StatusUnauthorized, "missing or invalid token")
	default:
		slog.Error("request failed",
			"method", r.Method, "path", r.URL.Path,
			"request_id", requestID(r.Context()), "error", err)
		jsonError(w, http.StatusInternalServerError, "internal server error")
	}
}
