package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/model"
)

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) error {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, st, "")
	return nil
}

// StatsByCity handles GET /api/stats/cities.
func (h *Handler) StatsByCity(w http.ResponseWriter, r *http.Request) error {
	counts, err := h.svc.ItemsByCity(r.Context())
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, counts, "")
	return nil
}

// StatsRecent handles GET /api/stats/recent?days=.
func (h *Handler) StatsRecent(w http.ResponseWriter, r *http.Request) error {
	days := h.svc.RecentDays()
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > model.MaxRecentDays {
			return &model.ValidationError{
				Field:  "days",
				Reason: fmt.Sprintf("days must be an integer between 1 and %d", model.MaxRecentDays),
			}
		}
		days = n
	}

	items, err := h.svc.RecentItems(r.Context(), days)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, map[string]any{
		"days":  days,
		"count": len(items),
		"items": items,
	}, "")
	return nil
}
