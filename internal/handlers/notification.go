package handlers

import (
	"net/http"
	"strconv"

	"github.com/Kushal-np/SocialMedia/internal/middleware"
	"github.com/Kushal-np/SocialMedia/internal/repo"
	"github.com/go-chi/chi/v5"
)

// ==========================
// Notification Handler
// ==========================
type NotificationHandler struct {
	Notifs *repo.NotificationRepo
}

// List returns the actor's notifications, newest first, and marks them read.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	notifs, err := h.Notifs.ListForUser(r.Context(), actor.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, notifs)
}

// DeleteOne removes one of the actor's notifications.
func (h *NotificationHandler) DeleteOne(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	if err := h.Notifs.DeleteOne(r.Context(), actor.ID, id); err != nil {
		WriteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "notification deleted"})
}

// DeleteAll clears the actor's notification feed.
func (h *NotificationHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.Notifs.DeleteAll(r.Context(), actor.ID); err != nil {
		WriteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "notifications deleted"})
}
