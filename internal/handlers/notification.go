package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/scholarline/scholarline-gobackend/internal/models"
	"github.com/scholarline/scholarline-gobackend/internal/services"
	"github.com/scholarline/scholarline-gobackend/internal/store"
)

const notificationListLimit = 50

// NotificationHandler serves the admin dashboard's read side of
// notifications.
type NotificationHandler struct {
	notifier *services.Notifier
	store    store.NotificationStore
}

func NewNotificationHandler(n *services.Notifier, s store.NotificationStore) *NotificationHandler {
	return &NotificationHandler{notifier: n, store: s}
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.store.ListNotifications(r.Context(), notificationListLimit)
	if err != nil {
		log.Printf("Failed to fetch notifications: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"notifications": notifications,
	})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["id"]

	if !h.notifier.MarkAsRead(r.Context(), notificationID) {
		writeError(w, http.StatusInternalServerError, "Failed to mark notification as read")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
