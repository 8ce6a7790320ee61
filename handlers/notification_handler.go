package handlers

import (
	"net/http"

	"github.com/afeibuhuifei/project-flow/models"
	"github.com/afeibuhuifei/project-flow/services"
)

type NotificationHandler struct {
	base
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService, debug bool) *NotificationHandler {
	return &NotificationHandler{base: base{debug: debug}, service: service}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.service.List(r.Context(), currentUserID(r))
	if err != nil {
		h.fail(w, r, err, "failed to load notifications")
		return
	}
	h.success(w, http.StatusOK, "notifications retrieved", map[string]interface{}{"notifications": notifications})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	var key models.NotificationKey
	if err := decodeJSON(w, r, &key); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	if err := h.service.MarkAsRead(r.Context(), currentUserID(r), key); err != nil {
		h.fail(w, r, err, "failed to mark notification as read")
		return
	}
	h.success(w, http.StatusOK, "notification marked as read", nil)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var key models.NotificationKey
	if err := decodeJSON(w, r, &key); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	if err := h.service.Delete(r.Context(), currentUserID(r), key); err != nil {
		h.fail(w, r, err, "failed to delete notification")
		return
	}
	h.success(w, http.StatusOK, "notification deleted", nil)
}
