package handlers

import (
	"net/http"

	"github.com/afeibuhuifei/project-flow/middleware"
	"github.com/afeibuhuifei/project-flow/services"
)

type AuthHandler struct {
	base
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService, debug bool) *AuthHandler {
	return &AuthHandler{base: base{debug: debug}, service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	result, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "registration failed")
		return
	}
	h.success(w, http.StatusCreated, "registration successful", result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "login failed")
		return
	}
	h.success(w, http.StatusOK, "login successful", result)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	h.success(w, http.StatusOK, "user retrieved", map[string]interface{}{"user": user})
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateMeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	user, err := h.service.UpdateMe(r.Context(), currentUserID(r), req)
	if err != nil {
		h.fail(w, r, err, "failed to update user")
		return
	}
	h.success(w, http.StatusOK, "user updated", map[string]interface{}{"user": user})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req services.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	if err := h.service.ChangePassword(r.Context(), currentUserID(r), req); err != nil {
		h.fail(w, r, err, "failed to change password")
		return
	}
	h.success(w, http.StatusOK, "password changed", nil)
}
