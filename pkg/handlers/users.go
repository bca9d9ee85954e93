package handlers

import (
	"net/http"

	"task-board-backend/pkg/config"
	"task-board-backend/pkg/core"
	"task-board-backend/pkg/middleware"
	"task-board-backend/pkg/models"
	"task-board-backend/pkg/utils"
)

// UsersHandler serves the caller's own profile.
type UsersHandler struct {
	config *config.Config
	svc    *core.Service
}

// NewUsersHandler creates the handler.
func NewUsersHandler(cfg *config.Config, svc *core.Service) *UsersHandler {
	return &UsersHandler{config: cfg, svc: svc}
}

// GET /api/users/me
func (h *UsersHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, user)
}

// PATCH /api/users/me
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	var patch models.UserPatch
	if err := utils.ParseJSONBody(r, &patch); err != nil {
		utils.WriteBadRequestResponse(w, "invalid body")
		return
	}

	updated, err := h.svc.UpdateProfile(r.Context(), user, patch)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, updated)
}
