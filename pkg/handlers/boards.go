package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"task-board-backend/pkg/config"
	"task-board-backend/pkg/core"
	"task-board-backend/pkg/middleware"
	"task-board-backend/pkg/models"
	"task-board-backend/pkg/utils"
)

// BoardsHandler serves board CRUD and membership management.
type BoardsHandler struct {
	config *config.Config
	svc    *core.Service
}

// NewBoardsHandler creates the handler.
func NewBoardsHandler(cfg *config.Config, svc *core.Service) *BoardsHandler {
	return &BoardsHandler{config: cfg, svc: svc}
}

// parseIDParam reads an integer id from the route.
func parseIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// GET /api/boards
func (h *BoardsHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	boards, err := h.svc.ListBoards(r.Context(), user)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"boards": boards})
}

// POST /api/boards
func (h *BoardsHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	var req models.BoardCreateRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "invalid body")
		return
	}
	if req.Name == "" {
		utils.WriteBadRequestResponse(w, "name required")
		return
	}

	board, err := h.svc.CreateBoard(r.Context(), user, req)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, board)
}

// GET /api/boards/{board_id}
func (h *BoardsHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	boardID, ok := parseIDParam(r, "board_id")
	if !ok {
		utils.WriteBadRequestResponse(w, "invalid board id")
		return
	}

	board, err := h.svc.GetBoard(r.Context(), user, boardID)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, board)
}

// PATCH /api/boards/{board_id}
func (h *BoardsHandler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	boardID, ok := parseIDParam(r, "board_id")
	if !ok {
		utils.WriteBadRequestResponse(w, "invalid board id")
		return
	}
	var patch models.BoardPatch
	if err := utils.ParseJSONBody(r, &patch); err != nil {
		utils.WriteBadRequestResponse(w, "invalid body")
		return
	}

	board, err := h.svc.UpdateBoard(r.Context(), user, boardID, patch)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, board)
}

// DELETE /api/boards/{board_id}
func (h *BoardsHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	boardID, ok := parseIDParam(r, "board_id")
	if !ok {
		utils.WriteBadRequestResponse(w, "invalid board id")
		return
	}

	if err := h.svc.DeleteBoard(r.Context(), user, boardID); err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteNoContentResponse(w)
}

// GET /api/boards/{board_id}/members
func (h *BoardsHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	boardID, ok := parseIDParam(r, "board_id")
	if !ok {
		utils.WriteBadRequestResponse(w, "invalid board id")
		return
	}

	members, err := h.svc.ListMembers(r.Context(), user, boardID)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"members": members})
}

// POST /api/boards/{board_id}/members
func (h *BoardsHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	boardID, ok := parseIDParam(r, "board_id")
	if !ok {
		utils.WriteBadRequestResponse(w, "invalid board id")
		return
	}
	var req models.MemberRequest
	if err := utils.ParseJSONBody(r, &req); err != nil || req.UserID <= 0 {
		utils.WriteBadRequestResponse(w, "user_id required")
		return
	}

	if err := h.svc.AddMember(r.Context(), user, boardID, req.UserID); err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, map[string]interface{}{"board_id": boardID, "user_id": req.UserID})
}

// DELETE /api/boards/{board_id}/members/{user_id}
func (h *BoardsHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	boardID, ok := parseIDParam(r, "board_id")
	if !ok {
		utils.WriteBadRequestResponse(w, "invalid board id")
		return
	}
	userID, ok := parseIDParam(r, "user_id")
	if !ok {
		utils.WriteBadRequestResponse(w, "invalid user id")
		return
	}

	if err := h.svc.RemoveMember(r.Context(), user, boardID, userID); err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteNoContentResponse(w)
}
