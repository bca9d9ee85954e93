package handlers

import (
	"net/http"

	"task-board-backend/pkg/config"
	"task-board-backend/pkg/core"
	"task-board-backend/pkg/middleware"
	"task-board-backend/pkg/models"
	"task-board-backend/pkg/utils"
)

// ColumnsHandler serves column CRUD. Columns are listed and created under
// their board; single-column routes authorize through the owning board.
type ColumnsHandler struct {
	config *config.Config
	svc    *core.Service
}

// NewColumnsHandler creates the handler.
func NewColumnsHandler(cfg *config.Config, svc *core.Service) *ColumnsHandler {
	return &ColumnsHandler{config: cfg, svc: svc}
}

// GET /api/boards/{board_id}/columns
func (h *ColumnsHandler) ListColumns(w http.ResponseWriter, r *http.Request) {
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

	columns, err := h.svc.ListColumns(r.Context(), user, boardID)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"columns": columns})
}

// POST /api/boards/{board_id}/columns
func (h *ColumnsHandler) CreateColumn(w http.ResponseWriter, r *http.Request) {
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
	var req models.ColumnCreateRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "invalid body")
		return
	}
	if req.Name == "" {
		utils.WriteBadRequestResponse(w, "name required")
		return
	}

	column, err := h.svc.CreateColumn(r.Context(), user, boardID, req)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, column)
}

// GET /api/columns/{column_id}
func (h *ColumnsHandler) GetColumn(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	columnID, ok := parseIDParam(r, "column_id")
	if !ok {
		utils.WriteBadRequestResponse(w, "invalid column id")
		return
	}

	column, err := h.svc.GetColumn(r.Context(), user, columnID)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, column)
}

// PATCH /api/columns/{column_id}
func (h *ColumnsHandler) UpdateColumn(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	columnID, ok := parseIDParam(r, "column_id")
	if !ok {
		utils.WriteBadRequestResponse(w, "invalid column id")
		return
	}
	var patch models.ColumnPatch
	if err := utils.ParseJSONBody(r, &patch); err != nil {
		utils.WriteBadRequestResponse(w, "invalid body")
		return
	}

	column, err := h.svc.UpdateColumn(r.Context(), user, columnID, patch)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, column)
}

// DELETE /api/columns/{column_id}
func (h *ColumnsHandler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	columnID, ok := parseIDParam(r, "column_id")
	if !ok {
		utils.WriteBadRequestResponse(w, "invalid column id")
		return
	}

	if err := h.svc.DeleteColumn(r.Context(), user, columnID); err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteNoContentResponse(w)
}
