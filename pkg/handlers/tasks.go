package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"task-board-backend/pkg/config"
	"task-board-backend/pkg/core"
	"task-board-backend/pkg/middleware"
	"task-board-backend/pkg/models"
	"task-board-backend/pkg/utils"
)

// TasksHandler serves task CRUD and the per-task audit log.
type TasksHandler struct {
	config *config.Config
	svc    *core.Service
}

// NewTasksHandler creates the handler.
func NewTasksHandler(cfg *config.Config, svc *core.Service) *TasksHandler {
	return &TasksHandler{config: cfg, svc: svc}
}

// GET /api/columns/{column_id}/tasks
//
// Optional query filters: name, position, assignee_id (the literal string
// "null" selects unassigned tasks), created_by.
func (h *TasksHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
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
	filter, err := parseTaskFilter(r)
	if err != nil {
		utils.WriteBadRequestResponse(w, err.Error())
		return
	}

	tasks, err := h.svc.ListTasks(r.Context(), user, columnID, filter)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"tasks": tasks})
}

// POST /api/columns/{column_id}/tasks
func (h *TasksHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
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
	var req models.TaskCreateRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "invalid body")
		return
	}
	if req.Name == "" {
		utils.WriteBadRequestResponse(w, "name required")
		return
	}

	task, err := h.svc.CreateTask(r.Context(), user, columnID, req)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, task)
}

// GET /api/tasks/{task_id}
func (h *TasksHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	taskID, ok := parseIDParam(r, "task_id")
	if !ok {
		utils.WriteBadRequestResponse(w, "invalid task id")
		return
	}

	task, err := h.svc.GetTask(r.Context(), user, taskID)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, task)
}

// PATCH /api/tasks/{task_id}
func (h *TasksHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	taskID, ok := parseIDParam(r, "task_id")
	if !ok {
		utils.WriteBadRequestResponse(w, "invalid task id")
		return
	}
	var patch models.TaskPatch
	if err := utils.ParseJSONBody(r, &patch); err != nil {
		utils.WriteBadRequestResponse(w, "invalid body")
		return
	}

	task, err := h.svc.UpdateTask(r.Context(), user, taskID, patch)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, task)
}

// DELETE /api/tasks/{task_id}
func (h *TasksHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	taskID, ok := parseIDParam(r, "task_id")
	if !ok {
		utils.WriteBadRequestResponse(w, "invalid task id")
		return
	}

	if err := h.svc.DeleteTask(r.Context(), user, taskID); err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteNoContentResponse(w)
}

// GET /api/tasks/{task_id}/logs
func (h *TasksHandler) ListTaskLogs(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	taskID, ok := parseIDParam(r, "task_id")
	if !ok {
		utils.WriteBadRequestResponse(w, "invalid task id")
		return
	}

	logs, err := h.svc.ListTaskLogs(r.Context(), user, taskID)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"logs": logs})
}

func parseTaskFilter(r *http.Request) (models.TaskFilter, error) {
	var filter models.TaskFilter
	q := r.URL.Query()

	if name := q.Get("name"); name != "" {
		filter.Name = &name
	}
	if raw := q.Get("position"); raw != "" {
		position, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid query parameter: position")
		}
		filter.Position = &position
	}
	if raw := q.Get("assignee_id"); raw != "" {
		if raw == "null" {
			filter.AssigneeNull = true
		} else {
			assigneeID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return filter, fmt.Errorf("invalid query parameter: assignee_id")
			}
			filter.AssigneeID = &assigneeID
		}
	}
	if raw := q.Get("created_by"); raw != "" {
		createdBy, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid query parameter: created_by")
		}
		filter.CreatedBy = &createdBy
	}
	return filter, nil
}
