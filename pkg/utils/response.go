package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"task-board-backend/pkg/core"
)

// APIResponse is the envelope every JSON endpoint returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError carries a machine-readable code and a human-readable message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSONResponse writes data inside the standard envelope.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := APIResponse{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// WriteSuccessResponse writes a 200 response.
func WriteSuccessResponse(w http.ResponseWriter, data interface{}) {
	WriteJSONResponse(w, http.StatusOK, data)
}

// WriteCreatedResponse writes a 201 response.
func WriteCreatedResponse(w http.ResponseWriter, data interface{}) {
	WriteJSONResponse(w, http.StatusCreated, data)
}

// WriteNoContentResponse writes a bare 204.
func WriteNoContentResponse(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteErrorResponseWithCode writes an error inside the standard envelope.
func WriteErrorResponseWithCode(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// WriteBadRequestResponse writes a 400 error.
func WriteBadRequestResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

// WriteUnauthorizedResponse writes a 401 error.
func WriteUnauthorizedResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// WriteForbiddenResponse writes a 403 error.
func WriteForbiddenResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusForbidden, "FORBIDDEN", message)
}

// WriteNotFoundResponse writes a 404 error.
func WriteNotFoundResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusNotFound, "NOT_FOUND", message)
}

// WriteConflictResponse writes a 409 error.
func WriteConflictResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusConflict, "CONFLICT", message)
}

// WriteInternalServerErrorResponse writes a 500 error.
func WriteInternalServerErrorResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}

// WriteCoreError maps the core error taxonomy onto HTTP statuses:
// Unauthenticated 401, PermissionDenied 403, NotFound 404, Conflict 409,
// anything else 500.
func WriteCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthenticated):
		WriteUnauthorizedResponse(w, err.Error())
	case errors.Is(err, core.ErrPermissionDenied):
		WriteForbiddenResponse(w, err.Error())
	case errors.Is(err, core.ErrNotFound):
		WriteNotFoundResponse(w, err.Error())
	case errors.Is(err, core.ErrConflict):
		WriteConflictResponse(w, err.Error())
	default:
		WriteInternalServerErrorResponse(w, err.Error())
	}
}

// ParseJSONBody decodes a JSON request body.
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
