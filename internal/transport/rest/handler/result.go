package handler

import (
	"net/http"
	"sheetgrader/internal/service"
	"sheetgrader/internal/transport/rest/middleware"
	"strconv"

	"github.com/gorilla/mux"
)

const defaultResultLimit = 100

// ResultHandler serves the graded-result archive
type ResultHandler struct {
	workspaces *service.WorkspaceService
}

// NewResultHandler creates a new result handler
func NewResultHandler(workspaces *service.WorkspaceService) *ResultHandler {
	return &ResultHandler{workspaces: workspaces}
}

// List handles GET /v1/results?studentId=&limit=
func (h *ResultHandler) List(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := int64(defaultResultLimit)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}

	results, err := h.workspaces.ArchivedResults(r.Context(), hostID, r.URL.Query().Get("studentId"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// Get handles GET /v1/results/{id}
func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.workspaces.ArchivedResult(r.Context(), hostID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
