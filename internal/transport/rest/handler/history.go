package handler

import (
	"net/http"
	"sheetgrader/internal/service"
)

// HistoryHandler handles scan history endpoints
type HistoryHandler struct {
	workspaces *service.WorkspaceService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(workspaces *service.WorkspaceService) *HistoryHandler {
	return &HistoryHandler{workspaces: workspaces}
}

// List handles GET /v1/history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ws.History.List())
}

// Summary handles GET /v1/history/summary
func (h *HistoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ws.History.Summary())
}
