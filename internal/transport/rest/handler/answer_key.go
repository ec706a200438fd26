package handler

import (
	"encoding/json"
	"net/http"
	"sheetgrader/internal/model"
	"sheetgrader/internal/service"
	"strconv"

	"github.com/gorilla/mux"
)

// AnswerKeyHandler handles answer key endpoints
type AnswerKeyHandler struct {
	workspaces *service.WorkspaceService
}

// NewAnswerKeyHandler creates a new answer key handler
func NewAnswerKeyHandler(workspaces *service.WorkspaceService) *AnswerKeyHandler {
	return &AnswerKeyHandler{workspaces: workspaces}
}

// SetChoiceRequest is the request body for setting one key entry
type SetChoiceRequest struct {
	Choice string `json:"choice"`
}

// Get handles GET /v1/answer-key
func (h *AnswerKeyHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ws.Keys.Get())
}

// Set handles PUT /v1/answer-key/{question}
func (h *AnswerKeyHandler) Set(w http.ResponseWriter, r *http.Request) {
	question, err := strconv.Atoi(mux.Vars(r)["question"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "question must be a number")
		return
	}

	var req SetChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	choice, err := model.ParseChoice(req.Choice)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if choice == model.ChoiceNone {
		writeError(w, http.StatusBadRequest, "choice must be one of A, B, C, D")
		return
	}

	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	if err := ws.Keys.Set(r.Context(), question, choice); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ws.Keys.Get())
}
