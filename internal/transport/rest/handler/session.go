package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"sheetgrader/internal/model"
	"sheetgrader/internal/service"
)

// SessionHandler drives the scan flow of the caller's workspace
type SessionHandler struct {
	workspaces *service.WorkspaceService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(workspaces *service.WorkspaceService) *SessionHandler {
	return &SessionHandler{workspaces: workspaces}
}

// CameraUnavailableRequest is the optional body when the client cannot open the camera
type CameraUnavailableRequest struct {
	Message string `json:"message"`
}

// Get handles GET /v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ws.Session.Snapshot())
}

// OpenCamera handles POST /v1/session/camera
func (h *SessionHandler) OpenCamera(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*service.ScanSession).OpenCamera)
}

// CloseCamera handles DELETE /v1/session/camera
func (h *SessionHandler) CloseCamera(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*service.ScanSession).CloseCamera)
}

// Dismiss handles POST /v1/session/dismiss
func (h *SessionHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*service.ScanSession).Dismiss)
}

// ClearError handles DELETE /v1/session/error
func (h *SessionHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(s *service.ScanSession) error {
		s.ClearError()
		return nil
	})
}

// CameraUnavailable handles POST /v1/session/camera/unavailable
func (h *SessionHandler) CameraUnavailable(w http.ResponseWriter, r *http.Request) {
	var req CameraUnavailableRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	h.transition(w, r, func(s *service.ScanSession) error {
		return s.ReportCameraUnavailable(req.Message)
	})
}

// Scan handles POST /v1/session/scan. Accepts a multipart "image" field or a raw image/jpeg body.
func (h *SessionHandler) Scan(w http.ResponseWriter, r *http.Request) {
	image, err := readImage(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	if err := ws.Session.Submit(r.Context(), image); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, ws.Session.Snapshot())
}

func (h *SessionHandler) transition(w http.ResponseWriter, r *http.Request, fn func(*service.ScanSession) error) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	if err := fn(ws.Session); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.Session.Snapshot())
}

func readImage(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxImageBytes+1<<20)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(service.MaxImageBytes); err != nil {
			return nil, errors.New("invalid multipart body")
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, errors.New("missing image field")
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.New("image too large")
	}
	if len(data) == 0 {
		return nil, model.ErrInvalidImage
	}
	return data, nil
}
