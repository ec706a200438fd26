package rest

import (
	"net/http"
	"os"
	_ "sheetgrader/docs"
	"sheetgrader/internal/service"
	"sheetgrader/internal/transport/rest/handler"
	"sheetgrader/internal/transport/rest/middleware"
	"sheetgrader/internal/transport/ws"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	WorkspaceService *service.WorkspaceService
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	keyHandler := handler.NewAnswerKeyHandler(c.WorkspaceService)
	historyHandler := handler.NewHistoryHandler(c.WorkspaceService)
	sessionHandler := handler.NewSessionHandler(c.WorkspaceService)
	resultHandler := handler.NewResultHandler(c.WorkspaceService)
	wsHandler := ws.NewHandler(c.WSHub, c.WorkspaceService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API document
	r.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, `{"error":"api document unavailable"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/answer-key", keyHandler.Get).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/answer-key/{question}", keyHandler.Set).Methods("PUT", "OPTIONS")

	hostRoutes.HandleFunc("/history", historyHandler.List).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/history/summary", historyHandler.Summary).Methods("GET", "OPTIONS")

	hostRoutes.HandleFunc("/session", sessionHandler.Get).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/session/camera", sessionHandler.OpenCamera).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/session/camera", sessionHandler.CloseCamera).Methods("DELETE", "OPTIONS")
	hostRoutes.HandleFunc("/session/camera/unavailable", sessionHandler.CameraUnavailable).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/session/scan", sessionHandler.Scan).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/session/dismiss", sessionHandler.Dismiss).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/session/error", sessionHandler.ClearError).Methods("DELETE", "OPTIONS")

	// Archive routes
	hostRoutes.HandleFunc("/results", resultHandler.List).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/results/{id}", resultHandler.Get).Methods("GET", "OPTIONS")

	// WebSocket route (token in query param)
	hostRoutes.HandleFunc("/ws/session", wsHandler.SessionWS).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
