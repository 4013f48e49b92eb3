package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"copyd/internal/config"
	"copyd/internal/interfaces"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

type Handlers struct {
	queue    interfaces.JobQueue
	disk     interfaces.DiskMonitor
	history  interfaces.JobHistory
	config   *config.Config
	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
}

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// NewHandlers wires the API. disk and history may be nil.
func NewHandlers(jobQueue interfaces.JobQueue, disk interfaces.DiskMonitor, history interfaces.JobHistory, cfg *config.Config) *Handlers {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handlers{
		ctx:     ctx,
		cancel:  cancel,
		queue:   jobQueue,
		disk:    disk,
		history: history,
		config:  cfg,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		Error:           h.upgradeError,
	}
	return h
}

func (h *Handlers) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api/v1").Subrouter()

	// Job management endpoints. Fixed paths come before /jobs/{id}.
	api.HandleFunc("/jobs", h.CreateJob).Methods("POST")
	api.HandleFunc("/jobs", h.GetJobs).Methods("GET")
	api.HandleFunc("/jobs/summary", h.GetJobSummary).Methods("GET")
	api.HandleFunc("/jobs/history", h.GetJobHistory).Methods("GET")
	api.HandleFunc("/jobs/watch", h.WatchJobs).Methods("GET")
	api.HandleFunc("/jobs/{id}", h.GetJob).Methods("GET")
	api.HandleFunc("/jobs/{id}/suspend", h.SuspendJob).Methods("POST")
	api.HandleFunc("/jobs/{id}/resume", h.ResumeJob).Methods("POST")
	api.HandleFunc("/jobs/{id}/cancel", h.CancelJob).Methods("POST")

	// System endpoints
	api.HandleFunc("/health", h.HealthCheck).Methods("GET")
	api.HandleFunc("/status", h.GetStatus).Methods("GET")
	api.HandleFunc("/disk", h.GetDiskStatus).Methods("GET")

	api.Use(corsMiddleware)
	api.Use(loggingMiddleware)
	api.Use(jsonContentTypeMiddleware)

	// Route middleware is skipped on a method mismatch, so CORS preflight
	// requests are answered here.
	api.MethodNotAllowedHandler = corsMiddleware(loggingMiddleware(jsonContentTypeMiddleware(
		http.HandlerFunc(h.methodNotAllowed))))
}

func (h *Handlers) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, http.StatusMethodNotAllowed, "Method "+r.Method+" not allowed", nil)
}

func (h *Handlers) writeSuccess(w http.ResponseWriter, statusCode int, data interface{}, message string) {
	w.WriteHeader(statusCode)
	response := APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, statusCode int, message string, err error) {
	w.WriteHeader(statusCode)
	response := APIResponse{
		Success: false,
		Error:   message,
	}

	if err != nil {
		slog.Error("API error", "message", message, "error", err)
	} else {
		slog.Warn("API error", "message", message)
	}

	if jsonErr := json.NewEncoder(w).Encode(response); jsonErr != nil {
		slog.Error("failed to encode error response", "error", jsonErr)
	}
}
