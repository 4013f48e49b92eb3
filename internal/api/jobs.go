package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"copyd/internal/models"
	"copyd/internal/queue"

	"github.com/gorilla/mux"
)

type CreateJobRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

func (h *Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}

	// Validate required fields
	if req.Source == "" {
		h.writeError(w, http.StatusBadRequest, "source is required", nil)
		return
	}
	if req.Destination == "" {
		h.writeError(w, http.StatusBadRequest, "destination is required", nil)
		return
	}

	job, err := h.queue.Create(req.Source, req.Destination)
	if err != nil {
		var rejected *queue.AdmissionError
		if errors.As(err, &rejected) {
			h.writeError(w, http.StatusBadRequest, rejected.Reason, nil)
			return
		}
		h.writeError(w, statusFor(err), "Failed to create job", err)
		return
	}

	h.writeSuccess(w, http.StatusCreated, job, "Job created successfully")
}

// GetJobs lists the jobs the daemon currently tracks.
func (h *Handlers) GetJobs(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, http.StatusOK, h.queue.List(), "")
}

// GetJobHistory queries persisted jobs, including reaped ones.
func (h *Handlers) GetJobHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		h.writeError(w, http.StatusServiceUnavailable, "Job history is not available", nil)
		return
	}

	query := r.URL.Query()

	filter := models.JobFilter{}

	// Parse status filter, comma separated
	if statusStr := query.Get("status"); statusStr != "" {
		for _, s := range strings.Split(statusStr, ",") {
			status := models.JobStatus(strings.TrimSpace(s))
			if !status.Valid() {
				h.writeError(w, http.StatusBadRequest, "Invalid status: "+string(status), nil)
				return
			}
			filter.Status = append(filter.Status, status)
		}
	}

	// Parse pagination
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 1000 {
			filter.Limit = limit
		} else {
			filter.Limit = 50 // Default limit
		}
	} else {
		filter.Limit = 50
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	// Parse sorting
	if sortBy := query.Get("sort_by"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if sortOrder := query.Get("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}

	jobs, err := h.history.GetJobs(filter)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to get jobs", err)
		return
	}

	h.writeSuccess(w, http.StatusOK, jobs, "")
}

func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	job, err := h.queue.GetJob(id)
	if err != nil {
		h.writeError(w, statusFor(err), "Job not found", err)
		return
	}

	h.writeSuccess(w, http.StatusOK, job, "")
}

func (h *Handlers) SuspendJob(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.queue.Suspend, "suspend", "Job suspended successfully")
}

func (h *Handlers) ResumeJob(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.queue.Resume, "resume", "Job resumed successfully")
}

func (h *Handlers) CancelJob(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.queue.Cancel, "cancel", "Job cancelled successfully")
}

func (h *Handlers) control(w http.ResponseWriter, r *http.Request, action func(string) error, verb, message string) {
	id := mux.Vars(r)["id"]

	if err := action(id); err != nil {
		h.writeError(w, statusFor(err), "Failed to "+verb+" job: "+err.Error(), nil)
		return
	}

	job, err := h.queue.Snapshot(id)
	if err != nil {
		h.writeSuccess(w, http.StatusOK, nil, message)
		return
	}
	h.writeSuccess(w, http.StatusOK, job, message)
}

func (h *Handlers) GetJobSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.queue.GetSummary()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to get job summary", err)
		return
	}

	h.writeSuccess(w, http.StatusOK, summary, "")
}

// statusFor maps queue errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, queue.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, queue.ErrNotRunning):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
