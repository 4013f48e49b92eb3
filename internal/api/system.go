package api

import (
	"net/http"
	"path/filepath"
	"time"
)

// Version is reported by the health and status endpoints.
var Version = "dev"

var startTime = time.Now()

func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(startTime).String(),
		"version":   Version,
	}

	jobs := h.queue.List()
	running := 0
	for _, job := range jobs {
		if job.Status == "running" {
			running++
		}
	}
	health["tracked_jobs"] = len(jobs)
	health["running_jobs"] = running

	h.writeSuccess(w, http.StatusOK, health, "Service is healthy")
}

func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	daemon := h.config.GetDaemon()
	cp := h.config.GetCopy()

	status := map[string]interface{}{
		"service":   "copyd",
		"version":   Version,
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(startTime).String(),
		"daemon": map[string]interface{}{
			"network": daemon.Network,
			"address": daemon.Address,
		},
		"copy": map[string]interface{}{
			"buffer_size":     cp.BufferSize,
			"max_threads":     cp.MaxThreads,
			"bandwidth_limit": cp.BandwidthLimit,
		},
	}

	// Get job summary
	if summary, err := h.queue.GetSummary(); err == nil {
		status["jobs"] = summary
	}

	h.writeSuccess(w, http.StatusOK, status, "")
}

// GetDiskStatus reports free space on the filesystem that would receive a
// copy to ?path=.
func (h *Handlers) GetDiskStatus(w http.ResponseWriter, r *http.Request) {
	if h.disk == nil {
		h.writeError(w, http.StatusServiceUnavailable, "Disk status is not available", nil)
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" || !filepath.IsAbs(path) {
		h.writeError(w, http.StatusBadRequest, "an absolute path is required", nil)
		return
	}

	status, err := h.disk.DiskStatus(path)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to get disk status", err)
		return
	}

	h.writeSuccess(w, http.StatusOK, status, "")
}
