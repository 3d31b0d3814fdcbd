package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/delivery/http/request"
	"github.com/user/notice-crawler/internal/delivery/http/response"
	"github.com/user/notice-crawler/internal/repository"
	"github.com/user/notice-crawler/internal/usecase"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck pings one backing service.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	manager usecase.ScrapeManager
	checks  map[string]HealthCheck
	logger  *zap.Logger
}

func NewHandler(manager usecase.ScrapeManager, checks map[string]HealthCheck, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		manager: manager,
		checks:  checks,
		logger:  logger,
	}
}

func (h *Handler) HandleSubmitScrape(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if (req.MaxDepth != nil && *req.MaxDepth < 0) || (req.MaxPages != nil && *req.MaxPages <= 0) || (req.DelayMS != nil && *req.DelayMS < 0) {
		h.writeJSONError(w, "Invalid crawl limits", http.StatusBadRequest)
		return
	}

	scrapeReq := usecase.ScrapeRequest{
		URL:            req.URL,
		MaxDepth:       req.MaxDepth,
		MaxPages:       req.MaxPages,
		AllowedDomains: req.AllowedDomains,
	}
	if req.DelayMS != nil {
		d := time.Duration(*req.DelayMS) * time.Millisecond
		scrapeReq.Delay = &d
	}

	jobID, err := h.manager.Submit(r.Context(), scrapeReq)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidStartURL):
			h.writeJSONError(w, "Invalid URL format", http.StatusBadRequest)
		case errors.Is(err, usecase.ErrTooManyJobs):
			h.writeJSONError(w, err.Error(), http.StatusTooManyRequests)
		case errors.Is(err, usecase.ErrShuttingDown):
			h.writeJSONError(w, err.Error(), http.StatusServiceUnavailable)
		default:
			h.logger.Error("Failed to submit scrape job", zap.String("url", req.URL), zap.Error(err))
			h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusAccepted, response.SubmitScrapeResponse{
		Status:  "success",
		Message: "Scrape job submitted",
		JobID:   jobID,
	})
}

func (h *Handler) HandleGetScrapeStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	status, err := h.manager.GetStatus(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			h.writeJSONError(w, "Scrape job not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get scrape status", zap.String("job_id", jobID), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.FromJobStatus(status))
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	healthStatus := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			healthStatus[name] = "unhealthy"
			healthy = false
			h.logger.Error("Health check failed", zap.String("service", name), zap.Error(err))
			continue
		}
		healthStatus[name] = "healthy"
	}

	if !healthy {
		h.writeJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	h.writeJSON(w, http.StatusOK, healthStatus)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
