package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/user/site-cloner/internal/delivery/http/request"
	"github.com/user/site-cloner/internal/delivery/http/response"
	"github.com/user/site-cloner/internal/entity"
	"github.com/user/site-cloner/internal/preview"
	"github.com/user/site-cloner/internal/usecase"
	"go.uber.org/zap"
)

const (
	healthCheckTimeout = 2 * time.Second
	maxCloneBodyBytes  = 64 << 10
)

// Pinger is a dependency reported by the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	cloner  usecase.Cloner
	pingers map[string]Pinger
	logger  *zap.Logger
}

// NewHandler creates the HTTP handlers. pingers maps a dependency name such as
// "redis" to its health probe and may be empty.
func NewHandler(cloner usecase.Cloner, pingers map[string]Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		cloner:  cloner,
		pingers: pingers,
		logger:  logger,
	}
}

func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Website Cloning API"})
}

func (h *Handler) HandleClone(w http.ResponseWriter, r *http.Request) {
	var req request.CloneRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxCloneBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.cloner.Clone(r.Context(), req.URL, req.Force)
	if err != nil {
		status, detail := cloneFailure(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("clone request failed", zap.String("url", req.URL), zap.Error(err))
		}
		h.writeError(w, status, detail)
		return
	}

	h.writeJSON(w, http.StatusOK, response.CloneResponse{
		HTML:   result.HTML,
		ID:     result.ID,
		URL:    result.URL,
		Cached: result.Cached,
	})
}

// cloneFailure maps a pipeline error to its HTTP status and client-facing detail.
func cloneFailure(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidURL):
		return http.StatusBadRequest, "Invalid URL. Provide a full http or https URL."
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Timed out while cloning the website."
	case errors.Is(err, usecase.ErrScrapeFailed), errors.Is(err, usecase.ErrEmptyPage):
		return http.StatusBadGateway, "Failed to scrape the website."
	case errors.Is(err, usecase.ErrSimplifyFailed):
		return http.StatusInternalServerError, "Failed to simplify the scraped HTML."
	case errors.Is(err, usecase.ErrGenerationFailed):
		return http.StatusBadGateway, "Failed to generate HTML from source."
	case errors.Is(err, usecase.ErrEmptyGeneration):
		return http.StatusInternalServerError, "Failed to generate HTML from source."
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.pingers))
	for name := range h.pingers {
		names = append(names, name)
	}
	sort.Strings(names)

	healthStatus := map[string]string{"status": "ok"}
	healthy := true
	for _, name := range names {
		if err := h.pingers[name].Ping(ctx); err != nil {
			healthStatus[name] = "unhealthy"
			healthy = false
			h.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			continue
		}
		healthStatus[name] = "healthy"
	}

	if !healthy {
		healthStatus["status"] = "degraded"
		h.writeJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	h.writeJSON(w, http.StatusOK, healthStatus)
}

func (h *Handler) HandleGetClone(w http.ResponseWriter, r *http.Request) {
	result, ok := h.lookup(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, response.CloneDetailResponse{
		ID:        result.ID,
		URL:       result.URL,
		HTML:      result.HTML,
		Scraper:   result.Scraper,
		CreatedAt: result.CreatedAt,
	})
}

func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	device := preview.DeviceDesktop
	if raw := r.URL.Query().Get("device"); raw != "" {
		d, err := preview.ParseDevice(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "device must be desktop or mobile")
			return
		}
		device = d
	}

	result, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := preview.SandboxPage(&buf, result.HTML, device); err != nil {
		h.logger.Error("failed to render preview", zap.String("id", result.ID), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to render preview")
		return
	}
	h.writeHTML(w, buf.Bytes())
}

func (h *Handler) HandleCode(w http.ResponseWriter, r *http.Request) {
	result, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := preview.CodePage(&buf, result.HTML); err != nil {
		h.logger.Error("failed to render code view", zap.String("id", result.ID), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to render code view")
		return
	}
	h.writeHTML(w, buf.Bytes())
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.cloner.History(r.Context(), limit)
	if err != nil {
		if errors.Is(err, usecase.ErrHistoryDisabled) {
			h.writeError(w, http.StatusServiceUnavailable, "Clone history is not configured")
			return
		}
		h.logger.Error("failed to list clone history", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Could not retrieve history")
		return
	}

	resp := make([]response.CloneRecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toRecordResponse(rec))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func toRecordResponse(rec *entity.CloneRecord) response.CloneRecordResponse {
	return response.CloneRecordResponse{
		ID:            rec.ID,
		URL:           rec.URL,
		Status:        rec.Status,
		FailureReason: rec.FailureReason,
		HTMLBytes:     rec.HTMLBytes,
		DurationMS:    rec.DurationMS,
		Cached:        rec.Cached,
		CreatedAt:     rec.CreatedAt,
	}
}

// lookup resolves the {id} route parameter, writing the error response itself
// when the clone cannot be returned.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*entity.CloneResult, bool) {
	id := chi.URLParam(r, "id")
	result, err := h.cloner.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "Clone not found")
			return nil, false
		}
		h.logger.Error("failed to load clone", zap.String("id", id), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Could not retrieve clone")
		return nil, false
	}
	return result, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, response.ErrorResponse{Detail: detail})
}

func (h *Handler) writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write HTML response", zap.Error(err))
	}
}
