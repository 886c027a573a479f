package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/transitlog/transitlog/internal/api/models"
	"github.com/transitlog/transitlog/internal/api/response"
	"github.com/transitlog/transitlog/internal/commute"
	"github.com/transitlog/transitlog/internal/transport"
)

// CommuteHandler handles commute calculation and statistics endpoints.
// All routes require authentication.
type CommuteHandler struct {
	commuteService *commute.Service
}

// NewCommuteHandler creates a new CommuteHandler.
func NewCommuteHandler(commuteService *commute.Service) *CommuteHandler {
	return &CommuteHandler{
		commuteService: commuteService,
	}
}

// Calculate handles POST /v1/commute/calculate - estimate a trip, log it,
// and return the refreshed projection.
func (h *CommuteHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req models.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.commuteService.Calculate(r.Context(), userID, &req)
	if err != nil {
		var vErr *commute.ValidationError
		switch {
		case errors.As(err, &vErr):
			response.BadRequest(w, r, "validation error", vErr.Errors)
		case errors.Is(err, transport.ErrStopNotFound):
			response.NotFound(w, r, "transit stop not found")
		default:
			response.InternalError(w, r, "commute calculation failed")
		}
		return
	}

	location := fmt.Sprintf("/v1/commute/records/%d", result.ID)
	response.Created(w, r, location, result)
}

// GetStats handles GET /v1/commute/stats - overall user statistics.
func (h *CommuteHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	stats, err := h.commuteService.UserStats(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to load commute statistics")
		return
	}

	response.JSON(w, r, http.StatusOK, stats)
}

// GetDetailedStats handles GET /v1/commute/detailed-stats - bucketed rollups.
func (h *CommuteHandler) GetDetailedStats(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	stats, err := h.commuteService.DetailedStats(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to load commute statistics")
		return
	}

	response.JSON(w, r, http.StatusOK, stats)
}

// ListRecords handles GET /v1/commute/records - list logged trips.
func (h *CommuteHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	records, err := h.commuteService.ListRecords(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to load commute records")
		return
	}

	response.JSON(w, r, http.StatusOK, records)
}

// DeleteRecord handles DELETE /v1/commute/records/{recordId} - delete one
// logged trip owned by the authenticated user.
func (h *CommuteHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	recordID, err := strconv.ParseInt(chi.URLParam(r, "recordId"), 10, 64)
	if err != nil {
		response.BadRequest(w, r, "recordId must be an integer", nil)
		return
	}

	if err := h.commuteService.DeleteRecord(r.Context(), userID, recordID); err != nil {
		if errors.Is(err, commute.ErrRecordNotFound) {
			response.NotFound(w, r, "commute record not found")
			return
		}
		response.InternalError(w, r, "failed to delete commute record")
		return
	}

	response.NoContent(w, r)
}

// DeleteAllRecords handles DELETE /v1/commute/records - delete all of the
// authenticated user's logged trips.
func (h *CommuteHandler) DeleteAllRecords(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	if err := h.commuteService.DeleteAllRecords(r.Context(), userID); err != nil {
		response.InternalError(w, r, "failed to delete commute records")
		return
	}

	response.NoContent(w, r)
}
