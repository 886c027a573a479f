package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/transitlog/transitlog/internal/api/models"
	"github.com/transitlog/transitlog/internal/api/response"
	"github.com/transitlog/transitlog/internal/transport"
)

// StopsHandler handles transit stop endpoints.
type StopsHandler struct {
	transportService *transport.Service
}

// NewStopsHandler creates a new StopsHandler.
func NewStopsHandler(transportService *transport.Service) *StopsHandler {
	return &StopsHandler{
		transportService: transportService,
	}
}

// ListStops handles GET /v1/transport/stops - list all transit stops.
func (h *StopsHandler) ListStops(w http.ResponseWriter, r *http.Request) {
	stops, err := h.transportService.ListStops(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to load transit stops")
		return
	}

	out := make([]models.Stop, 0, len(stops))
	for _, s := range stops {
		out = append(out, models.Stop{
			ID:        s.ID,
			Name:      s.Name,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
		})
	}

	response.JSON(w, r, http.StatusOK, out)
}

// GetStop handles GET /v1/transport/stops/{stopId} - get one transit stop.
func (h *StopsHandler) GetStop(w http.ResponseWriter, r *http.Request) {
	stopID, err := strconv.ParseInt(chi.URLParam(r, "stopId"), 10, 64)
	if err != nil {
		response.BadRequest(w, r, "stopId must be an integer", nil)
		return
	}

	stop, err := h.transportService.GetStop(r.Context(), stopID)
	if err != nil {
		if errors.Is(err, transport.ErrStopNotFound) {
			response.NotFound(w, r, "transit stop not found")
			return
		}
		response.InternalError(w, r, "failed to load transit stop")
		return
	}

	response.JSON(w, r, http.StatusOK, models.Stop{
		ID:        stop.ID,
		Name:      stop.Name,
		Latitude:  stop.Latitude,
		Longitude: stop.Longitude,
	})
}
