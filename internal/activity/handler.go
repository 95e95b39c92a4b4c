package activity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bulkmates/bulkmates-api/internal/trip"
	"github.com/bulkmates/bulkmates-api/pkg/middleware"
	"github.com/bulkmates/bulkmates-api/pkg/response"
)

// Handler handles HTTP requests for activity operations
type Handler struct {
	service *Service
}

// NewHandler creates a new activity handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for activity endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/trips/{tripId}", h.Post)
	r.Get("/trips/{tripId}", h.ListByTrip)
	r.Put("/{id}/like", h.Like)
	r.Put("/{id}/unlike", h.Unlike)

	return r
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrActivityNotFound), errors.Is(err, trip.ErrTripNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, trip.ErrNotGroupMember):
		response.Forbidden(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

// Post handles POST /activities/trips/{tripId}
// @Summary      Post a feed entry
// @Description  Add a comment, photo, receipt or location to the trip's feed
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        tripId path string true "Trip ID"
// @Param        request body PostActivityRequest true "Feed entry"
// @Success      201 {object} response.APIResponse{data=PlanActivity}
// @Failure      403 {object} response.APIResponse
// @Router       /activities/trips/{tripId} [post]
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	tripID := chi.URLParam(r, "tripId")

	var req PostActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !req.Type.IsValid() || req.Type == TypeSystem {
		response.BadRequest(w, "Invalid activity type")
		return
	}

	a, err := h.service.Post(r.Context(), userID, tripID, &req)
	if err != nil {
		h.writeServiceError(w, err, "Failed to post activity")
		return
	}

	response.JSON(w, http.StatusCreated, a)
}

// ListByTrip handles GET /activities/trips/{tripId}
// @Summary      List a trip's feed
// @Description  Feed entries for the trip, newest first
// @Tags         activities
// @Produce      json
// @Param        tripId path string true "Trip ID"
// @Success      200 {object} response.APIResponse{data=[]PlanActivity}
// @Router       /activities/trips/{tripId} [get]
func (h *Handler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	tripID := chi.URLParam(r, "tripId")

	activities, err := h.service.ListByTrip(r.Context(), userID, tripID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to list activities")
		return
	}

	response.JSON(w, http.StatusOK, activities)
}

// Like handles PUT /activities/{id}/like
// @Summary      Like a feed entry
// @Tags         activities
// @Produce      json
// @Param        id path string true "Activity ID"
// @Success      200 {object} response.APIResponse{data=PlanActivity}
// @Failure      404 {object} response.APIResponse
// @Router       /activities/{id}/like [put]
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	a, err := h.service.Like(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to like activity")
		return
	}

	response.JSON(w, http.StatusOK, a)
}

// Unlike handles PUT /activities/{id}/unlike
// @Summary      Unlike a feed entry
// @Tags         activities
// @Produce      json
// @Param        id path string true "Activity ID"
// @Success      200 {object} response.APIResponse{data=PlanActivity}
// @Failure      404 {object} response.APIResponse
// @Router       /activities/{id}/unlike [put]
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	a, err := h.service.Unlike(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to unlike activity")
		return
	}

	response.JSON(w, http.StatusOK, a)
}
