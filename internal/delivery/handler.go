package delivery

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bulkmates/bulkmates-api/internal/claim"
	"github.com/bulkmates/bulkmates-api/internal/trip"
	"github.com/bulkmates/bulkmates-api/pkg/middleware"
	"github.com/bulkmates/bulkmates-api/pkg/response"
)

// Handler handles HTTP requests for delivery operations
type Handler struct {
	service *Service
}

// NewHandler creates a new delivery handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for delivery endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}/confirm", h.Confirm)

	return r
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrDeliveryNotFound), errors.Is(err, claim.ErrClaimNotFound),
		errors.Is(err, trip.ErrTripNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotAuthorized), errors.Is(err, trip.ErrNotGroupMember):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrDeliveryExists), errors.Is(err, ErrAlreadyConfirmed),
		errors.Is(err, ErrClaimNotAccepted):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

// Create handles POST /deliveries
// @Summary      Create a delivery record
// @Description  Create the delivery record for an accepted claim. Trip editors or the shopper only.
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        request body CreateDeliveryRequest true "Delivery creation request"
// @Success      201 {object} response.APIResponse{data=ItemDelivery}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /deliveries [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req CreateDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.ClaimID == "" {
		response.BadRequest(w, "Claim ID is required")
		return
	}

	d, err := h.service.CreateFromClaim(r.Context(), userID, req.ClaimID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to create delivery")
		return
	}

	response.JSON(w, http.StatusCreated, d)
}

// List handles GET /deliveries
// @Summary      List deliveries
// @Description  List the caller's deliveries. ?direction=incoming|outgoing, or ?trip_id= for a trip's deliveries.
// @Tags         deliveries
// @Produce      json
// @Param        trip_id query string false "Trip ID"
// @Param        direction query string false "incoming or outgoing" default(incoming)
// @Success      200 {object} response.APIResponse{data=[]ItemDelivery}
// @Router       /deliveries [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var deliveries []*ItemDelivery
	var err error
	switch {
	case r.URL.Query().Get("trip_id") != "":
		deliveries, err = h.service.ListByTrip(r.Context(), userID, r.URL.Query().Get("trip_id"))
	case r.URL.Query().Get("direction") == "outgoing":
		deliveries, err = h.service.ListOutgoing(r.Context(), userID)
	default:
		deliveries, err = h.service.ListIncoming(r.Context(), userID)
	}
	if err != nil {
		h.writeServiceError(w, err, "Failed to list deliveries")
		return
	}

	response.JSON(w, http.StatusOK, deliveries)
}

// GetByID handles GET /deliveries/{id}
// @Summary      Get delivery by ID
// @Tags         deliveries
// @Produce      json
// @Param        id path string true "Delivery ID"
// @Success      200 {object} response.APIResponse{data=ItemDelivery}
// @Failure      404 {object} response.APIResponse
// @Router       /deliveries/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	d, err := h.service.GetByID(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get delivery")
		return
	}

	response.JSON(w, http.StatusOK, d)
}

// Confirm handles PUT /deliveries/{id}/confirm
// @Summary      Confirm a delivery
// @Description  Mark the handoff as delivered. Receiver or deliverer only. Terminal.
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        id path string true "Delivery ID"
// @Param        request body ConfirmDeliveryRequest false "Optional confirmation note"
// @Success      200 {object} response.APIResponse{data=ItemDelivery}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /deliveries/{id}/confirm [put]
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	var req ConfirmDeliveryRequest
	if r.Body != nil {
		// The note is optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	d, err := h.service.Confirm(r.Context(), userID, id, req.ConfirmationNote)
	if err != nil {
		h.writeServiceError(w, err, "Failed to confirm delivery")
		return
	}

	response.JSON(w, http.StatusOK, d)
}
