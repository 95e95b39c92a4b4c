package claim

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bulkmates/bulkmates-api/internal/database"
	"github.com/bulkmates/bulkmates-api/internal/trip"
	"github.com/bulkmates/bulkmates-api/pkg/middleware"
	"github.com/bulkmates/bulkmates-api/pkg/response"
)

// Handler handles HTTP requests for claim operations
type Handler struct {
	service *Service
}

// NewHandler creates a new claim handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for claim endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Submit)
	r.Get("/", h.List)
	r.Get("/items/{itemId}/status", h.ItemStatus)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}/accept", h.Accept)
	r.Put("/{id}/reject", h.Reject)
	r.Put("/{id}/cancel", h.Cancel)

	return r
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrClaimNotFound), errors.Is(err, trip.ErrTripNotFound),
		errors.Is(err, trip.ErrItemNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotAuthorized), errors.Is(err, trip.ErrNotGroupMember):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInsufficientQuantity), errors.Is(err, ErrInvalidStatusChange),
		errors.Is(err, ErrAlreadyDelivered), errors.Is(err, trip.ErrTripClosed):
		response.Conflict(w, err.Error())
	case errors.Is(err, database.ErrStaleSnapshot):
		response.StaleSnapshot(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

// Submit handles POST /claims
// @Summary      Claim a quantity of an item
// @Description  Pledge to take a quantity of a trip item. Fails if the quantity exceeds what remains unclaimed.
// @Tags         claims
// @Accept       json
// @Produce      json
// @Param        request body SubmitClaimRequest true "Claim submission"
// @Success      201 {object} response.APIResponse{data=ItemClaim}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /claims [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req SubmitClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.TripID == "" || req.ItemID == "" {
		response.BadRequest(w, "Trip ID and item ID are required")
		return
	}
	if req.Quantity <= 0 {
		response.BadRequest(w, "Quantity must be positive")
		return
	}

	c, err := h.service.Submit(r.Context(), userID, &req)
	if err != nil {
		h.writeServiceError(w, err, "Failed to submit claim")
		return
	}

	response.JSON(w, http.StatusCreated, c)
}

// List handles GET /claims
// @Summary      List claims
// @Description  List the caller's claims, or a trip's claims with ?trip_id=
// @Tags         claims
// @Produce      json
// @Param        trip_id query string false "Trip ID"
// @Success      200 {object} response.APIResponse{data=[]ItemClaim}
// @Router       /claims [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var claims []*ItemClaim
	var err error
	if tripID := r.URL.Query().Get("trip_id"); tripID != "" {
		claims, err = h.service.ListByTrip(r.Context(), userID, tripID)
	} else {
		claims, err = h.service.ListMine(r.Context(), userID)
	}
	if err != nil {
		h.writeServiceError(w, err, "Failed to list claims")
		return
	}

	response.JSON(w, http.StatusOK, claims)
}

// ItemStatus handles GET /claims/items/{itemId}/status
// @Summary      Get an item's claim ledger status
// @Description  Claimed, remaining and fully-claimed summary for one trip item
// @Tags         claims
// @Produce      json
// @Param        itemId path string true "Item ID"
// @Param        trip_id query string true "Trip ID"
// @Success      200 {object} response.APIResponse{data=ItemClaimStatus}
// @Failure      404 {object} response.APIResponse
// @Router       /claims/items/{itemId}/status [get]
func (h *Handler) ItemStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	itemID := chi.URLParam(r, "itemId")
	tripID := r.URL.Query().Get("trip_id")
	if tripID == "" {
		response.BadRequest(w, "trip_id query parameter is required")
		return
	}

	status, err := h.service.ItemStatus(r.Context(), userID, tripID, itemID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get item status")
		return
	}

	response.JSON(w, http.StatusOK, status)
}

// GetByID handles GET /claims/{id}
// @Summary      Get claim by ID
// @Tags         claims
// @Produce      json
// @Param        id path string true "Claim ID"
// @Success      200 {object} response.APIResponse{data=ItemClaim}
// @Failure      404 {object} response.APIResponse
// @Router       /claims/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	c, err := h.service.GetByID(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get claim")
		return
	}

	response.JSON(w, http.StatusOK, c)
}

// Accept handles PUT /claims/{id}/accept
// @Summary      Accept a claim
// @Description  Accept a pending claim. Trip editors only.
// @Tags         claims
// @Produce      json
// @Param        id path string true "Claim ID"
// @Success      200 {object} response.APIResponse{data=ItemClaim}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /claims/{id}/accept [put]
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	c, err := h.service.Accept(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to accept claim")
		return
	}

	response.JSON(w, http.StatusOK, c)
}

// Reject handles PUT /claims/{id}/reject
// @Summary      Reject a claim
// @Description  Reject a pending claim. Trip editors only.
// @Tags         claims
// @Produce      json
// @Param        id path string true "Claim ID"
// @Success      200 {object} response.APIResponse{data=ItemClaim}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /claims/{id}/reject [put]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	c, err := h.service.Reject(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to reject claim")
		return
	}

	response.JSON(w, http.StatusOK, c)
}

// Cancel handles PUT /claims/{id}/cancel
// @Summary      Cancel a claim
// @Description  Withdraw the caller's own claim. Cancelling an accepted claim also cancels its pending transaction. Refused once delivered.
// @Tags         claims
// @Produce      json
// @Param        id path string true "Claim ID"
// @Success      200 {object} response.APIResponse{data=ItemClaim}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /claims/{id}/cancel [put]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	c, err := h.service.Cancel(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to cancel claim")
		return
	}

	response.JSON(w, http.StatusOK, c)
}
