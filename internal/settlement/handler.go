package settlement

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bulkmates/bulkmates-api/internal/trip"
	"github.com/bulkmates/bulkmates-api/pkg/middleware"
	"github.com/bulkmates/bulkmates-api/pkg/response"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/balance", h.Balance)
	r.Post("/trips/{tripId}/generate", h.Generate)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}/settle", h.Settle)
	r.Put("/{id}/dispute", h.Dispute)
	r.Put("/{id}/cancel", h.Cancel)

	return r
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrTransactionNotFound), errors.Is(err, trip.ErrTripNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotAuthorized), errors.Is(err, trip.ErrNotGroupMember):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidStatusChange), errors.Is(err, ErrNothingToSettle):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

// Generate handles POST /settlements/trips/{tripId}/generate
// @Summary      Derive a trip's transactions
// @Description  Fold the trip's uncovered accepted claims into pending pairwise transactions. Trip editors or the shopper only.
// @Tags         settlements
// @Produce      json
// @Param        tripId path string true "Trip ID"
// @Success      201 {object} response.APIResponse{data=GenerateResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/trips/{tripId}/generate [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	tripID := chi.URLParam(r, "tripId")

	result, err := h.service.GenerateForTrip(r.Context(), userID, tripID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to generate transactions")
		return
	}

	response.JSON(w, http.StatusCreated, result)
}

// List handles GET /settlements
// @Summary      List transactions
// @Description  List the caller's transactions, or a trip's transactions with ?trip_id=
// @Tags         settlements
// @Produce      json
// @Param        trip_id query string false "Trip ID"
// @Success      200 {object} response.APIResponse{data=[]Transaction}
// @Router       /settlements [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var txs []*Transaction
	var err error
	if tripID := r.URL.Query().Get("trip_id"); tripID != "" {
		txs, err = h.service.ListByTrip(r.Context(), userID, tripID)
	} else {
		txs, err = h.service.ListMine(r.Context(), userID)
	}
	if err != nil {
		h.writeServiceError(w, err, "Failed to list transactions")
		return
	}

	response.JSON(w, http.StatusOK, txs)
}

// Balance handles GET /settlements/balance
// @Summary      Get my balance
// @Description  Net position over the caller's outstanding transactions
// @Tags         settlements
// @Produce      json
// @Success      200 {object} response.APIResponse{data=UserBalance}
// @Router       /settlements/balance [get]
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	b, err := h.service.Balance(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to compute balance")
		return
	}

	response.JSON(w, http.StatusOK, b)
}

// GetByID handles GET /settlements/{id}
// @Summary      Get transaction by ID
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Success      200 {object} response.APIResponse{data=Transaction}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	t, err := h.service.GetByID(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get transaction")
		return
	}

	response.JSON(w, http.StatusOK, t)
}

func (h *Handler) decodeNotes(r *http.Request) *string {
	var req SettleRequest
	if r.Body != nil {
		// Notes are optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	return req.Notes
}

// Settle handles PUT /settlements/{id}/settle
// @Summary      Settle a transaction
// @Description  Mark the obligation paid. Only the owed party may settle.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Param        request body SettleRequest false "Optional notes"
// @Success      200 {object} response.APIResponse{data=Transaction}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/{id}/settle [put]
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	t, err := h.service.Settle(r.Context(), userID, id, h.decodeNotes(r))
	if err != nil {
		h.writeServiceError(w, err, "Failed to settle transaction")
		return
	}

	response.JSON(w, http.StatusOK, t)
}

// Dispute handles PUT /settlements/{id}/dispute
// @Summary      Dispute a transaction
// @Description  Flag a pending obligation as contested. Either party may dispute.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Param        request body SettleRequest false "Optional notes"
// @Success      200 {object} response.APIResponse{data=Transaction}
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/{id}/dispute [put]
func (h *Handler) Dispute(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	t, err := h.service.Dispute(r.Context(), userID, id, h.decodeNotes(r))
	if err != nil {
		h.writeServiceError(w, err, "Failed to dispute transaction")
		return
	}

	response.JSON(w, http.StatusOK, t)
}

// Cancel handles PUT /settlements/{id}/cancel
// @Summary      Cancel a transaction
// @Description  Void an outstanding obligation. Either party may cancel.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Param        request body SettleRequest false "Optional notes"
// @Success      200 {object} response.APIResponse{data=Transaction}
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/{id}/cancel [put]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	t, err := h.service.Cancel(r.Context(), userID, id, h.decodeNotes(r))
	if err != nil {
		h.writeServiceError(w, err, "Failed to cancel transaction")
		return
	}

	response.JSON(w, http.StatusOK, t)
}
