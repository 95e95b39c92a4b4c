package trip

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bulkmates/bulkmates-api/internal/database"
	"github.com/bulkmates/bulkmates-api/internal/group"
	"github.com/bulkmates/bulkmates-api/pkg/middleware"
	"github.com/bulkmates/bulkmates-api/pkg/response"
)

// Handler handles HTTP requests for trip operations
type Handler struct {
	service *Service
}

// NewHandler creates a new trip handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for trip endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Put("/{id}/status", h.UpdateStatus)
	r.Post("/{id}/join", h.Join)
	r.Post("/{id}/invite", h.Invite)
	r.Post("/{id}/leave", h.Leave)
	r.Put("/{id}/members/{userId}/role", h.ChangeRole)

	r.Post("/{id}/items", h.AddItem)
	r.Get("/{id}/items", h.ListItems)
	r.Put("/{id}/items/{itemId}", h.UpdateItem)
	r.Delete("/{id}/items/{itemId}", h.DeleteItem)

	r.Post("/{id}/requests", h.RequestItem)
	r.Get("/{id}/requests", h.ListItemRequests)
	r.Put("/{id}/requests/{requestId}", h.ResolveItemRequest)

	return r
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrTripNotFound), errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrRequestNotFound), errors.Is(err, group.ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotAuthorized), errors.Is(err, ErrNotGroupMember):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidStatusChange), errors.Is(err, ErrTripClosed),
		errors.Is(err, ErrLastAdmin), errors.Is(err, ErrRequestAlreadyResolved),
		errors.Is(err, ErrAlreadyParticipant):
		response.Conflict(w, err.Error())
	case errors.Is(err, database.ErrStaleSnapshot):
		response.StaleSnapshot(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

// Create handles POST /trips
// @Summary      Create a trip
// @Description  Plan a new trip inside one of the caller's groups
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        request body CreateTripRequest true "Trip creation request"
// @Success      201 {object} response.APIResponse{data=TripResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /trips [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.GroupID == "" || req.Name == "" {
		response.BadRequest(w, "Group ID and name are required")
		return
	}
	if req.ScheduledDate.IsZero() {
		response.BadRequest(w, "Scheduled date is required")
		return
	}

	t, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		h.writeServiceError(w, err, "Failed to create trip")
		return
	}

	response.JSON(w, http.StatusCreated, t.ToResponse(nil))
}

// List handles GET /trips
// @Summary      List trips
// @Description  List the caller's trips, or a group's trips with ?group_id=
// @Tags         trips
// @Produce      json
// @Param        group_id query string false "Group ID"
// @Success      200 {object} response.APIResponse{data=[]TripResponse}
// @Router       /trips [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var trips []*Trip
	var err error
	if groupID := r.URL.Query().Get("group_id"); groupID != "" {
		trips, err = h.service.ListByGroup(r.Context(), userID, groupID)
	} else {
		trips, err = h.service.ListMine(r.Context(), userID)
	}
	if err != nil {
		h.writeServiceError(w, err, "Failed to list trips")
		return
	}

	resp := make([]*TripResponse, len(trips))
	for i, t := range trips {
		resp[i] = t.ToResponse(nil)
	}

	response.JSON(w, http.StatusOK, resp)
}

// GetByID handles GET /trips/{id}
// @Summary      Get trip by ID
// @Description  Get a trip with its item list
// @Tags         trips
// @Produce      json
// @Param        id path string true "Trip ID"
// @Success      200 {object} response.APIResponse{data=TripResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /trips/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	t, err := h.service.GetByID(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get trip")
		return
	}

	items, err := h.service.ListItems(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get trip items")
		return
	}

	response.JSON(w, http.StatusOK, t.ToResponse(items))
}

// Update handles PUT /trips/{id}
// @Summary      Update a trip
// @Description  Update trip details. Trip editors only.
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        id path string true "Trip ID"
// @Param        request body UpdateTripRequest true "Trip update request"
// @Success      200 {object} response.APIResponse{data=TripResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /trips/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	var req UpdateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	t, err := h.service.Update(r.Context(), userID, id, &req)
	if err != nil {
		h.writeServiceError(w, err, "Failed to update trip")
		return
	}

	response.JSON(w, http.StatusOK, t.ToResponse(nil))
}

// UpdateStatus handles PUT /trips/{id}/status
// @Summary      Change trip status
// @Description  Move the trip through its lifecycle. Completion backfills delivery records for accepted claims.
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        id path string true "Trip ID"
// @Param        request body UpdateStatusRequest true "Status change request"
// @Success      200 {object} response.APIResponse{data=TripResponse}
// @Failure      409 {object} response.APIResponse
// @Router       /trips/{id}/status [put]
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	t, err := h.service.UpdateStatus(r.Context(), userID, id, req.Status)
	if err != nil {
		h.writeServiceError(w, err, "Failed to update trip status")
		return
	}

	response.JSON(w, http.StatusOK, t.ToResponse(nil))
}

// Join handles POST /trips/{id}/join
// @Summary      Join a trip
// @Description  Join the trip as a viewer participant
// @Tags         trips
// @Produce      json
// @Param        id path string true "Trip ID"
// @Success      200 {object} response.APIResponse{data=TripResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /trips/{id}/join [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	t, err := h.service.Join(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to join trip")
		return
	}

	response.JSON(w, http.StatusOK, t.ToResponse(nil))
}

// Invite handles POST /trips/{id}/invite
// @Summary      Invite a group member to a trip
// @Description  Send a trip invitation to another member of the trip's group
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        id path string true "Trip ID"
// @Param        request body InviteMemberRequest true "Invitation request"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /trips/{id}/invite [post]
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	var req InviteMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.UserID == "" {
		response.BadRequest(w, "User ID is required")
		return
	}

	if err := h.service.Invite(r.Context(), userID, id, req.UserID); err != nil {
		h.writeServiceError(w, err, "Failed to send invitation")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Invitation sent"})
}

// Leave handles POST /trips/{id}/leave
// @Summary      Leave a trip
// @Description  Leave the trip. The last admin cannot leave.
// @Tags         trips
// @Produce      json
// @Param        id path string true "Trip ID"
// @Success      200 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /trips/{id}/leave [post]
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.Leave(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, err, "Failed to leave trip")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Left trip successfully"})
}

// ChangeRole handles PUT /trips/{id}/members/{userId}/role
// @Summary      Change a member's trip role
// @Description  Promote to admin or demote to viewer. Trip editors only. The last admin cannot be demoted.
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        id path string true "Trip ID"
// @Param        userId path string true "Target user ID"
// @Param        request body ChangeRoleRequest true "Role change request"
// @Success      200 {object} response.APIResponse{data=TripResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /trips/{id}/members/{userId}/role [put]
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")
	targetID := chi.URLParam(r, "userId")

	var req ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	t, err := h.service.ChangeRole(r.Context(), userID, id, targetID, req.Role)
	if err != nil {
		h.writeServiceError(w, err, "Failed to change role")
		return
	}

	response.JSON(w, http.StatusOK, t.ToResponse(nil))
}

// AddItem handles POST /trips/{id}/items
// @Summary      Add an item
// @Description  Add an item to the trip list. Trip editors only.
// @Tags         trip-items
// @Accept       json
// @Produce      json
// @Param        id path string true "Trip ID"
// @Param        request body AddItemRequest true "Item creation request"
// @Success      201 {object} response.APIResponse{data=TripItem}
// @Failure      403 {object} response.APIResponse
// @Router       /trips/{id}/items [post]
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" || req.QuantityNeeded <= 0 {
		response.BadRequest(w, "Name and a positive quantity are required")
		return
	}

	item, err := h.service.AddItem(r.Context(), userID, id, &req)
	if err != nil {
		h.writeServiceError(w, err, "Failed to add item")
		return
	}

	response.JSON(w, http.StatusCreated, item)
}

// ListItems handles GET /trips/{id}/items
// @Summary      List trip items
// @Tags         trip-items
// @Produce      json
// @Param        id path string true "Trip ID"
// @Success      200 {object} response.APIResponse{data=[]TripItem}
// @Router       /trips/{id}/items [get]
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	items, err := h.service.ListItems(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to list items")
		return
	}

	response.JSON(w, http.StatusOK, items)
}

// UpdateItem handles PUT /trips/{id}/items/{itemId}
// @Summary      Update an item
// @Description  Update a trip item. Trip editors only.
// @Tags         trip-items
// @Accept       json
// @Produce      json
// @Param        id path string true "Trip ID"
// @Param        itemId path string true "Item ID"
// @Param        request body UpdateItemRequest true "Item update request"
// @Success      200 {object} response.APIResponse{data=TripItem}
// @Failure      403 {object} response.APIResponse
// @Router       /trips/{id}/items/{itemId} [put]
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemId")

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	item, err := h.service.UpdateItem(r.Context(), userID, id, itemID, &req)
	if err != nil {
		h.writeServiceError(w, err, "Failed to update item")
		return
	}

	response.JSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /trips/{id}/items/{itemId}
// @Summary      Delete an item
// @Description  Remove a trip item. Trip editors only.
// @Tags         trip-items
// @Produce      json
// @Param        id path string true "Trip ID"
// @Param        itemId path string true "Item ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /trips/{id}/items/{itemId} [delete]
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemId")

	if err := h.service.DeleteItem(r.Context(), userID, id, itemID); err != nil {
		h.writeServiceError(w, err, "Failed to delete item")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
}

// RequestItem handles POST /trips/{id}/requests
// @Summary      Request an item
// @Description  Ask trip editors to add an item to the list
// @Tags         item-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Trip ID"
// @Param        request body RequestItemRequest true "Item request"
// @Success      201 {object} response.APIResponse{data=ItemRequest}
// @Failure      403 {object} response.APIResponse
// @Router       /trips/{id}/requests [post]
func (h *Handler) RequestItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	var req RequestItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.ItemName == "" || req.QuantityRequested <= 0 {
		response.BadRequest(w, "Item name and a positive quantity are required")
		return
	}

	request, err := h.service.RequestItem(r.Context(), userID, id, &req)
	if err != nil {
		h.writeServiceError(w, err, "Failed to request item")
		return
	}

	response.JSON(w, http.StatusCreated, request)
}

// ListItemRequests handles GET /trips/{id}/requests
// @Summary      List item requests
// @Tags         item-requests
// @Produce      json
// @Param        id path string true "Trip ID"
// @Success      200 {object} response.APIResponse{data=[]ItemRequest}
// @Router       /trips/{id}/requests [get]
func (h *Handler) ListItemRequests(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	requests, err := h.service.ListItemRequests(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to list item requests")
		return
	}

	response.JSON(w, http.StatusOK, requests)
}

// ResolveItemRequest handles PUT /trips/{id}/requests/{requestId}
// @Summary      Resolve an item request
// @Description  Approve or reject a pending item request. Trip editors only. Approval appends the item to the list.
// @Tags         item-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Trip ID"
// @Param        requestId path string true "Request ID"
// @Param        request body ResolveItemRequestRequest true "Resolution"
// @Success      200 {object} response.APIResponse{data=ItemRequest}
// @Failure      409 {object} response.APIResponse
// @Router       /trips/{id}/requests/{requestId} [put]
func (h *Handler) ResolveItemRequest(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "id")
	requestID := chi.URLParam(r, "requestId")

	var req ResolveItemRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	request, item, err := h.service.ResolveItemRequest(r.Context(), userID, id, requestID, req.Approve)
	if err != nil {
		h.writeServiceError(w, err, "Failed to resolve item request")
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{"request": request, "item": item})
}
