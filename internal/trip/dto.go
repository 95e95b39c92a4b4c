package trip

import "time"

// CreateTripRequest represents the request to create a new trip
type CreateTripRequest struct {
	GroupID       string    `json:"group_id" validate:"required"`
	Name          string    `json:"name" validate:"required,min=1,max=100"`
	TripType      TripType  `json:"trip_type,omitempty"`
	Store         string    `json:"store,omitempty"`
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
	Notes         *string   `json:"notes,omitempty"`
}

// UpdateTripRequest represents the request to update trip details
type UpdateTripRequest struct {
	Name          *string    `json:"name,omitempty"`
	Store         *string    `json:"store,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// UpdateStatusRequest represents a trip status transition request
type UpdateStatusRequest struct {
	Status TripStatus `json:"status" validate:"required"`
}

// InviteMemberRequest represents a trip invitation to a group member
type InviteMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// ChangeRoleRequest represents a role change for a trip member
type ChangeRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=admin viewer"`
}

// AddItemRequest represents the request to add an item to the trip list
type AddItemRequest struct {
	Name               string  `json:"name" validate:"required,min=1,max=100"`
	Category           string  `json:"category,omitempty"`
	QuantityNeeded     int     `json:"quantity_needed" validate:"required,gt=0"`
	EstimatedUnitPrice float64 `json:"estimated_unit_price" validate:"gte=0"`
	Notes              *string `json:"notes,omitempty"`
}

// UpdateItemRequest represents the request to update a trip item
type UpdateItemRequest struct {
	Name               *string  `json:"name,omitempty"`
	Category           *string  `json:"category,omitempty"`
	QuantityNeeded     *int     `json:"quantity_needed,omitempty"`
	EstimatedUnitPrice *float64 `json:"estimated_unit_price,omitempty"`
	Notes              *string  `json:"notes,omitempty"`
	IsCompleted        *bool    `json:"is_completed,omitempty"`
}

// RequestItemRequest represents a viewer's ask for an item to be added
type RequestItemRequest struct {
	ItemName          string  `json:"item_name" validate:"required,min=1,max=100"`
	QuantityRequested int     `json:"quantity_requested" validate:"required,gt=0"`
	Category          string  `json:"category,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// ResolveItemRequestRequest represents an editor's decision on an item request
type ResolveItemRequestRequest struct {
	Approve bool `json:"approve"`
}

// TripResponse represents the response for a trip with its items
type TripResponse struct {
	ID            string      `json:"id"`
	GroupID       string      `json:"group_id"`
	CreatorID     string      `json:"creator_id"`
	ShopperID     string      `json:"shopper_id"`
	Name          string      `json:"name"`
	TripType      TripType    `json:"trip_type"`
	Store         string      `json:"store"`
	ScheduledDate time.Time   `json:"scheduled_date"`
	Status        TripStatus  `json:"status"`
	Participants  []string    `json:"participants"`
	AdminIDs      []string    `json:"admin_ids"`
	ViewerIDs     []string    `json:"viewer_ids"`
	Notes         *string     `json:"notes,omitempty"`
	Items         []*TripItem `json:"items,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// ToResponse converts a Trip model to a TripResponse DTO
func (t *Trip) ToResponse(items []*TripItem) *TripResponse {
	return &TripResponse{
		ID:            t.ID,
		GroupID:       t.GroupID,
		CreatorID:     t.CreatorID,
		ShopperID:     t.ShopperID,
		Name:          t.Name,
		TripType:      t.TripType,
		Store:         t.Store,
		ScheduledDate: t.ScheduledDate,
		Status:        t.Status,
		Participants:  t.Participants,
		AdminIDs:      t.AdminIDs,
		ViewerIDs:     t.ViewerIDs,
		Notes:         t.Notes,
		Items:         items,
		CreatedAt:     t.CreatedAt,
	}
}
