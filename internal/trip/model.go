package trip

import "time"

// TripStatus represents the lifecycle state of a trip
type TripStatus string

const (
	StatusPlanned    TripStatus = "planned"
	StatusInProgress TripStatus = "in_progress"
	StatusCompleted  TripStatus = "completed"
	StatusCancelled  TripStatus = "cancelled"
)

// IsValid checks whether the status is a known trip status
func (s TripStatus) IsValid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transition
func (s TripStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the status may legally move to the target
func (s TripStatus) CanTransitionTo(target TripStatus) bool {
	switch s {
	case StatusPlanned:
		return target == StatusInProgress || target == StatusCancelled
	case StatusInProgress:
		return target == StatusCompleted || target == StatusCancelled
	}
	return false
}

// TripType categorizes what kind of plan a trip is
type TripType string

const (
	TypeShopping TripType = "shopping"
	TypeEvents   TripType = "events"
	TypeTrips    TripType = "trips"
)

// IsValid checks whether the type is a known trip type
func (t TripType) IsValid() bool {
	switch t {
	case TypeShopping, TypeEvents, TypeTrips:
		return true
	}
	return false
}

// Trip represents a coordinated plan with claimable items
type Trip struct {
	ID            string     `json:"id"`
	GroupID       string     `json:"group_id"`
	CreatorID     string     `json:"creator_id"`
	ShopperID     string     `json:"shopper_id"`
	Name          string     `json:"name"`
	TripType      TripType   `json:"trip_type"`
	Store         string     `json:"store"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	Status        TripStatus `json:"status"`
	Participants  []string   `json:"participants"`
	AdminIDs      []string   `json:"admin_ids"`
	ViewerIDs     []string   `json:"viewer_ids"`
	Notes         *string    `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TripItem represents one need within a trip's list
type TripItem struct {
	ID                 string    `json:"id"`
	TripID             string    `json:"trip_id"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	QuantityNeeded     int       `json:"quantity_needed"`
	EstimatedUnitPrice float64   `json:"estimated_unit_price"`
	Notes              *string   `json:"notes,omitempty"`
	IsCompleted        bool      `json:"is_completed"`
	Position           int       `json:"position"`
	CreatedAt          time.Time `json:"created_at"`
}

// RequestStatus represents the state of an item request
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// ItemRequest represents a viewer's ask for an item to be added to the list
type ItemRequest struct {
	ID                string        `json:"id"`
	TripID            string        `json:"trip_id"`
	RequesterUserID   string        `json:"requester_user_id"`
	ItemName          string        `json:"item_name"`
	QuantityRequested int           `json:"quantity_requested"`
	Category          string        `json:"category"`
	Notes             *string       `json:"notes,omitempty"`
	Status            RequestStatus `json:"status"`
	RequestedAt       time.Time     `json:"requested_at"`
}

// IsParticipant reports whether the user takes part in the trip
func (t *Trip) IsParticipant(userID string) bool {
	return contains(t.Participants, userID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
