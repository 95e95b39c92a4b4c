package claim

import "time"

// ClaimStatus represents the lifecycle state of a claim
type ClaimStatus string

const (
	StatusPending   ClaimStatus = "pending"
	StatusAccepted  ClaimStatus = "accepted"
	StatusRejected  ClaimStatus = "rejected"
	StatusCancelled ClaimStatus = "cancelled"
)

// IsActive reports whether the claim counts toward an item's claimed quantity
func (s ClaimStatus) IsActive() bool {
	return s == StatusPending || s == StatusAccepted
}

// IsTerminal reports whether the status admits no further transition
func (s ClaimStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// CanTransitionTo reports whether the status may legally move to the target.
// A pending claim can be accepted, rejected or cancelled; an accepted claim
// can still be withdrawn.
func (s ClaimStatus) CanTransitionTo(target ClaimStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusAccepted || target == StatusRejected || target == StatusCancelled
	case StatusAccepted:
		return target == StatusCancelled
	}
	return false
}

// ItemClaim represents one member's pledge against one trip item
type ItemClaim struct {
	ID              string      `json:"id"`
	TripID          string      `json:"trip_id"`
	ItemID          string      `json:"item_id"`
	ClaimerUserID   string      `json:"claimer_user_id"`
	QuantityClaimed int         `json:"quantity_claimed"`
	Status          ClaimStatus `json:"status"`
	ClaimedAt       time.Time   `json:"claimed_at"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
}
