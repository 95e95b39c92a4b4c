package settlement

import "time"

// TransactionStatus represents the lifecycle state of a settlement obligation
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusSettled   TransactionStatus = "settled"
	StatusDisputed  TransactionStatus = "disputed"
	StatusCancelled TransactionStatus = "cancelled"
)

// IsTerminal reports whether the status admits no further transition
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusSettled || s == StatusCancelled
}

// CanTransitionTo reports whether the status may legally move to the target
func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusSettled || target == StatusDisputed || target == StatusCancelled
	case StatusDisputed:
		return target == StatusSettled || target == StatusCancelled
	}
	return false
}

// CountsTowardBalance reports whether transactions in this status feed the
// balance fold. Settled obligations are discharged and cancelled ones void.
func (s TransactionStatus) CountsTowardBalance() bool {
	return s == StatusPending || s == StatusDisputed
}

// Transaction represents one pairwise settlement obligation derived from a
// trip's accepted claims. FromUserID owes ToUserID.
type Transaction struct {
	ID           string            `json:"id"`
	TripID       string            `json:"trip_id"`
	FromUserID   string            `json:"from_user_id"`
	ToUserID     string            `json:"to_user_id"`
	ItemPoints   float64           `json:"item_points"`
	ItemClaimIDs []string          `json:"item_claim_ids"`
	Status       TransactionStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	SettledAt    *time.Time        `json:"settled_at,omitempty"`
	Notes        *string           `json:"notes,omitempty"`
}

// UserBalance is a projection over a user's outstanding transactions. It is
// always recomputed from the transaction set, never written directly.
type UserBalance struct {
	UserID           string  `json:"user_id"`
	TotalItemsOwed   float64 `json:"total_items_owed"`
	TotalItemsOwedTo float64 `json:"total_items_owed_to"`
	NetItemBalance   float64 `json:"net_item_balance"`
}
