package delivery

import (
	"errors"
	"time"

	"github.com/bulkmates/bulkmates-api/internal/claim"
)

// Model errors
var (
	ErrClaimNotAccepted = errors.New("delivery requires an accepted claim")
)

// ItemDelivery records the physical handoff for an accepted claim. One
// delivery exists per claim; confirmation is terminal and independent of
// the claim's financial settlement.
type ItemDelivery struct {
	ID               string     `json:"id"`
	TripID           string     `json:"trip_id"`
	ClaimID          string     `json:"claim_id"`
	ItemID           string     `json:"item_id"`
	ReceiverUserID   string     `json:"receiver_user_id"`
	DelivererUserID  string     `json:"deliverer_user_id"`
	IsDelivered      bool       `json:"is_delivered"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty"`
	ConfirmationNote *string    `json:"confirmation_note,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewFromClaim shapes a delivery record for an accepted claim. The claimer
// is the receiver; the deliverer is whoever fulfils the handoff.
func NewFromClaim(c *claim.ItemClaim, delivererUserID string) (*ItemDelivery, error) {
	if c.Status != claim.StatusAccepted {
		return nil, ErrClaimNotAccepted
	}

	return &ItemDelivery{
		TripID:          c.TripID,
		ClaimID:         c.ID,
		ItemID:          c.ItemID,
		ReceiverUserID:  c.ClaimerUserID,
		DelivererUserID: delivererUserID,
	}, nil
}
