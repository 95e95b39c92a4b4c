package delivery

// CreateDeliveryRequest represents the request to create a delivery record
type CreateDeliveryRequest struct {
	ClaimID string `json:"claim_id" validate:"required"`
}

// ConfirmDeliveryRequest represents the request to confirm a handoff
type ConfirmDeliveryRequest struct {
	ConfirmationNote *string `json:"confirmation_note,omitempty"`
}
