package claim

// SubmitClaimRequest represents the request to claim a quantity of an item
type SubmitClaimRequest struct {
	TripID   string `json:"trip_id" validate:"required"`
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// ItemClaimStatus summarizes the ledger state of one item
type ItemClaimStatus struct {
	ItemID            string `json:"item_id"`
	QuantityNeeded    int    `json:"quantity_needed"`
	ClaimedQuantity   int    `json:"claimed_quantity"`
	RemainingQuantity int    `json:"remaining_quantity"`
	IsFullyClaimed    bool   `json:"is_fully_claimed"`
}
