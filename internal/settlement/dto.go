package settlement

// SettleRequest represents the request to mark a transaction settled
type SettleRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// GenerateResponse reports the outcome of deriving a trip's transactions
type GenerateResponse struct {
	Created       []*Transaction `json:"created"`
	CoveredClaims int            `json:"covered_claims"`
}
