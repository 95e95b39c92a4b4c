package unit

// =============================================================================
// MONETARY UNIT
// Values a claim by quantity times the item's estimated unit price
// =============================================================================

// MonetaryStrategy implements the Strategy interface for money-valued claims
type MonetaryStrategy struct{}

// Unit returns the unit identifier
func (s *MonetaryStrategy) Unit() Unit {
	return UnitMonetary
}

// Value returns quantity times estimated unit price, rounded to cents
func (s *MonetaryStrategy) Value(quantityClaimed int, estimatedUnitPrice float64) float64 {
	if quantityClaimed < 0 || estimatedUnitPrice < 0 {
		return 0
	}
	return roundToTwoDecimals(float64(quantityClaimed) * estimatedUnitPrice)
}
