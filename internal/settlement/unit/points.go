package unit

// =============================================================================
// POINTS UNIT
// Values a claim by its claimed quantity; prices are ignored
// =============================================================================

// PointsStrategy implements the Strategy interface for quantity-based points
type PointsStrategy struct{}

// Unit returns the unit identifier
func (s *PointsStrategy) Unit() Unit {
	return UnitPoints
}

// Value returns the claimed quantity as points
func (s *PointsStrategy) Value(quantityClaimed int, _ float64) float64 {
	if quantityClaimed < 0 {
		return 0
	}
	return float64(quantityClaimed)
}
