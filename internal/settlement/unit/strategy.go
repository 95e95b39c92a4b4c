package unit

import (
	"fmt"
	"math"
)

// Unit defines how claim coverage is valued in the settlement ledger
type Unit string

const (
	// UnitPoints values a claim by its claimed quantity.
	UnitPoints Unit = "points"
	// UnitMonetary values a claim by quantity times the item's estimated
	// unit price.
	UnitMonetary Unit = "monetary"
)

// Strategy is the interface all settlement units implement
type Strategy interface {
	// Value computes what one claim is worth in this unit
	Value(quantityClaimed int, estimatedUnitPrice float64) float64

	// Unit returns the unit identifier for this strategy
	Unit() Unit
}

// Factory creates unit strategies based on the configured unit
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy implementation for the unit
func (f *Factory) Create(u Unit) (Strategy, error) {
	switch u {
	case UnitPoints:
		return &PointsStrategy{}, nil
	case UnitMonetary:
		return &MonetaryStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown settlement unit: %s", u)
	}
}

// CreateFromString creates a strategy from a configuration string
func (f *Factory) CreateFromString(u string) (Strategy, error) {
	return f.Create(Unit(u))
}

// roundToTwoDecimals rounds a float to 2 decimal places
func roundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}
