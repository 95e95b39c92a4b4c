package claim

import "github.com/bulkmates/bulkmates-api/internal/trip"

// Pure projections over a point-in-time claim snapshot. The repository
// enforces the aggregate invariant at write time; these functions define it.

// ClaimedQuantity sums the active (pending or accepted) claimed quantity
// against the item. Rejected and cancelled claims are excluded entirely.
func ClaimedQuantity(itemID string, claims []*ItemClaim) int {
	total := 0
	for _, c := range claims {
		if c.ItemID == itemID && c.Status.IsActive() {
			total += c.QuantityClaimed
		}
	}
	return total
}

// RemainingQuantity returns how much of the item is still unclaimed. Never
// negative, even if over-claimed data exists.
func RemainingQuantity(item *trip.TripItem, claims []*ItemClaim) int {
	remaining := item.QuantityNeeded - ClaimedQuantity(item.ID, claims)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFullyClaimed reports whether no unclaimed quantity is left on the item
func IsFullyClaimed(item *trip.TripItem, claims []*ItemClaim) bool {
	return RemainingQuantity(item, claims) == 0
}
