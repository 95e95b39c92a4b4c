package claim

import (
	"testing"

	"github.com/bulkmates/bulkmates-api/internal/trip"
)

func TestClaimedQuantity(t *testing.T) {
	claims := []*ItemClaim{
		{ItemID: "milk", QuantityClaimed: 15, Status: StatusAccepted},
		{ItemID: "milk", QuantityClaimed: 10, Status: StatusAccepted},
		{ItemID: "milk", QuantityClaimed: 8, Status: StatusPending},
		{ItemID: "milk", QuantityClaimed: 5, Status: StatusRejected},
		{ItemID: "milk", QuantityClaimed: 3, Status: StatusCancelled},
		{ItemID: "eggs", QuantityClaimed: 12, Status: StatusAccepted},
	}

	if got := ClaimedQuantity("milk", claims); got != 33 {
		t.Errorf("ClaimedQuantity = %d, want 33", got)
	}
	if got := ClaimedQuantity("eggs", claims); got != 12 {
		t.Errorf("ClaimedQuantity(eggs) = %d, want 12", got)
	}
	if got := ClaimedQuantity("bread", claims); got != 0 {
		t.Errorf("ClaimedQuantity(bread) = %d, want 0", got)
	}
}

func TestRemainingQuantity(t *testing.T) {
	item := &trip.TripItem{ID: "milk", QuantityNeeded: 40}

	tests := []struct {
		name   string
		claims []*ItemClaim
		want   int
	}{
		{
			name: "partially claimed",
			claims: []*ItemClaim{
				{ItemID: "milk", QuantityClaimed: 15, Status: StatusAccepted},
				{ItemID: "milk", QuantityClaimed: 10, Status: StatusAccepted},
				{ItemID: "milk", QuantityClaimed: 8, Status: StatusPending},
			},
			want: 7,
		},
		{
			name:   "no claims",
			claims: nil,
			want:   40,
		},
		{
			name: "inactive claims do not count",
			claims: []*ItemClaim{
				{ItemID: "milk", QuantityClaimed: 40, Status: StatusCancelled},
			},
			want: 40,
		},
		{
			name: "never negative even when over-claimed data exists",
			claims: []*ItemClaim{
				{ItemID: "milk", QuantityClaimed: 30, Status: StatusAccepted},
				{ItemID: "milk", QuantityClaimed: 30, Status: StatusAccepted},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemainingQuantity(item, tt.claims); got != tt.want {
				t.Errorf("RemainingQuantity = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLedgerArithmetic(t *testing.T) {
	// claimed + remaining == needed whenever claimed <= needed
	item := &trip.TripItem{ID: "milk", QuantityNeeded: 40}
	claims := []*ItemClaim{
		{ItemID: "milk", QuantityClaimed: 15, Status: StatusAccepted},
		{ItemID: "milk", QuantityClaimed: 8, Status: StatusPending},
	}

	claimed := ClaimedQuantity(item.ID, claims)
	remaining := RemainingQuantity(item, claims)
	if claimed+remaining != item.QuantityNeeded {
		t.Errorf("claimed(%d) + remaining(%d) != needed(%d)", claimed, remaining, item.QuantityNeeded)
	}
}

func TestIsFullyClaimed(t *testing.T) {
	item := &trip.TripItem{ID: "cake", QuantityNeeded: 1}

	if IsFullyClaimed(item, nil) {
		t.Error("unclaimed item should not be fully claimed")
	}

	claims := []*ItemClaim{{ItemID: "cake", QuantityClaimed: 1, Status: StatusAccepted}}
	if !IsFullyClaimed(item, claims) {
		t.Error("item with its full quantity accepted should be fully claimed")
	}
	if got := RemainingQuantity(item, claims); got != 0 {
		t.Errorf("RemainingQuantity = %d, want 0", got)
	}
}
