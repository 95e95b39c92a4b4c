package settlement

import (
	"testing"

	"github.com/bulkmates/bulkmates-api/internal/claim"
	"github.com/bulkmates/bulkmates-api/internal/settlement/unit"
	"github.com/bulkmates/bulkmates-api/internal/trip"
)

func pointsStrategy(t *testing.T) unit.Strategy {
	t.Helper()
	strat, err := unit.NewFactory().Create(unit.UnitPoints)
	if err != nil {
		t.Fatalf("failed to create points strategy: %v", err)
	}
	return strat
}

func TestDeriveTransactionsGroupsByClaimer(t *testing.T) {
	claims := []*claim.ItemClaim{
		{ID: "c1", ItemID: "i1", ClaimerUserID: "x", QuantityClaimed: 1, Status: claim.StatusAccepted},
		{ID: "c2", ItemID: "i2", ClaimerUserID: "x", QuantityClaimed: 1, Status: claim.StatusAccepted},
		{ID: "c3", ItemID: "i3", ClaimerUserID: "x", QuantityClaimed: 1, Status: claim.StatusAccepted},
	}

	txs := DeriveTransactions("trip-1", "y", claims, nil, pointsStrategy(t))

	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txs))
	}
	tx := txs[0]
	if tx.FromUserID != "x" || tx.ToUserID != "y" {
		t.Errorf("pair = %s -> %s, want x -> y", tx.FromUserID, tx.ToUserID)
	}
	if tx.ItemPoints != 3 {
		t.Errorf("itemPoints = %v, want 3", tx.ItemPoints)
	}
	if len(tx.ItemClaimIDs) != 3 {
		t.Errorf("covered claims = %d, want 3", len(tx.ItemClaimIDs))
	}
	if tx.Status != StatusPending {
		t.Errorf("status = %s, want pending", tx.Status)
	}
}

func TestDeriveTransactionsSkipsInactiveAndShopper(t *testing.T) {
	claims := []*claim.ItemClaim{
		{ID: "c1", ClaimerUserID: "x", QuantityClaimed: 2, Status: claim.StatusAccepted},
		{ID: "c2", ClaimerUserID: "x", QuantityClaimed: 5, Status: claim.StatusPending},
		{ID: "c3", ClaimerUserID: "x", QuantityClaimed: 5, Status: claim.StatusRejected},
		{ID: "c4", ClaimerUserID: "x", QuantityClaimed: 5, Status: claim.StatusCancelled},
		{ID: "c5", ClaimerUserID: "y", QuantityClaimed: 9, Status: claim.StatusAccepted},
	}

	txs := DeriveTransactions("trip-1", "y", claims, nil, pointsStrategy(t))

	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txs))
	}
	if txs[0].ItemPoints != 2 {
		t.Errorf("itemPoints = %v, want 2 (only the accepted non-shopper claim)", txs[0].ItemPoints)
	}
}

func TestDeriveTransactionsDeterministicOrder(t *testing.T) {
	forward := []*claim.ItemClaim{
		{ID: "c1", ClaimerUserID: "alice", QuantityClaimed: 1, Status: claim.StatusAccepted},
		{ID: "c2", ClaimerUserID: "bob", QuantityClaimed: 2, Status: claim.StatusAccepted},
	}
	reversed := []*claim.ItemClaim{forward[1], forward[0]}

	a := DeriveTransactions("trip-1", "shopper", forward, nil, pointsStrategy(t))
	b := DeriveTransactions("trip-1", "shopper", reversed, nil, pointsStrategy(t))

	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("got %d and %d transactions, want 2 each", len(a), len(b))
	}
	for i := range a {
		if a[i].FromUserID != b[i].FromUserID || a[i].ItemPoints != b[i].ItemPoints {
			t.Errorf("derivation depends on claim order: %+v vs %+v", a[i], b[i])
		}
	}
}

func TestDeriveTransactionsMonetaryUnit(t *testing.T) {
	strat, err := unit.NewFactory().Create(unit.UnitMonetary)
	if err != nil {
		t.Fatalf("failed to create monetary strategy: %v", err)
	}

	items := map[string]*trip.TripItem{
		"i1": {ID: "i1", EstimatedUnitPrice: 2.5},
		"i2": {ID: "i2", EstimatedUnitPrice: 1.25},
	}
	claims := []*claim.ItemClaim{
		{ID: "c1", ItemID: "i1", ClaimerUserID: "x", QuantityClaimed: 4, Status: claim.StatusAccepted},
		{ID: "c2", ItemID: "i2", ClaimerUserID: "x", QuantityClaimed: 2, Status: claim.StatusAccepted},
	}

	txs := DeriveTransactions("trip-1", "y", claims, items, strat)

	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txs))
	}
	if txs[0].ItemPoints != 12.5 {
		t.Errorf("itemPoints = %v, want 12.5", txs[0].ItemPoints)
	}
}
