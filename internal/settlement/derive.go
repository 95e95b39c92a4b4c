package settlement

import (
	"sort"

	"github.com/bulkmates/bulkmates-api/internal/claim"
	"github.com/bulkmates/bulkmates-api/internal/settlement/unit"
	"github.com/bulkmates/bulkmates-api/internal/trip"
)

// DeriveTransactions folds a trip's accepted claims into pairwise
// obligations: one pending Transaction per claimer owing the shopper,
// valued by the configured unit. The shopper's own claims produce nothing;
// claims in other statuses are ignored. Output is ordered by claimer id so
// derivation is deterministic regardless of claim order.
func DeriveTransactions(tripID, shopperID string, claims []*claim.ItemClaim, items map[string]*trip.TripItem, strat unit.Strategy) []*Transaction {
	type bucket struct {
		points   float64
		claimIDs []string
	}
	buckets := make(map[string]*bucket)

	for _, c := range claims {
		if c.Status != claim.StatusAccepted || c.ClaimerUserID == shopperID {
			continue
		}

		price := 0.0
		if item, ok := items[c.ItemID]; ok {
			price = item.EstimatedUnitPrice
		}

		b, ok := buckets[c.ClaimerUserID]
		if !ok {
			b = &bucket{}
			buckets[c.ClaimerUserID] = b
		}
		b.points += strat.Value(c.QuantityClaimed, price)
		b.claimIDs = append(b.claimIDs, c.ID)
	}

	claimers := make([]string, 0, len(buckets))
	for claimer := range buckets {
		claimers = append(claimers, claimer)
	}
	sort.Strings(claimers)

	txs := make([]*Transaction, 0, len(claimers))
	for _, claimer := range claimers {
		b := buckets[claimer]
		txs = append(txs, &Transaction{
			TripID:       tripID,
			FromUserID:   claimer,
			ToUserID:     shopperID,
			ItemPoints:   b.points,
			ItemClaimIDs: b.claimIDs,
			Status:       StatusPending,
		})
	}

	return txs
}
