package settlement

import (
	"context"
	"errors"

	"github.com/bulkmates/bulkmates-api/internal/claim"
	"github.com/bulkmates/bulkmates-api/internal/database"
	"github.com/bulkmates/bulkmates-api/internal/settlement/unit"
	"github.com/bulkmates/bulkmates-api/internal/trip"
)

// Common errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotAuthorized       = errors.New("not authorized to perform this action")
	ErrInvalidStatusChange = errors.New("invalid transaction status change")
	ErrNothingToSettle     = errors.New("no uncovered accepted claims to settle")
)

// Service handles settlement business logic
type Service struct {
	repo   *Repository
	claims *claim.Service
	trips  *trip.Service
	strat  unit.Strategy
	cache  *BalanceCache
}

// NewService creates a new settlement service with dependencies injected
func NewService(repo *Repository, claims *claim.Service, trips *trip.Service, strat unit.Strategy, cache *BalanceCache) *Service {
	return &Service{repo: repo, claims: claims, trips: trips, strat: strat, cache: cache}
}

// GenerateForTrip derives pending transactions from the trip's accepted
// claims that no existing transaction covers yet. Trip editors or the
// shopper only.
func (s *Service) GenerateForTrip(ctx context.Context, userID, tripID string) (*GenerateResponse, error) {
	t, err := s.trips.GetByID(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if !t.CanEditList(userID) && t.ShopperID != userID {
		return nil, ErrNotAuthorized
	}

	allClaims, err := s.claims.ListByTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	covered, err := s.repo.CoveredClaimIDs(ctx, tripID)
	if err != nil {
		return nil, err
	}

	uncovered := make([]*claim.ItemClaim, 0, len(allClaims))
	for _, c := range allClaims {
		if !covered[c.ID] {
			uncovered = append(uncovered, c)
		}
	}

	items, err := s.trips.ListItems(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	itemsByID := make(map[string]*trip.TripItem, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}

	derived := DeriveTransactions(tripID, t.ShopperID, uncovered, itemsByID, s.strat)
	if len(derived) == 0 {
		return nil, ErrNothingToSettle
	}

	created, err := s.repo.CreateBatch(ctx, derived)
	if err != nil {
		return nil, err
	}

	coveredCount := 0
	affected := make([]string, 0, len(created)+1)
	affected = append(affected, t.ShopperID)
	for _, tx := range created {
		coveredCount += len(tx.ItemClaimIDs)
		affected = append(affected, tx.FromUserID)
	}
	s.cache.Invalidate(ctx, affected...)

	return &GenerateResponse{Created: created, CoveredClaims: coveredCount}, nil
}

// GetByID retrieves a transaction, restricted to the two parties
func (s *Service) GetByID(ctx context.Context, userID, txID string) (*Transaction, error) {
	t, err := s.repo.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTransactionNotFound
	}
	if t.FromUserID != userID && t.ToUserID != userID {
		return nil, ErrNotAuthorized
	}
	return t, nil
}

// ListByTrip retrieves all transactions on a trip, restricted to group members
func (s *Service) ListByTrip(ctx context.Context, userID, tripID string) ([]*Transaction, error) {
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return nil, err
	}
	return s.repo.ListByTrip(ctx, tripID)
}

// ListMine retrieves all transactions where the caller owes or is owed
func (s *Service) ListMine(ctx context.Context, userID string) ([]*Transaction, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Balance computes the caller's net position over their outstanding
// transactions, read through the cache.
func (s *Service) Balance(ctx context.Context, userID string) (*UserBalance, error) {
	if cached := s.cache.Get(ctx, userID); cached != nil {
		return cached, nil
	}

	txs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	b := ComputeBalance(userID, txs)
	s.cache.Set(ctx, b)
	return b, nil
}

// Settle marks the obligation paid. Only the owed party may settle, from
// pending or disputed. Settling stamps settledAt and freezes the coverage
// list.
func (s *Service) Settle(ctx context.Context, userID, txID string, notes *string) (*Transaction, error) {
	t, err := s.GetByID(ctx, userID, txID)
	if err != nil {
		return nil, err
	}
	if t.ToUserID != userID {
		return nil, ErrNotAuthorized
	}

	return s.transition(ctx, t, StatusSettled, notes)
}

// Dispute flags the obligation as contested. Either party may dispute a
// pending transaction.
func (s *Service) Dispute(ctx context.Context, userID, txID string, notes *string) (*Transaction, error) {
	t, err := s.GetByID(ctx, userID, txID)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, t, StatusDisputed, notes)
}

// Cancel voids the obligation. Either party may cancel while it is still
// pending or disputed.
func (s *Service) Cancel(ctx context.Context, userID, txID string, notes *string) (*Transaction, error) {
	t, err := s.GetByID(ctx, userID, txID)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, t, StatusCancelled, notes)
}

func (s *Service) transition(ctx context.Context, t *Transaction, target TransactionStatus, notes *string) (*Transaction, error) {
	if !t.Status.CanTransitionTo(target) {
		return nil, ErrInvalidStatusChange
	}

	updated, err := s.repo.UpdateStatus(ctx, t.ID, t.Status, target, notes)
	if errors.Is(err, database.ErrStaleSnapshot) {
		// Someone else moved the transaction first.
		return nil, ErrInvalidStatusChange
	}
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, updated.FromUserID, updated.ToUserID)
	return updated, nil
}
