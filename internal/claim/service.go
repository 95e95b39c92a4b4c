package claim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bulkmates/bulkmates-api/internal/database"
	"github.com/bulkmates/bulkmates-api/internal/trip"
)

// Common errors
var (
	ErrClaimNotFound        = errors.New("claim not found")
	ErrInsufficientQuantity = errors.New("claim exceeds the remaining quantity")
	ErrNotAuthorized        = errors.New("not authorized to perform this action")
	ErrInvalidStatusChange  = errors.New("invalid claim status change")
	ErrAlreadyDelivered     = errors.New("claim already has a confirmed delivery")
)

// Service handles claim business logic
type Service struct {
	repo     *Repository
	trips    *trip.Service
	activity trip.ActivityLogger
	notifier trip.Notifier
}

// NewService creates a new claim service with dependencies injected
func NewService(repo *Repository, trips *trip.Service, activity trip.ActivityLogger, notifier trip.Notifier) *Service {
	return &Service{repo: repo, trips: trips, activity: activity, notifier: notifier}
}

// Submit pledges a quantity of a trip item for the caller. The guarded
// insert loses to concurrent submissions rather than over-claiming; a lost
// race is re-read and retried a bounded number of times, and a genuinely
// full item is reported as ErrInsufficientQuantity.
func (s *Service) Submit(ctx context.Context, userID string, req *SubmitClaimRequest) (*ItemClaim, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	t, err := s.trips.GetByID(ctx, userID, req.TripID)
	if err != nil {
		return nil, err
	}
	if t.Status.IsTerminal() {
		return nil, trip.ErrTripClosed
	}

	item, err := s.trips.GetItem(ctx, userID, req.TripID, req.ItemID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < database.MaxRetries; attempt++ {
		claims, err := s.repo.ListByItem(ctx, req.ItemID)
		if err != nil {
			return nil, err
		}
		if req.Quantity > RemainingQuantity(item, claims) {
			return nil, ErrInsufficientQuantity
		}

		c, err := s.repo.Submit(ctx, req.TripID, req.ItemID, userID, req.Quantity)
		if errors.Is(err, database.ErrStaleSnapshot) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := s.trips.AddClaimParticipant(ctx, req.TripID, userID); err != nil {
			slog.Warn("Failed to join claimer to trip", "trip_id", req.TripID, "user_id", userID, "error", err)
		}

		if s.activity != nil {
			if err := s.activity.LogSystem(ctx, req.TripID, userID, "item_claimed", item.ID, item.Name); err != nil {
				slog.Warn("Failed to append claim activity", "trip_id", req.TripID, "error", err)
			}
		}
		if s.notifier != nil && t.ShopperID != userID {
			if err := s.notifier.NotifyTripUpdate(ctx, t.ShopperID, userID, t.ID,
				"Item claimed", fmt.Sprintf("%d x %q was claimed", req.Quantity, item.Name)); err != nil {
				slog.Warn("Failed to notify shopper of claim", "trip_id", t.ID, "error", err)
			}
		}

		return c, nil
	}

	// The guard kept losing races. Report the item as contended-full
	// rather than leaking a storage detail.
	return nil, ErrInsufficientQuantity
}

// GetByID retrieves a claim, restricted to members of the trip's group
func (s *Service) GetByID(ctx context.Context, userID, claimID string) (*ItemClaim, error) {
	c, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrClaimNotFound
	}

	if _, err := s.trips.GetByID(ctx, userID, c.TripID); err != nil {
		return nil, err
	}

	return c, nil
}

// ListByTrip retrieves all claims on a trip
func (s *Service) ListByTrip(ctx context.Context, userID, tripID string) ([]*ItemClaim, error) {
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return nil, err
	}
	return s.repo.ListByTrip(ctx, tripID)
}

// ListMine retrieves all claims made by the caller
func (s *Service) ListMine(ctx context.Context, userID string) ([]*ItemClaim, error) {
	return s.repo.ListByClaimer(ctx, userID)
}

// ItemStatus computes the ledger summary for one item from the current
// claim snapshot.
func (s *Service) ItemStatus(ctx context.Context, userID, tripID, itemID string) (*ItemClaimStatus, error) {
	item, err := s.trips.GetItem(ctx, userID, tripID, itemID)
	if err != nil {
		return nil, err
	}

	claims, err := s.repo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	claimed := ClaimedQuantity(itemID, claims)
	return &ItemClaimStatus{
		ItemID:            itemID,
		QuantityNeeded:    item.QuantityNeeded,
		ClaimedQuantity:   claimed,
		RemainingQuantity: RemainingQuantity(item, claims),
		IsFullyClaimed:    IsFullyClaimed(item, claims),
	}, nil
}

// Accept moves a pending claim to accepted, restricted to trip editors
func (s *Service) Accept(ctx context.Context, userID, claimID string) (*ItemClaim, error) {
	return s.review(ctx, userID, claimID, StatusAccepted)
}

// Reject moves a pending claim to rejected, restricted to trip editors
func (s *Service) Reject(ctx context.Context, userID, claimID string) (*ItemClaim, error) {
	return s.review(ctx, userID, claimID, StatusRejected)
}

func (s *Service) review(ctx context.Context, userID, claimID string, target ClaimStatus) (*ItemClaim, error) {
	c, err := s.GetByID(ctx, userID, claimID)
	if err != nil {
		return nil, err
	}

	t, err := s.trips.GetByID(ctx, userID, c.TripID)
	if err != nil {
		return nil, err
	}
	if !t.CanEditList(userID) {
		return nil, ErrNotAuthorized
	}
	if !c.Status.CanTransitionTo(target) {
		return nil, ErrInvalidStatusChange
	}

	updated, err := s.repo.UpdateStatus(ctx, claimID, StatusPending, target)
	if errors.Is(err, database.ErrStaleSnapshot) {
		// Someone else resolved the claim first.
		return nil, ErrInvalidStatusChange
	}
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Cancel withdraws the caller's own claim. An accepted claim can still be
// withdrawn before delivery; the cancellation also cancels any pending
// transaction covering the claim, in one transaction. Once the delivery is
// confirmed, cancellation is refused.
func (s *Service) Cancel(ctx context.Context, userID, claimID string) (*ItemClaim, error) {
	c, err := s.GetByID(ctx, userID, claimID)
	if err != nil {
		return nil, err
	}
	if c.ClaimerUserID != userID {
		return nil, ErrNotAuthorized
	}
	if !c.Status.CanTransitionTo(StatusCancelled) {
		return nil, ErrInvalidStatusChange
	}

	if c.Status == StatusAccepted {
		delivered, err := s.repo.IsDelivered(ctx, claimID)
		if err != nil {
			return nil, err
		}
		if delivered {
			return nil, ErrAlreadyDelivered
		}
	}

	updated, err := s.repo.CancelWithCascade(ctx, claimID, c.Status)
	if errors.Is(err, database.ErrStaleSnapshot) {
		return nil, ErrInvalidStatusChange
	}
	if err != nil {
		return nil, err
	}

	return updated, nil
}
