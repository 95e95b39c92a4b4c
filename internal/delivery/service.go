package delivery

import (
	"context"
	"errors"

	"github.com/bulkmates/bulkmates-api/internal/claim"
	"github.com/bulkmates/bulkmates-api/internal/database"
	"github.com/bulkmates/bulkmates-api/internal/trip"
)

// Common errors
var (
	ErrDeliveryNotFound = errors.New("delivery not found")
	ErrDeliveryExists   = errors.New("claim already has a delivery record")
	ErrNotAuthorized    = errors.New("not authorized to perform this action")
	ErrAlreadyConfirmed = errors.New("delivery is already confirmed")
)

// Service handles delivery business logic
type Service struct {
	repo   *Repository
	claims *claim.Service
	trips  *trip.Service
}

// NewService creates a new delivery service with dependencies injected
func NewService(repo *Repository, claims *claim.Service, trips *trip.Service) *Service {
	return &Service{repo: repo, claims: claims, trips: trips}
}

// CreateFromClaim creates the delivery record for an accepted claim. Only a
// trip editor or the trip's shopper may create it, and only one delivery
// exists per claim.
func (s *Service) CreateFromClaim(ctx context.Context, userID, claimID string) (*ItemDelivery, error) {
	c, err := s.claims.GetByID(ctx, userID, claimID)
	if err != nil {
		return nil, err
	}

	t, err := s.trips.GetByID(ctx, userID, c.TripID)
	if err != nil {
		return nil, err
	}
	if !t.CanEditList(userID) && t.ShopperID != userID {
		return nil, ErrNotAuthorized
	}

	d, err := NewFromClaim(c, userID)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, d)
	if errors.Is(err, database.ErrStaleSnapshot) {
		return nil, ErrDeliveryExists
	}
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetByID retrieves a delivery, restricted to members of the trip's group
func (s *Service) GetByID(ctx context.Context, userID, deliveryID string) (*ItemDelivery, error) {
	d, err := s.repo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDeliveryNotFound
	}

	if _, err := s.trips.GetByID(ctx, userID, d.TripID); err != nil {
		return nil, err
	}

	return d, nil
}

// ListByTrip retrieves all deliveries on a trip
func (s *Service) ListByTrip(ctx context.Context, userID, tripID string) ([]*ItemDelivery, error) {
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return nil, err
	}
	return s.repo.ListByTrip(ctx, tripID)
}

// ListIncoming retrieves deliveries headed to the caller
func (s *Service) ListIncoming(ctx context.Context, userID string) ([]*ItemDelivery, error) {
	return s.repo.ListByReceiver(ctx, userID)
}

// ListOutgoing retrieves deliveries the caller has to make
func (s *Service) ListOutgoing(ctx context.Context, userID string) ([]*ItemDelivery, error) {
	return s.repo.ListByDeliverer(ctx, userID)
}

// Confirm marks the handoff as delivered. Either side of the handoff may
// confirm it; confirmation is terminal and does not touch claim or
// transaction status.
func (s *Service) Confirm(ctx context.Context, userID, deliveryID string, note *string) (*ItemDelivery, error) {
	d, err := s.GetByID(ctx, userID, deliveryID)
	if err != nil {
		return nil, err
	}
	if d.ReceiverUserID != userID && d.DelivererUserID != userID {
		return nil, ErrNotAuthorized
	}
	if d.IsDelivered {
		return nil, ErrAlreadyConfirmed
	}

	confirmed, err := s.repo.MarkDelivered(ctx, deliveryID, note)
	if errors.Is(err, database.ErrStaleSnapshot) {
		return nil, ErrAlreadyConfirmed
	}
	if err != nil {
		return nil, err
	}

	return confirmed, nil
}
