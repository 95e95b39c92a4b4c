package activity

import (
	"context"
	"errors"

	"github.com/bulkmates/bulkmates-api/internal/trip"
	"github.com/bulkmates/bulkmates-api/internal/user"
)

// Common errors
var (
	ErrActivityNotFound = errors.New("activity not found")
)

// Service handles activity business logic. It implements trip.ActivityLogger
// so trip and claim mutations can append system entries.
type Service struct {
	repo     *Repository
	trips    *trip.Service
	userRepo *user.Repository
}

// NewService creates a new activity service with dependencies injected
func NewService(repo *Repository, userRepo *user.Repository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

// SetTripService wires the trip service after construction. The activity
// service is built first because the trip service logs through it.
func (s *Service) SetTripService(trips *trip.Service) {
	s.trips = trips
}

// Post appends a user-authored entry to a trip's feed
func (s *Service) Post(ctx context.Context, userID, tripID string, req *PostActivityRequest) (*PlanActivity, error) {
	if !req.Type.IsValid() || req.Type == TypeSystem {
		return nil, errors.New("invalid activity type")
	}

	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return nil, err
	}

	return s.repo.Append(ctx, &PlanActivity{
		TripID:   tripID,
		UserID:   userID,
		UserName: s.userName(ctx, userID),
		Type:     req.Type,
		Message:  req.Message,
		ImageURL: req.ImageURL,
		Location: req.Location,
	})
}

// LogSystem appends a system-generated entry. Satisfies trip.ActivityLogger.
func (s *Service) LogSystem(ctx context.Context, tripID, actorID, subtype, relatedItemID, relatedItemName string) error {
	a := &PlanActivity{
		TripID:             tripID,
		UserID:             actorID,
		UserName:           s.userName(ctx, actorID),
		Type:               TypeSystem,
		SystemActivityType: &subtype,
	}
	if relatedItemID != "" {
		a.RelatedItemID = &relatedItemID
	}
	if relatedItemName != "" {
		a.RelatedItemName = &relatedItemName
	}

	_, err := s.repo.Append(ctx, a)
	return err
}

// ListByTrip retrieves a trip's feed, newest first, restricted to group members
func (s *Service) ListByTrip(ctx context.Context, userID, tripID string) ([]*PlanActivity, error) {
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return nil, err
	}
	return s.repo.ListByTrip(ctx, tripID)
}

// Like adds the caller to an entry's like set. Idempotent.
func (s *Service) Like(ctx context.Context, userID, activityID string) (*PlanActivity, error) {
	return s.toggleLike(ctx, userID, activityID, true)
}

// Unlike removes the caller from an entry's like set. Idempotent.
func (s *Service) Unlike(ctx context.Context, userID, activityID string) (*PlanActivity, error) {
	return s.toggleLike(ctx, userID, activityID, false)
}

func (s *Service) toggleLike(ctx context.Context, userID, activityID string, like bool) (*PlanActivity, error) {
	a, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrActivityNotFound
	}

	if _, err := s.trips.GetByID(ctx, userID, a.TripID); err != nil {
		return nil, err
	}

	if like {
		return s.repo.Like(ctx, activityID, userID)
	}
	return s.repo.Unlike(ctx, activityID, userID)
}

func (s *Service) userName(ctx context.Context, userID string) string {
	if u, err := s.userRepo.GetByID(ctx, userID); err == nil && u != nil {
		return u.Username
	}
	return ""
}
