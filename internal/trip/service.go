package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bulkmates/bulkmates-api/internal/database"
	"github.com/bulkmates/bulkmates-api/internal/group"
)

// Common errors
var (
	ErrTripNotFound           = errors.New("trip not found")
	ErrItemNotFound           = errors.New("item not found")
	ErrRequestNotFound        = errors.New("item request not found")
	ErrNotAuthorized          = errors.New("not authorized to perform this action")
	ErrNotGroupMember         = errors.New("user is not a member of the trip's group")
	ErrInvalidStatusChange    = errors.New("invalid trip status change")
	ErrTripClosed             = errors.New("trip is completed or cancelled")
	ErrRequestAlreadyResolved = errors.New("item request has already been resolved")
	ErrAlreadyParticipant     = errors.New("user is already a trip participant")
)

// ActivityLogger appends system entries to a trip's activity feed.
// Implemented by the activity service and wired in at startup.
type ActivityLogger interface {
	LogSystem(ctx context.Context, tripID, actorID, subtype, relatedItemID, relatedItemName string) error
}

// Notifier delivers informational trip notifications.
// Implemented by the notification service and wired in at startup.
type Notifier interface {
	NotifyTripUpdate(ctx context.Context, recipientID, senderID, tripID, title, message string) error
	CreateTripInvitation(ctx context.Context, recipientID, senderID, tripID, tripName string) error
}

// Service handles trip business logic
type Service struct {
	repo      *Repository
	groupRepo *group.Repository
	activity  ActivityLogger
	notifier  Notifier
}

// NewService creates a new trip service with dependencies injected
func NewService(repo *Repository, groupRepo *group.Repository, activity ActivityLogger, notifier Notifier) *Service {
	return &Service{repo: repo, groupRepo: groupRepo, activity: activity, notifier: notifier}
}

// Create creates a new trip inside one of the creator's groups. Group
// members are notified so they can join as participants.
func (s *Service) Create(ctx context.Context, creatorID string, req *CreateTripRequest) (*Trip, error) {
	if req.TripType != "" && !req.TripType.IsValid() {
		return nil, fmt.Errorf("unknown trip type %q", req.TripType)
	}

	g, err := s.groupRepo.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if g == nil || !g.IsActive {
		return nil, group.ErrGroupNotFound
	}
	if !g.IsMember(creatorID) {
		return nil, ErrNotGroupMember
	}

	t, err := s.repo.Create(ctx, creatorID, req)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		for _, memberID := range g.Members {
			if memberID == creatorID {
				continue
			}
			if err := s.notifier.NotifyTripUpdate(ctx, memberID, creatorID, t.ID,
				"New trip planned", fmt.Sprintf("%q was planned in %s", t.Name, g.Name)); err != nil {
				slog.Warn("Failed to notify group member of new trip", "trip_id", t.ID, "recipient", memberID, "error", err)
			}
		}
	}

	return t, nil
}

// GetByID retrieves a trip, restricted to members of its group
func (s *Service) GetByID(ctx context.Context, userID, tripID string) (*Trip, error) {
	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTripNotFound
	}

	g, err := s.groupRepo.GetByID(ctx, t.GroupID)
	if err != nil {
		return nil, err
	}
	if g == nil || !g.IsMember(userID) {
		return nil, ErrNotGroupMember
	}

	return t, nil
}

// ListByGroup retrieves a group's trips, restricted to its members
func (s *Service) ListByGroup(ctx context.Context, userID, groupID string) ([]*Trip, error) {
	g, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil || !g.IsActive {
		return nil, group.ErrGroupNotFound
	}
	if !g.IsMember(userID) {
		return nil, ErrNotGroupMember
	}

	return s.repo.ListByGroupID(ctx, groupID)
}

// ListMine retrieves all trips the user participates in
func (s *Service) ListMine(ctx context.Context, userID string) ([]*Trip, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Update modifies trip details, restricted to trip editors
func (s *Service) Update(ctx context.Context, userID, tripID string, req *UpdateTripRequest) (*Trip, error) {
	t, err := s.GetByID(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if !t.CanEditList(userID) {
		return nil, ErrNotAuthorized
	}
	if t.Status.IsTerminal() {
		return nil, ErrTripClosed
	}

	updated, err := s.repo.Update(ctx, tripID, req)
	if err != nil {
		return nil, err
	}

	s.logSystem(ctx, tripID, userID, "plan_updated", "", "")
	return updated, nil
}

// UpdateStatus transitions the trip's lifecycle state, restricted to trip
// editors. Completion backfills delivery records for accepted claims.
// A concurrent transition is re-read and retried a bounded number of times.
func (s *Service) UpdateStatus(ctx context.Context, userID, tripID string, target TripStatus) (*Trip, error) {
	if !target.IsValid() {
		return nil, ErrInvalidStatusChange
	}

	for attempt := 0; attempt < database.MaxRetries; attempt++ {
		t, err := s.GetByID(ctx, userID, tripID)
		if err != nil {
			return nil, err
		}
		if !t.CanEditList(userID) {
			return nil, ErrNotAuthorized
		}
		if !t.Status.CanTransitionTo(target) {
			return nil, ErrInvalidStatusChange
		}

		var updated *Trip
		if target == StatusCompleted {
			updated, err = s.repo.Complete(ctx, tripID)
		} else {
			updated, err = s.repo.UpdateStatus(ctx, tripID, t.Status, target)
		}
		if errors.Is(err, database.ErrStaleSnapshot) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logSystem(ctx, tripID, userID, "plan_updated", "", "")
		return updated, nil
	}

	return nil, database.ErrStaleSnapshot
}

// Join adds the user to the trip as a viewer participant
func (s *Service) Join(ctx context.Context, userID, tripID string) (*Trip, error) {
	t, err := s.GetByID(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if t.Status.IsTerminal() {
		return nil, ErrTripClosed
	}

	updated, err := s.repo.AddParticipant(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	s.logSystem(ctx, tripID, userID, "member_added", "", "")
	return updated, nil
}

// Invite sends a trip invitation to another member of the trip's group.
// Acceptance joins the invitee as a viewer participant.
func (s *Service) Invite(ctx context.Context, actorID, tripID, targetID string) error {
	t, err := s.GetByID(ctx, actorID, tripID)
	if err != nil {
		return err
	}
	if t.Status.IsTerminal() {
		return ErrTripClosed
	}
	if contains(t.Participants, targetID) {
		return ErrAlreadyParticipant
	}

	g, err := s.groupRepo.GetByID(ctx, t.GroupID)
	if err != nil {
		return err
	}
	if g == nil || !g.IsMember(targetID) {
		return ErrNotGroupMember
	}

	if s.notifier == nil {
		return nil
	}
	return s.notifier.CreateTripInvitation(ctx, targetID, actorID, t.ID, t.Name)
}

// Leave removes the user from the trip. The last admin cannot leave.
func (s *Service) Leave(ctx context.Context, userID, tripID string) error {
	t, err := s.GetByID(ctx, userID, tripID)
	if err != nil {
		return err
	}
	if t.IsLastAdmin(userID) {
		return ErrLastAdmin
	}

	if _, err := s.repo.RemoveParticipant(ctx, tripID, userID); err != nil {
		return err
	}

	s.logSystem(ctx, tripID, userID, "member_removed", "", "")
	return nil
}

// ChangeRole promotes or demotes a trip member, restricted to trip editors.
// The membership lists are rewritten with a compare-and-swap; a lost race is
// re-read and retried a bounded number of times.
func (s *Service) ChangeRole(ctx context.Context, actorID, tripID, targetID string, role Role) (*Trip, error) {
	if role != RoleAdmin && role != RoleViewer {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	for attempt := 0; attempt < database.MaxRetries; attempt++ {
		t, err := s.GetByID(ctx, actorID, tripID)
		if err != nil {
			return nil, err
		}
		if !t.CanEditList(actorID) {
			return nil, ErrNotAuthorized
		}
		if t.Role(targetID) == RoleNotMember {
			return nil, ErrNotGroupMember
		}

		var adminIDs, viewerIDs []string
		if role == RoleAdmin {
			adminIDs, viewerIDs = t.PromoteToAdmin(targetID)
		} else {
			adminIDs, viewerIDs, err = t.DemoteToViewer(targetID)
			if err != nil {
				return nil, err
			}
		}

		updated, err := s.repo.UpdateRoles(ctx, tripID, t.AdminIDs, adminIDs, viewerIDs)
		if errors.Is(err, database.ErrStaleSnapshot) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logSystem(ctx, tripID, actorID, "role_changed", "", "")
		return updated, nil
	}

	return nil, database.ErrStaleSnapshot
}

// AddItem appends an item to the trip list, restricted to trip editors
func (s *Service) AddItem(ctx context.Context, userID, tripID string, req *AddItemRequest) (*TripItem, error) {
	t, err := s.GetByID(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if !t.CanEditList(userID) {
		return nil, ErrNotAuthorized
	}
	if t.Status.IsTerminal() {
		return nil, ErrTripClosed
	}
	if req.QuantityNeeded <= 0 {
		return nil, fmt.Errorf("quantity needed must be positive")
	}
	if req.EstimatedUnitPrice < 0 {
		return nil, fmt.Errorf("estimated unit price cannot be negative")
	}

	item, err := s.repo.AddItem(ctx, tripID, req)
	if err != nil {
		return nil, err
	}

	s.logSystem(ctx, tripID, userID, "item_added", item.ID, item.Name)
	return item, nil
}

// ListItems retrieves a trip's items in list order
func (s *Service) ListItems(ctx context.Context, userID, tripID string) ([]*TripItem, error) {
	if _, err := s.GetByID(ctx, userID, tripID); err != nil {
		return nil, err
	}
	return s.repo.ListItems(ctx, tripID)
}

// GetItem retrieves a single trip item, restricted to group members
func (s *Service) GetItem(ctx context.Context, userID, tripID, itemID string) (*TripItem, error) {
	if _, err := s.GetByID(ctx, userID, tripID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.TripID != tripID {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// AddClaimParticipant joins a claimer to the trip if they are not yet a
// participant. Used by the claim workflow after a successful submission.
func (s *Service) AddClaimParticipant(ctx context.Context, tripID, userID string) error {
	_, err := s.repo.AddParticipant(ctx, tripID, userID)
	return err
}

// UpdateItem modifies a trip item, restricted to trip editors
func (s *Service) UpdateItem(ctx context.Context, userID, tripID, itemID string, req *UpdateItemRequest) (*TripItem, error) {
	t, err := s.GetByID(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if !t.CanEditList(userID) {
		return nil, ErrNotAuthorized
	}
	if t.Status.IsTerminal() {
		return nil, ErrTripClosed
	}

	existing, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.TripID != tripID {
		return nil, ErrItemNotFound
	}
	if req.QuantityNeeded != nil && *req.QuantityNeeded <= 0 {
		return nil, fmt.Errorf("quantity needed must be positive")
	}

	item, err := s.repo.UpdateItem(ctx, itemID, req)
	if err != nil {
		return nil, err
	}

	s.logSystem(ctx, tripID, userID, "item_updated", item.ID, item.Name)
	return item, nil
}

// DeleteItem removes a trip item, restricted to trip editors
func (s *Service) DeleteItem(ctx context.Context, userID, tripID, itemID string) error {
	t, err := s.GetByID(ctx, userID, tripID)
	if err != nil {
		return err
	}
	if !t.CanEditList(userID) {
		return ErrNotAuthorized
	}
	if t.Status.IsTerminal() {
		return ErrTripClosed
	}

	existing, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if existing == nil || existing.TripID != tripID {
		return ErrItemNotFound
	}

	return s.repo.DeleteItem(ctx, itemID)
}

// RequestItem records a participant's ask for an item to be added. The
// shopper is notified so an editor can approve or reject it.
func (s *Service) RequestItem(ctx context.Context, userID, tripID string, req *RequestItemRequest) (*ItemRequest, error) {
	t, err := s.GetByID(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if t.Status.IsTerminal() {
		return nil, ErrTripClosed
	}
	if req.QuantityRequested <= 0 {
		return nil, fmt.Errorf("quantity requested must be positive")
	}

	request, err := s.repo.CreateItemRequest(ctx, tripID, userID, req)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && t.ShopperID != userID {
		if err := s.notifier.NotifyTripUpdate(ctx, t.ShopperID, userID, t.ID,
			"Item requested", fmt.Sprintf("%q was requested for %s", req.ItemName, t.Name)); err != nil {
			slog.Warn("Failed to notify shopper of item request", "trip_id", t.ID, "error", err)
		}
	}

	return request, nil
}

// ListItemRequests retrieves a trip's item requests, newest first
func (s *Service) ListItemRequests(ctx context.Context, userID, tripID string) ([]*ItemRequest, error) {
	if _, err := s.GetByID(ctx, userID, tripID); err != nil {
		return nil, err
	}
	return s.repo.ListItemRequests(ctx, tripID)
}

// ResolveItemRequest approves or rejects a pending item request, restricted
// to trip editors. Approval appends the requested item atomically.
func (s *Service) ResolveItemRequest(ctx context.Context, userID, tripID, requestID string, approve bool) (*ItemRequest, *TripItem, error) {
	t, err := s.GetByID(ctx, userID, tripID)
	if err != nil {
		return nil, nil, err
	}
	if !t.CanEditList(userID) {
		return nil, nil, ErrNotAuthorized
	}

	existing, err := s.repo.GetItemRequestByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if existing == nil || existing.TripID != tripID {
		return nil, nil, ErrRequestNotFound
	}

	request, item, err := s.repo.ResolveItemRequest(ctx, requestID, approve)
	if errors.Is(err, database.ErrStaleSnapshot) {
		return nil, nil, ErrRequestAlreadyResolved
	}
	if err != nil {
		return nil, nil, err
	}

	if item != nil {
		s.logSystem(ctx, tripID, userID, "item_added", item.ID, item.Name)
	}
	return request, item, nil
}

func (s *Service) logSystem(ctx context.Context, tripID, actorID, subtype, itemID, itemName string) {
	if s.activity == nil {
		return
	}
	if err := s.activity.LogSystem(ctx, tripID, actorID, subtype, itemID, itemName); err != nil {
		slog.Warn("Failed to append activity entry", "trip_id", tripID, "type", subtype, "error", err)
	}
}
