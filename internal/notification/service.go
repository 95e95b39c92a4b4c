package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/bulkmates/bulkmates-api/internal/database"
	"github.com/bulkmates/bulkmates-api/internal/user"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotAuthorized        = errors.New("not authorized to perform this action")
	ErrAlreadyResolved      = errors.New("invitation has already been responded to")
	ErrNotAnInvitation      = errors.New("notification does not expect a response")
)

// Service handles notification business logic. It implements both
// group.InvitationNotifier and trip.Notifier.
type Service struct {
	repo     *Repository
	userRepo *user.Repository
}

// NewService creates a new notification service with dependencies injected
func NewService(repo *Repository, userRepo *user.Repository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

// CreateGroupInvitation delivers a group invitation to a registered user
func (s *Service) CreateGroupInvitation(ctx context.Context, recipientID, senderID, senderName, groupID, groupName string) error {
	_, err := s.repo.Create(ctx, &Notification{
		Type:            TypeGroupInvitation,
		Title:           "Group invitation",
		Message:         fmt.Sprintf("%s invited you to join %s", senderName, groupName),
		RecipientUserID: recipientID,
		SenderUserID:    senderID,
		SenderName:      senderName,
		RelatedID:       groupID,
	})
	return err
}

// CreateTripInvitation delivers a trip invitation to a registered user
func (s *Service) CreateTripInvitation(ctx context.Context, recipientID, senderID, tripID, tripName string) error {
	senderName := ""
	if sender, err := s.userRepo.GetByID(ctx, senderID); err == nil && sender != nil {
		senderName = sender.Username
	}

	_, err := s.repo.Create(ctx, &Notification{
		Type:            TypeTripInvitation,
		Title:           "Trip invitation",
		Message:         fmt.Sprintf("%s invited you to join %s", senderName, tripName),
		RecipientUserID: recipientID,
		SenderUserID:    senderID,
		SenderName:      senderName,
		RelatedID:       tripID,
	})
	return err
}

// NotifyTripUpdate delivers an informational trip event. Informational
// notifications carry no pending response; they are born accepted.
func (s *Service) NotifyTripUpdate(ctx context.Context, recipientID, senderID, tripID, title, message string) error {
	senderName := ""
	if sender, err := s.userRepo.GetByID(ctx, senderID); err == nil && sender != nil {
		senderName = sender.Username
	}

	_, err := s.repo.Create(ctx, &Notification{
		Type:            TypeTripUpdate,
		Title:           title,
		Message:         message,
		RecipientUserID: recipientID,
		SenderUserID:    senderID,
		SenderName:      senderName,
		RelatedID:       tripID,
		Status:          StatusAccepted,
	})
	return err
}

// List retrieves the caller's notifications, newest first
func (s *Service) List(ctx context.Context, userID string) ([]*Notification, error) {
	return s.repo.ListByRecipient(ctx, userID)
}

// UnreadCount returns how many of the caller's notifications are unread
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkAsRead flags one of the caller's notifications as read
func (s *Service) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotificationNotFound
	}
	if n.RecipientUserID != userID {
		return ErrNotAuthorized
	}

	return s.repo.MarkAsRead(ctx, notificationID)
}

// MarkAllAsRead flags all of the caller's notifications as read
func (s *Service) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Respond accepts or rejects an invitation. Only the recipient may respond,
// only once. Accepting a group invitation atomically joins the recipient to
// the group; accepting a trip invitation joins them to the trip.
func (s *Service) Respond(ctx context.Context, userID, notificationID string, accept bool) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	if n.RecipientUserID != userID {
		return nil, ErrNotAuthorized
	}
	if !n.Type.IsInvitation() {
		return nil, ErrNotAnInvitation
	}
	if n.Status.IsTerminal() {
		return nil, ErrAlreadyResolved
	}

	email := ""
	if recipient, err := s.userRepo.GetByID(ctx, userID); err == nil && recipient != nil {
		email = recipient.Email
	}

	resolved, err := s.repo.Respond(ctx, notificationID, accept, email)
	if errors.Is(err, database.ErrStaleSnapshot) {
		// Lost the race against another response.
		return nil, ErrAlreadyResolved
	}
	if err != nil {
		return nil, err
	}

	return resolved, nil
}
