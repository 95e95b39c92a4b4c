package group

import (
	"context"
	"errors"

	"github.com/bulkmates/bulkmates-api/internal/user"
)

// Common errors
var (
	ErrGroupNotFound     = errors.New("group not found")
	ErrNotAuthorized     = errors.New("not authorized to perform this action")
	ErrNotMember         = errors.New("user is not a member of this group")
	ErrAlreadyMember     = errors.New("user is already a member of this group")
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrAdminCannotLeave  = errors.New("group admin cannot leave the group")
)

// InvitationNotifier delivers invitation notifications to registered users.
// Implemented by the notification service and wired in at startup.
type InvitationNotifier interface {
	CreateGroupInvitation(ctx context.Context, recipientID, senderID, senderName, groupID, groupName string) error
}

// Service handles group business logic
type Service struct {
	repo     *Repository
	userRepo *user.Repository
	notifier InvitationNotifier
}

// NewService creates a new group service with dependencies injected
func NewService(repo *Repository, userRepo *user.Repository, notifier InvitationNotifier) *Service {
	return &Service{repo: repo, userRepo: userRepo, notifier: notifier}
}

// Create creates a new group with the creator as admin and first member
func (s *Service) Create(ctx context.Context, creatorID string, req *CreateGroupRequest) (*Group, error) {
	return s.repo.Create(ctx, req.Name, req.Description, req.Icon, creatorID, GenerateInviteCode())
}

// GetByID retrieves a group, restricted to its members
func (s *Service) GetByID(ctx context.Context, userID, groupID string) (*Group, error) {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil || !g.IsActive {
		return nil, ErrGroupNotFound
	}
	if !g.IsMember(userID) {
		return nil, ErrNotMember
	}
	return g, nil
}

// ListByUserID retrieves all groups the user belongs to
func (s *Service) ListByUserID(ctx context.Context, userID string) ([]*Group, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Update modifies a group, restricted to its admin
func (s *Service) Update(ctx context.Context, userID, groupID string, req *UpdateGroupRequest) (*Group, error) {
	g, err := s.GetByID(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(userID) {
		return nil, ErrNotAuthorized
	}

	return s.repo.Update(ctx, groupID, req)
}

// Delete deactivates a group, restricted to its admin
func (s *Service) Delete(ctx context.Context, userID, groupID string) error {
	g, err := s.GetByID(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if !g.IsAdmin(userID) {
		return ErrNotAuthorized
	}

	return s.repo.Deactivate(ctx, groupID)
}

// JoinByCode adds the user to the group matching the invite code
func (s *Service) JoinByCode(ctx context.Context, userID, code string) (*Group, error) {
	g, err := s.repo.GetByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrInvalidInviteCode
	}
	if g.IsMember(userID) {
		return nil, ErrAlreadyMember
	}

	joined, err := s.repo.AddMember(ctx, g.ID, userID)
	if err != nil {
		return nil, err
	}

	// Joining resolves any standing email invitation for this user.
	u, err := s.userRepo.GetByID(ctx, userID)
	if err == nil && u != nil {
		_ = s.repo.RemoveInvitedEmail(ctx, g.ID, u.Email)
	}

	return joined, nil
}

// InviteByEmail invites someone to the group by email. Registered users
// also receive an in-app invitation notification; unregistered emails are
// only recorded on the group until the owner signs up and joins.
func (s *Service) InviteByEmail(ctx context.Context, inviterID, groupID, email string) (*Group, error) {
	g, err := s.GetByID(ctx, inviterID, groupID)
	if err != nil {
		return nil, err
	}

	invitee, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if invitee != nil && g.IsMember(invitee.ID) {
		return nil, ErrAlreadyMember
	}

	updated, err := s.repo.AddInvitedEmail(ctx, groupID, email)
	if err != nil {
		return nil, err
	}

	if invitee != nil && s.notifier != nil {
		inviter, err := s.userRepo.GetByID(ctx, inviterID)
		senderName := ""
		if err == nil && inviter != nil {
			senderName = inviter.Username
		}
		if err := s.notifier.CreateGroupInvitation(ctx, invitee.ID, inviterID, senderName, g.ID, g.Name); err != nil {
			return nil, err
		}
	}

	return updated, nil
}

// RemoveMember removes a member from the group, restricted to its admin
func (s *Service) RemoveMember(ctx context.Context, adminID, groupID, memberID string) (*Group, error) {
	g, err := s.GetByID(ctx, adminID, groupID)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(adminID) {
		return nil, ErrNotAuthorized
	}
	if memberID == g.AdminID {
		return nil, ErrAdminCannotLeave
	}
	if !g.IsMember(memberID) {
		return nil, ErrNotMember
	}

	return s.repo.RemoveMember(ctx, groupID, memberID)
}

// Leave removes the authenticated user from the group. The admin cannot
// leave; they must delete the group or transfer it out of band.
func (s *Service) Leave(ctx context.Context, userID, groupID string) error {
	g, err := s.GetByID(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if g.IsAdmin(userID) {
		return ErrAdminCannotLeave
	}

	_, err = s.repo.RemoveMember(ctx, groupID, userID)
	return err
}
