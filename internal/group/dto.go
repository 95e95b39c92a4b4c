package group

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// UpdateGroupRequest represents the request to update a group
type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// InviteMemberRequest represents the request to invite someone by email
type InviteMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// JoinByCodeRequest represents the request to join a group by invite code
type JoinByCodeRequest struct {
	InviteCode string `json:"invite_code" validate:"required,len=6"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Members       []string `json:"members"`
	InvitedEmails []string `json:"invited_emails,omitempty"`
	Icon          string   `json:"icon,omitempty"`
	AdminID       string   `json:"admin_id"`
	IsActive      bool     `json:"is_active"`
	InviteCode    string   `json:"invite_code"`
	MemberCount   int      `json:"member_count"`
	CreatedAt     string   `json:"created_at"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:            g.ID,
		Name:          g.Name,
		Description:   g.Description,
		Members:       g.Members,
		InvitedEmails: g.InvitedEmails,
		Icon:          g.Icon,
		AdminID:       g.AdminID,
		IsActive:      g.IsActive,
		InviteCode:    g.InviteCode,
		MemberCount:   g.MemberCount(),
		CreatedAt:     g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
