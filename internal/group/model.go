package group

import (
	"crypto/rand"
	"time"
)

// Group represents a buying circle whose members coordinate trips together
type Group struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Members       []string  `json:"members"`
	InvitedEmails []string  `json:"invited_emails"`
	Icon          string    `json:"icon"`
	AdminID       string    `json:"admin_id"`
	IsActive      bool      `json:"is_active"`
	InviteCode    string    `json:"invite_code"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsMember reports whether the user has joined the group
func (g *Group) IsMember(userID string) bool {
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user administers the group
func (g *Group) IsAdmin(userID string) bool {
	return g.AdminID == userID
}

// MemberCount returns joined members plus outstanding email invitations
func (g *Group) MemberCount() int {
	return len(g.Members) + len(g.InvitedEmails)
}

const inviteCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateInviteCode returns a random 6-character share code
func GenerateInviteCode() string {
	buf := make([]byte, 6)
	rand.Read(buf)
	for i, b := range buf {
		buf[i] = inviteCodeChars[int(b)%len(inviteCodeChars)]
	}
	return string(buf)
}
