package notification

import "time"

// NotificationType categorizes what a notification is about
type NotificationType string

const (
	TypeGroupInvitation NotificationType = "group_invitation"
	TypeTripInvitation  NotificationType = "trip_invitation"
	TypeTripUpdate      NotificationType = "trip_update"
	TypeGroupUpdate     NotificationType = "group_update"
)

// IsInvitation reports whether the notification expects a response
func (t NotificationType) IsInvitation() bool {
	return t == TypeGroupInvitation || t == TypeTripInvitation
}

// NotificationStatus represents the response state of an invitation
type NotificationStatus string

const (
	StatusPending  NotificationStatus = "pending"
	StatusAccepted NotificationStatus = "accepted"
	StatusRejected NotificationStatus = "rejected"
)

// IsTerminal reports whether the invitation has been responded to
func (s NotificationStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Notification represents an invitation or informational event for one user
type Notification struct {
	ID              string             `json:"id"`
	Type            NotificationType   `json:"type"`
	Title           string             `json:"title"`
	Message         string             `json:"message"`
	RecipientUserID string             `json:"recipient_user_id"`
	SenderUserID    string             `json:"sender_user_id"`
	SenderName      string             `json:"sender_name"`
	RelatedID       string             `json:"related_id"`
	IsRead          bool               `json:"is_read"`
	Status          NotificationStatus `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
}
