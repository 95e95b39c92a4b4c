package notification

// RespondRequest represents the recipient's answer to an invitation
type RespondRequest struct {
	Accept bool `json:"accept"`
}

// UnreadCountResponse reports how many notifications are unread
type UnreadCountResponse struct {
	Count int `json:"count"`
}
