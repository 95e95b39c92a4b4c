package activity

// PostActivityRequest represents a user-authored feed entry
type PostActivityRequest struct {
	Type     ActivityType `json:"type" validate:"required"`
	Message  *string      `json:"message,omitempty"`
	ImageURL *string      `json:"image_url,omitempty"`
	Location *string      `json:"location,omitempty"`
}
