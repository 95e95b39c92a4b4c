package activity

import "time"

// ActivityType categorizes a feed entry
type ActivityType string

const (
	TypeComment  ActivityType = "comment"
	TypePhoto    ActivityType = "photo"
	TypeReceipt  ActivityType = "receipt"
	TypeLocation ActivityType = "location"
	TypeSystem   ActivityType = "system_activity"
)

// IsValid checks whether the type is a known activity type
func (t ActivityType) IsValid() bool {
	switch t {
	case TypeComment, TypePhoto, TypeReceipt, TypeLocation, TypeSystem:
		return true
	}
	return false
}

// System activity subtypes emitted by trip and claim mutations
const (
	SystemItemAdded     = "item_added"
	SystemItemClaimed   = "item_claimed"
	SystemItemUpdated   = "item_updated"
	SystemMemberAdded   = "member_added"
	SystemMemberRemoved = "member_removed"
	SystemRoleChanged   = "role_changed"
	SystemPlanUpdated   = "plan_updated"
)

// PlanActivity is one entry in a trip's append-only activity feed
type PlanActivity struct {
	ID                 string       `json:"id"`
	TripID             string       `json:"trip_id"`
	UserID             string       `json:"user_id"`
	UserName           string       `json:"user_name"`
	Type               ActivityType `json:"type"`
	Message            *string      `json:"message,omitempty"`
	ImageURL           *string      `json:"image_url,omitempty"`
	Location           *string      `json:"location,omitempty"`
	SystemActivityType *string      `json:"system_activity_type,omitempty"`
	RelatedItemID      *string      `json:"related_item_id,omitempty"`
	RelatedItemName    *string      `json:"related_item_name,omitempty"`
	Likes              []string     `json:"likes"`
	CreatedAt          time.Time    `json:"created_at"`
}
