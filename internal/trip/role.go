package trip

import "errors"

// Role errors
var (
	ErrLastAdmin = errors.New("cannot demote the last admin of an active trip")
)

// Role represents what a user may do to a trip
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleViewer    Role = "viewer"
	RoleNotMember Role = "not_member"
)

// Role resolves the user's role from the trip's membership lists
func (t *Trip) Role(userID string) Role {
	if contains(t.AdminIDs, userID) {
		return RoleAdmin
	}
	if contains(t.ViewerIDs, userID) {
		return RoleViewer
	}
	return RoleNotMember
}

// CanEditList reports whether the user may mutate the trip's item list
func (t *Trip) CanEditList(userID string) bool {
	return t.Role(userID) == RoleAdmin
}

// IsCreator reports whether the user created the trip
func (t *Trip) IsCreator(userID string) bool {
	return t.CreatorID == userID
}

// IsLastAdmin reports whether the user is the sole remaining admin
func (t *Trip) IsLastAdmin(userID string) bool {
	return len(t.AdminIDs) == 1 && t.AdminIDs[0] == userID
}

// PromoteToAdmin returns new admin and viewer lists with the user moved into
// the admin list. Idempotent: promoting an existing admin changes nothing.
func (t *Trip) PromoteToAdmin(userID string) (adminIDs, viewerIDs []string) {
	viewerIDs = remove(t.ViewerIDs, userID)
	adminIDs = t.AdminIDs
	if !contains(adminIDs, userID) {
		adminIDs = append(append([]string{}, adminIDs...), userID)
	}
	return adminIDs, viewerIDs
}

// DemoteToViewer returns new admin and viewer lists with the user moved into
// the viewer list. Demoting the sole remaining admin fails with ErrLastAdmin.
// Idempotent for users already outside the admin list.
func (t *Trip) DemoteToViewer(userID string) (adminIDs, viewerIDs []string, err error) {
	if t.IsLastAdmin(userID) {
		return nil, nil, ErrLastAdmin
	}

	adminIDs = remove(t.AdminIDs, userID)
	viewerIDs = t.ViewerIDs
	if !contains(viewerIDs, userID) {
		viewerIDs = append(append([]string{}, viewerIDs...), userID)
	}
	return adminIDs, viewerIDs, nil
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
