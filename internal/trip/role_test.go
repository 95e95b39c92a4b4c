package trip

import (
	"errors"
	"testing"
)

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRole(t *testing.T) {
	tr := &Trip{
		AdminIDs:  []string{"alice"},
		ViewerIDs: []string{"bob"},
	}

	tests := []struct {
		name   string
		userID string
		want   Role
	}{
		{name: "admin", userID: "alice", want: RoleAdmin},
		{name: "viewer", userID: "bob", want: RoleViewer},
		{name: "outsider", userID: "carol", want: RoleNotMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.Role(tt.userID); got != tt.want {
				t.Errorf("Role(%q) = %q, want %q", tt.userID, got, tt.want)
			}
		})
	}
}

func TestCanEditList(t *testing.T) {
	tr := &Trip{AdminIDs: []string{"alice"}, ViewerIDs: []string{"bob"}}

	if !tr.CanEditList("alice") {
		t.Error("admin should be able to edit the list")
	}
	if tr.CanEditList("bob") {
		t.Error("viewer should not be able to edit the list")
	}
	if tr.CanEditList("carol") {
		t.Error("non-member should not be able to edit the list")
	}
}

func TestPromoteToAdmin(t *testing.T) {
	tests := []struct {
		name        string
		trip        *Trip
		userID      string
		wantAdmins  []string
		wantViewers []string
	}{
		{
			name:        "promotes a viewer",
			trip:        &Trip{AdminIDs: []string{"alice"}, ViewerIDs: []string{"bob"}},
			userID:      "bob",
			wantAdmins:  []string{"alice", "bob"},
			wantViewers: []string{},
		},
		{
			name:        "idempotent for an existing admin",
			trip:        &Trip{AdminIDs: []string{"alice"}, ViewerIDs: []string{"bob"}},
			userID:      "alice",
			wantAdmins:  []string{"alice"},
			wantViewers: []string{"bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admins, viewers := tt.trip.PromoteToAdmin(tt.userID)
			if !sliceEqual(admins, tt.wantAdmins) {
				t.Errorf("admins = %v, want %v", admins, tt.wantAdmins)
			}
			if !sliceEqual(viewers, tt.wantViewers) {
				t.Errorf("viewers = %v, want %v", viewers, tt.wantViewers)
			}
		})
	}
}

func TestDemoteToViewer(t *testing.T) {
	t.Run("demotes a non-sole admin", func(t *testing.T) {
		tr := &Trip{AdminIDs: []string{"alice", "bob"}, ViewerIDs: []string{}}

		admins, viewers, err := tr.DemoteToViewer("bob")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !sliceEqual(admins, []string{"alice"}) {
			t.Errorf("admins = %v, want [alice]", admins)
		}
		if !sliceEqual(viewers, []string{"bob"}) {
			t.Errorf("viewers = %v, want [bob]", viewers)
		}
	})

	t.Run("rejects demoting the last admin", func(t *testing.T) {
		tr := &Trip{AdminIDs: []string{"alice"}, ViewerIDs: []string{"bob"}}

		_, _, err := tr.DemoteToViewer("alice")
		if !errors.Is(err, ErrLastAdmin) {
			t.Fatalf("error = %v, want ErrLastAdmin", err)
		}
	})

	t.Run("idempotent for an existing viewer", func(t *testing.T) {
		tr := &Trip{AdminIDs: []string{"alice"}, ViewerIDs: []string{"bob"}}

		admins, viewers, err := tr.DemoteToViewer("bob")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !sliceEqual(admins, []string{"alice"}) {
			t.Errorf("admins = %v, want [alice]", admins)
		}
		if !sliceEqual(viewers, []string{"bob"}) {
			t.Errorf("viewers = %v, want [bob]", viewers)
		}
	})
}

func TestIsLastAdmin(t *testing.T) {
	tests := []struct {
		name   string
		admins []string
		userID string
		want   bool
	}{
		{name: "sole admin", admins: []string{"alice"}, userID: "alice", want: true},
		{name: "one of two admins", admins: []string{"alice", "bob"}, userID: "alice", want: false},
		{name: "non-admin", admins: []string{"alice"}, userID: "bob", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Trip{AdminIDs: tt.admins}
			if got := tr.IsLastAdmin(tt.userID); got != tt.want {
				t.Errorf("IsLastAdmin(%q) = %v, want %v", tt.userID, got, tt.want)
			}
		})
	}
}

func TestTripStatusTransitions(t *testing.T) {
	tests := []struct {
		from TripStatus
		to   TripStatus
		want bool
	}{
		{StatusPlanned, StatusInProgress, true},
		{StatusPlanned, StatusCancelled, true},
		{StatusPlanned, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusPlanned, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPlanned, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
