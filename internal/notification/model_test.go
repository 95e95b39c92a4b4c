package notification

import "testing"

func TestNotificationStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status NotificationStatus
		want   bool
	}{
		{StatusPending, false},
		{StatusAccepted, true},
		{StatusRejected, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestNotificationTypeIsInvitation(t *testing.T) {
	tests := []struct {
		typ  NotificationType
		want bool
	}{
		{TypeGroupInvitation, true},
		{TypeTripInvitation, true},
		{TypeTripUpdate, false},
		{TypeGroupUpdate, false},
	}

	for _, tt := range tests {
		if got := tt.typ.IsInvitation(); got != tt.want {
			t.Errorf("%s.IsInvitation() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}
