package claim

import "testing"

func TestClaimStatusTransitions(t *testing.T) {
	tests := []struct {
		from ClaimStatus
		to   ClaimStatus
		want bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusAccepted, StatusRejected, false},
		{StatusAccepted, StatusPending, false},
		{StatusRejected, StatusCancelled, false},
		{StatusRejected, StatusPending, false},
		{StatusCancelled, StatusAccepted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestClaimStatusIsActive(t *testing.T) {
	tests := []struct {
		status ClaimStatus
		want   bool
	}{
		{StatusPending, true},
		{StatusAccepted, true},
		{StatusRejected, false},
		{StatusCancelled, false},
	}

	for _, tt := range tests {
		if got := tt.status.IsActive(); got != tt.want {
			t.Errorf("%s.IsActive() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
