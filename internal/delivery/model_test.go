package delivery

import (
	"errors"
	"testing"

	"github.com/bulkmates/bulkmates-api/internal/claim"
)

func TestNewFromClaim(t *testing.T) {
	tests := []struct {
		name    string
		status  claim.ClaimStatus
		wantErr bool
	}{
		{name: "accepted claim", status: claim.StatusAccepted, wantErr: false},
		{name: "pending claim", status: claim.StatusPending, wantErr: true},
		{name: "rejected claim", status: claim.StatusRejected, wantErr: true},
		{name: "cancelled claim", status: claim.StatusCancelled, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &claim.ItemClaim{
				ID:            "claim-1",
				TripID:        "trip-1",
				ItemID:        "item-1",
				ClaimerUserID: "alice",
				Status:        tt.status,
			}

			d, err := NewFromClaim(c, "bob")
			if tt.wantErr {
				if !errors.Is(err, ErrClaimNotAccepted) {
					t.Fatalf("error = %v, want ErrClaimNotAccepted", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.ClaimID != "claim-1" || d.TripID != "trip-1" || d.ItemID != "item-1" {
				t.Errorf("delivery did not inherit the claim's identifiers: %+v", d)
			}
			if d.ReceiverUserID != "alice" {
				t.Errorf("receiver = %q, want the claimer", d.ReceiverUserID)
			}
			if d.DelivererUserID != "bob" {
				t.Errorf("deliverer = %q, want bob", d.DelivererUserID)
			}
			if d.IsDelivered {
				t.Error("new delivery should not be confirmed")
			}
		})
	}
}
