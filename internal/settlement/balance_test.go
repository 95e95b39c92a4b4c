package settlement

import "testing"

func TestComputeBalance(t *testing.T) {
	txs := []*Transaction{
		{FromUserID: "x", ToUserID: "y", ItemPoints: 3, Status: StatusPending},
		{FromUserID: "y", ToUserID: "x", ItemPoints: 1, Status: StatusDisputed},
		{FromUserID: "x", ToUserID: "z", ItemPoints: 5, Status: StatusSettled},
		{FromUserID: "z", ToUserID: "x", ItemPoints: 7, Status: StatusCancelled},
	}

	b := ComputeBalance("x", txs)

	if b.TotalItemsOwed != 3 {
		t.Errorf("totalItemsOwed = %v, want 3 (settled and cancelled excluded)", b.TotalItemsOwed)
	}
	if b.TotalItemsOwedTo != 1 {
		t.Errorf("totalItemsOwedTo = %v, want 1", b.TotalItemsOwedTo)
	}
	if b.NetItemBalance != -2 {
		t.Errorf("netItemBalance = %v, want -2", b.NetItemBalance)
	}
}

func TestComputeBalanceOrderIndependent(t *testing.T) {
	txs := []*Transaction{
		{FromUserID: "x", ToUserID: "y", ItemPoints: 3, Status: StatusPending},
		{FromUserID: "y", ToUserID: "x", ItemPoints: 4, Status: StatusPending},
		{FromUserID: "x", ToUserID: "z", ItemPoints: 2, Status: StatusDisputed},
	}
	reversed := []*Transaction{txs[2], txs[1], txs[0]}

	a := ComputeBalance("x", txs)
	b := ComputeBalance("x", reversed)

	if *a != *b {
		t.Errorf("balance depends on transaction order: %+v vs %+v", a, b)
	}
}

func TestSettlingDischargesObligation(t *testing.T) {
	// Scenario: x owes y 3 points; settling moves both nets toward zero.
	pending := []*Transaction{{FromUserID: "x", ToUserID: "y", ItemPoints: 3, Status: StatusPending}}
	settled := []*Transaction{{FromUserID: "x", ToUserID: "y", ItemPoints: 3, Status: StatusSettled}}

	beforeX := ComputeBalance("x", pending)
	afterX := ComputeBalance("x", settled)
	if afterX.NetItemBalance-beforeX.NetItemBalance != 3 {
		t.Errorf("settling should raise x's net by 3, got %v -> %v", beforeX.NetItemBalance, afterX.NetItemBalance)
	}

	beforeY := ComputeBalance("y", pending)
	afterY := ComputeBalance("y", settled)
	if afterY.NetItemBalance-beforeY.NetItemBalance != -3 {
		t.Errorf("settling should lower y's net by 3, got %v -> %v", beforeY.NetItemBalance, afterY.NetItemBalance)
	}
}

func TestTransactionStatusTransitions(t *testing.T) {
	tests := []struct {
		from TransactionStatus
		to   TransactionStatus
		want bool
	}{
		{StatusPending, StatusSettled, true},
		{StatusPending, StatusDisputed, true},
		{StatusPending, StatusCancelled, true},
		{StatusDisputed, StatusSettled, true},
		{StatusDisputed, StatusCancelled, true},
		{StatusDisputed, StatusPending, false},
		{StatusSettled, StatusPending, false},
		{StatusSettled, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
