package unit

import "testing"

func TestFactoryCreate(t *testing.T) {
	f := NewFactory()

	tests := []struct {
		name    string
		unit    Unit
		wantErr bool
	}{
		{name: "points", unit: UnitPoints, wantErr: false},
		{name: "monetary", unit: UnitMonetary, wantErr: false},
		{name: "unknown", unit: Unit("bitcoin"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strat, err := f.Create(tt.unit)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error for unknown unit")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strat.Unit() != tt.unit {
				t.Errorf("Unit() = %s, want %s", strat.Unit(), tt.unit)
			}
		})
	}
}

func TestPointsValue(t *testing.T) {
	s := &PointsStrategy{}

	if got := s.Value(3, 99.99); got != 3 {
		t.Errorf("Value(3, 99.99) = %v, want 3 (price ignored)", got)
	}
	if got := s.Value(0, 1); got != 0 {
		t.Errorf("Value(0, 1) = %v, want 0", got)
	}
}

func TestMonetaryValue(t *testing.T) {
	s := &MonetaryStrategy{}

	if got := s.Value(4, 2.5); got != 10 {
		t.Errorf("Value(4, 2.5) = %v, want 10", got)
	}
	if got := s.Value(3, 0.333); got != 1.0 {
		t.Errorf("Value(3, 0.333) = %v, want 1.0 (rounded to cents)", got)
	}
	if got := s.Value(2, 0); got != 0 {
		t.Errorf("Value(2, 0) = %v, want 0", got)
	}
}
