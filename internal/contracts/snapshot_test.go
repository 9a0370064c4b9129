package contracts

import "testing"

func TestSnapshotMA(t *testing.T) {
	snap := &IndicatorSnapshot{
		Ticker:         "AAPL",
		MovingAverages: map[int]float64{20: 184.2, 60: 179.5},
	}

	if v, ok := snap.MA(20); !ok || v != 184.2 {
		t.Errorf("MA(20) = %v, %v; want 184.2, true", v, ok)
	}
	if _, ok := snap.MA(120); ok {
		t.Error("MA(120) should not be present")
	}

	var empty IndicatorSnapshot
	if _, ok := empty.MA(20); ok {
		t.Error("MA on nil map should report absent")
	}
}

func TestDivergenceConfirmed(t *testing.T) {
	tests := []struct {
		name string
		d    DivergenceState
		want bool
	}{
		{"confirmed two bars", DivergenceState{PriceLowerLow: true, RSIGap: 3.1, ConfirmBars: 2}, true},
		{"confirmed three bars", DivergenceState{PriceLowerLow: true, RSIGap: 0.4, ConfirmBars: 3}, true},
		{"single bar only", DivergenceState{PriceLowerLow: true, RSIGap: 2.0, ConfirmBars: 1}, false},
		{"no lower low", DivergenceState{PriceLowerLow: false, RSIGap: 5.0, ConfirmBars: 2}, false},
		{"rsi gap negative", DivergenceState{PriceLowerLow: true, RSIGap: -1.2, ConfirmBars: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Confirmed(); got != tt.want {
				t.Errorf("Confirmed() = %v, want %v", got, tt.want)
			}
		})
	}
}
