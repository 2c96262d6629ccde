package oddsmath

import (
	"math"
	"testing"
)

func TestImpliedProb(t *testing.T) {
	tests := []struct {
		name     string
		odds     Odds
		expected float64
	}{
		{"Even money decimal", Decimal(2.0), 0.5},
		{"Decimal 1.5", Decimal(1.5), 0.667},
		{"Fractional 4/1", Fractional(4, 1), 0.2},
		{"American -200", American(-200), 0.667},
		{"American +150", American(150), 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImpliedProb(tt.odds)
			if err != nil {
				t.Fatalf("ImpliedProb: %v", err)
			}
			if math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("ImpliedProb(%v) = %v, want %v", tt.odds, got, tt.expected)
			}
		})
	}
}

func TestAmericanImpliedProb(t *testing.T) {
	tests := []struct {
		odds     Odds
		expected float64
	}{
		{American(-110), 0.5238},
		{American(-200), 0.6667},
		{American(300), 0.25},
		{Decimal(2.5), 0.4},
	}

	for _, tt := range tests {
		got, err := AmericanImpliedProb(tt.odds)
		if err != nil {
			t.Fatalf("AmericanImpliedProb(%v): %v", tt.odds, err)
		}
		if math.Abs(got-tt.expected) > 0.001 {
			t.Errorf("AmericanImpliedProb(%v) = %v, want %v", tt.odds, got, tt.expected)
		}
	}
}

func TestTrueOddsEV(t *testing.T) {
	tests := []struct {
		name                string
		stake, profit, prob float64
		expected            float64
	}{
		{"positive edge", 100, 200, 0.6, 80},
		{"negative edge", 100, 150, 0.4, -10},
		{"coin flip at 2:1", 100, 200, 0.5, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrueOddsEV(tt.stake, tt.profit, tt.prob); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("TrueOddsEV = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatedOddsEV(t *testing.T) {
	// Typical -110/-110 market: backing either side is -EV by the vig.
	got := StatedOddsEV(110, 100, 110, 100)
	if got >= 0 {
		t.Errorf("StatedOddsEV on vigged market = %v, want negative", got)
	}

	// Fair even-money market has zero EV.
	got = StatedOddsEV(100, 100, 100, 100)
	if math.Abs(got) > 0.001 {
		t.Errorf("StatedOddsEV on fair market = %v, want 0", got)
	}
}

func TestEloProb(t *testing.T) {
	tests := []struct {
		diff     float64
		expected float64
	}{
		{0, 0.5},
		{100, 0.64},
		{-150, 0.30},
		{400, 0.909},
	}

	for _, tt := range tests {
		if got := EloProb(tt.diff); math.Abs(got-tt.expected) > 0.005 {
			t.Errorf("EloProb(%v) = %v, want %v", tt.diff, got, tt.expected)
		}
	}
}

func TestProbToOdds(t *testing.T) {
	o, err := ProbToOdds(0.4, FormatAmerican)
	if err != nil {
		t.Fatalf("ProbToOdds: %v", err)
	}
	am, _ := o.ToAmerican()
	if am != 150 {
		t.Errorf("ProbToOdds(0.4, american) = %d, want +150", am)
	}

	o, err = ProbToOdds(0.5, FormatDecimal)
	if err != nil {
		t.Fatalf("ProbToOdds: %v", err)
	}
	dec, _ := o.ToDecimal()
	if math.Abs(dec-2.0) > 0.001 {
		t.Errorf("ProbToOdds(0.5, decimal) = %v, want 2.0", dec)
	}

	o, err = ProbToOdds(0.25, FormatFractional)
	if err != nil {
		t.Fatalf("ProbToOdds: %v", err)
	}
	num, den, _ := o.ToFraction()
	if num != 3 || den != 1 {
		t.Errorf("ProbToOdds(0.25, fractional) = %d/%d, want 3/1", num, den)
	}

	for _, p := range []float64{0, 1, -0.5, 1.5} {
		if _, err := ProbToOdds(p, FormatAmerican); err == nil {
			t.Errorf("ProbToOdds(%v): expected error", p)
		}
	}
}
