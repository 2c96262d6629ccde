package oddsmath

import (
	"errors"
	"math"
	"testing"
)

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		odds     Odds
		expected float64
		delta    float64
	}{
		{"American favorite -110", American(-110), 1.9091, 0.001},
		{"American underdog +150", American(150), 2.5, 0.001},
		{"American even +100", American(100), 2.0, 0.001},
		{"American heavy favorite -300", American(-300), 1.3333, 0.001},
		{"Decimal passthrough", Decimal(2.25), 2.25, 0.0001},
		{"Fractional 5/4", Fractional(5, 4), 2.25, 0.0001},
		{"Fractional 1/2", Fractional(1, 2), 1.5, 0.0001},
		{"Fractional 3/1", Fractional(3, 1), 4.0, 0.0001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.odds.ToDecimal()
			if err != nil {
				t.Fatalf("ToDecimal(%v): %v", tt.odds, err)
			}
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("ToDecimal(%v) = %v, want %v", tt.odds, got, tt.expected)
			}
		})
	}
}

func TestToDecimalInvalid(t *testing.T) {
	for _, o := range []Odds{American(0), American(50), American(-99), Decimal(0.9), Fractional(0, 4), {}} {
		if _, err := o.ToDecimal(); !errors.Is(err, ErrInvalidOdds) {
			t.Errorf("ToDecimal(%v): expected ErrInvalidOdds, got %v", o, err)
		}
	}
}

func TestDecimalAmericanRoundTrip(t *testing.T) {
	// Round-tripping decimal -> American -> decimal must recover the original
	// value within 0.01.
	for _, dec := range []float64{1.05, 1.25, 1.5, 1.91, 1.99, 2.0, 2.25, 2.5, 3.0, 5.0, 11.0} {
		am, err := Decimal(dec).ToAmerican()
		if err != nil {
			t.Fatalf("ToAmerican(%v): %v", dec, err)
		}
		back, err := American(am).ToDecimal()
		if err != nil {
			t.Fatalf("ToDecimal(%d): %v", am, err)
		}
		if math.Abs(back-dec) > 0.01 {
			t.Errorf("round trip %v -> %d -> %v exceeds tolerance", dec, am, back)
		}
	}
}

func TestToAmerican(t *testing.T) {
	tests := []struct {
		name     string
		odds     Odds
		expected int
	}{
		{"Decimal 2.50", Decimal(2.5), 150},
		{"Decimal 1.909", Decimal(1.909), -110},
		{"Decimal even", Decimal(2.0), 100},
		{"Fractional 1/2", Fractional(1, 2), -200},
		{"American passthrough", American(-150), -150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.odds.ToAmerican()
			if err != nil {
				t.Fatalf("ToAmerican: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ToAmerican(%v) = %d, want %d", tt.odds, got, tt.expected)
			}
		})
	}
}

func TestToFraction(t *testing.T) {
	num, den, err := American(150).ToFraction()
	if err != nil {
		t.Fatalf("ToFraction: %v", err)
	}
	if num != 3 || den != 2 {
		t.Errorf("ToFraction(+150) = %d/%d, want 3/2", num, den)
	}

	num, den, err = Decimal(1.5).ToFraction()
	if err != nil {
		t.Fatalf("ToFraction: %v", err)
	}
	if num != 1 || den != 2 {
		t.Errorf("ToFraction(1.5) = %d/%d, want 1/2", num, den)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Odds
	}{
		{"+150", American(150)},
		{"150", American(150)},
		{"-110", American(-110)},
		{"5/4", Fractional(5, 4)},
		{"2.50", Decimal(2.5)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "abc", "-50", "5/0", "0.50"} {
		if _, err := Parse(bad); !errors.Is(err, ErrInvalidOdds) {
			t.Errorf("Parse(%q): expected ErrInvalidOdds, got %v", bad, err)
		}
	}
}

func TestParlayDecimal(t *testing.T) {
	got, err := ParlayDecimal([]Odds{American(150), American(-200)})
	if err != nil {
		t.Fatalf("ParlayDecimal: %v", err)
	}
	if math.Abs(got-3.75) > 0.001 {
		t.Errorf("ParlayDecimal = %v, want 3.75", got)
	}

	if _, err := ParlayDecimal(nil); err == nil {
		t.Error("expected error for empty parlay")
	}
	if _, err := ParlayDecimal([]Odds{American(150), American(0)}); !errors.Is(err, ErrInvalidOdds) {
		t.Errorf("expected ErrInvalidOdds for bad leg, got %v", err)
	}
}
