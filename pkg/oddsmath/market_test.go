package oddsmath

import (
	"math"
	"testing"
)

func TestBreakEvenPct(t *testing.T) {
	if got := BreakEvenPct(100, 250); math.Abs(got-0.4) > 0.001 {
		t.Errorf("BreakEvenPct(100, 250) = %v, want 0.4", got)
	}
	if got := BreakEvenPct(100, 0); got != 0 {
		t.Errorf("BreakEvenPct with zero payout = %v, want 0", got)
	}
}

func TestVig(t *testing.T) {
	// -110 both sides: each pays 1.909 per unit, vig ~4.76%.
	got := Vig(1, 1.9091, 1, 1.9091)
	if math.Abs(got-0.0476) > 0.001 {
		t.Errorf("Vig = %v, want ~0.0476", got)
	}
}

func TestBookmakerMargin(t *testing.T) {
	margin, err := BookmakerMargin(American(-110), American(-110), nil)
	if err != nil {
		t.Fatalf("BookmakerMargin: %v", err)
	}
	if math.Abs(margin-0.0476) > 0.001 {
		t.Errorf("two-way margin = %v, want ~0.0476", margin)
	}

	draw := Decimal(3.5)
	margin, err = BookmakerMargin(Decimal(2.1), Decimal(3.4), &draw)
	if err != nil {
		t.Fatalf("BookmakerMargin 3-way: %v", err)
	}
	want := 1/2.1 + 1/3.4 + 1/3.5 - 1
	if math.Abs(margin-want) > 0.0001 {
		t.Errorf("three-way margin = %v, want %v", margin, want)
	}
}

func TestBookmakerCommission(t *testing.T) {
	// Zero commission reduces to the plain margin.
	margin, err := BookmakerMargin(Decimal(1.95), Decimal(1.95), nil)
	if err != nil {
		t.Fatalf("BookmakerMargin: %v", err)
	}
	comm, err := BookmakerCommission(Decimal(1.95), Decimal(1.95), 0, nil)
	if err != nil {
		t.Fatalf("BookmakerCommission: %v", err)
	}
	if math.Abs(margin-comm) > 0.0001 {
		t.Errorf("zero-commission margin = %v, plain margin = %v", comm, margin)
	}

	// A 2% commission raises the effective cost of the market.
	comm2, err := BookmakerCommission(Decimal(1.95), Decimal(1.95), 2, nil)
	if err != nil {
		t.Fatalf("BookmakerCommission: %v", err)
	}
	if comm2 <= comm {
		t.Errorf("commission-adjusted margin %v should exceed %v", comm2, comm)
	}
}

func TestPayoutProfit(t *testing.T) {
	tests := []struct {
		name   string
		stake  float64
		odds   Odds
		payout float64
		profit float64
	}{
		{"American +150", 100, American(150), 250, 150},
		{"American -200", 100, American(-200), 150, 50},
		{"Decimal 2.5", 100, Decimal(2.5), 250, 150},
		{"Fractional 5/4", 50, Fractional(5, 4), 112.5, 62.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payout, err := Payout(tt.stake, tt.odds)
			if err != nil {
				t.Fatalf("Payout: %v", err)
			}
			if math.Abs(payout-tt.payout) > 0.01 {
				t.Errorf("Payout = %v, want %v", payout, tt.payout)
			}
			profit, err := Profit(tt.stake, tt.odds)
			if err != nil {
				t.Fatalf("Profit: %v", err)
			}
			if math.Abs(profit-tt.profit) > 0.01 {
				t.Errorf("Profit = %v, want %v", profit, tt.profit)
			}
		})
	}
}

func TestParlayProfit(t *testing.T) {
	profit, err := ParlayProfit(100, []Odds{American(150), American(-200)})
	if err != nil {
		t.Fatalf("ParlayProfit: %v", err)
	}
	if math.Abs(profit-275) > 0.01 {
		t.Errorf("ParlayProfit = %v, want 275", profit)
	}
}
