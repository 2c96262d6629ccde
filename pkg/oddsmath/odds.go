package oddsmath

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format identifies an odds representation.
type Format int

const (
	FormatAmerican Format = iota
	FormatDecimal
	FormatFractional
)

func (f Format) String() string {
	switch f {
	case FormatAmerican:
		return "american"
	case FormatDecimal:
		return "decimal"
	case FormatFractional:
		return "fractional"
	default:
		return "unknown"
	}
}

// ErrInvalidOdds wraps all odds parsing and conversion failures.
var ErrInvalidOdds = fmt.Errorf("invalid odds")

// Odds is a closed tagged variant over the three supported representations.
// Construct via American, Decimal, Fractional or Parse; the zero value is not
// a valid odds value.
type Odds struct {
	format   Format
	american int
	decimal  float64
	num, den int64
}

// American constructs American-format odds (+150, -110).
func American(v int) Odds {
	return Odds{format: FormatAmerican, american: v}
}

// Decimal constructs decimal-format odds (2.50 = +150).
func Decimal(v float64) Odds {
	return Odds{format: FormatDecimal, decimal: v}
}

// Fractional constructs fractional-format odds (5/4, 1/2).
func Fractional(num, den int64) Odds {
	return Odds{format: FormatFractional, num: num, den: den}
}

// Parse accepts American ("+150", "-110", "150"), fractional ("5/4") and
// decimal ("2.50") odds strings.
func Parse(s string) (Odds, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Odds{}, fmt.Errorf("%w: empty string", ErrInvalidOdds)
	}

	if strings.Contains(s, "/") {
		parts := strings.SplitN(s, "/", 2)
		num, err1 := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		den, err2 := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err1 != nil || err2 != nil || den == 0 {
			return Odds{}, fmt.Errorf("%w: bad fraction %q", ErrInvalidOdds, s)
		}
		return Fractional(num, den), nil
	}

	if strings.Contains(s, ".") {
		dec, err := strconv.ParseFloat(s, 64)
		if err != nil || dec <= 1.0 {
			return Odds{}, fmt.Errorf("%w: bad decimal odds %q", ErrInvalidOdds, s)
		}
		return Decimal(dec), nil
	}

	v, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	if err != nil {
		return Odds{}, fmt.Errorf("%w: %q", ErrInvalidOdds, s)
	}
	if strings.HasPrefix(s, "-") && v > -100 {
		return Odds{}, fmt.Errorf("%w: negative American odds must be <= -100, got %q", ErrInvalidOdds, s)
	}
	return American(v), nil
}

// Format returns the representation this value was constructed in.
func (o Odds) Fmt() Format { return o.format }

// ToDecimal converts to decimal odds.
// American +150 -> 2.50, -110 -> 1.909, fractional 5/4 -> 2.25.
func (o Odds) ToDecimal() (float64, error) {
	switch o.format {
	case FormatDecimal:
		if o.decimal <= 1.0 {
			return 0, fmt.Errorf("%w: decimal odds must be > 1.0, got %v", ErrInvalidOdds, o.decimal)
		}
		return o.decimal, nil
	case FormatAmerican:
		switch {
		case o.american >= 100:
			return 1 + float64(o.american)/100.0, nil
		case o.american <= -100:
			return 1 + 100.0/math.Abs(float64(o.american)), nil
		default:
			return 0, fmt.Errorf("%w: American odds must be outside (-100, 100), got %d", ErrInvalidOdds, o.american)
		}
	case FormatFractional:
		if o.den == 0 || o.num <= 0 {
			return 0, fmt.Errorf("%w: bad fraction %d/%d", ErrInvalidOdds, o.num, o.den)
		}
		return 1 + float64(o.num)/float64(o.den), nil
	default:
		return 0, fmt.Errorf("%w: unknown format", ErrInvalidOdds)
	}
}

// ToAmerican converts to American odds.
// Decimal 2.50 -> +150, 1.909 -> -110.
func (o Odds) ToAmerican() (int, error) {
	if o.format == FormatAmerican {
		if o.american > -100 && o.american < 100 {
			return 0, fmt.Errorf("%w: American odds must be outside (-100, 100), got %d", ErrInvalidOdds, o.american)
		}
		return o.american, nil
	}
	dec, err := o.ToDecimal()
	if err != nil {
		return 0, err
	}
	if dec >= 2.0 {
		return int(math.Round((dec - 1) * 100)), nil
	}
	return int(math.Round(-100 / (dec - 1))), nil
}

// ToFraction converts to fractional odds, reduced to lowest terms.
func (o Odds) ToFraction() (num, den int64, err error) {
	if o.format == FormatFractional {
		if o.den == 0 {
			return 0, 0, fmt.Errorf("%w: zero denominator", ErrInvalidOdds)
		}
		g := gcd(abs64(o.num), abs64(o.den))
		return o.num / g, o.den / g, nil
	}
	dec, err := o.ToDecimal()
	if err != nil {
		return 0, 0, err
	}
	num = int64(math.Round((dec - 1) * 100))
	den = int64(100)
	g := gcd(abs64(num), den)
	return num / g, den / g, nil
}

// String renders the odds in their native representation.
func (o Odds) String() string {
	switch o.format {
	case FormatAmerican:
		if o.american > 0 {
			return fmt.Sprintf("+%d", o.american)
		}
		return strconv.Itoa(o.american)
	case FormatDecimal:
		return strconv.FormatFloat(o.decimal, 'f', 2, 64)
	case FormatFractional:
		return fmt.Sprintf("%d/%d", o.num, o.den)
	default:
		return "?"
	}
}

// ParlayDecimal computes combined parlay odds as the product of each leg's
// decimal odds.
func ParlayDecimal(legs []Odds) (float64, error) {
	if len(legs) == 0 {
		return 0, fmt.Errorf("%w: parlay needs at least one leg", ErrInvalidOdds)
	}
	product := 1.0
	for i, leg := range legs {
		dec, err := leg.ToDecimal()
		if err != nil {
			return 0, fmt.Errorf("parlay leg %d: %w", i, err)
		}
		product *= dec
	}
	return product, nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
