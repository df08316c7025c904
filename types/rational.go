package types

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

type Rational struct {
	Num int
	Den int
}

func (r Rational) IsZero() bool {
	return r.Num == 0 || r.Den == 0
}

func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// RationalFromFloat64 picks the closest fraction with a denominator of at
// most 1000000.
func RationalFromFloat64(f float64) Rational {
	if float64(int(f)) == f {
		return Rational{Num: int(f), Den: 1}
	}
	rat := new(big.Rat).SetFloat64(f)
	if rat == nil {
		return Rational{}
	}
	num, den := rat.Num().Int64(), rat.Denom().Int64()
	for den > 1000000 {
		num /= 2
		den /= 2
	}
	return Rational{Num: int(num), Den: int(den)}
}

// RationalFromString accepts "30000/1001" or "29.97".
func RationalFromString(s string) (*Rational, error) {
	var r Rational
	switch {
	case len(s) == 0:
		return nil, fmt.Errorf("unable to parse Rational from empty string")
	case strings.Contains(s, "/"):
		if _, err := fmt.Sscanf(s, "%d/%d", &r.Num, &r.Den); err != nil {
			return nil, fmt.Errorf("unable to parse Rational from %q: %w", s, err)
		}
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("unable to parse Rational from %q: %w", s, err)
		}
		r = RationalFromFloat64(f)
	}
	if r.Den == 0 {
		return nil, fmt.Errorf("denominator cannot be zero")
	}
	return &r, nil
}
