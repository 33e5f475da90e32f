// Package money provides the currency-tagged fixed-precision decimal value
// the margin calculation runs on. All arithmetic across two amounts requires
// an identical currency; there is no implicit conversion anywhere.
package money

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/finclear/marginengine/internal/domain"
)

// ErrCurrencyMismatch aborts any binary operation over differing currencies.
var ErrCurrencyMismatch = fmt.Errorf("currency mismatch")

// Amount is an immutable currency-tagged decimal value.
type Amount struct {
	ccy   domain.Currency
	value decimal.Decimal
}

// New builds an amount in the given currency.
func New(ccy domain.Currency, value decimal.Decimal) Amount {
	return Amount{ccy: ccy, value: value}
}

// Zero is the additive identity in the given currency.
func Zero(ccy domain.Currency) Amount {
	return Amount{ccy: ccy, value: decimal.Zero}
}

// Parse builds an amount from a decimal string.
func Parse(ccy domain.Currency, s string) (Amount, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("malformed amount %q: %w", s, err)
	}
	return Amount{ccy: ccy, value: v}, nil
}

func (a Amount) Currency() domain.Currency { return a.ccy }
func (a Amount) Value() decimal.Decimal    { return a.value }
func (a Amount) IsZero() bool              { return a.value.IsZero() }
func (a Amount) Sign() int                 { return a.value.Sign() }

func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.value.String(), a.ccy)
}

func (a Amount) sameCurrency(b Amount) error {
	if a.ccy != b.ccy {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, a.ccy, b.ccy)
	}
	return nil
}

// Add returns a+b, failing on a currency mismatch.
func (a Amount) Add(b Amount) (Amount, error) {
	if err := a.sameCurrency(b); err != nil {
		return Amount{}, err
	}
	return Amount{ccy: a.ccy, value: a.value.Add(b.value)}, nil
}

// Sub returns a-b, failing on a currency mismatch.
func (a Amount) Sub(b Amount) (Amount, error) {
	if err := a.sameCurrency(b); err != nil {
		return Amount{}, err
	}
	return Amount{ccy: a.ccy, value: a.value.Sub(b.value)}, nil
}

// Mul returns a·b in a's currency; multiplying two monetary values only
// arises inside quadrature terms, where one side is semantically a weight.
func (a Amount) Mul(b Amount) (Amount, error) {
	if err := a.sameCurrency(b); err != nil {
		return Amount{}, err
	}
	return Amount{ccy: a.ccy, value: a.value.Mul(b.value)}, nil
}

// Cmp compares two amounts of the same currency.
func (a Amount) Cmp(b Amount) (int, error) {
	if err := a.sameCurrency(b); err != nil {
		return 0, err
	}
	return a.value.Cmp(b.value), nil
}

// Scale multiplies by a dimensionless factor, preserving currency.
func (a Amount) Scale(f decimal.Decimal) Amount {
	return Amount{ccy: a.ccy, value: a.value.Mul(f)}
}

// Abs returns the magnitude, preserving currency.
func (a Amount) Abs() Amount {
	return Amount{ccy: a.ccy, value: a.value.Abs()}
}

// Neg flips the sign, preserving currency.
func (a Amount) Neg() Amount {
	return Amount{ccy: a.ccy, value: a.value.Neg()}
}

// Round rounds half away from zero to the given number of decimal places.
func (a Amount) Round(places int32) Amount {
	return Amount{ccy: a.ccy, value: a.value.Round(places)}
}

// Sqrt takes the square root of a non-negative amount. The root is computed
// in binary floating point, which is deterministic across runs and platforms
// (IEEE 754 sqrt is exactly rounded).
func (a Amount) Sqrt() (Amount, error) {
	if a.value.Sign() < 0 {
		return Amount{}, fmt.Errorf("square root of negative amount %s", a)
	}
	return Amount{ccy: a.ccy, value: Sqrt(a.value)}, nil
}

// Sqrt is the deterministic decimal square root used throughout the
// aggregation formulas.
func Sqrt(d decimal.Decimal) decimal.Decimal {
	if d.Sign() <= 0 {
		return decimal.Zero
	}
	f, _ := d.Float64()
	return decimal.NewFromFloat(math.Sqrt(f))
}

// Min returns the smaller of two same-currency amounts.
func Min(a, b Amount) (Amount, error) {
	c, err := a.Cmp(b)
	if err != nil {
		return Amount{}, err
	}
	if c <= 0 {
		return a, nil
	}
	return b, nil
}

// Max returns the larger of two same-currency amounts.
func Max(a, b Amount) (Amount, error) {
	c, err := a.Cmp(b)
	if err != nil {
		return Amount{}, err
	}
	if c >= 0 {
		return a, nil
	}
	return b, nil
}

// Sum folds a slice of amounts in the given currency in slice order. An empty
// slice sums to zero in that currency.
func Sum(ccy domain.Currency, amounts []Amount) (Amount, error) {
	total := Zero(ccy)
	for _, a := range amounts {
		var err error
		total, err = total.Add(a)
		if err != nil {
			return Amount{}, err
		}
	}
	return total, nil
}
