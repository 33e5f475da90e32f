package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Bucket is the classification partition scoping intra-group correlation
// within a risk class. Residual buckets never participate in cross-bucket
// correlation.
type Bucket interface {
	Name() string
	Residual() bool
}

// residualLabel is the interchange spelling of a residual bucket.
const residualLabel = "Residual"

// CommodityBucket is a numbered commodity sector bucket (1-17).
type CommodityBucket int

func (b CommodityBucket) Name() string   { return strconv.Itoa(int(b)) }
func (b CommodityBucket) Residual() bool { return false }

// EquityBucket is a numbered equity bucket (1-12); zero is the residual.
type EquityBucket int

func (b EquityBucket) Name() string {
	if b == 0 {
		return residualLabel
	}
	return strconv.Itoa(int(b))
}
func (b EquityBucket) Residual() bool { return b == 0 }

// CreditQualifyingBucket is a numbered qualifying-credit bucket (1-12); zero
// is the residual.
type CreditQualifyingBucket int

func (b CreditQualifyingBucket) Name() string {
	if b == 0 {
		return residualLabel
	}
	return strconv.Itoa(int(b))
}
func (b CreditQualifyingBucket) Residual() bool { return b == 0 }

// CreditNonQualifyingBucket is a numbered non-qualifying-credit bucket (1-2);
// zero is the residual.
type CreditNonQualifyingBucket int

func (b CreditNonQualifyingBucket) Name() string {
	if b == 0 {
		return residualLabel
	}
	return strconv.Itoa(int(b))
}
func (b CreditNonQualifyingBucket) Residual() bool { return b == 0 }

// CurrencyBucket scopes rates sensitivities by currency.
type CurrencyBucket struct {
	Ccy Currency
}

func (b CurrencyBucket) Name() string   { return string(b.Ccy) }
func (b CurrencyBucket) Residual() bool { return false }

// PlaceholderBucket stands in where the risk class has no bucket dimension,
// e.g. the synthetic Common bucket of the base-correlation combination.
type PlaceholderBucket struct{}

func (PlaceholderBucket) Name() string   { return "" }
func (PlaceholderBucket) Residual() bool { return false }

// ParseBucket interprets the interchange bucket column for a risk class.
// Rates keys buckets by currency; FX has no bucket dimension and every
// sensitivity lands in the placeholder; the credit and equity classes accept
// "Residual"; everything else is a number in the class's calibrated range.
func ParseBucket(risk RiskClass, s string) (Bucket, error) {
	s = strings.TrimSpace(s)
	switch risk {
	case Rates:
		ccy, err := ParseCurrency(s)
		if err != nil {
			return nil, err
		}
		return CurrencyBucket{Ccy: ccy}, nil
	case Fx:
		return PlaceholderBucket{}, nil
	case Commodity:
		n, err := bucketNumber(s, 17, false)
		if err != nil {
			return nil, fmt.Errorf("commodity bucket: %w", err)
		}
		return CommodityBucket(n), nil
	case Equity:
		n, err := bucketNumber(s, 12, true)
		if err != nil {
			return nil, fmt.Errorf("equity bucket: %w", err)
		}
		return EquityBucket(n), nil
	case CreditQualifying:
		n, err := bucketNumber(s, 12, true)
		if err != nil {
			return nil, fmt.Errorf("qualifying credit bucket: %w", err)
		}
		return CreditQualifyingBucket(n), nil
	case CreditNonQualifying:
		n, err := bucketNumber(s, 2, true)
		if err != nil {
			return nil, fmt.Errorf("non-qualifying credit bucket: %w", err)
		}
		return CreditNonQualifyingBucket(n), nil
	}
	return nil, fmt.Errorf("risk class %s has no bucket form for %q", risk, s)
}

func bucketNumber(s string, max int, residualOK bool) (int, error) {
	if strings.EqualFold(s, residualLabel) {
		if !residualOK {
			return 0, fmt.Errorf("residual bucket not defined for this risk class")
		}
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > max {
		return 0, fmt.Errorf("bucket %q outside calibrated range 1..%d", s, max)
	}
	return n, nil
}

// CompareBuckets fixes the deterministic bucket ordering: placeholders first,
// residuals last, numbered buckets numerically, currency buckets by code.
func CompareBuckets(a, b Bucket) int {
	ra, rb := bucketRank(a), bucketRank(b)
	if ra != rb {
		return ra - rb
	}
	na, nb := a.Name(), b.Name()
	ia, errA := strconv.Atoi(na)
	ib, errB := strconv.Atoi(nb)
	if errA == nil && errB == nil {
		return ia - ib
	}
	return strings.Compare(na, nb)
}

func bucketRank(b Bucket) int {
	if _, ok := b.(PlaceholderBucket); ok {
		return 0
	}
	if b.Residual() {
		return 2
	}
	return 1
}
