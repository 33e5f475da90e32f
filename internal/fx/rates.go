// Package fx supplies currency conversion to the engine: direct quotes,
// implied inverses and one-hop triangulation through a common intermediate.
package fx

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
)

// ErrRateNotFound aborts a calculation when no direct or one-hop path exists.
var ErrRateNotFound = fmt.Errorf("exchange rate not found")

// Converter is the conversion contract the engine consumes.
type Converter interface {
	Convert(a money.Amount, target domain.Currency) (money.Amount, error)
}

var one = decimal.NewFromInt(1)

// Rates is an immutable-after-seeding in-memory rate table.
type Rates struct {
	quotes map[domain.Currency]map[domain.Currency]decimal.Decimal
}

func NewRates() *Rates {
	return &Rates{quotes: make(map[domain.Currency]map[domain.Currency]decimal.Decimal)}
}

// Set records a quote and its implied inverse. Only positive rates are
// accepted; anything else has no meaningful inverse.
func (r *Rates) Set(from, to domain.Currency, rate decimal.Decimal) error {
	if rate.Sign() <= 0 {
		return fmt.Errorf("rate %s for %s/%s must be positive", rate, from, to)
	}
	r.set(from, to, rate)
	r.set(to, from, one.Div(rate))
	return nil
}

func (r *Rates) set(from, to domain.Currency, rate decimal.Decimal) {
	if r.quotes[from] == nil {
		r.quotes[from] = make(map[domain.Currency]decimal.Decimal)
	}
	r.quotes[from][to] = rate
}

// Rate resolves from→to directly or through the lexicographically first
// common intermediate (rate(A,C) = rate(A,B)·rate(B,C)).
func (r *Rates) Rate(from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return one, nil
	}
	if rate, ok := r.quotes[from][to]; ok {
		return rate, nil
	}
	mids := make([]domain.Currency, 0, len(r.quotes[from]))
	for mid := range r.quotes[from] {
		mids = append(mids, mid)
	}
	sort.Slice(mids, func(i, j int) bool { return mids[i] < mids[j] })
	for _, mid := range mids {
		if second, ok := r.quotes[mid][to]; ok {
			return r.quotes[from][mid].Mul(second), nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w: %s to %s", ErrRateNotFound, from, to)
}

// Convert re-denominates an amount into the target currency.
func (r *Rates) Convert(a money.Amount, target domain.Currency) (money.Amount, error) {
	if a.Currency() == target {
		return a, nil
	}
	rate, err := r.Rate(a.Currency(), target)
	if err != nil {
		return money.Amount{}, err
	}
	return money.New(target, a.Value().Mul(rate)), nil
}
