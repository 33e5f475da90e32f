package engine

import (
	"github.com/shopspring/decimal"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/params"
)

// baseCorrelationMargin combines the flat (bucketless) base-correlation set:
// sqrt(Σw² + Σ_{i≠j} w_i·w_j·ρ) with the fixed base-correlation ρ. The
// result is reported under a single synthetic Common bucket.
func baseCorrelationMargin(calcCcy domain.Currency, ws []weighted) (bucketResult, error) {
	sum := decimal.Zero
	netSum := money.Zero(calcCcy)
	rho := params.BaseCorrelationCorrelation
	for i, wi := range ws {
		sum = sum.Add(wi.amount.Value().Mul(wi.amount.Value()))
		var err error
		netSum, err = netSum.Add(wi.amount)
		if err != nil {
			return bucketResult{}, err
		}
		for j, wj := range ws {
			if i == j {
				continue
			}
			sum = sum.Add(wi.amount.Value().Mul(wj.amount.Value()).Mul(rho))
		}
	}
	return bucketResult{
		bucket: domain.PlaceholderBucket{},
		margin: money.New(calcCcy, money.Sqrt(sum)),
		netSum: netSum,
		factor: one,
		parts:  ws,
	}, nil
}
