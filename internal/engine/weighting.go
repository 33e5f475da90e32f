package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/fx"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/params"
	"github.com/finclear/marginengine/internal/records"
)

var one = decimal.NewFromInt(1)

// weighted is a netted sensitivity after risk weighting, together with the
// concentration factor its bucket combination needs.
type weighted struct {
	s      records.Sensitivity
	amount money.Amount
	factor decimal.Decimal
}

// riskWeight selects the weight for a netted sensitivity: risk-class tables
// for delta and vega, fixed constants for curvature and base correlation.
func riskWeight(s records.Sensitivity) decimal.Decimal {
	switch s.Category {
	case domain.Curvature:
		return params.CurvatureRiskWeight
	case domain.BaseCorrelation:
		return params.BaseCorrelationRiskWeight
	default:
		return params.ForRiskClass(s.Risk).RiskWeight(s)
	}
}

// thresholdFactors computes the concentration factor per sensitivity of one
// bucket. Delta and vega scale by max(1, sqrt(|net exposure|/threshold));
// the exposure groups by qualifier, except rates delta where the whole
// bucket nets into a single factor. Cross-currency basis, curvature and base
// correlation never scale.
func thresholdFactors(calcCcy domain.Currency, conv fx.Converter, bucket []records.Sensitivity) (map[string]decimal.Decimal, error) {
	factors := make(map[string]decimal.Decimal, len(bucket))
	exposures := make(map[string]money.Amount)
	groupOf := func(s records.Sensitivity) string {
		if s.Risk == domain.Rates && s.Category == domain.Delta {
			return s.Bucket.Name()
		}
		return s.Qualifier
	}
	for _, s := range bucket {
		if !concentrates(s) {
			continue
		}
		g := groupOf(s)
		sum, ok := exposures[g]
		if !ok {
			sum = money.Zero(calcCcy)
		}
		var err error
		sum, err = sum.Add(s.Amount)
		if err != nil {
			return nil, fmt.Errorf("concentration exposure for %q: %w", g, err)
		}
		exposures[g] = sum
	}
	for _, s := range bucket {
		key := nettingKey(s)
		if !concentrates(s) {
			factors[key] = one
			continue
		}
		provider := params.ForRiskClass(s.Risk)
		threshold, err := conv.Convert(provider.Threshold(s.Category, s.ThresholdIdentifier()), calcCcy)
		if err != nil {
			return nil, fmt.Errorf("threshold for %q: %w", s.ThresholdIdentifier(), err)
		}
		f := one
		if threshold.Value().Sign() > 0 {
			ratio := exposures[groupOf(s)].Abs().Value().Div(threshold.Value())
			if root := money.Sqrt(ratio); root.GreaterThan(one) {
				f = root
			}
		}
		factors[key] = f
	}
	return factors, nil
}

// concentrates reports whether the sensitivity is subject to threshold
// scaling.
func concentrates(s records.Sensitivity) bool {
	if s.Category != domain.Delta && s.Category != domain.Vega {
		return false
	}
	return s.SubRisk != domain.CrossCurrencyBasis
}

// weigh risk-weights every sensitivity of a bucket and attaches its
// concentration factor.
func weigh(calcCcy domain.Currency, conv fx.Converter, bucket []records.Sensitivity) ([]weighted, error) {
	factors, err := thresholdFactors(calcCcy, conv, bucket)
	if err != nil {
		return nil, err
	}
	out := make([]weighted, 0, len(bucket))
	for _, s := range bucket {
		f := factors[nettingKey(s)]
		w := riskWeight(s).Mul(f)
		out = append(out, weighted{
			s:      s,
			amount: s.Amount.Scale(w),
			factor: f,
		})
	}
	return out, nil
}

// concentrationRatio dampens the pairwise correlation of two sensitivities
// with unequal concentration: min(f_i,f_j)/max(f_i,f_j).
func concentrationRatio(a, b decimal.Decimal) decimal.Decimal {
	lo, hi := a, b
	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
	}
	if hi.IsZero() {
		return one
	}
	return lo.Div(hi)
}
