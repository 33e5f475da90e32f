package engine

import (
	"github.com/shopspring/decimal"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/params"
	"github.com/finclear/marginengine/internal/records"
)

var (
	fourteenDays = decimal.NewFromInt(14)
	half         = decimal.NewFromFloat(0.5)
	// sqrt(365/14)/Φ⁻¹(0.99), the annualization factor of the curvature
	// volatility weight.
	curvatureAnnualization = money.Sqrt(decimal.NewFromInt(365).Div(fourteenDays)).Div(params.ZScore99)
)

// scaledDays is the time-decay weight of the vega-to-curvature transform:
// 0.5·min(1, 14/T) for a tenor of T days.
func scaledDays(t domain.Tenor) decimal.Decimal {
	days := t.Days()
	if days.LessThanOrEqual(fourteenDays) {
		return half
	}
	return half.Mul(fourteenDays.Div(days))
}

// deriveCurvature clones vega sensitivities into their paired curvature
// records: amount scaled by the tenor decay and the risk class's volatility
// weight. Credit and rates vegas already embed volatility, so their delta
// weight stays at one.
func deriveCurvature(vegas []records.Sensitivity) []records.Sensitivity {
	out := make([]records.Sensitivity, 0, len(vegas))
	for _, v := range vegas {
		scale := scaledDays(v.Tenor).Mul(params.HVR(v.Risk)).Mul(curvatureAnnualization)
		switch v.Risk {
		case domain.Rates, domain.CreditQualifying, domain.CreditNonQualifying:
		default:
			asDelta := v
			asDelta.Category = domain.Delta
			scale = scale.Mul(params.ForRiskClass(v.Risk).RiskWeight(asDelta))
		}
		out = append(out, v.AsCurvature(v.Amount.Scale(scale)))
	}
	return out
}

// curvatureSetResult combines one residual or non-residual bucket set of
// curvature records: per-bucket quadrature with squared correlations, a
// net/gross lambda correction, and a floor at zero.
func curvatureSetResult(calcCcy domain.Currency, provider params.Provider, results []bucketResult, crossBuckets bool) (money.Amount, error) {
	if len(results) == 0 {
		return money.Zero(calcCcy), nil
	}
	netSum := decimal.Zero
	grossSum := decimal.Zero
	quadSum := decimal.Zero
	for _, r := range results {
		for _, w := range r.parts {
			netSum = netSum.Add(w.amount.Value())
			grossSum = grossSum.Add(w.amount.Value().Abs())
		}
		quadSum = quadSum.Add(r.margin.Value().Mul(r.margin.Value()))
	}
	if crossBuckets {
		for i, ri := range results {
			si, err := clampedContribution(ri)
			if err != nil {
				return money.Amount{}, err
			}
			for j, rj := range results {
				if i == j {
					continue
				}
				sj, err := clampedContribution(rj)
				if err != nil {
					return money.Amount{}, err
				}
				gamma := provider.BucketCorrelation(ri.bucket, rj.bucket)
				quadSum = quadSum.Add(si.Value().Mul(sj.Value()).Mul(gamma).Mul(gamma))
			}
		}
	}

	theta := decimal.Zero
	if grossSum.Sign() != 0 {
		theta = netSum.Div(grossSum)
		if theta.Sign() > 0 {
			theta = decimal.Zero
		}
	}
	z2 := params.ZScore995.Mul(params.ZScore995)
	lambda := z2.Sub(one).Mul(one.Add(theta)).Sub(theta)

	result := netSum.Add(lambda.Mul(money.Sqrt(quadSum)))
	if result.Sign() < 0 {
		result = decimal.Zero
	}
	return money.New(calcCcy, result), nil
}

// curvatureBucketMargin is the within-bucket quadrature with squared
// correlations and no concentration damping.
func curvatureBucketMargin(calcCcy domain.Currency, provider params.Provider, ws []weighted) (bucketResult, error) {
	sum := decimal.Zero
	netSum := money.Zero(calcCcy)
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
			rho := provider.Correlation(wi.s, wj.s)
			sum = sum.Add(wi.amount.Value().Mul(wj.amount.Value()).Mul(rho).Mul(rho))
		}
	}
	return bucketResult{
		bucket: ws[0].s.Bucket,
		margin: money.New(calcCcy, money.Sqrt(sum)),
		netSum: netSum,
		factor: one,
		parts:  ws,
	}, nil
}

// curvatureMargin aggregates derived curvature records into the category
// margin: residual and non-residual sets resolve independently, then the
// risk class's curvature scale applies to their sum.
func curvatureMargin(calcCcy domain.Currency, risk domain.RiskClass, curvatures []records.Sensitivity) (money.Amount, []bucketResult, error) {
	provider := params.ForRiskClass(risk)
	var all []bucketResult
	var nonResidual, residual []bucketResult
	for _, bucket := range groupByBucket(curvatures) {
		ws := make([]weighted, 0, len(bucket))
		for _, s := range bucket {
			ws = append(ws, weighted{s: s, amount: s.Amount, factor: one})
		}
		r, err := curvatureBucketMargin(calcCcy, provider, ws)
		if err != nil {
			return money.Amount{}, nil, err
		}
		all = append(all, r)
		if r.bucket.Residual() {
			residual = append(residual, r)
		} else {
			nonResidual = append(nonResidual, r)
		}
	}
	nonResidualResult, err := curvatureSetResult(calcCcy, provider, nonResidual, true)
	if err != nil {
		return money.Amount{}, nil, err
	}
	residualResult, err := curvatureSetResult(calcCcy, provider, residual, false)
	if err != nil {
		return money.Amount{}, nil, err
	}
	total, err := nonResidualResult.Add(residualResult)
	if err != nil {
		return money.Amount{}, nil, err
	}
	return total.Scale(params.CurvatureScale(risk)), all, nil
}
