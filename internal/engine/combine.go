package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/params"
	"github.com/finclear/marginengine/internal/records"
)

// bucketResult carries everything the cross-bucket stage needs from one
// bucket: the quadrature margin, the plain net sum, and the bucket-level
// concentration factor (meaningful for rates delta, identity elsewhere).
type bucketResult struct {
	bucket domain.Bucket
	margin money.Amount
	netSum money.Amount
	factor decimal.Decimal
	parts  []weighted
}

// groupByBucket splits netted sensitivities into buckets, ordered by the
// canonical bucket comparison.
func groupByBucket(sensitivities []records.Sensitivity) [][]records.Sensitivity {
	byName := make(map[string][]records.Sensitivity)
	buckets := make(map[string]domain.Bucket)
	for _, s := range sensitivities {
		n := s.Bucket.Name()
		byName[n] = append(byName[n], s)
		buckets[n] = s.Bucket
	}
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return domain.CompareBuckets(buckets[names[i]], buckets[names[j]]) < 0
	})
	out := make([][]records.Sensitivity, 0, len(names))
	for _, n := range names {
		out = append(out, byName[n])
	}
	return out
}

// plainBucketMargin combines one bucket's weighted sensitivities:
// sqrt(Σw² + Σ_{i≠j} w_i·w_j·ρ_ij·c_ij) with the concentration ratio c_ij
// damping pairs of unequal factors.
func plainBucketMargin(calcCcy domain.Currency, provider params.Provider, ws []weighted) (bucketResult, error) {
	if len(ws) == 0 {
		return bucketResult{}, fmt.Errorf("empty bucket")
	}
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
			ratio := concentrationRatio(wi.factor, wj.factor)
			sum = sum.Add(wi.amount.Value().Mul(wj.amount.Value()).Mul(rho).Mul(ratio))
		}
	}
	res := bucketResult{
		bucket: ws[0].s.Bucket,
		margin: money.New(calcCcy, money.Sqrt(sum)),
		netSum: netSum,
		factor: bucketFactor(ws),
		parts:  ws,
	}
	return res, nil
}

// bucketFactor is the factor the cross-bucket concentration ratio uses.
// Rates delta carries one factor per bucket; every other combination is
// neutral at this level.
func bucketFactor(ws []weighted) decimal.Decimal {
	s := ws[0].s
	if s.Risk == domain.Rates && s.Category == domain.Delta {
		return ws[0].factor
	}
	return one
}

// combineAcrossBuckets folds bucket margins into the risk-class category
// margin. Non-residual buckets correlate pairwise through the bucket
// correlation table, each contributing its net sum clamped to ±bucketMargin;
// residual buckets combine in pure quadrature and add on top.
func combineAcrossBuckets(calcCcy domain.Currency, provider params.Provider, results []bucketResult) (money.Amount, error) {
	var nonResidual, residual []bucketResult
	for _, r := range results {
		if r.bucket.Residual() {
			residual = append(residual, r)
		} else {
			nonResidual = append(nonResidual, r)
		}
	}

	sum := decimal.Zero
	for i, ri := range nonResidual {
		sum = sum.Add(ri.margin.Value().Mul(ri.margin.Value()))
		si, err := clampedContribution(ri)
		if err != nil {
			return money.Amount{}, err
		}
		for j, rj := range nonResidual {
			if i == j {
				continue
			}
			sj, err := clampedContribution(rj)
			if err != nil {
				return money.Amount{}, err
			}
			gamma := provider.BucketCorrelation(ri.bucket, rj.bucket)
			ratio := concentrationRatio(ri.factor, rj.factor)
			sum = sum.Add(si.Value().Mul(sj.Value()).Mul(gamma).Mul(ratio))
		}
	}
	total := money.New(calcCcy, money.Sqrt(sum))

	residualSum := decimal.Zero
	for _, r := range residual {
		residualSum = residualSum.Add(r.margin.Value().Mul(r.margin.Value()))
	}
	return total.Add(money.New(calcCcy, money.Sqrt(residualSum)))
}

// clampedContribution bounds a bucket's net sum to ±bucketMargin.
func clampedContribution(r bucketResult) (money.Amount, error) {
	capped, err := money.Min(r.netSum, r.margin)
	if err != nil {
		return money.Amount{}, err
	}
	return money.Max(capped, r.margin.Neg())
}
