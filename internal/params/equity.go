package params

import (
	"github.com/shopspring/decimal"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/records"
)

// equityProvider calibrates equity risk. Buckets 1-4 are emerging-market
// large caps, 5-8 developed-market large caps, 9-10 small caps, 11-12
// indices/funds/ETFs, 0 the residual.
type equityProvider struct{}

var equityDeltaWeights = map[int]float64{
	0: 34,
	1: 26, 2: 28, 3: 34, 4: 28, 5: 23, 6: 25,
	7: 29, 8: 27, 9: 32, 10: 32, 11: 18, 12: 21,
}

const (
	equityVegaWeight      = 0.45
	equityIndexVegaWeight = 0.96
)

// equityIntraCorrelations is the within-bucket sensitivity correlation;
// residual pairs are uncorrelated.
var equityIntraCorrelations = map[int]float64{
	0: 0,
	1: 0.18, 2: 0.23, 3: 0.28, 4: 0.27, 5: 0.23, 6: 0.36,
	7: 0.38, 8: 0.35, 9: 0.21, 10: 0.20, 11: 0.54, 12: 0.54,
}

// equityBucketCorrelations is the symmetric cross-bucket matrix, row/column
// index = bucket number - 1.
var equityBucketCorrelations = [12][12]float64{
	{1.00, 0.17, 0.18, 0.18, 0.15, 0.17, 0.17, 0.17, 0.14, 0.15, 0.22, 0.22},
	{0.17, 1.00, 0.22, 0.22, 0.17, 0.20, 0.20, 0.20, 0.16, 0.17, 0.26, 0.26},
	{0.18, 0.22, 1.00, 0.24, 0.18, 0.22, 0.23, 0.22, 0.17, 0.18, 0.28, 0.28},
	{0.18, 0.22, 0.24, 1.00, 0.19, 0.23, 0.23, 0.23, 0.17, 0.19, 0.29, 0.29},
	{0.15, 0.17, 0.18, 0.19, 1.00, 0.25, 0.26, 0.27, 0.15, 0.21, 0.32, 0.32},
	{0.17, 0.20, 0.22, 0.23, 0.25, 1.00, 0.32, 0.33, 0.18, 0.25, 0.39, 0.39},
	{0.17, 0.20, 0.23, 0.23, 0.26, 0.32, 1.00, 0.34, 0.18, 0.25, 0.40, 0.40},
	{0.17, 0.20, 0.22, 0.23, 0.27, 0.33, 0.34, 1.00, 0.18, 0.26, 0.41, 0.41},
	{0.14, 0.16, 0.17, 0.17, 0.15, 0.18, 0.18, 0.18, 1.00, 0.15, 0.23, 0.23},
	{0.15, 0.17, 0.18, 0.19, 0.21, 0.25, 0.25, 0.26, 0.15, 1.00, 0.31, 0.31},
	{0.22, 0.26, 0.28, 0.29, 0.32, 0.39, 0.40, 0.41, 0.23, 0.31, 1.00, 0.45},
	{0.22, 0.26, 0.28, 0.29, 0.32, 0.39, 0.40, 0.41, 0.23, 0.31, 0.45, 1.00},
}

var equityDeltaThresholds = map[int]float64{
	0: 0.6,
	1: 3.3, 2: 3.3, 3: 3.3, 4: 3.3,
	5: 30, 6: 30, 7: 30, 8: 30,
	9: 0.6, 10: 2.6, 11: 900, 12: 900,
}

var equityVegaThresholds = map[int]float64{
	0: 60,
	1: 800, 2: 800, 3: 800, 4: 800,
	5: 960, 6: 960, 7: 960, 8: 960,
	9: 60, 10: 230, 11: 7300, 12: 7300,
}

func equityBucketNumber(b domain.Bucket) int {
	if eb, ok := b.(domain.EquityBucket); ok {
		return int(eb)
	}
	return 0
}

func (equityProvider) RiskWeight(s records.Sensitivity) decimal.Decimal {
	n := equityBucketNumber(s.Bucket)
	if s.Category == domain.Vega {
		if n == 12 {
			return d(equityIndexVegaWeight)
		}
		return d(equityVegaWeight)
	}
	return d(equityDeltaWeights[n])
}

func (equityProvider) Correlation(a, b records.Sensitivity) decimal.Decimal {
	return d(equityIntraCorrelations[equityBucketNumber(a.Bucket)])
}

func (equityProvider) BucketCorrelation(a, b domain.Bucket) decimal.Decimal {
	na, nb := equityBucketNumber(a), equityBucketNumber(b)
	if na == 0 || nb == 0 {
		return decimal.Zero
	}
	return d(equityBucketCorrelations[na-1][nb-1])
}

func (equityProvider) Threshold(category domain.SensitivityCategory, identifier string) money.Amount {
	n := 0
	if parsed, err := domain.ParseBucket(domain.Equity, identifier); err == nil {
		n = equityBucketNumber(parsed)
	}
	if category == domain.Vega || category == domain.Curvature {
		return millions(equityVegaThresholds[n])
	}
	return millions(equityDeltaThresholds[n])
}
