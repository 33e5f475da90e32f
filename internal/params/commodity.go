package params

import (
	"github.com/shopspring/decimal"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/records"
)

// commodityProvider calibrates commodity risk over seventeen sector buckets:
// 1 coal, 2 crude, 3-5 refined products, 6-7 natural gas, 8-9 power,
// 10 freight, 11 base metals, 12 precious metals, 13-15 agriculturals,
// 16 other, 17 indices. There is no residual bucket.
type commodityProvider struct{}

var commodityDeltaWeights = [18]float64{
	0, 30, 35, 60, 80, 40, 45, 60, 50, 70, 50, 30, 26, 31, 25, 16, 60, 21,
}

const commodityVegaWeight = 0.36

// commodityIntraCorrelations is the within-bucket sensitivity correlation
// per bucket number.
var commodityIntraCorrelations = [18]float64{
	0, 0.83, 0.97, 0.93, 0.97, 0.98, 0.90, 0.98, 0.49, 0.80,
	0.46, 0.58, 0.53, 0.62, 0.16, 0.18, 0, 0.38,
}

// Cross-bucket correlation works over sector groups; two distinct buckets of
// the same group (e.g. two refined-product buckets) share a single higher
// correlation.
var commodityGroups = [18]int{
	0, 0, 1, 1, 1, 1, 2, 2, 3, 3, 4, 5, 6, 7, 7, 7, 8, 9,
}

const commoditySameGroupCorrelation = 0.57

var commodityGroupCorrelations = [10][10]float64{
	{1.00, 0.29, 0.21, 0.15, 0.11, 0.16, 0.12, 0.13, 0, 0.17},
	{0.29, 1.00, 0.34, 0.17, 0.23, 0.21, 0.17, 0.16, 0, 0.33},
	{0.21, 0.34, 1.00, 0.24, 0.14, 0.18, 0.14, 0.14, 0, 0.27},
	{0.15, 0.17, 0.24, 1.00, 0.08, 0.12, 0.10, 0.11, 0, 0.20},
	{0.11, 0.23, 0.14, 0.08, 1.00, 0.15, 0.11, 0.10, 0, 0.18},
	{0.16, 0.21, 0.18, 0.12, 0.15, 1.00, 0.33, 0.16, 0, 0.27},
	{0.12, 0.17, 0.14, 0.10, 0.11, 0.33, 1.00, 0.15, 0, 0.24},
	{0.13, 0.16, 0.14, 0.11, 0.10, 0.16, 0.15, 1.00, 0, 0.22},
	{0, 0, 0, 0, 0, 0, 0, 0, 1.00, 0},
	{0.17, 0.33, 0.27, 0.20, 0.18, 0.27, 0.24, 0.22, 0, 1.00},
}

var commodityDeltaThresholds = [18]float64{
	0, 1400, 20000, 3500, 3500, 3500, 6400, 6400, 2500, 2500,
	300, 2900, 7600, 3900, 3900, 3900, 300, 12000,
}

var commodityVegaThresholds = [18]float64{
	0, 250, 2000, 510, 510, 510, 1900, 1900, 870, 870,
	220, 450, 740, 370, 370, 370, 220, 430,
}

func commodityBucketNumber(b domain.Bucket) int {
	if cb, ok := b.(domain.CommodityBucket); ok && cb >= 1 && cb <= 17 {
		return int(cb)
	}
	return 0
}

func (commodityProvider) RiskWeight(s records.Sensitivity) decimal.Decimal {
	if s.Category == domain.Vega {
		return d(commodityVegaWeight)
	}
	return d(commodityDeltaWeights[commodityBucketNumber(s.Bucket)])
}

func (commodityProvider) Correlation(a, b records.Sensitivity) decimal.Decimal {
	return d(commodityIntraCorrelations[commodityBucketNumber(a.Bucket)])
}

func (commodityProvider) BucketCorrelation(a, b domain.Bucket) decimal.Decimal {
	na, nb := commodityBucketNumber(a), commodityBucketNumber(b)
	if na == 0 || nb == 0 {
		return decimal.Zero
	}
	ga, gb := commodityGroups[na], commodityGroups[nb]
	if ga == gb && na != nb {
		return d(commoditySameGroupCorrelation)
	}
	return d(commodityGroupCorrelations[ga][gb])
}

func (commodityProvider) Threshold(category domain.SensitivityCategory, identifier string) money.Amount {
	n := 0
	if parsed, err := domain.ParseBucket(domain.Commodity, identifier); err == nil {
		n = commodityBucketNumber(parsed)
	}
	if category == domain.Vega || category == domain.Curvature {
		return millions(commodityVegaThresholds[n])
	}
	return millions(commodityDeltaThresholds[n])
}
