// Package params holds the calibrated parameter tables of the margin
// methodology: risk weights, correlations and concentration thresholds, one
// provider per risk class. Tables are plain package data, converted to
// decimals once at initialization and read-only afterwards.
package params

import (
	"github.com/shopspring/decimal"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/records"
)

// Provider supplies the per-risk-class calibration.
type Provider interface {
	// RiskWeight returns the weight applied to a netted sensitivity.
	RiskWeight(s records.Sensitivity) decimal.Decimal
	// Correlation returns the sensitivity-to-sensitivity correlation within a
	// bucket.
	Correlation(a, b records.Sensitivity) decimal.Decimal
	// BucketCorrelation returns the cross-bucket correlation; residual
	// buckets never reach it.
	BucketCorrelation(a, b domain.Bucket) decimal.Decimal
	// Threshold returns the concentration threshold for a threshold
	// identifier, denominated in the threshold currency.
	Threshold(category domain.SensitivityCategory, identifier string) money.Amount
}

// ThresholdCurrency is the currency the threshold tables are calibrated in.
const ThresholdCurrency = domain.USD

var providers = map[domain.RiskClass]Provider{
	domain.Commodity:           commodityProvider{},
	domain.CreditQualifying:    creditQualifyingProvider{},
	domain.CreditNonQualifying: creditNonQualifyingProvider{},
	domain.Equity:              equityProvider{},
	domain.Fx:                  fxProvider{},
	domain.Rates:               ratesProvider{},
}

// ForRiskClass selects the provider for a risk class. The dispatch table is
// static; every class has one.
func ForRiskClass(r domain.RiskClass) Provider {
	return providers[r]
}

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// millions converts a table value in millions of the threshold currency to a
// concrete amount.
func millions(f float64) money.Amount {
	return money.New(ThresholdCurrency, d(f).Mul(decimal.NewFromInt(1_000_000)))
}

// Quantile z-scores used by the curvature transform.
var (
	ZScore99  = d(2.326347874)
	ZScore995 = d(2.575829304)
)

// Fixed base-correlation calibration: flat risk weight and flat pairwise
// correlation over the whole (bucketless) set.
var (
	BaseCorrelationRiskWeight  = d(10)
	BaseCorrelationCorrelation = d(0.05)
)

// CurvatureRiskWeight is the fixed unit weight of derived curvature records;
// their scaling happens in the vega-to-curvature transform instead.
var CurvatureRiskWeight = decimal.NewFromInt(1)

// historicalVolatilityRatios scales vega-derived curvature per risk class.
var historicalVolatilityRatios = map[domain.RiskClass]decimal.Decimal{
	domain.Commodity:           d(0.74),
	domain.CreditQualifying:    d(0.68),
	domain.CreditNonQualifying: d(0.68),
	domain.Equity:              d(0.60),
	domain.Fx:                  d(0.57),
	domain.Rates:               d(0.47),
}

// HVR returns the historical volatility ratio of a risk class.
func HVR(r domain.RiskClass) decimal.Decimal {
	return historicalVolatilityRatios[r]
}

// CurvatureScale is the final multiplier on a risk class's curvature margin:
// 1/HVR² for rates, identity elsewhere.
func CurvatureScale(r domain.RiskClass) decimal.Decimal {
	if r != domain.Rates {
		return decimal.NewFromInt(1)
	}
	h := HVR(domain.Rates)
	return decimal.NewFromInt(1).Div(h.Mul(h))
}

// riskClassCorrelations is the fixed symmetric matrix combining risk-class
// margins within a product, indexed by domain.RiskClass order
// {Commodity, CreditQ, CreditNonQ, Equity, FX, Rates}.
var riskClassCorrelations = [6][6]float64{
	{1.00, 0.52, 0.41, 0.49, 0.41, 0.46},
	{0.52, 1.00, 0.54, 0.71, 0.38, 0.29},
	{0.41, 0.54, 1.00, 0.46, 0.12, 0.13},
	{0.49, 0.71, 0.46, 1.00, 0.35, 0.28},
	{0.41, 0.38, 0.12, 0.35, 1.00, 0.32},
	{0.46, 0.29, 0.13, 0.28, 0.32, 1.00},
}

// RiskClassCorrelation returns the cross-risk-class correlation used by the
// product-level combination.
func RiskClassCorrelation(a, b domain.RiskClass) decimal.Decimal {
	return d(riskClassCorrelations[int(a)][int(b)])
}
