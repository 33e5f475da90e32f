package params

import (
	"github.com/shopspring/decimal"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/records"
)

// ratesProvider calibrates the interest-rate risk class. Rates buckets are
// currencies; risk-weight rows are selected by the currency's volatility
// class, thresholds by its liquidity tier.
type ratesProvider struct{}

// ratesDeltaWeights maps volatility class to the risk weight per ladder
// tenor, in ladder order.
var ratesDeltaWeights = map[domain.CurrencyVolatility][12]float64{
	domain.LowVolatility:     {15, 18, 9, 11, 13, 15, 19, 23, 25, 22, 22, 23},
	domain.RegularVolatility: {109, 105, 90, 71, 66, 66, 64, 60, 60, 61, 61, 67},
	domain.HighVolatility:    {163, 109, 87, 89, 104, 103, 99, 96, 99, 100, 101, 101},
}

var ratesInflationWeights = map[domain.CurrencyVolatility]float64{
	domain.LowVolatility:     32,
	domain.RegularVolatility: 64,
	domain.HighVolatility:    96,
}

const (
	ratesCrossCurrencyBasisWeight = 21
	ratesVegaWeight               = 0.23
	// Correlations of inflation and cross-currency basis against every other
	// sub-risk in the same currency.
	ratesInflationCorrelation = 0.37
	ratesBasisCorrelation     = 0.04
	// Sub-curve discount: applied when two yield sensitivities sit on
	// different curves.
	ratesCurveDiscount = 0.986
	// Cross-currency bucket correlation.
	ratesBucketCorrelation = 0.23
)

// ratesTenorCorrelations is the symmetric tenor-to-tenor matrix in ladder
// order.
var ratesTenorCorrelations = [12][12]float64{
	{1.00, 0.75, 0.63, 0.55, 0.44, 0.35, 0.31, 0.26, 0.21, 0.17, 0.15, 0.14},
	{0.75, 1.00, 0.79, 0.68, 0.51, 0.40, 0.35, 0.29, 0.24, 0.19, 0.17, 0.16},
	{0.63, 0.79, 1.00, 0.85, 0.67, 0.53, 0.45, 0.38, 0.31, 0.26, 0.23, 0.21},
	{0.55, 0.68, 0.85, 1.00, 0.82, 0.70, 0.61, 0.52, 0.42, 0.36, 0.33, 0.30},
	{0.44, 0.51, 0.67, 0.82, 1.00, 0.94, 0.86, 0.76, 0.63, 0.56, 0.52, 0.48},
	{0.35, 0.40, 0.53, 0.70, 0.94, 1.00, 0.96, 0.89, 0.77, 0.70, 0.66, 0.61},
	{0.31, 0.35, 0.45, 0.61, 0.86, 0.96, 1.00, 0.96, 0.86, 0.80, 0.76, 0.72},
	{0.26, 0.29, 0.38, 0.52, 0.76, 0.89, 0.96, 1.00, 0.93, 0.89, 0.86, 0.82},
	{0.21, 0.24, 0.31, 0.42, 0.63, 0.77, 0.86, 0.93, 1.00, 0.98, 0.96, 0.94},
	{0.17, 0.19, 0.26, 0.36, 0.56, 0.70, 0.80, 0.89, 0.98, 1.00, 0.99, 0.98},
	{0.15, 0.17, 0.23, 0.33, 0.52, 0.66, 0.76, 0.86, 0.96, 0.99, 1.00, 0.99},
	{0.14, 0.16, 0.21, 0.30, 0.48, 0.61, 0.72, 0.82, 0.94, 0.98, 0.99, 1.00},
}

// ratesDeltaThresholds and ratesVegaThresholds are keyed by currency
// liquidity, in millions of the threshold currency.
var ratesDeltaThresholds = map[domain.CurrencyLiquidity]float64{
	domain.HighLiquidity:   230,
	domain.MediumLiquidity: 44,
	domain.LowLiquidity:    8,
}

var ratesVegaThresholds = map[domain.CurrencyLiquidity]float64{
	domain.HighLiquidity:   2230,
	domain.MediumLiquidity: 155,
	domain.LowLiquidity:    74,
}

func bucketCurrencyVolatility(b domain.Bucket) domain.CurrencyVolatility {
	if cb, ok := b.(domain.CurrencyBucket); ok {
		return cb.Ccy.Volatility()
	}
	return domain.RegularVolatility
}

func (ratesProvider) RiskWeight(s records.Sensitivity) decimal.Decimal {
	vol := bucketCurrencyVolatility(s.Bucket)
	switch {
	case s.Category == domain.Vega:
		return d(ratesVegaWeight)
	case s.SubRisk == domain.CrossCurrencyBasis:
		return d(ratesCrossCurrencyBasisWeight)
	case s.SubRisk == domain.Inflation:
		return d(ratesInflationWeights[vol])
	default:
		idx := s.Tenor.Index()
		if idx < 0 {
			idx = 0
		}
		return d(ratesDeltaWeights[vol][idx])
	}
}

func (ratesProvider) Correlation(a, b records.Sensitivity) decimal.Decimal {
	if a.SubRisk == domain.CrossCurrencyBasis || b.SubRisk == domain.CrossCurrencyBasis {
		return d(ratesBasisCorrelation)
	}
	if a.SubRisk == domain.Inflation || b.SubRisk == domain.Inflation {
		return d(ratesInflationCorrelation)
	}
	ia, ib := a.Tenor.Index(), b.Tenor.Index()
	if ia < 0 || ib < 0 {
		return decimal.NewFromInt(1)
	}
	corr := d(ratesTenorCorrelations[ia][ib])
	if a.Label1 != b.Label1 {
		corr = corr.Mul(d(ratesCurveDiscount))
	}
	return corr
}

func (ratesProvider) BucketCorrelation(a, b domain.Bucket) decimal.Decimal {
	return d(ratesBucketCorrelation)
}

func (ratesProvider) Threshold(category domain.SensitivityCategory, identifier string) money.Amount {
	liq := domain.MediumLiquidity
	if ccy, err := domain.ParseCurrency(identifier); err == nil {
		liq = ccy.Liquidity()
	}
	if category == domain.Vega || category == domain.Curvature {
		return millions(ratesVegaThresholds[liq])
	}
	return millions(ratesDeltaThresholds[liq])
}
