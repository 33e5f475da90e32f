package params

import (
	"github.com/shopspring/decimal"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/records"
)

// fxProvider calibrates the foreign-exchange risk class. All FX
// sensitivities live in one placeholder bucket; delta qualifiers are
// currencies, vega qualifiers currency pairs.
type fxProvider struct{}

const (
	fxRegularWeight = 7.4
	fxHighVolWeight = 14.7
	fxVegaWeight    = 0.47
	fxCorrelation   = 0.5
)

// fxDeltaThresholds are keyed by currency category, in millions.
var fxDeltaThresholds = map[domain.CurrencyCategory]float64{
	domain.FrequentlyTraded:      9700,
	domain.SignificantlyMaterial: 2900,
	domain.OtherCurrency:         450,
}

// fxVegaThresholds are keyed by the unordered pair of leg categories, in
// millions. The worse (higher) category index of either leg picks the row.
var fxVegaThresholds = [3][3]float64{
	{2000, 1000, 320},
	{1000, 410, 210},
	{320, 210, 150},
}

func (fxProvider) RiskWeight(s records.Sensitivity) decimal.Decimal {
	if s.Category == domain.Vega {
		return d(fxVegaWeight)
	}
	if ccy, err := domain.ParseCurrency(s.Qualifier); err == nil && ccy.Volatility() == domain.HighVolatility {
		return d(fxHighVolWeight)
	}
	return d(fxRegularWeight)
}

func (fxProvider) Correlation(a, b records.Sensitivity) decimal.Decimal {
	return d(fxCorrelation)
}

func (fxProvider) BucketCorrelation(a, b domain.Bucket) decimal.Decimal {
	return d(fxCorrelation)
}

func (fxProvider) Threshold(category domain.SensitivityCategory, identifier string) money.Amount {
	if category == domain.Vega || category == domain.Curvature {
		row, col := int(domain.OtherCurrency), int(domain.OtherCurrency)
		if pair, err := domain.ParseCurrencyPair(identifier); err == nil {
			row = int(pair.Base.Category())
			col = int(pair.Quote.Category())
		}
		return millions(fxVegaThresholds[row][col])
	}
	cat := domain.OtherCurrency
	if ccy, err := domain.ParseCurrency(identifier); err == nil {
		cat = ccy.Category()
	}
	return millions(fxDeltaThresholds[cat])
}
