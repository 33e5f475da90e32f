package records

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
)

func TestTradeExpired(t *testing.T) {
	valuation := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	open := TradeInfo{TradeID: "T1", EndDate: valuation.AddDate(0, 0, 1)}
	assert.False(t, open.Expired(valuation))

	maturing := TradeInfo{TradeID: "T2", EndDate: valuation}
	assert.False(t, maturing.Expired(valuation), "maturity on the valuation date is still live")

	expired := TradeInfo{TradeID: "T3", EndDate: valuation.AddDate(0, 0, -1)}
	assert.True(t, expired.Expired(valuation))

	perpetual := TradeInfo{TradeID: "T4"}
	assert.False(t, perpetual.Expired(valuation))
}

func TestRegulationsForRole(t *testing.T) {
	info := RegulationsInfo{
		Collect: []domain.Regulation{domain.CFTC},
		Post:    []domain.Regulation{domain.ESA},
	}
	assert.Equal(t, []domain.Regulation{domain.CFTC}, info.ForRole(domain.Secured))
	assert.Equal(t, []domain.Regulation{domain.ESA}, info.ForRole(domain.Pledgor))

	assert.True(t, info.AppliesTo(domain.Secured, domain.CFTC))
	assert.False(t, info.AppliesTo(domain.Secured, domain.ESA))
	assert.True(t, info.AppliesTo(domain.Pledgor, domain.ESA))
}

func TestIncludedWildcard(t *testing.T) {
	info := RegulationsInfo{Collect: []domain.Regulation{domain.Included}}
	for _, reg := range domain.Regulations() {
		assert.True(t, info.AppliesTo(domain.Secured, reg))
	}
}

func TestThresholdIdentifier(t *testing.T) {
	fxDelta := Sensitivity{Risk: domain.Fx, Category: domain.Delta, Qualifier: "EUR"}
	assert.Equal(t, "EUR", fxDelta.ThresholdIdentifier())

	// Both orderings of an FX vega pair key the same threshold row.
	fxVega := Sensitivity{Risk: domain.Fx, Category: domain.Vega, Qualifier: "USDJPY"}
	fxVegaInverted := Sensitivity{Risk: domain.Fx, Category: domain.Vega, Qualifier: "JPYUSD"}
	assert.Equal(t, "JPYUSD", fxVega.ThresholdIdentifier())
	assert.Equal(t, fxVega.ThresholdIdentifier(), fxVegaInverted.ThresholdIdentifier())

	rates := Sensitivity{Risk: domain.Rates, Bucket: domain.CurrencyBucket{Ccy: domain.GBP}}
	assert.Equal(t, "GBP", rates.ThresholdIdentifier())

	equity := Sensitivity{Risk: domain.Equity, Qualifier: "ISSUER", Bucket: domain.EquityBucket(7)}
	assert.Equal(t, "7", equity.ThresholdIdentifier())
}

func TestNettedDropsTradeIdentity(t *testing.T) {
	s := Sensitivity{
		Risk:      domain.Equity,
		Qualifier: "ISSUER",
		Bucket:    domain.EquityBucket(1),
		Amount:    money.New(domain.USD, decimal.NewFromInt(100)),
		Trade:     TradeInfo{PortfolioID: "P", TradeID: "T", EndDate: time.Now()},
	}
	sum := money.New(domain.USD, decimal.NewFromInt(250))
	netted := s.Netted(sum)
	assert.Equal(t, TradeInfo{}, netted.Trade)
	assert.Equal(t, sum, netted.Amount)
	assert.Equal(t, "ISSUER", netted.Qualifier)
	assert.Equal(t, "T", s.Trade.TradeID, "source record untouched")
}

func TestAsCurvature(t *testing.T) {
	vega := Sensitivity{
		Risk:     domain.Equity,
		Category: domain.Vega,
		Tenor:    domain.Tenor1Y,
		Amount:   money.New(domain.USD, decimal.NewFromInt(100)),
	}
	scaled := money.New(domain.USD, decimal.NewFromInt(7))
	cvr := vega.AsCurvature(scaled)
	assert.Equal(t, domain.Curvature, cvr.Category)
	assert.Equal(t, scaled, cvr.Amount)
	assert.Equal(t, domain.Tenor1Y, cvr.Tenor)
	assert.Equal(t, domain.Vega, vega.Category)
}

func TestForRegulation(t *testing.T) {
	cftc := RegulationsInfo{Collect: []domain.Regulation{domain.CFTC}}
	esa := RegulationsInfo{Collect: []domain.Regulation{domain.ESA}}
	wildcard := RegulationsInfo{Collect: []domain.Regulation{domain.Included}}

	p := Portfolio{
		Sensitivities: []Sensitivity{
			{Qualifier: "A", Regulations: cftc},
			{Qualifier: "B", Regulations: esa},
			{Qualifier: "C", Regulations: wildcard},
		},
		FixedAmounts: []FixedAmount{{Regulations: esa}},
	}

	scoped := p.ForRegulation(domain.Secured, domain.CFTC)
	require.Len(t, scoped.Sensitivities, 2)
	assert.Equal(t, "A", scoped.Sensitivities[0].Qualifier)
	assert.Equal(t, "C", scoped.Sensitivities[1].Qualifier)
	assert.Empty(t, scoped.FixedAmounts)
}

func TestAppliedRegulations(t *testing.T) {
	p := Portfolio{
		Sensitivities: []Sensitivity{
			{Regulations: RegulationsInfo{Collect: []domain.Regulation{domain.ESA}}},
			{Regulations: RegulationsInfo{Collect: []domain.Regulation{domain.CFTC, domain.ESA}}},
			{Regulations: RegulationsInfo{Collect: []domain.Regulation{domain.Included}}},
		},
	}
	assert.Equal(t, []domain.Regulation{domain.CFTC, domain.ESA}, p.AppliedRegulations(domain.Secured))
	assert.Empty(t, p.AppliedRegulations(domain.Pledgor))
}

func TestAppliedRegulationsWildcardOnly(t *testing.T) {
	p := Portfolio{
		Sensitivities: []Sensitivity{
			{Regulations: RegulationsInfo{Collect: []domain.Regulation{domain.Included}}},
		},
	}
	assert.Equal(t, []domain.Regulation{domain.Included}, p.AppliedRegulations(domain.Secured))
}
