package processor

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/fx"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/records"
)

var valuation = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func fxSensitivity(qualifier, amount string, regs ...domain.Regulation) records.Sensitivity {
	if len(regs) == 0 {
		regs = []domain.Regulation{domain.Included}
	}
	return records.Sensitivity{
		Product:   domain.ProductRatesFx,
		Risk:      domain.Fx,
		Category:  domain.Delta,
		Qualifier: qualifier,
		Bucket:    domain.PlaceholderBucket{},
		Amount:    money.New(domain.USD, decimal.RequireFromString(amount)),
		Regulations: records.RegulationsInfo{
			Collect: regs,
			Post:    regs,
		},
	}
}

func TestComputeSingleRegulation(t *testing.T) {
	p := records.Portfolio{
		Sensitivities: []records.Sensitivity{fxSensitivity("EUR", "1000000", domain.CFTC)},
	}
	total, err := New(nil).Compute(domain.Secured, valuation, domain.USD, fx.NewRates(), p)
	require.NoError(t, err)
	assert.Equal(t, "7400000", total.Amount().Value().String())
	assert.NotEmpty(t, total.RunID().String())
}

func TestComputeRejectsMixedRegulations(t *testing.T) {
	p := records.Portfolio{
		Sensitivities: []records.Sensitivity{
			fxSensitivity("EUR", "1000000", domain.CFTC),
			fxSensitivity("GBP", "1000000", domain.ESA),
		},
	}
	_, err := New(nil).Compute(domain.Secured, valuation, domain.USD, fx.NewRates(), p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mixes 2 regulations")
}

func TestComputeModesAgreeOnSingleRegulation(t *testing.T) {
	p := records.Portfolio{
		Sensitivities: []records.Sensitivity{
			fxSensitivity("EUR", "1000000", domain.CFTC),
			fxSensitivity("GBP", "-250000", domain.CFTC),
		},
	}
	proc := New(nil)

	single, err := proc.Compute(domain.Secured, valuation, domain.USD, fx.NewRates(), p)
	require.NoError(t, err)

	byReg, err := proc.ComputeByRegulation(domain.Secured, valuation, domain.USD, fx.NewRates(), p)
	require.NoError(t, err)
	require.Len(t, byReg, 1)
	require.Contains(t, byReg, domain.CFTC)

	worst, err := proc.ComputeWorstOf(domain.Secured, valuation, domain.USD, fx.NewRates(), p)
	require.NoError(t, err)

	assert.True(t, single.Amount().Value().Equal(byReg[domain.CFTC].Amount().Value()))
	assert.True(t, single.Amount().Value().Equal(worst.Amount().Value()))
}

func TestComputeByRegulationSplitsPortfolio(t *testing.T) {
	p := records.Portfolio{
		Sensitivities: []records.Sensitivity{
			fxSensitivity("EUR", "1000000", domain.CFTC),
			fxSensitivity("GBP", "2000000", domain.ESA),
			fxSensitivity("CHF", "500000", domain.Included),
		},
	}
	byReg, err := New(nil).ComputeByRegulation(domain.Secured, valuation, domain.USD, fx.NewRates(), p)
	require.NoError(t, err)
	require.Len(t, byReg, 2)

	// The wildcard record participates in both regimes; the named records only
	// in their own.
	cftc := byReg[domain.CFTC].Amount().Value()
	esa := byReg[domain.ESA].Amount().Value()
	assert.True(t, esa.GreaterThan(cftc))
}

func TestComputeWorstOfPicksLargestAbsolute(t *testing.T) {
	p := records.Portfolio{
		Sensitivities: []records.Sensitivity{
			fxSensitivity("EUR", "1000000", domain.CFTC),
			fxSensitivity("GBP", "2000000", domain.ESA),
		},
	}
	proc := New(nil)

	worst, err := proc.ComputeWorstOf(domain.Secured, valuation, domain.USD, fx.NewRates(), p)
	require.NoError(t, err)

	byReg, err := proc.ComputeByRegulation(domain.Secured, valuation, domain.USD, fx.NewRates(), p)
	require.NoError(t, err)
	assert.True(t, worst.Amount().Value().Equal(byReg[domain.ESA].Amount().Value()))
}

func TestComputeWorstOfTieKeepsEarlierRegulation(t *testing.T) {
	p := records.Portfolio{
		Sensitivities: []records.Sensitivity{
			fxSensitivity("EUR", "1000000", domain.CFTC),
			fxSensitivity("EUR", "1000000", domain.ESA),
		},
	}
	worst, err := New(nil).ComputeWorstOf(domain.Secured, valuation, domain.USD, fx.NewRates(), p)
	require.NoError(t, err)
	assert.Equal(t, "7400000", worst.Amount().Value().String())
}

func TestComputeWildcardOnlyPortfolio(t *testing.T) {
	p := records.Portfolio{
		Sensitivities: []records.Sensitivity{fxSensitivity("EUR", "1000000")},
	}
	proc := New(nil)

	total, err := proc.Compute(domain.Secured, valuation, domain.USD, fx.NewRates(), p)
	require.NoError(t, err)
	assert.Equal(t, "7400000", total.Amount().Value().String())

	worst, err := proc.ComputeWorstOf(domain.Secured, valuation, domain.USD, fx.NewRates(), p)
	require.NoError(t, err)
	assert.True(t, total.Amount().Value().Equal(worst.Amount().Value()))
}
