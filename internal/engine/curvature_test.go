package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/records"
)

func TestScaledDays(t *testing.T) {
	assert.Equal(t, "0.5", scaledDays(domain.Tenor2W).String())
	assert.InDelta(t, 0.2301369863, scaledDays(domain.Tenor1M).InexactFloat64(), 1e-9)
	assert.InDelta(t, 0.0019178082, scaledDays(domain.Tenor10Y).InexactFloat64(), 1e-9)
}

func TestDeriveCurvatureScalesByDeltaWeight(t *testing.T) {
	vega := equityVega("ISSUER", 5, domain.Tenor2W, "1000000")
	curvatures := deriveCurvature([]records.Sensitivity{vega})
	require.Len(t, curvatures, 1)
	assert.Equal(t, domain.Curvature, curvatures[0].Category)
	// 1mm x 0.5 x HVR(Equity) x sqrt(365/14)/z99 x delta weight 23.
	assert.InDelta(t, 15144566.52, curvatures[0].Amount.Value().InexactFloat64(), 0.5)
}

func TestDeriveCurvatureRatesSkipsDeltaWeight(t *testing.T) {
	vega := records.Sensitivity{
		Product:  domain.ProductRatesFx,
		Risk:     domain.Rates,
		Category: domain.Vega,
		Bucket:   domain.CurrencyBucket{Ccy: domain.USD},
		Tenor:    domain.Tenor2W,
		Amount:   usd("1000000"),
	}
	curvatures := deriveCurvature([]records.Sensitivity{vega})
	require.Len(t, curvatures, 1)
	// 1mm x 0.5 x HVR(Rates) x sqrt(365/14)/z99, no delta weight.
	assert.InDelta(t, 515793.21, curvatures[0].Amount.Value().InexactFloat64(), 0.01)
}

func TestCurvatureSinglePositiveVega(t *testing.T) {
	node, err := New(nil).curvatureCategoryMargin(domain.USD, domain.Equity, []records.Sensitivity{
		equityVega("ISSUER", 5, domain.Tenor2W, "1000000"),
	})
	require.NoError(t, err)
	// One all-positive exposure: theta 0, lambda z995^2-1, margin z995^2 x CVR.
	assert.InDelta(t, 100482632.93, node.Amount().Value().InexactFloat64(), 1)
	assert.Equal(t, "Curvature", node.Identifier())
}

func TestCurvatureSingleNegativeVegaFloorsAtZero(t *testing.T) {
	node, err := New(nil).curvatureCategoryMargin(domain.USD, domain.Equity, []records.Sensitivity{
		equityVega("ISSUER", 5, domain.Tenor2W, "-1000000"),
	})
	require.NoError(t, err)
	// All-negative exposure: theta -1 collapses lambda to 1 and the floor
	// takes over.
	assert.InDelta(t, 0, node.Amount().Value().InexactFloat64(), 0.001)
}

func TestCurvatureRatesScaling(t *testing.T) {
	vega := records.Sensitivity{
		Product:  domain.ProductRatesFx,
		Risk:     domain.Rates,
		Category: domain.Vega,
		Bucket:   domain.CurrencyBucket{Ccy: domain.USD},
		Tenor:    domain.Tenor2W,
		Amount:   usd("1000000"),
	}
	node, err := New(nil).curvatureCategoryMargin(domain.USD, domain.Rates, []records.Sensitivity{vega})
	require.NoError(t, err)
	// z995^2 x CVR x 1/HVR(Rates)^2.
	assert.InDelta(t, 15492234.49, node.Amount().Value().InexactFloat64(), 1)
}

func TestCurvatureResidualSetIndependent(t *testing.T) {
	nonResidual := equityVega("A", 5, domain.Tenor2W, "1000000")
	residual := equityVega("R", 0, domain.Tenor2W, "1000000")

	mixed, err := New(nil).curvatureCategoryMargin(domain.USD, domain.Equity,
		[]records.Sensitivity{nonResidual, residual})
	require.NoError(t, err)
	nonResOnly, err := New(nil).curvatureCategoryMargin(domain.USD, domain.Equity,
		[]records.Sensitivity{nonResidual})
	require.NoError(t, err)
	resOnly, err := New(nil).curvatureCategoryMargin(domain.USD, domain.Equity,
		[]records.Sensitivity{residual})
	require.NoError(t, err)

	want := nonResOnly.Amount().Value().Add(resOnly.Amount().Value())
	assert.True(t, mixed.Amount().Value().Equal(want))
}

func TestCurvatureLongShortAsymmetry(t *testing.T) {
	long, err := New(nil).curvatureCategoryMargin(domain.USD, domain.Equity, []records.Sensitivity{
		equityVega("A", 5, domain.Tenor2W, "1000000"),
	})
	require.NoError(t, err)
	short, err := New(nil).curvatureCategoryMargin(domain.USD, domain.Equity, []records.Sensitivity{
		equityVega("A", 5, domain.Tenor2W, "-1000000"),
	})
	require.NoError(t, err)
	assert.True(t, short.Amount().Value().LessThan(long.Amount().Value()),
		"short volatility margins below long volatility")
}
