package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/fx"
	"github.com/finclear/marginengine/internal/records"
)

func TestThresholdFactorBelowThreshold(t *testing.T) {
	s := equityDelta("ISSUER", 5, "1000000")
	factors, err := thresholdFactors(domain.USD, fx.NewRates(), []records.Sensitivity{s})
	require.NoError(t, err)
	assert.True(t, factors[nettingKey(s)].Equal(one), "exposure well under the bucket threshold")
}

func TestThresholdFactorAboveThreshold(t *testing.T) {
	// Small-cap equity threshold is 0.6mm; a 2.4mm exposure is four times over
	// and scales by sqrt(4).
	s := equityDelta("ISSUER", 9, "2400000")
	factors, err := thresholdFactors(domain.USD, fx.NewRates(), []records.Sensitivity{s})
	require.NoError(t, err)
	assert.True(t, factors[nettingKey(s)].Equal(decimal.NewFromInt(2)))
}

func TestThresholdFactorUsesAbsoluteExposure(t *testing.T) {
	s := equityDelta("ISSUER", 9, "-2400000")
	factors, err := thresholdFactors(domain.USD, fx.NewRates(), []records.Sensitivity{s})
	require.NoError(t, err)
	assert.True(t, factors[nettingKey(s)].Equal(decimal.NewFromInt(2)))
}

func TestRatesDeltaConcentratesPerBucket(t *testing.T) {
	// High-liquidity rates delta threshold is 230mm. Two 460mm exposures in
	// the same currency bucket net into one 920mm exposure, so every record of
	// the bucket carries sqrt(920/230) = 2.
	a := ratesDelta(domain.USD, "OIS", domain.Tenor2Y, "460000000")
	b := ratesDelta(domain.USD, "Libor3m", domain.Tenor10Y, "460000000")
	factors, err := thresholdFactors(domain.USD, fx.NewRates(), []records.Sensitivity{a, b})
	require.NoError(t, err)
	assert.True(t, factors[nettingKey(a)].Equal(decimal.NewFromInt(2)))
	assert.True(t, factors[nettingKey(b)].Equal(decimal.NewFromInt(2)))
}

func TestEquityDeltaConcentratesPerQualifier(t *testing.T) {
	// Distinct issuers in one bucket keep separate concentration exposures.
	a := equityDelta("OVER", 9, "2400000")
	b := equityDelta("UNDER", 9, "100000")
	factors, err := thresholdFactors(domain.USD, fx.NewRates(), []records.Sensitivity{a, b})
	require.NoError(t, err)
	assert.True(t, factors[nettingKey(a)].Equal(decimal.NewFromInt(2)))
	assert.True(t, factors[nettingKey(b)].Equal(one))
}

func TestCrossCurrencyBasisNeverConcentrates(t *testing.T) {
	s := ratesDelta(domain.USD, "", domain.Tenor2Y, "999000000000")
	s.SubRisk = domain.CrossCurrencyBasis
	assert.False(t, concentrates(s))

	factors, err := thresholdFactors(domain.USD, fx.NewRates(), []records.Sensitivity{s})
	require.NoError(t, err)
	assert.True(t, factors[nettingKey(s)].Equal(one))
}

func TestCurvatureAndBaseCorrelationNeverConcentrate(t *testing.T) {
	cvr := equityVega("ISSUER", 5, domain.Tenor1Y, "1")
	cvr.Category = domain.Curvature
	assert.False(t, concentrates(cvr))
	assert.False(t, concentrates(baseCorr("INDEX", "1")))
	assert.True(t, concentrates(equityDelta("ISSUER", 5, "1")))
	assert.True(t, concentrates(equityVega("ISSUER", 5, domain.Tenor1Y, "1")))
}

func TestWeighAppliesWeightAndFactor(t *testing.T) {
	s := equityDelta("ISSUER", 9, "2400000")
	ws, err := weigh(domain.USD, fx.NewRates(), []records.Sensitivity{s})
	require.NoError(t, err)
	require.Len(t, ws, 1)
	// 2.4mm x risk weight 32 x concentration factor 2.
	assert.Equal(t, "153600000", ws[0].amount.Value().String())
	assert.True(t, ws[0].factor.Equal(decimal.NewFromInt(2)))
}

func TestConcentrationRatio(t *testing.T) {
	two, four := decimal.NewFromInt(2), decimal.NewFromInt(4)
	assert.Equal(t, "0.5", concentrationRatio(two, four).String())
	assert.Equal(t, "0.5", concentrationRatio(four, two).String())
	assert.True(t, concentrationRatio(two, two).Equal(one))
	assert.True(t, concentrationRatio(decimal.Zero, decimal.Zero).Equal(one))
}
