package params

import (
	"github.com/shopspring/decimal"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/records"
)

// creditQualifyingProvider calibrates qualifying credit. Buckets 1-6 are the
// investment-grade sectors, 7-12 the high-yield/non-rated mirrors, 0 the
// residual.
type creditQualifyingProvider struct{}

var creditQualifyingWeights = map[int]float64{
	0: 343,
	1: 75, 2: 90, 3: 84, 4: 54, 5: 62, 6: 48,
	7: 185, 8: 343, 9: 255, 10: 250, 11: 214, 12: 173,
}

const (
	creditQualifyingVegaWeight     = 0.27
	creditSameIssuerCorrelation    = 0.93
	creditDiffIssuerCorrelation    = 0.42
	creditResidualCorrelation      = 0.50
	creditSameGroupBucketCorr      = 0.42
	creditCrossGroupBucketCorr     = 0.35
	creditQualifyingVegaThreshold  = 360
	creditInvestmentGradeThreshold = 0.94
	creditHighYieldThreshold       = 0.23
)

func (creditQualifyingProvider) RiskWeight(s records.Sensitivity) decimal.Decimal {
	if s.Category == domain.Vega {
		return d(creditQualifyingVegaWeight)
	}
	if b, ok := s.Bucket.(domain.CreditQualifyingBucket); ok {
		return d(creditQualifyingWeights[int(b)])
	}
	return d(creditQualifyingWeights[0])
}

func (creditQualifyingProvider) Correlation(a, b records.Sensitivity) decimal.Decimal {
	if a.Bucket.Residual() {
		return d(creditResidualCorrelation)
	}
	if a.Qualifier == b.Qualifier {
		return d(creditSameIssuerCorrelation)
	}
	return d(creditDiffIssuerCorrelation)
}

func (creditQualifyingProvider) BucketCorrelation(a, b domain.Bucket) decimal.Decimal {
	ba, okA := a.(domain.CreditQualifyingBucket)
	bb, okB := b.(domain.CreditQualifyingBucket)
	if okA && okB && (int(ba) <= 6) == (int(bb) <= 6) {
		return d(creditSameGroupBucketCorr)
	}
	return d(creditCrossGroupBucketCorr)
}

func (creditQualifyingProvider) Threshold(category domain.SensitivityCategory, identifier string) money.Amount {
	if category == domain.Vega || category == domain.Curvature {
		return millions(creditQualifyingVegaThreshold)
	}
	switch identifier {
	case "1", "2", "3", "4", "5", "6":
		return millions(creditInvestmentGradeThreshold)
	default:
		return millions(creditHighYieldThreshold)
	}
}

// creditNonQualifyingProvider calibrates non-qualifying credit: bucket 1 for
// investment grade, 2 for everything else rated, 0 the residual.
type creditNonQualifyingProvider struct{}

var creditNonQualifyingWeights = map[int]float64{
	0: 1300,
	1: 280,
	2: 1300,
}

const (
	creditNonQualifyingVegaWeight    = 0.27
	creditNQSameUnderlierCorrelation = 0.83
	creditNQDiffUnderlierCorrelation = 0.32
	creditNonQualifyingBucketCorr    = 0.34
	creditNonQualifyingVegaThreshold = 70
	creditNQInvestmentGradeThreshold = 9.5
	creditNQSubInvestmentThreshold   = 0.5
)

func (creditNonQualifyingProvider) RiskWeight(s records.Sensitivity) decimal.Decimal {
	if s.Category == domain.Vega {
		return d(creditNonQualifyingVegaWeight)
	}
	if b, ok := s.Bucket.(domain.CreditNonQualifyingBucket); ok {
		return d(creditNonQualifyingWeights[int(b)])
	}
	return d(creditNonQualifyingWeights[0])
}

func (creditNonQualifyingProvider) Correlation(a, b records.Sensitivity) decimal.Decimal {
	if a.Bucket.Residual() {
		return d(creditResidualCorrelation)
	}
	if a.Qualifier == b.Qualifier {
		return d(creditNQSameUnderlierCorrelation)
	}
	return d(creditNQDiffUnderlierCorrelation)
}

func (creditNonQualifyingProvider) BucketCorrelation(a, b domain.Bucket) decimal.Decimal {
	return d(creditNonQualifyingBucketCorr)
}

func (creditNonQualifyingProvider) Threshold(category domain.SensitivityCategory, identifier string) money.Amount {
	if category == domain.Vega || category == domain.Curvature {
		return millions(creditNonQualifyingVegaThreshold)
	}
	if identifier == "1" {
		return millions(creditNQInvestmentGradeThreshold)
	}
	return millions(creditNQSubInvestmentThreshold)
}
