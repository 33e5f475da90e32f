package margintree

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
)

func usd(v int64) money.Amount {
	return money.New(domain.USD, decimal.NewFromInt(v))
}

func TestBucketSortsWeightingsAlphabetically(t *testing.T) {
	b := NewBucket(domain.EquityBucket(1), usd(10), []*Weighting{
		NewWeighting("zeta", usd(1)),
		NewWeighting("alpha", usd(2)),
		NewWeighting("mid", usd(3)),
	})
	ids := make([]string, 0, 3)
	for _, c := range b.Children() {
		ids = append(ids, c.Identifier())
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, ids)
}

func TestPlaceholderBucketRendersAsCommon(t *testing.T) {
	b := NewBucket(domain.PlaceholderBucket{}, usd(1), nil)
	assert.Equal(t, "Common", b.Identifier())
	assert.Equal(t, "Bucket", b.Name())
}

func TestCategoryOrdersBuckets(t *testing.T) {
	c := NewCategory(domain.Delta, usd(10), []*Bucket{
		NewBucket(domain.EquityBucket(0), usd(1), nil),
		NewBucket(domain.EquityBucket(10), usd(2), nil),
		NewBucket(domain.EquityBucket(2), usd(3), nil),
	})
	ids := make([]string, 0, 3)
	for _, child := range c.Children() {
		ids = append(ids, child.Identifier())
	}
	assert.Equal(t, []string{"2", "10", "Residual"}, ids, "numeric order with the residual last")
}

func TestRiskClassOrdersCategories(t *testing.T) {
	r := NewRiskClass(domain.CreditQualifying, usd(10), []*Category{
		NewCategory(domain.BaseCorrelation, usd(1), nil),
		NewCategory(domain.Delta, usd(2), nil),
		NewCategory(domain.Curvature, usd(3), nil),
	})
	ids := make([]string, 0, 3)
	for _, c := range r.Children() {
		ids = append(ids, c.Identifier())
	}
	assert.Equal(t, []string{"Delta", "Curvature", "BaseCorr"}, ids)
}

func TestProductOrdersRiskClasses(t *testing.T) {
	p := NewProduct(domain.ProductRatesFx, usd(10), []*RiskClass{
		NewRiskClass(domain.Rates, usd(1), nil),
		NewRiskClass(domain.Fx, usd(2), nil),
	})
	require.Len(t, p.Children(), 2)
	assert.Equal(t, "FX", p.Children()[0].Identifier())
	assert.Equal(t, "Rates", p.Children()[1].Identifier())
}

func TestModelOrdersProducts(t *testing.T) {
	m := NewModel(usd(10), []*Product{
		NewProduct(domain.ProductCommodity, usd(1), nil),
		NewProduct(domain.ProductRatesFx, usd(2), nil),
	})
	assert.Equal(t, "SIMM", m.Identifier())
	require.Len(t, m.Children(), 2)
	assert.Equal(t, "RatesFX", m.Children()[0].Identifier())
	assert.Equal(t, "Commodity", m.Children()[1].Identifier())
}

func TestAddOnSortsComponents(t *testing.T) {
	a := NewAddOn(usd(30), []*AddOnComponent{
		NewAddOnComponent("Notional B", usd(1)),
		NewAddOnComponent("FixedAmount", usd(2)),
		NewAddOnComponent("Multiplier RatesFX", usd(3)),
	})
	ids := make([]string, 0, 3)
	for _, c := range a.Children() {
		ids = append(ids, c.Identifier())
	}
	assert.Equal(t, []string{"FixedAmount", "Multiplier RatesFX", "Notional B"}, ids)
}

func TestTotalShape(t *testing.T) {
	model := NewModel(usd(100), nil)
	total := NewTotal(usd(100), model, nil)
	require.Len(t, total.Children(), 1)
	assert.Equal(t, LevelTotal, total.Level())
	assert.NotEqual(t, total.RunID().String(), NewTotal(usd(100), model, nil).RunID().String())

	withAddOn := NewTotal(usd(130), model, NewAddOn(usd(30), nil))
	require.Len(t, withAddOn.Children(), 2)
	assert.Equal(t, "AddOn", withAddOn.Children()[1].Identifier())
}

func TestLevels(t *testing.T) {
	assert.Equal(t, LevelWeighting, NewWeighting("w", usd(1)).Level())
	assert.Equal(t, LevelBucket, NewBucket(domain.EquityBucket(1), usd(1), nil).Level())
	assert.Equal(t, LevelCategory, NewCategory(domain.Delta, usd(1), nil).Level())
	assert.Equal(t, LevelRiskClass, NewRiskClass(domain.Fx, usd(1), nil).Level())
	assert.Equal(t, LevelProduct, NewProduct(domain.ProductCredit, usd(1), nil).Level())
	assert.Equal(t, LevelModel, NewModel(usd(1), nil).Level())
}
