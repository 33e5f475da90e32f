package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/margintree"
	"github.com/finclear/marginengine/internal/money"
)

func sampleTree() *margintree.Total {
	usd := func(s string) money.Amount {
		return money.New(domain.USD, decimal.RequireFromString(s))
	}
	bucket := margintree.NewBucket(domain.CurrencyBucket{Ccy: domain.EUR}, usd("7400000.005"), []*margintree.Weighting{
		margintree.NewWeighting("EUR", usd("7400000.005")),
	})
	category := margintree.NewCategory(domain.Delta, usd("7400000.005"), []*margintree.Bucket{bucket})
	risk := margintree.NewRiskClass(domain.Fx, usd("7400000.005"), []*margintree.Category{category})
	product := margintree.NewProduct(domain.ProductRatesFx, usd("7400000.005"), []*margintree.RiskClass{risk})
	model := margintree.NewModel(usd("7400000.005"), []*margintree.Product{product})
	return margintree.NewTotal(usd("7400000.005"), model, nil)
}

func TestRenderTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTree(&buf, sampleTree()))

	want := `Total = 7400000.01 USD
  Model SIMM = 7400000.01 USD
    Product RatesFX = 7400000.01 USD
      RiskClass FX = 7400000.01 USD
        Category Delta = 7400000.01 USD
          Bucket EUR = 7400000.01 USD
            Weighting EUR = 7400000.01 USD
`
	assert.Equal(t, want, buf.String())
}

func TestRenderTreeDeterministic(t *testing.T) {
	tree := sampleTree()
	var a, b bytes.Buffer
	require.NoError(t, RenderTree(&a, tree))
	require.NoError(t, RenderTree(&b, tree))
	assert.Equal(t, a.String(), b.String())
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, sampleTree()))

	want := `level|name|identifier|amount|currency
1|Total|Total|7400000.01|USD
2|Model|SIMM|7400000.01|USD
3|Product|RatesFX|7400000.01|USD
4|RiskClass|FX|7400000.01|USD
5|Category|Delta|7400000.01|USD
6|Bucket|EUR|7400000.01|USD
7|Weighting|EUR|7400000.01|USD
`
	assert.Equal(t, want, buf.String())
}
