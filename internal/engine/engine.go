// Package engine implements the correlation-weighted aggregation at the heart
// of the margin calculation: netting, weighting with concentration
// thresholds, the three combination algorithms and add-on composition. The
// engine is single-threaded and purely functional: it takes owned copies of
// its inputs, returns a fresh result tree, and keeps no state between calls.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/fx"
	"github.com/finclear/marginengine/internal/margintree"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/params"
	"github.com/finclear/marginengine/internal/records"
)

// Engine computes one margin tree per invocation.
type Engine struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Compute runs the full aggregation over a regulation-scoped portfolio and
// returns the breakdown tree rooted at the total.
func (e *Engine) Compute(role domain.Role, valuation time.Time, calcCcy domain.Currency, conv fx.Converter, portfolio records.Portfolio) (*margintree.Total, error) {
	clean, err := Sanitize(role, valuation, calcCcy, conv, portfolio)
	if err != nil {
		return nil, fmt.Errorf("sanitize: %w", err)
	}
	netted, err := Net(calcCcy, clean.Sensitivities)
	if err != nil {
		return nil, fmt.Errorf("net: %w", err)
	}
	e.logger.Debug("portfolio prepared",
		zap.Int("records_in", len(portfolio.Sensitivities)),
		zap.Int("records_netted", len(netted)),
		zap.String("calculation_currency", string(calcCcy)),
		zap.String("role", role.String()),
	)

	byProduct := make(map[domain.Product][]records.Sensitivity)
	for _, s := range netted {
		byProduct[s.Product] = append(byProduct[s.Product], s)
	}

	var productNodes []*margintree.Product
	productMargins := make(map[domain.Product]money.Amount)
	modelAmount := money.Zero(calcCcy)
	for _, product := range domain.Products() {
		group, ok := byProduct[product]
		if !ok {
			continue
		}
		node, err := e.productMargin(calcCcy, conv, product, group)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", product, err)
		}
		productNodes = append(productNodes, node)
		productMargins[product] = node.Amount()
		modelAmount, err = modelAmount.Add(node.Amount())
		if err != nil {
			return nil, err
		}
	}
	model := margintree.NewModel(modelAmount, productNodes)

	addOn, err := composeAddOns(calcCcy, clean, productMargins)
	if err != nil {
		return nil, fmt.Errorf("add-ons: %w", err)
	}
	totalAmount := modelAmount
	if addOn != nil {
		totalAmount, err = totalAmount.Add(addOn.Amount())
		if err != nil {
			return nil, err
		}
	}
	return margintree.NewTotal(totalAmount, model, addOn), nil
}

// productMargin combines the risk-class margins of one product silo in
// quadrature under the fixed cross-risk correlation matrix.
func (e *Engine) productMargin(calcCcy domain.Currency, conv fx.Converter, product domain.Product, sensitivities []records.Sensitivity) (*margintree.Product, error) {
	byRisk := make(map[domain.RiskClass][]records.Sensitivity)
	for _, s := range sensitivities {
		byRisk[s.Risk] = append(byRisk[s.Risk], s)
	}

	var riskNodes []*margintree.RiskClass
	var risks []domain.RiskClass
	for _, risk := range domain.RiskClasses() {
		group, ok := byRisk[risk]
		if !ok {
			continue
		}
		node, err := e.riskClassMargin(calcCcy, conv, risk, group)
		if err != nil {
			return nil, fmt.Errorf("risk class %s: %w", risk, err)
		}
		riskNodes = append(riskNodes, node)
		risks = append(risks, risk)
	}

	sum := decimal.Zero
	for i, ri := range riskNodes {
		mi := ri.Amount().Value()
		sum = sum.Add(mi.Mul(mi))
		for j, rj := range riskNodes {
			if i == j {
				continue
			}
			psi := params.RiskClassCorrelation(risks[i], risks[j])
			sum = sum.Add(mi.Mul(rj.Amount().Value()).Mul(psi))
		}
	}
	return margintree.NewProduct(product, money.New(calcCcy, money.Sqrt(sum)), riskNodes), nil
}

// riskClassMargin sums the category margins of one risk class. Categories
// combine by plain addition; each already carries its own quadrature.
func (e *Engine) riskClassMargin(calcCcy domain.Currency, conv fx.Converter, risk domain.RiskClass, sensitivities []records.Sensitivity) (*margintree.RiskClass, error) {
	byCategory := make(map[domain.SensitivityCategory][]records.Sensitivity)
	for _, s := range sensitivities {
		byCategory[s.Category] = append(byCategory[s.Category], s)
	}
	if len(byCategory[domain.Curvature]) > 0 {
		return nil, fmt.Errorf("curvature input is not accepted: curvature derives from vega")
	}

	var categories []*margintree.Category
	total := money.Zero(calcCcy)
	add := func(node *margintree.Category) error {
		categories = append(categories, node)
		var err error
		total, err = total.Add(node.Amount())
		return err
	}

	for _, category := range []domain.SensitivityCategory{domain.Delta, domain.Vega} {
		group, ok := byCategory[category]
		if !ok {
			continue
		}
		node, err := e.plainCategoryMargin(calcCcy, conv, risk, category, group)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", category, err)
		}
		if err := add(node); err != nil {
			return nil, err
		}
	}

	if vegas, ok := byCategory[domain.Vega]; ok {
		node, err := e.curvatureCategoryMargin(calcCcy, risk, vegas)
		if err != nil {
			return nil, fmt.Errorf("curvature: %w", err)
		}
		if err := add(node); err != nil {
			return nil, err
		}
	}

	if baseCorr, ok := byCategory[domain.BaseCorrelation]; ok {
		node, err := e.baseCorrelationCategoryMargin(calcCcy, baseCorr)
		if err != nil {
			return nil, fmt.Errorf("base correlation: %w", err)
		}
		if err := add(node); err != nil {
			return nil, err
		}
	}
	return margintree.NewRiskClass(risk, total, categories), nil
}

// plainCategoryMargin runs the delta/vega path: weight per bucket, combine
// within buckets, then across buckets with the residual split.
func (e *Engine) plainCategoryMargin(calcCcy domain.Currency, conv fx.Converter, risk domain.RiskClass, category domain.SensitivityCategory, group []records.Sensitivity) (*margintree.Category, error) {
	provider := params.ForRiskClass(risk)
	var results []bucketResult
	for _, bucket := range groupByBucket(group) {
		ws, err := weigh(calcCcy, conv, bucket)
		if err != nil {
			return nil, err
		}
		r, err := plainBucketMargin(calcCcy, provider, ws)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	margin, err := combineAcrossBuckets(calcCcy, provider, results)
	if err != nil {
		return nil, err
	}
	return margintree.NewCategory(category, margin, bucketNodes(results)), nil
}

func (e *Engine) curvatureCategoryMargin(calcCcy domain.Currency, risk domain.RiskClass, vegas []records.Sensitivity) (*margintree.Category, error) {
	curvatures := deriveCurvature(vegas)
	margin, results, err := curvatureMargin(calcCcy, risk, curvatures)
	if err != nil {
		return nil, err
	}
	return margintree.NewCategory(domain.Curvature, margin, bucketNodes(results)), nil
}

func (e *Engine) baseCorrelationCategoryMargin(calcCcy domain.Currency, group []records.Sensitivity) (*margintree.Category, error) {
	ws := make([]weighted, 0, len(group))
	for _, s := range group {
		w := riskWeight(s)
		ws = append(ws, weighted{s: s, amount: s.Amount.Scale(w), factor: one})
	}
	r, err := baseCorrelationMargin(calcCcy, ws)
	if err != nil {
		return nil, err
	}
	return margintree.NewCategory(domain.BaseCorrelation, r.margin, bucketNodes([]bucketResult{r})), nil
}

// bucketNodes converts combination results into their report nodes.
func bucketNodes(results []bucketResult) []*margintree.Bucket {
	nodes := make([]*margintree.Bucket, 0, len(results))
	for _, r := range results {
		ws := make([]*margintree.Weighting, 0, len(r.parts))
		for _, w := range r.parts {
			ws = append(ws, margintree.NewWeighting(weightingIdentifier(w.s), w.amount))
		}
		nodes = append(nodes, margintree.NewBucket(r.bucket, r.margin, ws))
	}
	return nodes
}

// weightingIdentifier names a weighting leaf after the netted record it
// represents.
func weightingIdentifier(s records.Sensitivity) string {
	parts := make([]string, 0, 4)
	if s.Qualifier != "" {
		parts = append(parts, s.Qualifier)
	}
	if s.SubRisk != domain.SubRiskNone {
		parts = append(parts, s.SubRisk.String())
	}
	if s.Label1 != "" {
		parts = append(parts, s.Label1)
	}
	if s.Label2 != "" {
		parts = append(parts, s.Label2)
	}
	if s.Tenor != "" {
		parts = append(parts, string(s.Tenor))
	}
	if len(parts) == 0 {
		return s.Bucket.Name()
	}
	return strings.Join(parts, " ")
}
