// Package margintree builds the ordered hierarchical result of a margin
// calculation: Total → Model → Product → RiskClass → Category → Bucket →
// Weighting, with an add-on branch beside the model. Nodes are constructed
// bottom-up and never mutated afterwards; every constructor fixes its
// children's order so repeated runs render byte-identical reports.
package margintree

import (
	"sort"

	"github.com/google/uuid"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
)

// Levels of the result hierarchy.
const (
	LevelTotal = iota + 1
	LevelModel
	LevelProduct
	LevelRiskClass
	LevelCategory
	LevelBucket
	LevelWeighting
)

// Node is one entry of the breakdown tree.
type Node interface {
	Amount() money.Amount
	Level() int
	Identifier() string
	Name() string
	Children() []Node
}

// Weighting is a leaf: one netted, weighted sensitivity.
type Weighting struct {
	amount     money.Amount
	identifier string
}

func NewWeighting(identifier string, amount money.Amount) *Weighting {
	return &Weighting{amount: amount, identifier: identifier}
}

func (w *Weighting) Amount() money.Amount { return w.amount }
func (w *Weighting) Level() int           { return LevelWeighting }
func (w *Weighting) Identifier() string   { return w.identifier }
func (w *Weighting) Name() string         { return "Weighting" }
func (w *Weighting) Children() []Node     { return nil }

// Bucket wraps the weightings of one bucket. Children sort alphabetically by
// identifier.
type Bucket struct {
	amount   money.Amount
	bucket   domain.Bucket
	name     string
	children []Node
}

// NewBucket builds a bucket node for a concrete domain bucket.
func NewBucket(b domain.Bucket, amount money.Amount, weightings []*Weighting) *Bucket {
	children := make([]Node, len(weightings))
	for i, w := range weightings {
		children[i] = w
	}
	sortAlphabetical(children)
	name := b.Name()
	if name == "" {
		name = "Common"
	}
	return &Bucket{amount: amount, bucket: b, name: name, children: children}
}

func (b *Bucket) Amount() money.Amount  { return b.amount }
func (b *Bucket) Level() int            { return LevelBucket }
func (b *Bucket) Identifier() string    { return b.name }
func (b *Bucket) Name() string          { return "Bucket" }
func (b *Bucket) Children() []Node      { return b.children }
func (b *Bucket) Domain() domain.Bucket { return b.bucket }

// Category wraps the buckets of one sensitivity category. Children sort
// placeholder-first, residual-last, numerically in between.
type Category struct {
	amount   money.Amount
	category domain.SensitivityCategory
	children []Node
}

func NewCategory(c domain.SensitivityCategory, amount money.Amount, buckets []*Bucket) *Category {
	sorted := make([]*Bucket, len(buckets))
	copy(sorted, buckets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return domain.CompareBuckets(sorted[i].bucket, sorted[j].bucket) < 0
	})
	children := make([]Node, len(sorted))
	for i, b := range sorted {
		children[i] = b
	}
	return &Category{amount: amount, category: c, children: children}
}

func (c *Category) Amount() money.Amount { return c.amount }
func (c *Category) Level() int           { return LevelCategory }
func (c *Category) Identifier() string   { return c.category.String() }
func (c *Category) Name() string         { return "Category" }
func (c *Category) Children() []Node     { return c.children }

// RiskClass wraps the category margins of one risk class. Children keep
// category enum order.
type RiskClass struct {
	amount   money.Amount
	risk     domain.RiskClass
	children []Node
}

func NewRiskClass(r domain.RiskClass, amount money.Amount, categories []*Category) *RiskClass {
	sorted := make([]*Category, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].category < sorted[j].category
	})
	children := make([]Node, len(sorted))
	for i, c := range sorted {
		children[i] = c
	}
	return &RiskClass{amount: amount, risk: r, children: children}
}

func (r *RiskClass) Amount() money.Amount { return r.amount }
func (r *RiskClass) Level() int           { return LevelRiskClass }
func (r *RiskClass) Identifier() string   { return r.risk.String() }
func (r *RiskClass) Name() string         { return "RiskClass" }
func (r *RiskClass) Children() []Node     { return r.children }

// Product wraps the risk classes of one product silo. Children keep risk
// class enum order.
type Product struct {
	amount   money.Amount
	product  domain.Product
	children []Node
}

func NewProduct(p domain.Product, amount money.Amount, risks []*RiskClass) *Product {
	sorted := make([]*RiskClass, len(risks))
	copy(sorted, risks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].risk < sorted[j].risk })
	children := make([]Node, len(sorted))
	for i, r := range sorted {
		children[i] = r
	}
	return &Product{amount: amount, product: p, children: children}
}

func (p *Product) Amount() money.Amount { return p.amount }
func (p *Product) Level() int           { return LevelProduct }
func (p *Product) Identifier() string   { return p.product.String() }
func (p *Product) Name() string         { return "Product" }
func (p *Product) Children() []Node     { return p.children }

// Model is the correlation-aggregated side of the total. Children keep
// product enum order.
type Model struct {
	amount   money.Amount
	children []Node
}

func NewModel(amount money.Amount, products []*Product) *Model {
	sorted := make([]*Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].product < sorted[j].product })
	children := make([]Node, len(sorted))
	for i, p := range sorted {
		children[i] = p
	}
	return &Model{amount: amount, children: children}
}

func (m *Model) Amount() money.Amount { return m.amount }
func (m *Model) Level() int           { return LevelModel }
func (m *Model) Identifier() string   { return "SIMM" }
func (m *Model) Name() string         { return "Model" }
func (m *Model) Children() []Node     { return m.children }

// AddOnComponent is one add-on contribution: a fixed amount, a qualifier
// notional, or a product multiplier surcharge.
type AddOnComponent struct {
	amount     money.Amount
	identifier string
}

func NewAddOnComponent(identifier string, amount money.Amount) *AddOnComponent {
	return &AddOnComponent{amount: amount, identifier: identifier}
}

func (a *AddOnComponent) Amount() money.Amount { return a.amount }
func (a *AddOnComponent) Level() int           { return LevelProduct }
func (a *AddOnComponent) Identifier() string   { return a.identifier }
func (a *AddOnComponent) Name() string         { return "AddOnComponent" }
func (a *AddOnComponent) Children() []Node     { return nil }

// AddOn is the model's sibling branch. Children sort alphabetically.
type AddOn struct {
	amount   money.Amount
	children []Node
}

func NewAddOn(amount money.Amount, components []*AddOnComponent) *AddOn {
	children := make([]Node, len(components))
	for i, c := range components {
		children[i] = c
	}
	sortAlphabetical(children)
	return &AddOn{amount: amount, children: children}
}

func (a *AddOn) Amount() money.Amount { return a.amount }
func (a *AddOn) Level() int           { return LevelModel }
func (a *AddOn) Identifier() string   { return "AddOn" }
func (a *AddOn) Name() string         { return "AddOn" }
func (a *AddOn) Children() []Node     { return a.children }

// Total is the root. RunID correlates the tree with logs and downstream
// reports.
type Total struct {
	amount   money.Amount
	runID    uuid.UUID
	children []Node
}

// NewTotal assembles the root from the model branch and an optional add-on
// branch.
func NewTotal(amount money.Amount, model *Model, addOn *AddOn) *Total {
	children := []Node{model}
	if addOn != nil {
		children = append(children, addOn)
	}
	return &Total{amount: amount, runID: uuid.New(), children: children}
}

func (t *Total) Amount() money.Amount { return t.amount }
func (t *Total) Level() int           { return LevelTotal }
func (t *Total) Identifier() string   { return "Total" }
func (t *Total) Name() string         { return "Total" }
func (t *Total) Children() []Node     { return t.children }
func (t *Total) RunID() uuid.UUID     { return t.runID }

func sortAlphabetical(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Identifier() < nodes[j].Identifier()
	})
}
