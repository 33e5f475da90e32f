// Package records models the normalized risk records the engine consumes:
// sensitivities, notionals, present values and the add-on calibration
// parameters. Records are immutable after construction; every adjustment
// (conversion, sign flip, netting) returns a fresh record.
package records

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
)

// TradeInfo carries portfolio/trade identity and maturity. It routes and
// filters records; it never enters the arithmetic.
type TradeInfo struct {
	PortfolioID string
	TradeID     string
	EndDate     time.Time
}

// Expired reports whether the trade matured strictly before the valuation
// date.
func (t TradeInfo) Expired(valuation time.Time) bool {
	return !t.EndDate.IsZero() && t.EndDate.Before(valuation)
}

// RegulationsInfo lists the regimes a record applies to on each side of the
// margin exchange.
type RegulationsInfo struct {
	Post    []domain.Regulation
	Collect []domain.Regulation
}

// ForRole returns the applicable regulations for the computing side.
func (r RegulationsInfo) ForRole(role domain.Role) []domain.Regulation {
	if role == domain.Pledgor {
		return r.Post
	}
	return r.Collect
}

// AppliesTo reports whether the record participates in a regulation for the
// given role; the Included wildcard matches everything.
func (r RegulationsInfo) AppliesTo(role domain.Role, reg domain.Regulation) bool {
	for _, have := range r.ForRole(role) {
		if have == reg || have == domain.Included {
			return true
		}
	}
	return false
}

// Sensitivity is the central risk record: one classified exposure with a
// currency amount.
type Sensitivity struct {
	Product   domain.Product
	Risk      domain.RiskClass
	Category  domain.SensitivityCategory
	SubRisk   domain.SubRisk
	Qualifier string
	Bucket    domain.Bucket
	Label1    string
	Label2    string
	Tenor     domain.Tenor
	Amount    money.Amount

	Regulations RegulationsInfo
	Trade       TradeInfo
}

// WithAmount returns a copy carrying a different amount. The original is
// untouched: the same logical record may be fanned out to several regulation
// groups.
func (s Sensitivity) WithAmount(a money.Amount) Sensitivity {
	s.Amount = a
	return s
}

// Netted returns the reduced record a netting group collapses to: same
// classification, summed amount, trade identity dropped.
func (s Sensitivity) Netted(sum money.Amount) Sensitivity {
	s.Amount = sum
	s.Trade = TradeInfo{}
	return s
}

// AsCurvature clones a vega sensitivity into its derived curvature record.
func (s Sensitivity) AsCurvature(amount money.Amount) Sensitivity {
	s.Category = domain.Curvature
	s.Amount = amount
	return s
}

// ThresholdIdentifier keys the concentration-threshold table row for this
// sensitivity: the currency for FX delta, the sorted currency pair for FX
// vega, the bucket currency for rates, the bucket otherwise.
func (s Sensitivity) ThresholdIdentifier() string {
	switch s.Risk {
	case domain.Fx:
		if s.Category == domain.Vega || s.Category == domain.Curvature {
			if pair, err := domain.ParseCurrencyPair(s.Qualifier); err == nil {
				return pair.Sorted().String()
			}
		}
		return s.Qualifier
	case domain.Rates:
		return s.Bucket.Name()
	default:
		return s.Bucket.Name()
	}
}

// FixedAmount is a flat add-on contribution.
type FixedAmount struct {
	Amount      money.Amount
	Regulations RegulationsInfo
}

// AddOnNotional is a per-qualifier notional exposure feeding the
// notional-factor add-on.
type AddOnNotional struct {
	Qualifier   string
	Amount      money.Amount
	Regulations RegulationsInfo
	Trade       TradeInfo
}

// NotionalFactor scales the netted add-on notional of one qualifier; the
// factor lies in (0,1].
type NotionalFactor struct {
	Qualifier   string
	Factor      decimal.Decimal
	Regulations RegulationsInfo
}

// ProductMultiplier scales one product's margin; the multiplier is positive.
type ProductMultiplier struct {
	Product     domain.Product
	Multiplier  decimal.Decimal
	Regulations RegulationsInfo
}

// Notional is a trade notional, kept for trade-consistency validation.
type Notional struct {
	Product     domain.Product
	Amount      money.Amount
	Regulations RegulationsInfo
	Trade       TradeInfo
}

// PresentValue is a trade present value; it flips sign under the Secured
// role.
type PresentValue struct {
	Product     domain.Product
	Amount      money.Amount
	Regulations RegulationsInfo
	Trade       TradeInfo
}

// Portfolio is the full set of typed records handed to one calculation.
type Portfolio struct {
	Sensitivities      []Sensitivity
	FixedAmounts       []FixedAmount
	AddOnNotionals     []AddOnNotional
	NotionalFactors    []NotionalFactor
	ProductMultipliers []ProductMultiplier
	Notionals          []Notional
	PresentValues      []PresentValue
}

// ForRegulation narrows the portfolio to records applicable to one
// regulation for the given role.
func (p Portfolio) ForRegulation(role domain.Role, reg domain.Regulation) Portfolio {
	out := Portfolio{}
	for _, s := range p.Sensitivities {
		if s.Regulations.AppliesTo(role, reg) {
			out.Sensitivities = append(out.Sensitivities, s)
		}
	}
	for _, f := range p.FixedAmounts {
		if f.Regulations.AppliesTo(role, reg) {
			out.FixedAmounts = append(out.FixedAmounts, f)
		}
	}
	for _, n := range p.AddOnNotionals {
		if n.Regulations.AppliesTo(role, reg) {
			out.AddOnNotionals = append(out.AddOnNotionals, n)
		}
	}
	for _, f := range p.NotionalFactors {
		if f.Regulations.AppliesTo(role, reg) {
			out.NotionalFactors = append(out.NotionalFactors, f)
		}
	}
	for _, m := range p.ProductMultipliers {
		if m.Regulations.AppliesTo(role, reg) {
			out.ProductMultipliers = append(out.ProductMultipliers, m)
		}
	}
	for _, n := range p.Notionals {
		if n.Regulations.AppliesTo(role, reg) {
			out.Notionals = append(out.Notionals, n)
		}
	}
	for _, pv := range p.PresentValues {
		if pv.Regulations.AppliesTo(role, reg) {
			out.PresentValues = append(out.PresentValues, pv)
		}
	}
	return out
}

// AppliedRegulations collects every concrete regulation referenced by any
// record for the role, in enum order.
func (p Portfolio) AppliedRegulations(role domain.Role) []domain.Regulation {
	seen := map[domain.Regulation]bool{}
	wildcard := false
	note := func(info RegulationsInfo) {
		for _, r := range info.ForRole(role) {
			if r == domain.Included {
				wildcard = true
				continue
			}
			seen[r] = true
		}
	}
	for _, s := range p.Sensitivities {
		note(s.Regulations)
	}
	for _, f := range p.FixedAmounts {
		note(f.Regulations)
	}
	for _, n := range p.AddOnNotionals {
		note(n.Regulations)
	}
	for _, f := range p.NotionalFactors {
		note(f.Regulations)
	}
	for _, m := range p.ProductMultipliers {
		note(m.Regulations)
	}
	for _, n := range p.Notionals {
		note(n.Regulations)
	}
	for _, pv := range p.PresentValues {
		note(pv.Regulations)
	}
	if wildcard && len(seen) == 0 {
		// Only wildcard records present: treat as a single unnamed regime.
		return []domain.Regulation{domain.Included}
	}
	out := make([]domain.Regulation, 0, len(seen))
	for _, r := range domain.Regulations() {
		if seen[r] {
			out = append(out, r)
		}
	}
	return out
}
