package engine

import (
	"fmt"
	"sort"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/margintree"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/records"
)

// composeAddOns builds the add-on branch: flat fixed amounts, per-qualifier
// notional·factor contributions, and per-product margin surcharges. Every
// contribution is additive. A factor without a notional, a notional with a
// factor but no amount, duplicate multipliers, or a multiplier for a product
// with no margin are all fatal data errors.
func composeAddOns(calcCcy domain.Currency, p records.Portfolio, productMargins map[domain.Product]money.Amount) (*margintree.AddOn, error) {
	var components []*margintree.AddOnComponent
	total := money.Zero(calcCcy)

	if len(p.FixedAmounts) > 0 {
		amounts := make([]money.Amount, 0, len(p.FixedAmounts))
		for _, f := range p.FixedAmounts {
			amounts = append(amounts, f.Amount)
		}
		sum, err := money.Sum(calcCcy, amounts)
		if err != nil {
			return nil, fmt.Errorf("fixed add-on: %w", err)
		}
		components = append(components, margintree.NewAddOnComponent("FixedAmount", sum))
		total, err = total.Add(sum)
		if err != nil {
			return nil, err
		}
	}

	notionalComponents, notionalTotal, err := notionalAddOns(calcCcy, p)
	if err != nil {
		return nil, err
	}
	components = append(components, notionalComponents...)
	total, err = total.Add(notionalTotal)
	if err != nil {
		return nil, err
	}

	multiplierComponents, multiplierTotal, err := multiplierAddOns(calcCcy, p, productMargins)
	if err != nil {
		return nil, err
	}
	components = append(components, multiplierComponents...)
	total, err = total.Add(multiplierTotal)
	if err != nil {
		return nil, err
	}

	if len(components) == 0 {
		return nil, nil
	}
	return margintree.NewAddOn(total, components), nil
}

func notionalAddOns(calcCcy domain.Currency, p records.Portfolio) ([]*margintree.AddOnComponent, money.Amount, error) {
	factors := make(map[string]records.NotionalFactor, len(p.NotionalFactors))
	for _, f := range p.NotionalFactors {
		if _, dup := factors[f.Qualifier]; dup {
			return nil, money.Amount{}, fmt.Errorf("duplicate notional factor for qualifier %q", f.Qualifier)
		}
		factors[f.Qualifier] = f
	}
	netted := make(map[string]money.Amount)
	for _, n := range p.AddOnNotionals {
		sum, ok := netted[n.Qualifier]
		if !ok {
			sum = money.Zero(calcCcy)
		}
		var err error
		sum, err = sum.Add(n.Amount)
		if err != nil {
			return nil, money.Amount{}, fmt.Errorf("add-on notional for %q: %w", n.Qualifier, err)
		}
		netted[n.Qualifier] = sum
	}

	for q := range factors {
		if _, ok := netted[q]; !ok {
			return nil, money.Amount{}, fmt.Errorf("notional factor for qualifier %q has no matching notional", q)
		}
	}
	qualifiers := make([]string, 0, len(netted))
	for q := range netted {
		if _, ok := factors[q]; !ok {
			return nil, money.Amount{}, fmt.Errorf("add-on notional for qualifier %q has no matching factor", q)
		}
		qualifiers = append(qualifiers, q)
	}
	sort.Strings(qualifiers)

	var components []*margintree.AddOnComponent
	total := money.Zero(calcCcy)
	for _, q := range qualifiers {
		contribution := netted[q].Abs().Scale(factors[q].Factor)
		components = append(components, margintree.NewAddOnComponent("Notional "+q, contribution))
		var err error
		total, err = total.Add(contribution)
		if err != nil {
			return nil, money.Amount{}, err
		}
	}
	return components, total, nil
}

func multiplierAddOns(calcCcy domain.Currency, p records.Portfolio, productMargins map[domain.Product]money.Amount) ([]*margintree.AddOnComponent, money.Amount, error) {
	multipliers := make(map[domain.Product]records.ProductMultiplier, len(p.ProductMultipliers))
	for _, m := range p.ProductMultipliers {
		if _, dup := multipliers[m.Product]; dup {
			return nil, money.Amount{}, fmt.Errorf("duplicate product multiplier for %s", m.Product)
		}
		multipliers[m.Product] = m
	}

	var components []*margintree.AddOnComponent
	total := money.Zero(calcCcy)
	for _, product := range domain.Products() {
		m, ok := multipliers[product]
		if !ok {
			continue
		}
		margin, ok := productMargins[product]
		if !ok {
			return nil, money.Amount{}, fmt.Errorf("product multiplier for %s has no matching product margin", m.Product)
		}
		contribution := margin.Scale(m.Multiplier)
		components = append(components, margintree.NewAddOnComponent("Multiplier "+product.String(), contribution))
		var err error
		total, err = total.Add(contribution)
		if err != nil {
			return nil, money.Amount{}, err
		}
	}
	return components, total, nil
}
