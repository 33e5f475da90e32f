package engine

import (
	"fmt"
	"time"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/fx"
	"github.com/finclear/marginengine/internal/records"
)

// Sanitize prepares a regulation-scoped portfolio for aggregation: expired
// trades drop, self-currency FX delta drops, every amount converts to the
// calculation currency, and the role's sign convention applies. Trade-level
// notional/present-value consistency is validated here so the aggregation
// can trust its input.
func Sanitize(role domain.Role, valuation time.Time, calcCcy domain.Currency, conv fx.Converter, p records.Portfolio) (records.Portfolio, error) {
	out := records.Portfolio{
		NotionalFactors:    p.NotionalFactors,
		ProductMultipliers: p.ProductMultipliers,
	}

	for _, s := range p.Sensitivities {
		if s.Trade.Expired(valuation) {
			continue
		}
		if s.Risk == domain.Fx && s.Category == domain.Delta && s.Qualifier == string(calcCcy) {
			// Exposure of the calculation currency to itself is economically
			// zero.
			continue
		}
		amount, err := conv.Convert(s.Amount, calcCcy)
		if err != nil {
			return records.Portfolio{}, fmt.Errorf("sensitivity %s/%s: %w", s.Qualifier, s.Trade.TradeID, err)
		}
		if role == domain.Pledgor {
			amount = amount.Neg()
		}
		out.Sensitivities = append(out.Sensitivities, s.WithAmount(amount))
	}

	for _, f := range p.FixedAmounts {
		amount, err := conv.Convert(f.Amount, calcCcy)
		if err != nil {
			return records.Portfolio{}, fmt.Errorf("fixed add-on: %w", err)
		}
		f.Amount = amount
		out.FixedAmounts = append(out.FixedAmounts, f)
	}

	for _, n := range p.AddOnNotionals {
		if n.Trade.Expired(valuation) {
			continue
		}
		amount, err := conv.Convert(n.Amount, calcCcy)
		if err != nil {
			return records.Portfolio{}, fmt.Errorf("add-on notional %q: %w", n.Qualifier, err)
		}
		n.Amount = amount
		out.AddOnNotionals = append(out.AddOnNotionals, n)
	}

	for _, n := range p.Notionals {
		if n.Trade.Expired(valuation) {
			continue
		}
		amount, err := conv.Convert(n.Amount, calcCcy)
		if err != nil {
			return records.Portfolio{}, fmt.Errorf("notional for trade %q: %w", n.Trade.TradeID, err)
		}
		n.Amount = amount
		out.Notionals = append(out.Notionals, n)
	}

	for _, pv := range p.PresentValues {
		if pv.Trade.Expired(valuation) {
			continue
		}
		amount, err := conv.Convert(pv.Amount, calcCcy)
		if err != nil {
			return records.Portfolio{}, fmt.Errorf("present value for trade %q: %w", pv.Trade.TradeID, err)
		}
		if role == domain.Secured {
			amount = amount.Neg()
		}
		pv.Amount = amount
		out.PresentValues = append(out.PresentValues, pv)
	}

	if err := validateTrades(out); err != nil {
		return records.Portfolio{}, err
	}
	return out, nil
}

// validateTrades rejects notionals and present values that disagree on a
// trade's product or maturity.
func validateTrades(p records.Portfolio) error {
	type tradeFacts struct {
		product domain.Product
		endDate time.Time
	}
	facts := make(map[string]tradeFacts)
	check := func(id string, product domain.Product, end time.Time) error {
		if id == "" {
			return nil
		}
		have, ok := facts[id]
		if !ok {
			facts[id] = tradeFacts{product: product, endDate: end}
			return nil
		}
		if have.product != product {
			return fmt.Errorf("trade %q reported under products %s and %s", id, have.product, product)
		}
		if !have.endDate.Equal(end) {
			return fmt.Errorf("trade %q reported with conflicting maturities %s and %s",
				id, have.endDate.Format("2006-01-02"), end.Format("2006-01-02"))
		}
		return nil
	}
	for _, n := range p.Notionals {
		if err := check(n.Trade.TradeID, n.Product, n.Trade.EndDate); err != nil {
			return err
		}
	}
	for _, pv := range p.PresentValues {
		if err := check(pv.Trade.TradeID, pv.Product, pv.Trade.EndDate); err != nil {
			return err
		}
	}
	return nil
}
