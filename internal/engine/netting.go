package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/records"
)

// nettingKey collapses a sensitivity to its economic identity. Records
// sharing a key are one exposure and sum before weighting. The key shape is
// risk-class-specific; trade identity never participates.
func nettingKey(s records.Sensitivity) string {
	parts := []string{s.Risk.String()}
	switch s.Risk {
	case domain.Commodity, domain.Equity:
		parts = append(parts, s.Category.String(), s.Qualifier, s.Bucket.Name())
		if s.Category == domain.Vega || s.Category == domain.Curvature {
			parts = append(parts, string(s.Tenor))
		}
	case domain.CreditNonQualifying:
		parts = append(parts, s.Category.String(), s.Qualifier, s.Bucket.Name(), string(s.Tenor))
	case domain.CreditQualifying:
		if s.Category == domain.BaseCorrelation {
			parts = append(parts, s.Category.String(), s.Qualifier)
			break
		}
		parts = append(parts, s.Category.String(), s.Qualifier, s.Bucket.Name(), string(s.Tenor), s.Label2)
	case domain.Fx:
		parts = append(parts, s.Category.String(), s.ThresholdIdentifier())
	case domain.Rates:
		switch s.SubRisk {
		case domain.CrossCurrencyBasis:
			parts = append(parts, s.Bucket.Name())
		case domain.Inflation:
			parts = append(parts, s.Category.String(), s.Bucket.Name())
		default:
			parts = append(parts, s.Category.String(), s.Bucket.Name(), s.Label1, string(s.Tenor))
		}
	}
	return strings.Join(parts, "|")
}

// Net collapses duplicate exposures by netting key, summing amounts in the
// calculation currency. The result is ordered by key, so netting is
// deterministic and idempotent.
func Net(calcCcy domain.Currency, sensitivities []records.Sensitivity) ([]records.Sensitivity, error) {
	groups := make(map[string][]records.Sensitivity)
	for _, s := range sensitivities {
		k := nettingKey(s)
		groups[k] = append(groups[k], s)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]records.Sensitivity, 0, len(keys))
	for _, k := range keys {
		group := groups[k]
		sum := money.Zero(calcCcy)
		for _, s := range group {
			var err error
			sum, err = sum.Add(s.Amount)
			if err != nil {
				return nil, fmt.Errorf("netting %s: %w", k, err)
			}
		}
		out = append(out, group[0].Netted(sum))
	}
	return out, nil
}
