package domain

import (
	"fmt"
	"strings"
)

// RiskClass partitions sensitivities for parameter selection and the
// top-level cross-risk correlation matrix. The numeric order is the order the
// product-level combination and all reports iterate in.
type RiskClass int

const (
	Commodity RiskClass = iota
	CreditQualifying
	CreditNonQualifying
	Equity
	Fx
	Rates
)

var riskClassNames = map[RiskClass]string{
	Commodity:           "Commodity",
	CreditQualifying:    "CreditQ",
	CreditNonQualifying: "CreditNonQ",
	Equity:              "Equity",
	Fx:                  "FX",
	Rates:               "Rates",
}

func (r RiskClass) String() string {
	if n, ok := riskClassNames[r]; ok {
		return n
	}
	return fmt.Sprintf("RiskClass(%d)", int(r))
}

// ParseRiskClass matches the interchange-format spelling, case-insensitively.
func ParseRiskClass(s string) (RiskClass, error) {
	for r, n := range riskClassNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("undefined risk class %q", s)
}

// RiskClasses returns all classes in combination order.
func RiskClasses() []RiskClass {
	return []RiskClass{Commodity, CreditQualifying, CreditNonQualifying, Equity, Fx, Rates}
}

// SensitivityCategory is the measure a sensitivity quantifies.
type SensitivityCategory int

const (
	Delta SensitivityCategory = iota
	Vega
	Curvature
	BaseCorrelation
)

var categoryNames = map[SensitivityCategory]string{
	Delta:           "Delta",
	Vega:            "Vega",
	Curvature:       "Curvature",
	BaseCorrelation: "BaseCorr",
}

func (c SensitivityCategory) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("SensitivityCategory(%d)", int(c))
}

func ParseSensitivityCategory(s string) (SensitivityCategory, error) {
	for c, n := range categoryNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("undefined sensitivity category %q", s)
}

// Categories returns the categories in aggregation order.
func Categories() []SensitivityCategory {
	return []SensitivityCategory{Delta, Vega, Curvature, BaseCorrelation}
}

// SubRisk refines a risk class for netting and parameter selection.
type SubRisk int

const (
	SubRiskNone SubRisk = iota
	CrossCurrencyBasis
	Inflation
	InterestRate
)

var subRiskNames = map[SubRisk]string{
	SubRiskNone:        "None",
	CrossCurrencyBasis: "XCcyBasis",
	Inflation:          "Inflation",
	InterestRate:       "IR",
}

func (s SubRisk) String() string {
	if n, ok := subRiskNames[s]; ok {
		return n
	}
	return fmt.Sprintf("SubRisk(%d)", int(s))
}

// Product is the asset-class silo margin is computed per before the add-on
// stage; there is no diversification across products.
type Product int

const (
	ProductRatesFx Product = iota
	ProductCredit
	ProductEquity
	ProductCommodity
)

var productNames = map[Product]string{
	ProductRatesFx:   "RatesFX",
	ProductCredit:    "Credit",
	ProductEquity:    "Equity",
	ProductCommodity: "Commodity",
}

func (p Product) String() string {
	if n, ok := productNames[p]; ok {
		return n
	}
	return fmt.Sprintf("Product(%d)", int(p))
}

func ParseProduct(s string) (Product, error) {
	for p, n := range productNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("undefined product %q", s)
}

// Products returns all products in numeric (report) order.
func Products() []Product {
	return []Product{ProductRatesFx, ProductCredit, ProductEquity, ProductCommodity}
}

// Curve names the yield sub-curve an interest-rate sensitivity keys on.
type Curve string

const (
	CurveOIS       Curve = "OIS"
	CurveLibor1M   Curve = "Libor1m"
	CurveLibor3M   Curve = "Libor3m"
	CurveLibor6M   Curve = "Libor6m"
	CurveLibor12M  Curve = "Libor12m"
	CurvePrime     Curve = "Prime"
	CurveMunicipal Curve = "Municipal"
)

var curves = map[Curve]bool{
	CurveOIS: true, CurveLibor1M: true, CurveLibor3M: true, CurveLibor6M: true,
	CurveLibor12M: true, CurvePrime: true, CurveMunicipal: true,
}

func ParseCurve(s string) (Curve, error) {
	for c := range curves {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("undefined curve %q", s)
}

func (c Curve) String() string { return string(c) }
