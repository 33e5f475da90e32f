package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Currency is an ISO 4217 code drawn from the closed set the margin
// methodology calibrates for. Anything outside the set is rejected at parse
// time.
type Currency string

const (
	AUD Currency = "AUD"
	BRL Currency = "BRL"
	CAD Currency = "CAD"
	CHF Currency = "CHF"
	CNY Currency = "CNY"
	DKK Currency = "DKK"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	HKD Currency = "HKD"
	INR Currency = "INR"
	JPY Currency = "JPY"
	KRW Currency = "KRW"
	MXN Currency = "MXN"
	MYR Currency = "MYR"
	NOK Currency = "NOK"
	NZD Currency = "NZD"
	PLN Currency = "PLN"
	RUB Currency = "RUB"
	SEK Currency = "SEK"
	SGD Currency = "SGD"
	THB Currency = "THB"
	TRY Currency = "TRY"
	TWD Currency = "TWD"
	USD Currency = "USD"
	ZAR Currency = "ZAR"
)

// CurrencyCategory groups currencies by trading materiality; parameter tables
// select threshold rows by category.
type CurrencyCategory int

const (
	FrequentlyTraded CurrencyCategory = iota
	SignificantlyMaterial
	OtherCurrency
)

// CurrencyLiquidity tiers concentration thresholds for rates risk.
type CurrencyLiquidity int

const (
	HighLiquidity CurrencyLiquidity = iota
	MediumLiquidity
	LowLiquidity
)

// CurrencyVolatility selects the interest-rate risk-weight row.
type CurrencyVolatility int

const (
	LowVolatility CurrencyVolatility = iota
	RegularVolatility
	HighVolatility
)

type currencyTraits struct {
	category   CurrencyCategory
	liquidity  CurrencyLiquidity
	volatility CurrencyVolatility
}

// currencyInfo is the process-wide enumeration metadata table. Populated once
// at package initialization and never mutated afterwards.
var currencyInfo = map[Currency]currencyTraits{
	USD: {FrequentlyTraded, HighLiquidity, RegularVolatility},
	EUR: {FrequentlyTraded, HighLiquidity, RegularVolatility},
	GBP: {FrequentlyTraded, HighLiquidity, RegularVolatility},
	JPY: {FrequentlyTraded, MediumLiquidity, LowVolatility},
	AUD: {FrequentlyTraded, MediumLiquidity, RegularVolatility},
	CAD: {FrequentlyTraded, MediumLiquidity, RegularVolatility},
	CHF: {FrequentlyTraded, MediumLiquidity, RegularVolatility},
	CNY: {SignificantlyMaterial, MediumLiquidity, HighVolatility},
	DKK: {SignificantlyMaterial, MediumLiquidity, RegularVolatility},
	HKD: {SignificantlyMaterial, MediumLiquidity, RegularVolatility},
	INR: {SignificantlyMaterial, LowLiquidity, HighVolatility},
	KRW: {SignificantlyMaterial, MediumLiquidity, RegularVolatility},
	MXN: {SignificantlyMaterial, LowLiquidity, HighVolatility},
	NOK: {SignificantlyMaterial, MediumLiquidity, RegularVolatility},
	NZD: {SignificantlyMaterial, MediumLiquidity, RegularVolatility},
	SEK: {SignificantlyMaterial, MediumLiquidity, RegularVolatility},
	SGD: {SignificantlyMaterial, MediumLiquidity, RegularVolatility},
	TWD: {SignificantlyMaterial, MediumLiquidity, RegularVolatility},
	BRL: {OtherCurrency, LowLiquidity, HighVolatility},
	MYR: {OtherCurrency, LowLiquidity, HighVolatility},
	PLN: {OtherCurrency, LowLiquidity, HighVolatility},
	RUB: {OtherCurrency, LowLiquidity, HighVolatility},
	THB: {OtherCurrency, LowLiquidity, HighVolatility},
	TRY: {OtherCurrency, LowLiquidity, HighVolatility},
	ZAR: {OtherCurrency, LowLiquidity, HighVolatility},
}

// ParseCurrency validates a code against the closed set.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := currencyInfo[c]; !ok {
		return "", fmt.Errorf("undefined currency %q", s)
	}
	return c, nil
}

// Defined reports whether the currency belongs to the calibrated set.
func (c Currency) Defined() bool {
	_, ok := currencyInfo[c]
	return ok
}

func (c Currency) Category() CurrencyCategory {
	return currencyInfo[c].category
}

func (c Currency) Liquidity() CurrencyLiquidity {
	return currencyInfo[c].liquidity
}

func (c Currency) Volatility() CurrencyVolatility {
	return currencyInfo[c].volatility
}

func (c Currency) String() string { return string(c) }

// Currencies returns the calibrated set in code order.
func Currencies() []Currency {
	out := make([]Currency, 0, len(currencyInfo))
	for c := range currencyInfo {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CurrencyPair is an ordered pair of distinct currencies.
type CurrencyPair struct {
	Base  Currency
	Quote Currency
}

// NewCurrencyPair rejects identical or undefined legs.
func NewCurrencyPair(base, quote Currency) (CurrencyPair, error) {
	if !base.Defined() {
		return CurrencyPair{}, fmt.Errorf("undefined currency %q", base)
	}
	if !quote.Defined() {
		return CurrencyPair{}, fmt.Errorf("undefined currency %q", quote)
	}
	if base == quote {
		return CurrencyPair{}, fmt.Errorf("currency pair legs must differ, got %s/%s", base, quote)
	}
	return CurrencyPair{Base: base, Quote: quote}, nil
}

// ParseCurrencyPair accepts the six-letter concatenated form, e.g. "EURUSD".
func ParseCurrencyPair(s string) (CurrencyPair, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 6 {
		return CurrencyPair{}, fmt.Errorf("malformed currency pair %q", s)
	}
	base, err := ParseCurrency(s[:3])
	if err != nil {
		return CurrencyPair{}, err
	}
	quote, err := ParseCurrency(s[3:])
	if err != nil {
		return CurrencyPair{}, err
	}
	return NewCurrencyPair(base, quote)
}

// Invert swaps the two legs.
func (p CurrencyPair) Invert() CurrencyPair {
	return CurrencyPair{Base: p.Quote, Quote: p.Base}
}

// Sorted returns the pair with legs in code order, used for symmetric
// threshold lookups where EURUSD and USDEUR must key the same row.
func (p CurrencyPair) Sorted() CurrencyPair {
	if p.Base > p.Quote {
		return p.Invert()
	}
	return p
}

func (p CurrencyPair) String() string {
	return string(p.Base) + string(p.Quote)
}
