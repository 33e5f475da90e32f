// Package crif reads the tabular risk-record interchange format into typed
// records. Rows are validated structurally before interpretation; any bad
// row aborts the read with its line number.
package crif

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/money"
	"github.com/finclear/marginengine/internal/records"
)

const dateLayout = "2006-01-02"

// row is one interchange line. Validation tags gate the obviously malformed
// before the domain parsers run.
type row struct {
	RecordType  string `validate:"required,oneof=Sensitivity AddOnFixedAmount AddOnNotional AddOnNotionalFactor AddOnProductMultiplier Notional PresentValue"`
	PortfolioID string
	TradeID     string
	EndDate     string `validate:"omitempty,datetime=2006-01-02"`
	Product     string
	RiskClass   string
	Category    string
	SubRisk     string
	Qualifier   string
	Bucket      string
	Label1      string
	Label2      string
	Tenor       string
	Amount      string `validate:"omitempty,numeric"`
	Currency    string `validate:"omitempty,len=3"`
	Factor      string `validate:"omitempty,numeric"`
	CollectRegs string
	PostRegs    string
}

var validate = validator.New()

var header = []string{
	"record_type", "portfolio_id", "trade_id", "end_date", "product",
	"risk_class", "category", "sub_risk", "qualifier", "bucket",
	"label1", "label2", "tenor", "amount", "currency", "factor",
	"collect_regulations", "post_regulations",
}

// Read parses a full interchange stream into a portfolio.
func Read(r io.Reader) (records.Portfolio, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err != nil {
		return records.Portfolio{}, fmt.Errorf("reading header: %w", err)
	}
	if err := checkHeader(first); err != nil {
		return records.Portfolio{}, err
	}

	var p records.Portfolio
	line := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return records.Portfolio{}, fmt.Errorf("line %d: %w", line, err)
		}
		rw := toRow(fields)
		if err := validate.Struct(rw); err != nil {
			return records.Portfolio{}, fmt.Errorf("line %d: %w", line, err)
		}
		if err := appendRecord(&p, rw); err != nil {
			return records.Portfolio{}, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return p, nil
}

// ReadFile parses an interchange file from disk.
func ReadFile(path string) (records.Portfolio, error) {
	f, err := os.Open(path)
	if err != nil {
		return records.Portfolio{}, err
	}
	defer f.Close()
	return Read(f)
}

func checkHeader(fields []string) error {
	if len(fields) != len(header) {
		return fmt.Errorf("header has %d columns, want %d", len(fields), len(header))
	}
	for i, want := range header {
		if !strings.EqualFold(strings.TrimSpace(fields[i]), want) {
			return fmt.Errorf("header column %d is %q, want %q", i+1, fields[i], want)
		}
	}
	return nil
}

func toRow(fields []string) row {
	get := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}
	return row{
		RecordType:  get(0),
		PortfolioID: get(1),
		TradeID:     get(2),
		EndDate:     get(3),
		Product:     get(4),
		RiskClass:   get(5),
		Category:    get(6),
		SubRisk:     get(7),
		Qualifier:   get(8),
		Bucket:      get(9),
		Label1:      get(10),
		Label2:      get(11),
		Tenor:       get(12),
		Amount:      get(13),
		Currency:    get(14),
		Factor:      get(15),
		CollectRegs: get(16),
		PostRegs:    get(17),
	}
}

func appendRecord(p *records.Portfolio, rw row) error {
	trade, err := tradeInfo(rw)
	if err != nil {
		return err
	}
	regs, err := regulationsInfo(rw)
	if err != nil {
		return err
	}

	switch rw.RecordType {
	case "Sensitivity":
		s, err := sensitivity(rw, trade, regs)
		if err != nil {
			return err
		}
		p.Sensitivities = append(p.Sensitivities, s)
	case "AddOnFixedAmount":
		amount, err := amount(rw)
		if err != nil {
			return err
		}
		p.FixedAmounts = append(p.FixedAmounts, records.FixedAmount{Amount: amount, Regulations: regs})
	case "AddOnNotional":
		amount, err := amount(rw)
		if err != nil {
			return err
		}
		if rw.Qualifier == "" {
			return fmt.Errorf("add-on notional requires a qualifier")
		}
		p.AddOnNotionals = append(p.AddOnNotionals, records.AddOnNotional{
			Qualifier: rw.Qualifier, Amount: amount, Regulations: regs, Trade: trade,
		})
	case "AddOnNotionalFactor":
		factor, err := scalarIn(rw.Factor, true)
		if err != nil {
			return fmt.Errorf("notional factor for %q: %w", rw.Qualifier, err)
		}
		if rw.Qualifier == "" {
			return fmt.Errorf("notional factor requires a qualifier")
		}
		p.NotionalFactors = append(p.NotionalFactors, records.NotionalFactor{
			Qualifier: rw.Qualifier, Factor: factor, Regulations: regs,
		})
	case "AddOnProductMultiplier":
		multiplier, err := scalarIn(rw.Factor, false)
		if err != nil {
			return fmt.Errorf("product multiplier: %w", err)
		}
		product, err := domain.ParseProduct(rw.Product)
		if err != nil {
			return err
		}
		p.ProductMultipliers = append(p.ProductMultipliers, records.ProductMultiplier{
			Product: product, Multiplier: multiplier, Regulations: regs,
		})
	case "Notional":
		amount, err := amount(rw)
		if err != nil {
			return err
		}
		product, err := domain.ParseProduct(rw.Product)
		if err != nil {
			return err
		}
		p.Notionals = append(p.Notionals, records.Notional{
			Product: product, Amount: amount, Regulations: regs, Trade: trade,
		})
	case "PresentValue":
		amount, err := amount(rw)
		if err != nil {
			return err
		}
		product, err := domain.ParseProduct(rw.Product)
		if err != nil {
			return err
		}
		p.PresentValues = append(p.PresentValues, records.PresentValue{
			Product: product, Amount: amount, Regulations: regs, Trade: trade,
		})
	}
	return nil
}

func sensitivity(rw row, trade records.TradeInfo, regs records.RegulationsInfo) (records.Sensitivity, error) {
	product, err := domain.ParseProduct(rw.Product)
	if err != nil {
		return records.Sensitivity{}, err
	}
	risk, err := domain.ParseRiskClass(rw.RiskClass)
	if err != nil {
		return records.Sensitivity{}, err
	}
	category, err := domain.ParseSensitivityCategory(rw.Category)
	if err != nil {
		return records.Sensitivity{}, err
	}
	if category == domain.Curvature {
		return records.Sensitivity{}, fmt.Errorf("curvature sensitivities are derived from vega and cannot be supplied")
	}
	subRisk, err := parseSubRisk(rw.SubRisk)
	if err != nil {
		return records.Sensitivity{}, err
	}
	bucket, err := domain.ParseBucket(risk, rw.Bucket)
	if err != nil {
		return records.Sensitivity{}, err
	}
	label1 := rw.Label1
	if risk == domain.Rates && subRisk == domain.InterestRate && label1 != "" {
		curve, err := domain.ParseCurve(label1)
		if err != nil {
			return records.Sensitivity{}, err
		}
		// Canonical spelling, so differently-cased rows net together.
		label1 = curve.String()
	}
	var tenor domain.Tenor
	if rw.Tenor != "" {
		tenor, err = domain.ParseTenor(rw.Tenor)
		if err != nil {
			return records.Sensitivity{}, err
		}
		if (risk == domain.CreditQualifying || risk == domain.CreditNonQualifying) &&
			category != domain.BaseCorrelation && !tenor.CreditEligible() {
			return records.Sensitivity{}, fmt.Errorf("tenor %s not eligible for credit risk", tenor)
		}
	}
	amount, err := amount(rw)
	if err != nil {
		return records.Sensitivity{}, err
	}
	return records.Sensitivity{
		Product:     product,
		Risk:        risk,
		Category:    category,
		SubRisk:     subRisk,
		Qualifier:   rw.Qualifier,
		Bucket:      bucket,
		Label1:      label1,
		Label2:      rw.Label2,
		Tenor:       tenor,
		Amount:      amount,
		Regulations: regs,
		Trade:       trade,
	}, nil
}

func parseSubRisk(s string) (domain.SubRisk, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return domain.SubRiskNone, nil
	case "xccybasis":
		return domain.CrossCurrencyBasis, nil
	case "inflation":
		return domain.Inflation, nil
	case "ir":
		return domain.InterestRate, nil
	}
	return 0, fmt.Errorf("undefined sub-risk %q", s)
}

func amount(rw row) (money.Amount, error) {
	if rw.Currency == "" {
		return money.Amount{}, fmt.Errorf("amount requires a currency")
	}
	ccy, err := domain.ParseCurrency(rw.Currency)
	if err != nil {
		return money.Amount{}, err
	}
	return money.Parse(ccy, rw.Amount)
}

// scalarIn parses a factor column: in (0,1] for notional factors, any
// positive value for multipliers.
func scalarIn(s string, unitCapped bool) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("malformed factor %q", s)
	}
	if v.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("factor %s must be positive", v)
	}
	if unitCapped && v.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Decimal{}, fmt.Errorf("factor %s must not exceed 1", v)
	}
	return v, nil
}

func tradeInfo(rw row) (records.TradeInfo, error) {
	info := records.TradeInfo{PortfolioID: rw.PortfolioID, TradeID: rw.TradeID}
	if rw.EndDate != "" {
		t, err := time.Parse(dateLayout, rw.EndDate)
		if err != nil {
			return records.TradeInfo{}, fmt.Errorf("malformed end date %q", rw.EndDate)
		}
		info.EndDate = t
	}
	return info, nil
}

func regulationsInfo(rw row) (records.RegulationsInfo, error) {
	parse := func(s string) ([]domain.Regulation, error) {
		if strings.TrimSpace(s) == "" {
			return []domain.Regulation{domain.Included}, nil
		}
		var out []domain.Regulation
		for _, part := range strings.Split(s, ";") {
			reg, err := domain.ParseRegulation(part)
			if err != nil {
				return nil, err
			}
			out = append(out, reg)
		}
		return out, nil
	}
	collect, err := parse(rw.CollectRegs)
	if err != nil {
		return records.RegulationsInfo{}, err
	}
	post, err := parse(rw.PostRegs)
	if err != nil {
		return records.RegulationsInfo{}, err
	}
	return records.RegulationsInfo{Collect: collect, Post: post}, nil
}
