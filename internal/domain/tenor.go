package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Tenor is a time-to-maturity bucket from the methodology's fixed ladder.
type Tenor string

const (
	Tenor2W  Tenor = "2w"
	Tenor1M  Tenor = "1m"
	Tenor3M  Tenor = "3m"
	Tenor6M  Tenor = "6m"
	Tenor1Y  Tenor = "1y"
	Tenor2Y  Tenor = "2y"
	Tenor3Y  Tenor = "3y"
	Tenor5Y  Tenor = "5y"
	Tenor10Y Tenor = "10y"
	Tenor15Y Tenor = "15y"
	Tenor20Y Tenor = "20y"
	Tenor30Y Tenor = "30y"
)

// tenorLadder fixes the canonical ordering used everywhere tenors are sorted.
var tenorLadder = []Tenor{
	Tenor2W, Tenor1M, Tenor3M, Tenor6M, Tenor1Y, Tenor2Y,
	Tenor3Y, Tenor5Y, Tenor10Y, Tenor15Y, Tenor20Y, Tenor30Y,
}

// creditTenors restricts which tenors the credit risk classes accept.
var creditTenors = map[Tenor]bool{
	Tenor1Y: true, Tenor2Y: true, Tenor3Y: true, Tenor5Y: true, Tenor10Y: true,
}

var tenorPattern = regexp.MustCompile(`^([0-9]+)([wmy])$`)

var (
	daysPerWeek  = decimal.NewFromInt(7)
	daysPerMonth = decimal.NewFromInt(365).Div(decimal.NewFromInt(12))
	daysPerYear  = decimal.NewFromInt(365)
)

// ParseTenor accepts the <int><w|m|y> form and validates it against the
// ladder.
func ParseTenor(s string) (Tenor, error) {
	t := Tenor(strings.ToLower(strings.TrimSpace(s)))
	if !tenorPattern.MatchString(string(t)) {
		return "", fmt.Errorf("malformed tenor %q", s)
	}
	if t.Index() < 0 {
		return "", fmt.Errorf("tenor %q not on the calibrated ladder", s)
	}
	return t, nil
}

// Index returns the position on the ladder, or -1 for an unknown tenor.
func (t Tenor) Index() int {
	for i, lt := range tenorLadder {
		if lt == t {
			return i
		}
	}
	return -1
}

// Days converts the tenor to a day count: weeks are 7 days, months 365/12,
// years 365.
func (t Tenor) Days() decimal.Decimal {
	m := tenorPattern.FindStringSubmatch(string(t))
	if m == nil {
		return decimal.Zero
	}
	n, _ := strconv.ParseInt(m[1], 10, 64)
	count := decimal.NewFromInt(n)
	switch m[2] {
	case "w":
		return count.Mul(daysPerWeek)
	case "m":
		return count.Mul(daysPerMonth)
	default:
		return count.Mul(daysPerYear)
	}
}

// CreditEligible reports whether credit risk classes accept the tenor.
func (t Tenor) CreditEligible() bool {
	return creditTenors[t]
}

func (t Tenor) String() string { return string(t) }

// Tenors returns the full ladder in maturity order.
func Tenors() []Tenor {
	out := make([]Tenor, len(tenorLadder))
	copy(out, tenorLadder)
	return out
}
