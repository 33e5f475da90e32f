package domain

import (
	"fmt"
	"strings"
)

// Regulation identifies a supervisory regime a record may be margined under.
// The numeric order breaks worst-of ties.
type Regulation int

const (
	APRA Regulation = iota
	CFTC
	ESA
	FINMA
	HKMA
	JFSA
	KFSC
	MAS
	OSFI
	RBI
	SEC
	UKPRA
	USPR
	// Included applies a record to every regulation in play.
	Included
)

var regulationNames = map[Regulation]string{
	APRA:     "APRA",
	CFTC:     "CFTC",
	ESA:      "ESA",
	FINMA:    "FINMA",
	HKMA:     "HKMA",
	JFSA:     "JFSA",
	KFSC:     "KFSC",
	MAS:      "MAS",
	OSFI:     "OSFI",
	RBI:      "RBI",
	SEC:      "SEC",
	UKPRA:    "UKPRA",
	USPR:     "USPR",
	Included: "Included",
}

func (r Regulation) String() string {
	if n, ok := regulationNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Regulation(%d)", int(r))
}

func ParseRegulation(s string) (Regulation, error) {
	for r, n := range regulationNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("undefined regulation %q", s)
}

// Regulations returns the concrete regimes (excluding the Included wildcard)
// in tie-break order.
func Regulations() []Regulation {
	out := make([]Regulation, 0, int(Included))
	for r := APRA; r < Included; r++ {
		out = append(out, r)
	}
	return out
}

// Role is the side of the bilateral margin exchange being computed.
type Role int

const (
	// Secured collects margin; present values flip sign under it.
	Secured Role = iota
	// Pledgor posts margin; sensitivities flip sign under it.
	Pledgor
)

func (r Role) String() string {
	if r == Pledgor {
		return "Pledgor"
	}
	return "Secured"
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "secured":
		return Secured, nil
	case "pledgor":
		return Pledgor, nil
	}
	return 0, fmt.Errorf("undefined role %q", s)
}
