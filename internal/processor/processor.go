// Package processor dispatches portfolios to calculation strategies and
// merges per-regulation results. Strategies are an explicit static registry
// built at composition time; the model method is the only one registered
// today, the schedule method being handled outside this engine.
package processor

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/engine"
	"github.com/finclear/marginengine/internal/fx"
	"github.com/finclear/marginengine/internal/margintree"
	"github.com/finclear/marginengine/internal/records"
	"github.com/finclear/marginengine/pkg/metrics"
)

// Method names a calculation strategy.
type Method string

const ModelMethod Method = "model"

// Strategy computes one margin tree for a regulation-scoped portfolio.
type Strategy interface {
	Compute(role domain.Role, valuation time.Time, calcCcy domain.Currency, conv fx.Converter, p records.Portfolio) (*margintree.Total, error)
}

// Processor is the entry point of the calculation.
type Processor struct {
	logger     *zap.Logger
	strategies map[Method]Strategy
}

// New composes a processor with the static strategy registry.
func New(logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		logger: logger,
		strategies: map[Method]Strategy{
			ModelMethod: engine.New(logger),
		},
	}
}

// Compute produces the single-regulation total. Records naming more than one
// concrete regulation for the role make the request ambiguous and abort.
func (p *Processor) Compute(role domain.Role, valuation time.Time, calcCcy domain.Currency, conv fx.Converter, portfolio records.Portfolio) (*margintree.Total, error) {
	regs := portfolio.AppliedRegulations(role)
	if len(regs) > 1 {
		return nil, fmt.Errorf("portfolio mixes %d regulations for role %s; use ComputeByRegulation or ComputeWorstOf", len(regs), role)
	}
	reg := domain.Included
	if len(regs) == 1 {
		reg = regs[0]
	}
	return p.computeOne(role, valuation, calcCcy, conv, portfolio, reg)
}

// ComputeByRegulation computes one total per applicable regulation.
func (p *Processor) ComputeByRegulation(role domain.Role, valuation time.Time, calcCcy domain.Currency, conv fx.Converter, portfolio records.Portfolio) (map[domain.Regulation]*margintree.Total, error) {
	out := make(map[domain.Regulation]*margintree.Total)
	for _, reg := range portfolio.AppliedRegulations(role) {
		total, err := p.computeOne(role, valuation, calcCcy, conv, portfolio, reg)
		if err != nil {
			return nil, fmt.Errorf("regulation %s: %w", reg, err)
		}
		out[reg] = total
	}
	return out, nil
}

// ComputeWorstOf selects the regulation with the largest absolute total,
// ties resolved by regulation enum order.
func (p *Processor) ComputeWorstOf(role domain.Role, valuation time.Time, calcCcy domain.Currency, conv fx.Converter, portfolio records.Portfolio) (*margintree.Total, error) {
	regs := portfolio.AppliedRegulations(role)
	if len(regs) == 0 {
		return p.computeOne(role, valuation, calcCcy, conv, portfolio, domain.Included)
	}
	var worst *margintree.Total
	for _, reg := range regs {
		total, err := p.computeOne(role, valuation, calcCcy, conv, portfolio, reg)
		if err != nil {
			return nil, fmt.Errorf("regulation %s: %w", reg, err)
		}
		if worst == nil {
			worst = total
			continue
		}
		cmp, err := total.Amount().Abs().Cmp(worst.Amount().Abs())
		if err != nil {
			return nil, err
		}
		// Strictly larger wins: iteration follows enum order, so an equal
		// total keeps the earlier regulation.
		if cmp > 0 {
			worst = total
		}
	}
	return worst, nil
}

func (p *Processor) computeOne(role domain.Role, valuation time.Time, calcCcy domain.Currency, conv fx.Converter, portfolio records.Portfolio, reg domain.Regulation) (*margintree.Total, error) {
	scoped := portfolio.ForRegulation(role, reg)
	metrics.RecordsProcessed.WithLabelValues("sensitivity").Add(float64(len(scoped.Sensitivities)))

	start := time.Now()
	total, err := p.strategies[ModelMethod].Compute(role, valuation, calcCcy, conv, scoped)
	metrics.CalculationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CalculationsTotal.WithLabelValues(role.String(), "error").Inc()
		return nil, err
	}
	metrics.CalculationsTotal.WithLabelValues(role.String(), "ok").Inc()

	p.logger.Info("margin computed",
		zap.String("regulation", reg.String()),
		zap.String("role", role.String()),
		zap.String("total", total.Amount().String()),
		zap.String("run_id", total.RunID().String()),
	)
	return total, nil
}
