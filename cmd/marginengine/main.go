// Command marginengine computes a SIMM-style initial margin from an
// interchange-format risk record file and renders the breakdown tree.
package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/finclear/marginengine/internal/crif"
	"github.com/finclear/marginengine/internal/domain"
	"github.com/finclear/marginengine/internal/fx"
	"github.com/finclear/marginengine/internal/processor"
	"github.com/finclear/marginengine/internal/report"
	"github.com/finclear/marginengine/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "marginengine",
		Short:         "SIMM-style initial margin calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCalculateCmd())
	return root
}

func newCalculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute initial margin from a risk record file",
		RunE:  runCalculate,
	}
	flags := cmd.Flags()
	flags.String("crif", "", "path to the risk record interchange file")
	flags.String("rates", "", "path to the exchange rate profile (yaml)")
	flags.String("currency", "USD", "calculation currency")
	flags.String("role", "secured", "margin role: secured or pledgor")
	flags.String("valuation-date", "", "valuation date (YYYY-MM-DD), defaults to today")
	flags.String("mode", "single", "single, by-regulation or worst-of")
	flags.String("format", "tree", "output format: tree or table")
	flags.String("log-level", "info", "log level")
	_ = cmd.MarkFlagRequired("crif")
	_ = cmd.MarkFlagRequired("rates")

	bindFlags(flags)
	return cmd
}

// bindFlags exposes every flag through viper so each can also be set via a
// MARGINENGINE_ environment variable.
func bindFlags(flags *pflag.FlagSet) {
	viper.SetEnvPrefix("MARGINENGINE")
	viper.AutomaticEnv()
	_ = viper.BindPFlags(flags)
}

// ratesProfile is the yaml rate seed: quotes against any base, triangulated
// at lookup time.
type ratesProfile struct {
	Rates []struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
		Rate string `yaml:"rate"`
	} `yaml:"rates"`
}

func loadRates(path string) (*fx.Rates, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var profile ratesProfile
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("parsing rate profile: %w", err)
	}
	rates := fx.NewRates()
	for _, q := range profile.Rates {
		from, err := domain.ParseCurrency(q.From)
		if err != nil {
			return nil, err
		}
		to, err := domain.ParseCurrency(q.To)
		if err != nil {
			return nil, err
		}
		rate, err := decimal.NewFromString(q.Rate)
		if err != nil {
			return nil, fmt.Errorf("malformed rate %q for %s/%s", q.Rate, from, to)
		}
		if err := rates.Set(from, to, rate); err != nil {
			return nil, err
		}
	}
	return rates, nil
}

func runCalculate(cmd *cobra.Command, args []string) error {
	log, err := logger.NewLogger(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ccy, err := domain.ParseCurrency(viper.GetString("currency"))
	if err != nil {
		return err
	}
	role, err := domain.ParseRole(viper.GetString("role"))
	if err != nil {
		return err
	}
	valuation := time.Now().UTC().Truncate(24 * time.Hour)
	if s := viper.GetString("valuation-date"); s != "" {
		valuation, err = time.Parse("2006-01-02", s)
		if err != nil {
			return fmt.Errorf("malformed valuation date %q", s)
		}
	}

	portfolio, err := crif.ReadFile(viper.GetString("crif"))
	if err != nil {
		return fmt.Errorf("reading records: %w", err)
	}
	rates, err := loadRates(viper.GetString("rates"))
	if err != nil {
		return fmt.Errorf("loading rates: %w", err)
	}

	log.Info("starting calculation",
		zap.String("currency", string(ccy)),
		zap.String("role", role.String()),
		zap.Time("valuation_date", valuation),
		zap.Int("sensitivities", len(portfolio.Sensitivities)),
	)

	render := report.RenderTree
	if viper.GetString("format") == "table" {
		render = report.RenderTable
	}

	proc := processor.New(log)
	switch viper.GetString("mode") {
	case "single":
		total, err := proc.Compute(role, valuation, ccy, rates, portfolio)
		if err != nil {
			return err
		}
		return render(os.Stdout, total)
	case "by-regulation":
		totals, err := proc.ComputeByRegulation(role, valuation, ccy, rates, portfolio)
		if err != nil {
			return err
		}
		regs := make([]domain.Regulation, 0, len(totals))
		for reg := range totals {
			regs = append(regs, reg)
		}
		sort.Slice(regs, func(i, j int) bool { return regs[i] < regs[j] })
		for _, reg := range regs {
			fmt.Fprintf(os.Stdout, "== %s ==\n", reg)
			if err := render(os.Stdout, totals[reg]); err != nil {
				return err
			}
		}
		return nil
	case "worst-of":
		total, err := proc.ComputeWorstOf(role, valuation, ccy, rates, portfolio)
		if err != nil {
			return err
		}
		return render(os.Stdout, total)
	default:
		return fmt.Errorf("unknown mode %q", viper.GetString("mode"))
	}
}
