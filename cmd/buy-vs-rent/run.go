package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/iwvelando/buy-vs-rent/internal/buyrent"
	"github.com/iwvelando/buy-vs-rent/internal/config"
	"github.com/iwvelando/buy-vs-rent/internal/forward"
	"github.com/iwvelando/buy-vs-rent/internal/optimizer"
	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/output"
	"go.uber.org/zap"
)

// Analysis modes.
const (
	ModeAnalyze      = "analyze"
	ModeBaseline     = "baseline"
	ModeNetAdvantage = "net-advantage"
	ModeHouseValue   = "house-value"
	ModeSensitivity  = "sensitivity"
	ModeCashFlow     = "cashflow"
	ModeForward      = "forward"
	ModePremium      = "premium"
	ModeSmallLoan    = "small-loan"
	ModeIndifference = "indifference"
)

var modes = []string{
	ModeAnalyze, ModeBaseline, ModeNetAdvantage, ModeHouseValue, ModeSensitivity,
	ModeCashFlow, ModeForward, ModePremium, ModeSmallLoan, ModeIndifference,
}

func modeList() string {
	return strings.Join(modes, ", ")
}

// run executes one analysis mode against the loaded configuration. months
// overrides the cash flow length or the premium sweep length when positive.
func run(ctx context.Context, logger *zap.Logger, conf *config.Configuration, printer *output.Printer, mode string, months int) error {
	engine := buyrent.NewEngine(conf, logger)
	tracker := forward.NewTracker(logger)
	purchase := engine.Defaults()

	switch mode {
	case ModeAnalyze:
		summary, err := engine.Analyze(purchase, conf.Options())
		if err != nil {
			return err
		}
		return printer.Summary(summary)

	case ModeBaseline:
		points, err := engine.BaselineOverTime(purchase, conf.HorizonYears)
		if err != nil {
			return err
		}
		return printer.Baseline(points)

	case ModeNetAdvantage:
		points, err := engine.Project(purchase, conf.Options())
		if err != nil {
			return err
		}
		return printer.Points(points)

	case ModeHouseValue:
		points, err := engine.HouseValueOverTime(purchase, conf.HorizonYears)
		if err != nil {
			return err
		}
		return printer.HouseValues(points)

	case ModeSensitivity:
		results, err := engine.Sensitivity(ctx, purchase, conf.Sensitivity.Rates, conf.Sensitivity.Rents, conf.SellCostPct)
		if err != nil {
			return err
		}
		return printer.Sensitivity(results)

	case ModeCashFlow:
		if months <= 0 {
			months = constants.DefaultCashFlowMonths
		}
		flows, err := engine.CashFlow(purchase, months)
		if err != nil {
			return err
		}
		return printer.CashFlow(flows)

	case ModeForward:
		result, err := tracker.Decide(conf.Forward.Inputs)
		if err != nil {
			return err
		}
		return printer.Decision(result)

	case ModePremium:
		maxMonths := conf.Forward.MaxMonths
		if months > 0 {
			maxMonths = months
		}
		analysis, err := tracker.AnalyzePremiumScheduleEvery(conf.Forward.Inputs, maxMonths, conf.Forward.Step)
		if err != nil {
			return err
		}
		return printer.PremiumSchedule(analysis)

	case ModeSmallLoan:
		t := conf.Forward.SmallLoanTrick
		trick, err := forward.EstimateSmallLoanTrickGain(t.SmallRatePct, t.BigRatePct, t.BaseAmount, t.UpliftAmount, t.YearsHorizon)
		if err != nil {
			return err
		}
		return printer.SmallLoanTrick(trick)

	case ModeIndifference:
		summary, err := optimizer.NewRunner(logger).Solve(ctx, purchase, conf.Options(), conf.Indifference)
		if err != nil {
			return err
		}
		return printer.Indifference(summary)
	}

	return fmt.Errorf("unknown mode %q, expected one of %s", mode, modeList())
}
