package buyrent

import (
	"context"
	"fmt"
	"runtime"

	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SensitivityResult is one cell of the rate × rent grid.
type SensitivityResult struct {
	Rate                  decimal.Decimal `json:"rate"`
	Rent                  decimal.Decimal `json:"rent"`
	OwnerCostM1           decimal.Decimal `json:"owner_cost_m1"`
	AnnualSaving          decimal.Decimal `json:"annual_saving"`
	BreakEvenYears        *int            `json:"break_even_years"`
	NetAdvantageAtHorizon decimal.Decimal `json:"net_advantage_at_horizon"`
}

// Rounded returns the result rounded for display.
func (r SensitivityResult) Rounded() SensitivityResult {
	return SensitivityResult{
		Rate:                  mathutil.RoundRate(r.Rate),
		Rent:                  mathutil.Round(r.Rent),
		OwnerCostM1:           mathutil.Round(r.OwnerCostM1),
		AnnualSaving:          mathutil.Round(r.AnnualSaving),
		BreakEvenYears:        r.BreakEvenYears,
		NetAdvantageAtHorizon: mathutil.Round(r.NetAdvantageAtHorizon),
	}
}

// Sensitivity evaluates every combination of mortgage rate and rent on top of
// base. Results are in rate-major order: all rents for the first rate, then
// all rents for the second. The net advantage assumes a sale at the 30-year
// horizon with sellCostPct.
func Sensitivity(ctx context.Context, logger *zap.Logger, base PurchaseInputs, rates, rents []decimal.Decimal, sellCostPct decimal.Decimal) ([]SensitivityResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(rates) == 0 {
		return nil, validation.NewInvalidInput("rates", nil, "at least one rate is required")
	}
	if len(rents) == 0 {
		return nil, validation.NewInvalidInput("rents", nil, "at least one rent is required")
	}
	if len(rates)*len(rents) > constants.MaxSensitivityCombinations {
		return nil, validation.NewInvalidInput("rates", len(rates)*len(rents),
			fmt.Sprintf("grid exceeds %d combinations", constants.MaxSensitivityCombinations))
	}
	opts := Options{HorizonYears: constants.DefaultHorizonYears, SellCostPct: sellCostPct}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	results := make([]SensitivityResult, len(rates)*len(rents))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, rate := range rates {
		for j, rent := range rents {
			slot := i*len(rents) + j
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				inputs := base.WithRateAndRent(rate, rent)
				inputs.SellOnHorizon = true
				analyzer, err := NewAnalyzer(inputs, logger)
				if err != nil {
					return err
				}
				summary, err := analyzer.Summary(opts)
				if err != nil {
					return err
				}
				results[slot] = SensitivityResult{
					Rate:                  rate,
					Rent:                  rent,
					OwnerCostM1:           summary.OwnerCostMonth1,
					AnnualSaving:          summary.AnnualSavingVsRent,
					BreakEvenYears:        summary.BreakEvenYears,
					NetAdvantageAtHorizon: summary.NetAdvantageAtHorizon,
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug(fmt.Sprintf("evaluated %d sensitivity combinations", len(results)),
		zap.String("op", "buyrent.Sensitivity"),
	)
	return results, nil
}
