package forward

import (
	"fmt"

	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PremiumScheduleAnalysis is a sweep of the decision over lead times with the
// spot rates held fixed. The slices are parallel.
type PremiumScheduleAnalysis struct {
	Months       []int             `json:"months"`
	Premiums     []decimal.Decimal `json:"premiums"`
	ForwardRates []decimal.Decimal `json:"forward_rates"`
	Decisions    []Decision        `json:"decisions"`
}

// Len returns the number of lead times evaluated.
func (a PremiumScheduleAnalysis) Len() int {
	return len(a.Months)
}

// FirstMonthWith returns the first lead time with the given decision, or -1.
func (a PremiumScheduleAnalysis) FirstMonthWith(decision Decision) int {
	for i, d := range a.Decisions {
		if d == decision {
			return a.Months[i]
		}
	}
	return -1
}

// AnalyzePremiumSchedule evaluates the decision at every lead time from 1 to
// maxMonths. The lead time in the inputs is ignored.
func (t *Tracker) AnalyzePremiumSchedule(in Inputs, maxMonths int) (PremiumScheduleAnalysis, error) {
	return t.AnalyzePremiumScheduleEvery(in, maxMonths, 1)
}

// AnalyzePremiumScheduleEvery evaluates lead times 1, 1+step, 1+2·step ... up
// to maxMonths.
func (t *Tracker) AnalyzePremiumScheduleEvery(in Inputs, maxMonths, step int) (PremiumScheduleAnalysis, error) {
	if maxMonths < 1 {
		return PremiumScheduleAnalysis{}, validation.NewInvalidInput("max_months", maxMonths, "must be at least one month")
	}
	if maxMonths > constants.MaxPremiumScheduleMonths {
		return PremiumScheduleAnalysis{}, validation.NewInvalidInput("max_months", maxMonths,
			fmt.Sprintf("must not exceed %d months", constants.MaxPremiumScheduleMonths))
	}
	if step < 1 {
		return PremiumScheduleAnalysis{}, validation.NewInvalidInput("step", step, "must be at least one month")
	}
	if err := in.WithLeadMonths(0).Validate(); err != nil {
		return PremiumScheduleAnalysis{}, err
	}

	n := (maxMonths-1)/step + 1
	analysis := PremiumScheduleAnalysis{
		Months:       make([]int, 0, n),
		Premiums:     make([]decimal.Decimal, 0, n),
		ForwardRates: make([]decimal.Decimal, 0, n),
		Decisions:    make([]Decision, 0, n),
	}
	for month := 1; month <= maxMonths; month += step {
		result := decide(in.WithLeadMonths(month))
		analysis.Months = append(analysis.Months, month)
		analysis.Premiums = append(analysis.Premiums, result.Diagnostics[DiagPremiumPP])
		analysis.ForwardRates = append(analysis.ForwardRates, result.Forward10YRate)
		analysis.Decisions = append(analysis.Decisions, result.Decision)
	}

	t.logger.Debug(fmt.Sprintf("swept %d forward lead times", analysis.Len()),
		zap.String("op", "forward.AnalyzePremiumSchedule"),
		zap.Int("max_months", maxMonths),
		zap.Int("step", step),
	)
	return analysis, nil
}
