package finance

import (
	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvestmentState tracks the running value of an investment across simulation months.
type InvestmentState struct {
	CurrentValue decimal.Decimal
	MonthlyRate  decimal.Decimal
	Contributed  decimal.Decimal
	Withdrawn    decimal.Decimal
}

// NewInvestmentState seeds an account compounding monthly at annualRate / 12.
func NewInvestmentState(startingValue, annualRate decimal.Decimal) *InvestmentState {
	return &InvestmentState{
		CurrentValue: startingValue,
		MonthlyRate:  mathutil.MonthlyRate(annualRate),
	}
}

// InvestmentChange captures the computed deltas for an investment in a given month.
type InvestmentChange struct {
	Month        int
	Contribution decimal.Decimal
	Withdrawal   decimal.Decimal
	Growth       decimal.Decimal
	NetChange    decimal.Decimal
}

// InvestmentProcessor handles monthly investment computations.
type InvestmentProcessor struct {
	logger *zap.Logger
}

// NewInvestmentProcessor creates a processor for investment calculations.
func NewInvestmentProcessor(logger *zap.Logger) *InvestmentProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvestmentProcessor{logger: logger}
}

// ProcessMonth applies one month to the account: a positive flow is
// contributed before growth, growth accrues on the new value, and a negative
// flow is withdrawn afterwards, capped at what the account holds.
func (ip *InvestmentProcessor) ProcessMonth(month int, state *InvestmentState, flow decimal.Decimal) InvestmentChange {
	previousValue := state.CurrentValue

	contribution := decimal.Zero
	if flow.IsPositive() {
		contribution = flow
		state.CurrentValue = state.CurrentValue.Add(contribution)
		state.Contributed = state.Contributed.Add(contribution)
	}

	growth := mathutil.Precise(state.CurrentValue.Mul(state.MonthlyRate))
	state.CurrentValue = state.CurrentValue.Add(growth)

	withdrawal := decimal.Zero
	if flow.IsNegative() {
		withdrawal = flow.Neg()
		if withdrawal.GreaterThan(state.CurrentValue) {
			ip.logger.Debug("capping withdrawal to account balance",
				zap.String("op", "finance.ProcessMonth"),
				zap.Int("month", month),
				zap.String("requested", mathutil.Round(withdrawal).String()),
				zap.String("capped_to_balance", mathutil.Round(state.CurrentValue).String()),
			)
			withdrawal = state.CurrentValue
		}
		state.CurrentValue = state.CurrentValue.Sub(withdrawal)
		state.Withdrawn = state.Withdrawn.Add(withdrawal)
	}

	return InvestmentChange{
		Month:        month,
		Contribution: contribution,
		Withdrawal:   withdrawal,
		Growth:       growth,
		NetChange:    state.CurrentValue.Sub(previousValue),
	}
}

// GrowLumpSum compounds a single amount yearly for the given number of
// years, with no flows in between.
func GrowLumpSum(amount, annualRate decimal.Decimal, years int) decimal.Decimal {
	return mathutil.Compound(amount, annualRate, years)
}
