package buyrent

import (
	"github.com/iwvelando/buy-vs-rent/pkg/finance"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RenterInputs is everything the pure renter baseline depends on. It carries
// no mortgage, rent or loan term value.
type RenterInputs struct {
	DownPayment          decimal.Decimal `json:"down_payment"`
	InvestmentReturnRate decimal.Decimal `json:"investment_return_rate"`
}

// PureRenterWealth returns down_payment × (1 + investment_return)^year.
func PureRenterWealth(renter RenterInputs, year int) decimal.Decimal {
	return finance.GrowLumpSum(renter.DownPayment, renter.InvestmentReturnRate, year)
}

// baseline yields the renter's liquid wealth at yearly checkpoints.
type baseline interface {
	LiquidAt(year int) decimal.Decimal
}

// monthObserver is implemented by baselines that follow the owner's monthly
// cash outlay. The pure renter baseline does not implement it.
type monthObserver interface {
	ObserveMonth(month int, ownerOutlay, renterOutlay decimal.Decimal)
}

type pureRenterBaseline struct {
	renter RenterInputs
}

func (b pureRenterBaseline) LiquidAt(year int) decimal.Decimal {
	return PureRenterWealth(b.renter, year)
}

// budgetMatchedBaseline invests each month what the owner pays beyond the
// renter's outlay, and withdraws when renting costs more.
type budgetMatchedBaseline struct {
	state     *finance.InvestmentState
	processor *finance.InvestmentProcessor
}

func (b *budgetMatchedBaseline) ObserveMonth(month int, ownerOutlay, renterOutlay decimal.Decimal) {
	b.processor.ProcessMonth(month, b.state, ownerOutlay.Sub(renterOutlay))
}

// LiquidAt reports the account value; the projection observes every month
// of a year before asking for its checkpoint.
func (b *budgetMatchedBaseline) LiquidAt(int) decimal.Decimal {
	return b.state.CurrentValue
}

// newBaseline builds the computation owned by the mode. The pure renter
// variant is handed RenterInputs only.
func (m BaselineMode) newBaseline(in PurchaseInputs, logger *zap.Logger) baseline {
	switch m {
	case BudgetMatched:
		return &budgetMatchedBaseline{
			state:     finance.NewInvestmentState(in.DownPayment, in.InvestmentReturnRate),
			processor: finance.NewInvestmentProcessor(logger),
		}
	default:
		return pureRenterBaseline{renter: in.Renter()}
	}
}
