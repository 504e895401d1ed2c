package buyrent

import (
	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/finance"
	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CashFlowMonth is one month of owner and renter cash flow. OwnerCost is the
// economic cost (interest, tax, insurance, maintenance); principal is shown
// separately since it builds equity.
type CashFlowMonth struct {
	Month             int             `json:"month"`
	TotalPayment      decimal.Decimal `json:"total_payment"`
	InterestPayment   decimal.Decimal `json:"interest_payment"`
	PrincipalPayment  decimal.Decimal `json:"principal_payment"`
	OwnerCost         decimal.Decimal `json:"owner_cost"`
	RentCost          decimal.Decimal `json:"rent_cost"`
	SavingsVsRent     decimal.Decimal `json:"savings_vs_rent"`
	CumulativeSavings decimal.Decimal `json:"cumulative_savings"`
}

// Rounded returns the month rounded for display.
func (c CashFlowMonth) Rounded() CashFlowMonth {
	return CashFlowMonth{
		Month:             c.Month,
		TotalPayment:      mathutil.Round(c.TotalPayment),
		InterestPayment:   mathutil.Round(c.InterestPayment),
		PrincipalPayment:  mathutil.Round(c.PrincipalPayment),
		OwnerCost:         mathutil.Round(c.OwnerCost),
		RentCost:          mathutil.Round(c.RentCost),
		SavingsVsRent:     mathutil.Round(c.SavingsVsRent),
		CumulativeSavings: mathutil.Round(c.CumulativeSavings),
	}
}

// CashFlow returns the first months of cash flow, taken from the actual
// amortization schedule. Months past the loan term carry no payment.
func (a *Analyzer) CashFlow(months int) ([]CashFlowMonth, error) {
	if months <= 0 {
		return nil, validation.NewInvalidInput("months", months, "must be at least one month")
	}
	if months > constants.MaxCashFlowMonths {
		return nil, validation.NewInvalidInput("months", months, "must not exceed 1200 months")
	}

	in := a.inputs
	ownerOther := in.OwnerOtherMonthly()
	processor := finance.NewCashFlowProcessor(a.logger)
	ledger := &finance.Ledger{}
	records := a.schedule.Records()

	out := make([]CashFlowMonth, 0, months)
	for month := 1; month <= months; month++ {
		owner := finance.OwnerOutlay{Other: ownerOther}
		payment := decimal.Zero
		if month <= len(records) {
			record := records[month-1]
			owner.Interest = record.Interest
			owner.Principal = record.Principal
			payment = record.Payment
		}
		renter := finance.RenterOutlay{Rent: in.RentForMonth(month), Insurance: in.RenterInsuranceMonthly}
		saving := processor.ProcessMonth(ledger, owner, renter)

		out = append(out, CashFlowMonth{
			Month:             month,
			TotalPayment:      payment,
			InterestPayment:   owner.Interest,
			PrincipalPayment:  owner.Principal,
			OwnerCost:         owner.Cost(),
			RentCost:          renter.Total(),
			SavingsVsRent:     saving,
			CumulativeSavings: ledger.SavingsVsRent,
		})
	}

	a.logger.Debug("computed monthly cash flow",
		zap.String("op", "buyrent.CashFlow"),
		zap.Int("months", months),
	)
	return out, nil
}
