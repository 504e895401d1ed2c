// Package finance provides common financial calculation utilities.
package finance

import (
	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OwnerOutlay is what the owner pays in one month.
type OwnerOutlay struct {
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Other     decimal.Decimal
}

// Total returns interest + principal + other costs.
func (o OwnerOutlay) Total() decimal.Decimal {
	return o.Interest.Add(o.Principal).Add(o.Other)
}

// Cost returns the economic cost of the month. Principal is excluded since
// it becomes equity.
func (o OwnerOutlay) Cost() decimal.Decimal {
	return o.Interest.Add(o.Other)
}

// RenterOutlay is what the renter pays in one month.
type RenterOutlay struct {
	Rent      decimal.Decimal
	Insurance decimal.Decimal
}

// Total returns rent + renter insurance.
func (r RenterOutlay) Total() decimal.Decimal {
	return r.Rent.Add(r.Insurance)
}

// Ledger accumulates monthly outlays of both sides.
type Ledger struct {
	Months        int
	Rent          decimal.Decimal
	Interest      decimal.Decimal
	Principal     decimal.Decimal
	OwnerOther    decimal.Decimal
	SavingsVsRent decimal.Decimal
}

// CashFlowProcessor records months into a ledger.
type CashFlowProcessor struct {
	logger *zap.Logger
}

// NewCashFlowProcessor creates a new cash flow processor with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewCashFlowProcessor(logger *zap.Logger) *CashFlowProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CashFlowProcessor{logger: logger}
}

// ProcessMonth adds one month to the ledger and returns the month's saving
// of owning versus renting (renter outlay − owner economic cost).
func (cp *CashFlowProcessor) ProcessMonth(ledger *Ledger, owner OwnerOutlay, renter RenterOutlay) decimal.Decimal {
	ledger.Months++
	ledger.Rent = ledger.Rent.Add(renter.Total())
	ledger.Interest = ledger.Interest.Add(owner.Interest)
	ledger.Principal = ledger.Principal.Add(owner.Principal)
	ledger.OwnerOther = ledger.OwnerOther.Add(owner.Other)

	saving := renter.Total().Sub(owner.Cost())
	ledger.SavingsVsRent = ledger.SavingsVsRent.Add(saving)

	if ledger.Months%12 == 0 {
		cp.logger.Debug("cash flow year closed",
			zap.String("op", "finance.ProcessMonth"),
			zap.Int("month", ledger.Months),
			zap.String("cumul_rent", mathutil.Round(ledger.Rent).String()),
			zap.String("cumul_interest", mathutil.Round(ledger.Interest).String()),
			zap.String("cumul_owner_other", mathutil.Round(ledger.OwnerOther).String()),
		)
	}
	return saving
}
