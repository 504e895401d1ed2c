// Package buyrent compares buying a home with a mortgage against renting and
// investing the down payment, year by year.
package buyrent

import (
	"fmt"
	"strings"

	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/loans"
	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/shopspring/decimal"
)

var (
	one        = decimal.NewFromInt(1)
	twelve     = decimal.NewFromInt(constants.MonthsPerYear)
	maxFeesPct = decimal.RequireFromString(constants.MaxFeesPct)
	maxSellPct = decimal.RequireFromString(constants.MaxSellCostPct)
)

// BaselineMode selects how the renter's wealth is computed.
type BaselineMode int

const (
	// PureRenter invests the down payment and treats rent as consumption.
	PureRenter BaselineMode = iota
	// BudgetMatched invests the monthly difference between owner and renter
	// outlays. Kept for compatibility with older analyses.
	BudgetMatched
)

var baselineModeNames = map[BaselineMode]string{
	PureRenter:    "pure_renter",
	BudgetMatched: "budget_matched",
}

// ParseBaselineMode reads the text form of a baseline mode.
func ParseBaselineMode(s string) (BaselineMode, error) {
	for mode, name := range baselineModeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return mode, nil
		}
	}
	return PureRenter, validation.NewInvalidInput("baseline_mode", s, "expected pure_renter or budget_matched")
}

func (m BaselineMode) String() string {
	if name, ok := baselineModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("BaselineMode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m BaselineMode) MarshalText() ([]byte, error) {
	if _, ok := baselineModeNames[m]; !ok {
		return nil, validation.NewInvalidInput("baseline_mode", int(m), "unknown baseline mode")
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BaselineMode) UnmarshalText(text []byte) error {
	mode, err := ParseBaselineMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// PurchaseInputs describes one purchase and the rental it is compared with.
// All rates are fractions: 0.03 means 3 %.
type PurchaseInputs struct {
	Price                  decimal.Decimal `json:"price" mapstructure:"price" yaml:"price"`
	FeesPct                decimal.Decimal `json:"fees_pct" mapstructure:"feesPct" yaml:"feesPct"`
	DownPayment            decimal.Decimal `json:"down_payment" mapstructure:"downPayment" yaml:"downPayment"`
	AnnualRate             decimal.Decimal `json:"annual_rate" mapstructure:"annualRate" yaml:"annualRate"`
	AmortizationRate       decimal.Decimal `json:"amortization_rate" mapstructure:"amortizationRate" yaml:"amortizationRate"`
	MonthlyRent            decimal.Decimal `json:"monthly_rent" mapstructure:"monthlyRent" yaml:"monthlyRent"`
	TaxeFonciereMonthly    decimal.Decimal `json:"taxe_fonciere_monthly" mapstructure:"taxeFonciereMonthly" yaml:"taxeFonciereMonthly"`
	InsuranceMonthly       decimal.Decimal `json:"insurance_monthly" mapstructure:"insuranceMonthly" yaml:"insuranceMonthly"`
	MaintenancePctAnnual   decimal.Decimal `json:"maintenance_pct_annual" mapstructure:"maintenancePctAnnual" yaml:"maintenancePctAnnual"`
	RenterInsuranceMonthly decimal.Decimal `json:"renter_insurance_monthly" mapstructure:"renterInsuranceMonthly" yaml:"renterInsuranceMonthly"`
	HouseAppreciationRate  decimal.Decimal `json:"house_appreciation_rate" mapstructure:"houseAppreciationRate" yaml:"houseAppreciationRate"`
	InvestmentReturnRate   decimal.Decimal `json:"investment_return_rate" mapstructure:"investmentReturnRate" yaml:"investmentReturnRate"`
	RentInflationRate      decimal.Decimal `json:"rent_inflation_rate" mapstructure:"rentInflationRate" yaml:"rentInflationRate"`
	BaselineMode           BaselineMode    `json:"baseline_mode" mapstructure:"baselineMode" yaml:"baselineMode"`
	SellOnHorizon          bool            `json:"sell_on_horizon" mapstructure:"sellOnHorizon" yaml:"sellOnHorizon"`
}

// Validate rejects inputs that break an invariant, naming the offending field.
func (in PurchaseInputs) Validate() error {
	if !in.Price.IsPositive() {
		return validation.NewInvalidInput("price", in.Price, "must be greater than zero")
	}
	if in.DownPayment.IsNegative() {
		return validation.NewInvalidInput("down_payment", in.DownPayment, "must not be negative")
	}
	if in.DownPayment.GreaterThan(in.Price) {
		return validation.NewInvalidInput("down_payment", in.DownPayment, "must not exceed price")
	}
	if in.FeesPct.IsNegative() || in.FeesPct.GreaterThan(maxFeesPct) {
		return validation.NewInvalidInput("fees_pct", in.FeesPct, "must be between 0 and "+constants.MaxFeesPct)
	}
	if in.AnnualRate.IsNegative() {
		return validation.NewInvalidInput("annual_rate", in.AnnualRate, "must not be negative")
	}
	if _, err := loans.DeriveLoanTermMonths(in.AmortizationRate); err != nil {
		return err
	}

	nonNegative := []struct {
		field string
		value decimal.Decimal
	}{
		{"monthly_rent", in.MonthlyRent},
		{"taxe_fonciere_monthly", in.TaxeFonciereMonthly},
		{"insurance_monthly", in.InsuranceMonthly},
		{"maintenance_pct_annual", in.MaintenancePctAnnual},
		{"renter_insurance_monthly", in.RenterInsuranceMonthly},
	}
	for _, f := range nonNegative {
		if f.value.IsNegative() {
			return validation.NewInvalidInput(f.field, f.value, "must not be negative")
		}
	}

	aboveMinusOne := []struct {
		field string
		value decimal.Decimal
	}{
		{"house_appreciation_rate", in.HouseAppreciationRate},
		{"investment_return_rate", in.InvestmentReturnRate},
		{"rent_inflation_rate", in.RentInflationRate},
	}
	for _, f := range aboveMinusOne {
		if f.value.LessThanOrEqual(one.Neg()) {
			return validation.NewInvalidInput(f.field, f.value, "must be greater than -1")
		}
	}

	if _, ok := baselineModeNames[in.BaselineMode]; !ok {
		return validation.NewInvalidInput("baseline_mode", int(in.BaselineMode), "unknown baseline mode")
	}
	return nil
}

// ClosingCosts returns the acquisition fees, price × fees_pct.
func (in PurchaseInputs) ClosingCosts() decimal.Decimal {
	return in.Price.Mul(in.FeesPct)
}

// TotalAcquisitionCost returns price plus fees.
func (in PurchaseInputs) TotalAcquisitionCost() decimal.Decimal {
	return in.Price.Add(in.ClosingCosts())
}

// MortgageAmount returns the amount borrowed. Fees are financed:
// price × (1 + fees_pct) − down_payment.
func (in PurchaseInputs) MortgageAmount() decimal.Decimal {
	return in.TotalAcquisitionCost().Sub(in.DownPayment)
}

// OwnerOtherMonthly returns the owner's non-mortgage monthly cost: property
// tax, insurance and maintenance. It is held flat over time.
func (in PurchaseInputs) OwnerOtherMonthly() decimal.Decimal {
	maintenance := mathutil.Div(in.Price.Mul(in.MaintenancePctAnnual), twelve)
	return in.TaxeFonciereMonthly.Add(in.InsuranceMonthly).Add(maintenance)
}

// RentTotalMonthly returns the first-month renter outlay.
func (in PurchaseInputs) RentTotalMonthly() decimal.Decimal {
	return in.MonthlyRent.Add(in.RenterInsuranceMonthly)
}

// RentForMonth returns the rent due in the given 1-based month, without
// renter insurance. Rent steps up with inflation once a year.
func (in PurchaseInputs) RentForMonth(month int) decimal.Decimal {
	yearIndex := (month - 1) / constants.MonthsPerYear
	return mathutil.Compound(in.MonthlyRent, in.RentInflationRate, yearIndex)
}

// Renter extracts the only two values the pure renter baseline may see.
func (in PurchaseInputs) Renter() RenterInputs {
	return RenterInputs{
		DownPayment:          in.DownPayment,
		InvestmentReturnRate: in.InvestmentReturnRate,
	}
}

// WithRateAndRent returns a copy with a different mortgage rate and rent.
func (in PurchaseInputs) WithRateAndRent(annualRate, monthlyRent decimal.Decimal) PurchaseInputs {
	in.AnnualRate = annualRate
	in.MonthlyRent = monthlyRent
	return in
}
