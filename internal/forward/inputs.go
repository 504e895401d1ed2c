// Package forward decides whether to lock a forward-loaded mortgage rate,
// take a shorter fixed term, or keep waiting. Rates are quoted in percent
// (3.40 means 3.40 %) and surcharges and discounts in basis points.
package forward

import (
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/shopspring/decimal"
)

// Rules are the lender-independent triggers of the decision table.
type Rules struct {
	Lock10YLE            decimal.Decimal `json:"lock_10y_le" mapstructure:"lock10yLE" yaml:"lock10yLE"`
	Lock10YAlt           decimal.Decimal `json:"lock_10y_alt" mapstructure:"lock10yAlt" yaml:"lock10yAlt"`
	Min5YDiscountBP      decimal.Decimal `json:"min_5y_discount_bp" mapstructure:"min5yDiscountBP" yaml:"min5yDiscountBP"`
	SmallLoanThreshold   decimal.Decimal `json:"small_loan_threshold" mapstructure:"smallLoanThreshold" yaml:"smallLoanThreshold"`
	SmallLoanSurchargeBP decimal.Decimal `json:"small_loan_surcharge_bp" mapstructure:"smallLoanSurchargeBP" yaml:"smallLoanSurchargeBP"`
}

// PremiumSchedule is a lender's forward premium curve: nothing for the first
// FreeMonths, then PremiumPPPerMonth percentage points per extra month.
type PremiumSchedule struct {
	FreeMonths        int             `json:"free_months" mapstructure:"freeMonths" yaml:"freeMonths"`
	PremiumPPPerMonth decimal.Decimal `json:"premium_pp_per_month" mapstructure:"premiumPPPerMonth" yaml:"premiumPPPerMonth"`
}

// Inputs is one forward decision request. Spot5Y is optional.
type Inputs struct {
	Spot10Y    decimal.Decimal  `json:"spot_10y" mapstructure:"spot10y" yaml:"spot10y"`
	Spot5Y     *decimal.Decimal `json:"spot_5y,omitempty" mapstructure:"spot5y" yaml:"spot5y,omitempty"`
	LeadMonths int              `json:"lead_months" mapstructure:"leadMonths" yaml:"leadMonths"`
	LoanAmount decimal.Decimal  `json:"loan_amount" mapstructure:"loanAmount" yaml:"loanAmount"`
	Rules      Rules            `json:"rules" mapstructure:"rules" yaml:"rules"`
	Schedule   PremiumSchedule  `json:"schedule" mapstructure:"schedule" yaml:"schedule"`
}

// DefaultRules returns a 3.30 % no-regret trigger, a 3.50 % alternative
// trigger, a 35 bp minimum 5-year discount and a 10 bp surcharge below
// 150 000.
func DefaultRules() Rules {
	return Rules{
		Lock10YLE:            decimal.RequireFromString("3.30"),
		Lock10YAlt:           decimal.RequireFromString("3.50"),
		Min5YDiscountBP:      decimal.NewFromInt(35),
		SmallLoanThreshold:   decimal.NewFromInt(150000),
		SmallLoanSurchargeBP: decimal.NewFromInt(10),
	}
}

// DefaultSchedule returns 12 free months then 0.01 pp per month.
func DefaultSchedule() PremiumSchedule {
	return PremiumSchedule{
		FreeMonths:        12,
		PremiumPPPerMonth: decimal.RequireFromString("0.01"),
	}
}

// DefaultInputs returns a 130 000 loan drawn in 18 months against a 3.40 %
// ten-year and a 3.05 % five-year quote.
func DefaultInputs() Inputs {
	spot5y := decimal.RequireFromString("3.05")
	return Inputs{
		Spot10Y:    decimal.RequireFromString("3.40"),
		Spot5Y:     &spot5y,
		LeadMonths: 18,
		LoanAmount: decimal.NewFromInt(130000),
		Rules:      DefaultRules(),
		Schedule:   DefaultSchedule(),
	}
}

// Validate reports malformed rules as configuration errors.
func (r Rules) Validate() error {
	nonNegative := []struct {
		field string
		value decimal.Decimal
	}{
		{"rules.lock_10y_le", r.Lock10YLE},
		{"rules.lock_10y_alt", r.Lock10YAlt},
		{"rules.min_5y_discount_bp", r.Min5YDiscountBP},
		{"rules.small_loan_surcharge_bp", r.SmallLoanSurchargeBP},
	}
	for _, f := range nonNegative {
		if f.value.IsNegative() {
			return validation.NewConfigurationError(f.field, "must not be negative")
		}
	}
	if !r.SmallLoanThreshold.IsPositive() {
		return validation.NewConfigurationError("rules.small_loan_threshold", "must be greater than zero")
	}
	return nil
}

// Validate reports a malformed premium curve as a configuration error.
func (s PremiumSchedule) Validate() error {
	if s.FreeMonths < 0 {
		return validation.NewConfigurationError("schedule.free_months", "must not be negative")
	}
	if s.PremiumPPPerMonth.IsNegative() {
		return validation.NewConfigurationError("schedule.premium_pp_per_month", "must not be negative")
	}
	return nil
}

// Validate checks the market inputs first, then the rules and schedule.
func (in Inputs) Validate() error {
	if !in.Spot10Y.IsPositive() {
		return validation.NewInvalidInput("spot_10y", in.Spot10Y, "must be greater than zero")
	}
	if in.Spot5Y != nil && !in.Spot5Y.IsPositive() {
		return validation.NewInvalidInput("spot_5y", *in.Spot5Y, "must be greater than zero when given")
	}
	if in.LeadMonths < 0 {
		return validation.NewInvalidInput("lead_months", in.LeadMonths, "must not be negative")
	}
	if !in.LoanAmount.IsPositive() {
		return validation.NewInvalidInput("loan_amount", in.LoanAmount, "must be greater than zero")
	}
	if err := in.Rules.Validate(); err != nil {
		return err
	}
	return in.Schedule.Validate()
}

// WithLeadMonths returns a copy drawing the loan after leadMonths.
func (in Inputs) WithLeadMonths(leadMonths int) Inputs {
	in.LeadMonths = leadMonths
	return in
}
