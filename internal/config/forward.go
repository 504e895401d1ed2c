package config

import (
	"fmt"

	"github.com/iwvelando/buy-vs-rent/internal/forward"
	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// ForwardConfig holds the forward decision inputs plus the sweep settings
// used by the premium schedule mode.
type ForwardConfig struct {
	forward.Inputs `yaml:",inline" mapstructure:",squash"`
	MaxMonths      int                  `yaml:"maxMonths,omitempty" mapstructure:"maxMonths"`
	Step           int                  `yaml:"step,omitempty" mapstructure:"step"`
	SmallLoanTrick SmallLoanTrickConfig `yaml:"smallLoanTrick,omitempty" mapstructure:"smallLoanTrick"`
}

// SmallLoanTrickConfig holds the two lender offers compared by the
// small-loan mode. Rates are in percent.
type SmallLoanTrickConfig struct {
	SmallRatePct decimal.Decimal `yaml:"smallRatePct" mapstructure:"smallRatePct"`
	BigRatePct   decimal.Decimal `yaml:"bigRatePct" mapstructure:"bigRatePct"`
	BaseAmount   decimal.Decimal `yaml:"baseAmount" mapstructure:"baseAmount"`
	UpliftAmount decimal.Decimal `yaml:"upliftAmount" mapstructure:"upliftAmount"`
	YearsHorizon int             `yaml:"yearsHorizon" mapstructure:"yearsHorizon"`
}

// Normalize applies defaults for the sweep and the small-loan comparison.
// A zero five-year spot means no quote.
func (f *ForwardConfig) Normalize() {
	if f == nil {
		return
	}
	if f.Spot5Y != nil && f.Spot5Y.IsZero() {
		f.Spot5Y = nil
	}
	if f.MaxMonths <= 0 {
		f.MaxMonths = constants.DefaultPremiumScheduleMonths
	}
	if f.Step <= 0 {
		f.Step = 1
	}

	trick := &f.SmallLoanTrick
	if trick.SmallRatePct.IsZero() && trick.BigRatePct.IsZero() {
		trick.BigRatePct = f.Spot10Y
		trick.SmallRatePct = f.Spot10Y.Add(mathutil.BasisPointsToPercent(f.Rules.SmallLoanSurchargeBP))
	}
	if trick.BaseAmount.IsZero() {
		trick.BaseAmount = f.Rules.SmallLoanThreshold
	}
	if trick.UpliftAmount.IsZero() && f.LoanAmount.GreaterThan(trick.BaseAmount) {
		trick.UpliftAmount = f.LoanAmount.Sub(trick.BaseAmount)
	}
	if trick.YearsHorizon <= 0 {
		trick.YearsHorizon = 10
	}
}

// Validate returns an error when the forward section cannot be evaluated.
func (f *ForwardConfig) Validate() error {
	if f == nil {
		return fmt.Errorf("forward configuration cannot be nil")
	}
	f.Normalize()
	if f.MaxMonths > constants.MaxPremiumScheduleMonths {
		return fmt.Errorf("maxMonths %d exceeds %d", f.MaxMonths, constants.MaxPremiumScheduleMonths)
	}
	return f.Inputs.Validate()
}
