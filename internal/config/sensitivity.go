package config

import (
	"fmt"

	"github.com/iwvelando/buy-vs-rent/internal/buyrent"
	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/shopspring/decimal"
)

var (
	defaultRateOffsets = []string{"-0.005", "-0.0025", "0", "0.0025", "0.005"}
	defaultRentFactors = []string{"0.8", "0.9", "1", "1.1", "1.2"}
)

// Range describes an inclusive sweep from Min to Max by Step.
type Range struct {
	Min  decimal.Decimal `yaml:"min" mapstructure:"min"`
	Max  decimal.Decimal `yaml:"max" mapstructure:"max"`
	Step decimal.Decimal `yaml:"step" mapstructure:"step"`
}

// Values expands the range. It returns nil for an invalid range.
func (r Range) Values() []decimal.Decimal {
	if !r.Step.IsPositive() || r.Min.GreaterThan(r.Max) {
		return nil
	}
	var values []decimal.Decimal
	for v := r.Min; v.LessThanOrEqual(r.Max); v = v.Add(r.Step) {
		values = append(values, v)
		if len(values) > constants.MaxSensitivityCombinations {
			break
		}
	}
	return values
}

func (r Range) validate(field string) error {
	if !r.Step.IsPositive() {
		return validation.NewConfigurationError(field+".step", fmt.Sprintf("step %s must be positive", r.Step))
	}
	if r.Min.GreaterThan(r.Max) {
		return validation.NewConfigurationError(field+".min", fmt.Sprintf("minimum %s must not exceed maximum %s", r.Min, r.Max))
	}
	return nil
}

// SensitivityConfig lists the mortgage rates and rents to sweep. Explicit
// lists win over ranges.
type SensitivityConfig struct {
	Rates     []decimal.Decimal `yaml:"rates,omitempty" mapstructure:"rates"`
	Rents     []decimal.Decimal `yaml:"rents,omitempty" mapstructure:"rents"`
	RateRange *Range            `yaml:"rateRange,omitempty" mapstructure:"rateRange"`
	RentRange *Range            `yaml:"rentRange,omitempty" mapstructure:"rentRange"`
}

// Normalize expands ranges into lists. A side given neither as a list nor
// as a range gets five values around the purchase rate or rent.
func (s *SensitivityConfig) Normalize(purchase buyrent.PurchaseInputs) {
	if s == nil {
		return
	}
	if len(s.Rates) == 0 && s.RateRange != nil {
		s.Rates = s.RateRange.Values()
	}
	if len(s.Rents) == 0 && s.RentRange != nil {
		s.Rents = s.RentRange.Values()
	}

	if len(s.Rates) == 0 && s.RateRange == nil {
		for _, offset := range defaultRateOffsets {
			rate := purchase.AnnualRate.Add(decimal.RequireFromString(offset))
			if rate.IsNegative() {
				continue
			}
			s.Rates = append(s.Rates, rate)
		}
	}
	if len(s.Rents) == 0 && s.RentRange == nil {
		for _, factor := range defaultRentFactors {
			s.Rents = append(s.Rents, purchase.MonthlyRent.Mul(decimal.RequireFromString(factor)).Round(0))
		}
	}
}

// Validate returns a ConfigurationError when the grid cannot be evaluated.
func (s *SensitivityConfig) Validate() error {
	if s == nil {
		return validation.NewConfigurationError("sensitivity", "section cannot be nil")
	}
	if s.RateRange != nil {
		if err := s.RateRange.validate("rateRange"); err != nil {
			return err
		}
	}
	if s.RentRange != nil {
		if err := s.RentRange.validate("rentRange"); err != nil {
			return err
		}
	}
	for i, rate := range s.Rates {
		if rate.IsNegative() {
			return validation.NewConfigurationError(fmt.Sprintf("rates[%d]", i), fmt.Sprintf("rate %s must not be negative", rate))
		}
	}
	for i, rent := range s.Rents {
		if rent.IsNegative() {
			return validation.NewConfigurationError(fmt.Sprintf("rents[%d]", i), fmt.Sprintf("rent %s must not be negative", rent))
		}
	}
	if n := len(s.Rates) * len(s.Rents); n > constants.MaxSensitivityCombinations {
		return validation.NewConfigurationError("sensitivity", fmt.Sprintf("grid of %d combinations exceeds %d", n, constants.MaxSensitivityCombinations))
	}
	return nil
}
