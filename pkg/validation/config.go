package validation

import (
	"fmt"

	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/datetime"
	"github.com/shopspring/decimal"
)

// ValidateLoanMaturity checks if the mortgage is repaid within the horizon.
func ValidateLoanMaturity(startDate string, termMonths, horizonYears int) (string, error) {
	if termMonths <= horizonYears*constants.MonthsPerYear {
		return "", nil
	}
	maturityDate, err := datetime.OffsetDate(startDate, constants.DateTimeLayout, termMonths)
	if err != nil {
		return "", err
	}
	horizonDate, err := datetime.OffsetDate(startDate, constants.DateTimeLayout, horizonYears*constants.MonthsPerYear)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Mortgage matures after the horizon (%s > %s) - projection ends with an outstanding balance",
		maturityDate, horizonDate), nil
}

// ValidateSnapshotCoverage reports snapshot years the horizon cannot reach.
func ValidateSnapshotCoverage(horizonYears int) []string {
	var warnings []string
	for _, year := range constants.SnapshotYears {
		if year > horizonYears {
			warnings = append(warnings, fmt.Sprintf("Horizon of %d years is shorter than the %d-year snapshot, which will be empty",
				horizonYears, year))
		}
	}
	return warnings
}

// ValidateThresholdOrder checks that the alternative lock threshold is not
// stricter than the no-regret one, which would make it unreachable.
func ValidateThresholdOrder(lockLE, lockAlt decimal.Decimal) string {
	if lockAlt.LessThan(lockLE) {
		return fmt.Sprintf("Alternative lock threshold %s is below the no-regret threshold %s and can never trigger",
			lockAlt, lockLE)
	}
	return ""
}

// ConfigValidator collects the parts of a configuration that only warrant warnings.
type ConfigValidator struct {
	StartDate        string
	HorizonYears     int
	LoanTermMonths   int
	SellOnHorizon    bool
	SellCostPct      decimal.Decimal
	Lock10YLE        decimal.Decimal
	Lock10YAlt       decimal.Decimal
	SensitivityRates int
	SensitivityRents int
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if cv.LoanTermMonths > 0 {
		warning, err := ValidateLoanMaturity(cv.StartDate, cv.LoanTermMonths, cv.HorizonYears)
		if err == nil && warning != "" {
			warnings = append(warnings, warning)
		}
	}

	warnings = append(warnings, ValidateSnapshotCoverage(cv.HorizonYears)...)

	if !cv.SellOnHorizon && cv.SellCostPct.IsPositive() {
		warnings = append(warnings, fmt.Sprintf("Sell cost of %s is ignored because sellOnHorizon is false", cv.SellCostPct))
	}

	if warning := ValidateThresholdOrder(cv.Lock10YLE, cv.Lock10YAlt); warning != "" {
		warnings = append(warnings, warning)
	}

	if (cv.SensitivityRates == 0) != (cv.SensitivityRents == 0) {
		warnings = append(warnings, "Sensitivity grid needs both rates and rents - one list is empty")
	}

	return warnings
}
