package forward

import (
	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/shopspring/decimal"
)

// SmallLoanTrickNote qualifies every small-loan estimate.
const SmallLoanTrickNote = "If positive, big-loan-then-prepay may save interest (verify fees & rules)."

// SmallLoanTrick estimates borrowing above the small-loan threshold and
// prepaying the uplift straight away, compared with borrowing the base
// amount at the small-loan rate.
type SmallLoanTrick struct {
	SmallRatePct          decimal.Decimal `json:"interest_year1_small_rate_pct"`
	BigRatePct            decimal.Decimal `json:"interest_year1_big_rate_pct"`
	BaseAmount            decimal.Decimal `json:"base_amount"`
	UpliftAmount          decimal.Decimal `json:"uplift_amount"`
	YearsHorizon          int             `json:"years_horizon"`
	InterestYear1Small    decimal.Decimal `json:"interest_year1_small"`
	InterestYear1Big      decimal.Decimal `json:"interest_year1_big"`
	ApproxFirstYearSaving decimal.Decimal `json:"approx_first_year_saving_eur"`
	Note                  string          `json:"note"`
}

// EstimateSmallLoanTrickGain returns the first-year interest on baseAmount at
// the small-loan rate minus the same at the big-loan rate. Rates are in
// percent. Only the first year is estimated; upliftAmount and yearsHorizon
// are echoed for the caller.
func EstimateSmallLoanTrickGain(smallRatePct, bigRatePct, baseAmount, upliftAmount decimal.Decimal, yearsHorizon int) (SmallLoanTrick, error) {
	switch {
	case smallRatePct.IsNegative():
		return SmallLoanTrick{}, validation.NewInvalidInput("offer_small_rate", smallRatePct, "must not be negative")
	case bigRatePct.IsNegative():
		return SmallLoanTrick{}, validation.NewInvalidInput("offer_big_rate", bigRatePct, "must not be negative")
	case !baseAmount.IsPositive():
		return SmallLoanTrick{}, validation.NewInvalidInput("base_amount", baseAmount, "must be greater than zero")
	case upliftAmount.IsNegative():
		return SmallLoanTrick{}, validation.NewInvalidInput("uplift_amount", upliftAmount, "must not be negative")
	case yearsHorizon < 1:
		return SmallLoanTrick{}, validation.NewInvalidInput("years_horizon", yearsHorizon, "must be at least one year")
	}

	small := baseAmount.Mul(mathutil.PercentToFraction(smallRatePct))
	big := baseAmount.Mul(mathutil.PercentToFraction(bigRatePct))
	return SmallLoanTrick{
		SmallRatePct:          smallRatePct,
		BigRatePct:            bigRatePct,
		BaseAmount:            baseAmount,
		UpliftAmount:          upliftAmount,
		YearsHorizon:          yearsHorizon,
		InterestYear1Small:    small,
		InterestYear1Big:      big,
		ApproxFirstYearSaving: small.Sub(big),
		Note:                  SmallLoanTrickNote,
	}, nil
}
