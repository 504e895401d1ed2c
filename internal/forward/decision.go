package forward

import (
	"fmt"

	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Decision is the outcome of the decision table.
type Decision string

const (
	Lock10Y Decision = "LOCK_10Y"
	Take5Y  Decision = "TAKE_5Y"
	Wait    Decision = "WAIT"
)

// Decision reasons.
const (
	ReasonNoRegret    = "forward rate at/below no-regret threshold"
	ReasonAlternative = "alternative threshold met"
	ReasonWait        = "forward rate above both thresholds and 5y discount too small"
)

// Diagnostics keys. Every value the decision depends on is recorded.
const (
	DiagSpot10Y              = "spot_10y"
	DiagSpot5Y               = "spot_5y"
	DiagDiscount5YBP         = "discount_5y_bp"
	DiagLeadMonths           = "lead_months"
	DiagFreeMonths           = "free_months"
	DiagPremiumPPPerMonth    = "premium_pp_per_month"
	DiagPremiumPP            = "premium_pp"
	DiagLoanAmount           = "loan_amount"
	DiagSmallLoanThreshold   = "small_loan_threshold"
	DiagSmallLoanSurchargeBP = "small_loan_surcharge_bp"
	DiagSurchargePP          = "surcharge_pp"
	DiagLock10YLE            = "lock_10y_le"
	DiagLock10YAlt           = "lock_10y_alt"
	DiagMin5YDiscountBP      = "min_5y_discount_bp"
	DiagForward10Y           = "fwd_10y"
)

// Result is the decision with the values that produced it.
type Result struct {
	Decision       Decision                   `json:"decision"`
	Reason         string                     `json:"reason"`
	Forward10YRate decimal.Decimal            `json:"forward_10y_rate"`
	Diagnostics    map[string]decimal.Decimal `json:"diagnostics"`
}

// Tracker evaluates forward decisions. It holds no state between calls.
type Tracker struct {
	logger *zap.Logger
}

// NewTracker creates a tracker; a nil logger discards output.
func NewTracker(logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{logger: logger}
}

// Decide validates the inputs and runs the decision table.
func (t *Tracker) Decide(in Inputs) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	result := decide(in)
	t.logger.Debug("evaluated forward decision",
		zap.String("op", "forward.Decide"),
		zap.String("decision", string(result.Decision)),
		zap.String("fwd_10y", result.Forward10YRate.String()),
		zap.Int("lead_months", in.LeadMonths),
	)
	return result, nil
}

// Decide runs the decision table without logging.
func Decide(in Inputs) (Result, error) {
	return NewTracker(nil).Decide(in)
}

// decide applies the rules in order; the first that fires wins:
//  1. forward rate ≤ lock_10y_le locks the ten-year
//  2. a five-year discount of at least min_5y_discount_bp takes the five-year
//  3. forward rate ≤ lock_10y_alt locks the ten-year
//  4. otherwise wait
func decide(in Inputs) Result {
	premium := ComputePremium(in.LeadMonths, in.Schedule)
	surchargeBP := SmallLoanSurchargeBP(in.LoanAmount, in.Rules)
	fwd := ComputeForwardRate(in.Spot10Y, in.LeadMonths, in.Schedule, in.LoanAmount, in.Rules)

	diag := map[string]decimal.Decimal{
		DiagSpot10Y:              in.Spot10Y,
		DiagLeadMonths:           decimal.NewFromInt(int64(in.LeadMonths)),
		DiagFreeMonths:           decimal.NewFromInt(int64(in.Schedule.FreeMonths)),
		DiagPremiumPPPerMonth:    in.Schedule.PremiumPPPerMonth,
		DiagPremiumPP:            premium,
		DiagLoanAmount:           in.LoanAmount,
		DiagSmallLoanThreshold:   in.Rules.SmallLoanThreshold,
		DiagSmallLoanSurchargeBP: in.Rules.SmallLoanSurchargeBP,
		DiagSurchargePP:          mathutil.BasisPointsToPercent(surchargeBP),
		DiagLock10YLE:            in.Rules.Lock10YLE,
		DiagLock10YAlt:           in.Rules.Lock10YAlt,
		DiagMin5YDiscountBP:      in.Rules.Min5YDiscountBP,
		DiagForward10Y:           fwd,
	}
	var discount *decimal.Decimal
	if in.Spot5Y != nil {
		d := discount5YBP(in.Spot10Y, *in.Spot5Y)
		discount = &d
		diag[DiagSpot5Y] = *in.Spot5Y
		diag[DiagDiscount5YBP] = d
	}

	result := Result{Forward10YRate: fwd, Diagnostics: diag}
	switch {
	case fwd.LessThanOrEqual(in.Rules.Lock10YLE):
		result.Decision, result.Reason = Lock10Y, ReasonNoRegret
	case discount != nil && discount.GreaterThanOrEqual(in.Rules.Min5YDiscountBP):
		result.Decision = Take5Y
		result.Reason = fmt.Sprintf("5y cheaper by %s bp (minimum %s bp)", discount.StringFixed(0), in.Rules.Min5YDiscountBP)
	case fwd.LessThanOrEqual(in.Rules.Lock10YAlt):
		result.Decision, result.Reason = Lock10Y, ReasonAlternative
	default:
		result.Decision, result.Reason = Wait, ReasonWait
	}
	return result
}

// ForwardRateFromDiagnostics recomputes the forward rate from a result's
// diagnostics alone.
func ForwardRateFromDiagnostics(diag map[string]decimal.Decimal) (decimal.Decimal, error) {
	required := []string{
		DiagSpot10Y, DiagLeadMonths, DiagFreeMonths, DiagPremiumPPPerMonth,
		DiagLoanAmount, DiagSmallLoanThreshold, DiagSmallLoanSurchargeBP,
	}
	for _, key := range required {
		if _, ok := diag[key]; !ok {
			return decimal.Zero, validation.NewInvalidInput("diagnostics", key, "missing key")
		}
	}
	schedule := PremiumSchedule{
		FreeMonths:        int(diag[DiagFreeMonths].IntPart()),
		PremiumPPPerMonth: diag[DiagPremiumPPPerMonth],
	}
	rules := Rules{
		SmallLoanThreshold:   diag[DiagSmallLoanThreshold],
		SmallLoanSurchargeBP: diag[DiagSmallLoanSurchargeBP],
	}
	lead := int(diag[DiagLeadMonths].IntPart())
	return ComputeForwardRate(diag[DiagSpot10Y], lead, schedule, diag[DiagLoanAmount], rules), nil
}
