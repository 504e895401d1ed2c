package forward

import (
	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// ComputePremium returns the forward premium in percentage points for a loan
// drawn after leadMonths. It is zero inside the free window and grows
// linearly after it.
func ComputePremium(leadMonths int, schedule PremiumSchedule) decimal.Decimal {
	if leadMonths <= schedule.FreeMonths {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(leadMonths - schedule.FreeMonths)).Mul(schedule.PremiumPPPerMonth)
}

// SmallLoanSurchargeBP returns the surcharge in basis points that applies to
// loanAmount, zero at or above the threshold.
func SmallLoanSurchargeBP(loanAmount decimal.Decimal, rules Rules) decimal.Decimal {
	if loanAmount.LessThan(rules.SmallLoanThreshold) {
		return rules.SmallLoanSurchargeBP
	}
	return decimal.Zero
}

// ComputeForwardRate returns spot10y plus the forward premium plus any
// small-loan surcharge, in percent.
func ComputeForwardRate(spot10y decimal.Decimal, leadMonths int, schedule PremiumSchedule, loanAmount decimal.Decimal, rules Rules) decimal.Decimal {
	surcharge := mathutil.BasisPointsToPercent(SmallLoanSurchargeBP(loanAmount, rules))
	return spot10y.Add(ComputePremium(leadMonths, schedule)).Add(surcharge)
}

// discount5YBP is how much cheaper the five-year quote is than the ten-year
// spot, in basis points.
func discount5YBP(spot10y, spot5y decimal.Decimal) decimal.Decimal {
	return mathutil.PercentToBasisPoints(spot10y.Sub(spot5y))
}
