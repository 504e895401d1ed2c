package loans

import (
	"fmt"
	"testing"

	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReferencePayment represents a single payment from the reference schedule
type ReferencePayment struct {
	Month            int
	Payment          string
	PrincipalPayment string
	Interest         string
	LoanBalance      string
}

// getReferenceSchedule returns the authoritative amortization schedule data
// Based on: Loan amount $175,000, Interest rate 4.5%, Term 360 months
// Calculator: https://www.fidelitygroup.com/amortizing-loan-calculator
func getReferenceSchedule() []ReferencePayment {
	return []ReferencePayment{
		{1, "886.70", "230.45", "656.25", "174769.55"},
		{2, "886.70", "231.31", "655.39", "174538.24"},
		{3, "886.70", "232.18", "654.52", "174306.06"},
		{4, "886.70", "233.05", "653.65", "174073.00"},
		{5, "886.70", "233.93", "652.77", "173839.08"},
		{6, "886.70", "234.80", "651.90", "173604.28"},
		{7, "886.70", "235.68", "651.02", "173368.59"},
		{8, "886.70", "236.57", "650.13", "173132.03"},
		{9, "886.70", "237.45", "649.25", "172894.57"},
		{10, "886.70", "238.34", "648.35", "172656.23"},
		{11, "886.70", "239.24", "647.46", "172416.99"},
		{12, "886.70", "240.14", "646.56", "172176.85"},
		// Adding key milestone months for validation
		{24, "886.70", "251.17", "635.53", "169224.01"},
		{36, "886.70", "262.71", "623.99", "166135.52"},
		{60, "886.70", "287.40", "599.30", "159526.36"},
		{120, "886.70", "359.76", "526.94", "140156.51"},
		{180, "886.70", "450.35", "436.35", "115909.42"},
		{240, "886.70", "563.75", "322.95", "85557.02"},
		{300, "886.70", "705.70", "181.00", "47562.00"},
		{359, "886.70", "880.09", "6.61", "883.39"},
		{360, "886.70", "883.39", "3.31", "0.00"},
	}
}

func TestLoanCalculationsAgainstReferenceSchedule(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(zap.NewNop())

	// 4.5% yearly amortization would be a 22-year loan; the reference is 30 years.
	schedule, err := generator.GenerateScheduleForTerm(d("175000"), d("0.045"), 360)
	if err != nil {
		t.Fatalf("GenerateScheduleForTerm() error = %v", err)
	}
	records := schedule.Records()

	tolerance := d("0.05") // calculators round every month, the schedule does not

	for _, ref := range getReferenceSchedule() {
		record := records[ref.Month-1]

		t.Run(fmt.Sprintf("Month_%d", ref.Month), func(t *testing.T) {
			checks := []struct {
				label    string
				got      decimal.Decimal
				expected string
			}{
				{"Payment amount", record.Payment, ref.Payment},
				{"Principal payment", record.Principal, ref.PrincipalPayment},
				{"Interest payment", record.Interest, ref.Interest},
				{"Remaining balance", record.RemainingBalance, ref.LoanBalance},
			}
			for _, c := range checks {
				if !mathutil.WithinTolerance(c.got, d(c.expected), tolerance) {
					t.Errorf("%s mismatch: got %s, expected %s", c.label, mathutil.Round(c.got), c.expected)
				}
			}
		})
	}
}

func TestMonthlyPaymentCalculationAgainstReference(t *testing.T) {
	monthlyPayment := mathutil.Round(CalculateMonthlyPayment(d("175000"), d("0.045"), 360))
	if !monthlyPayment.Equal(d("886.70")) {
		t.Errorf("CalculateMonthlyPayment() = %s, expected 886.70", monthlyPayment)
	}
}

func TestReferenceScheduleDataIntegrity(t *testing.T) {
	referenceData := getReferenceSchedule()

	for i, payment := range referenceData {
		t.Run(fmt.Sprintf("RefData_Month_%d", payment.Month), func(t *testing.T) {
			// Principal + Interest should equal Payment (within a cent)
			calculated := d(payment.PrincipalPayment).Add(d(payment.Interest))
			if !mathutil.WithinCent(calculated, d(payment.Payment)) {
				t.Errorf("Reference data inconsistent: %s + %s = %s, but Payment = %s",
					payment.PrincipalPayment, payment.Interest, calculated, payment.Payment)
			}

			if i > 0 && !d(payment.LoanBalance).LessThan(d(referenceData[i-1].LoanBalance)) {
				t.Errorf("Reference loan balance should decrease: Month %d balance %s >= Month %d balance %s",
					payment.Month, payment.LoanBalance, referenceData[i-1].Month, referenceData[i-1].LoanBalance)
			}
		})
	}
}
