// Package loans provides loan term derivation and fixed-payment amortization.
package loans

import (
	"iter"

	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(constants.MonthsPerYear)
)

// MonthRecord holds the values for a given payment.
type MonthRecord struct {
	Month            int             `json:"month"`
	Payment          decimal.Decimal `json:"payment"`
	Interest         decimal.Decimal `json:"interest"`
	Principal        decimal.Decimal `json:"principal"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// DeriveLoanTermMonths converts a yearly amortization rate, the share of the
// original principal repaid per year, into a loan term: round(12 / rate)
// months, halves rounded away from zero.
func DeriveLoanTermMonths(amortizationRate decimal.Decimal) (int, error) {
	if !amortizationRate.IsPositive() {
		return 0, validation.NewInvalidInput("amortization_rate", amortizationRate, "must be greater than zero")
	}
	months := mathutil.Div(twelve, amortizationRate).Round(0)
	if months.LessThan(one) {
		return 0, validation.NewInvalidInput("amortization_rate", amortizationRate, "yields a loan term below one month")
	}
	if months.GreaterThan(decimal.NewFromInt(constants.MaxLoanTermMonths)) {
		return 0, validation.NewInvalidInput("amortization_rate", amortizationRate, "yields a loan term above 100 years")
	}
	return int(months.IntPart()), nil
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the
// standard amortization formula P·r / (1 − (1+r)^−n) with r = annualRate / 12.
func CalculateMonthlyPayment(principal, annualRate decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(termMonths))
	r := mathutil.MonthlyRate(annualRate)
	if r.IsZero() {
		// For zero interest, simply divide the principal by term
		return mathutil.Div(principal, n)
	}
	// Multiplying through by (1+r)^n keeps the division single.
	power := mathutil.PowInt(one.Add(r), termMonths)
	return mathutil.Div(principal.Mul(r).Mul(power), power.Sub(one))
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingBalance, annualRate decimal.Decimal) decimal.Decimal {
	return mathutil.Precise(remainingBalance.Mul(mathutil.MonthlyRate(annualRate)))
}

// Schedule is a fixed-payment amortization schedule. It stores only its
// parameters; records are produced on demand and every iteration restarts
// from the original principal.
type Schedule struct {
	principal   decimal.Decimal
	annualRate  decimal.Decimal
	monthlyRate decimal.Decimal
	termMonths  int
	payment     decimal.Decimal
}

// NewSchedule validates the loan parameters and prepares a schedule.
func NewSchedule(principal, annualRate decimal.Decimal, termMonths int) (*Schedule, error) {
	if principal.IsNegative() {
		return nil, validation.NewInvalidInput("mortgage_amount", principal, "must not be negative")
	}
	if annualRate.IsNegative() {
		return nil, validation.NewInvalidInput("annual_rate", annualRate, "must not be negative")
	}
	if termMonths < 1 {
		return nil, validation.NewInvalidInput("loan_term_months", termMonths, "must be at least one month")
	}
	return &Schedule{
		principal:   principal,
		annualRate:  annualRate,
		monthlyRate: mathutil.MonthlyRate(annualRate),
		termMonths:  termMonths,
		payment:     CalculateMonthlyPayment(principal, annualRate, termMonths),
	}, nil
}

// Principal returns the amount borrowed.
func (s *Schedule) Principal() decimal.Decimal { return s.principal }

// AnnualRate returns the nominal annual rate.
func (s *Schedule) AnnualRate() decimal.Decimal { return s.annualRate }

// TermMonths returns the number of records the schedule yields.
func (s *Schedule) TermMonths() int { return s.termMonths }

// Payment returns the level monthly payment.
func (s *Schedule) Payment() decimal.Decimal { return s.payment }

// All yields one record per month. The final principal payment is clipped to
// the remaining balance so the last record ends at exactly zero.
func (s *Schedule) All() iter.Seq[MonthRecord] {
	return func(yield func(MonthRecord) bool) {
		balance := s.principal
		for month := 1; month <= s.termMonths; month++ {
			interest := mathutil.Precise(balance.Mul(s.monthlyRate))
			principal := s.payment.Sub(interest)
			if month == s.termMonths || principal.GreaterThan(balance) {
				principal = balance
			}
			balance = balance.Sub(principal)
			record := MonthRecord{
				Month:            month,
				Payment:          principal.Add(interest),
				Interest:         interest,
				Principal:        principal,
				RemainingBalance: balance,
			}
			if !yield(record) {
				return
			}
		}
	}
}

// Records materializes the whole schedule.
func (s *Schedule) Records() []MonthRecord {
	records := make([]MonthRecord, 0, s.termMonths)
	for record := range s.All() {
		records = append(records, record)
	}
	return records
}

// BalanceAfter returns the balance once the given number of payments has
// been made: the principal for month ≤ 0 and zero at or beyond the term.
func (s *Schedule) BalanceAfter(month int) decimal.Decimal {
	if month <= 0 {
		return s.principal
	}
	if month >= s.termMonths {
		return decimal.Zero
	}
	for record := range s.All() {
		if record.Month == month {
			return record.RemainingBalance
		}
	}
	return decimal.Zero
}

// TotalInterest sums the interest over the full term.
func (s *Schedule) TotalInterest() decimal.Decimal {
	total := decimal.Zero
	for record := range s.All() {
		total = total.Add(record.Interest)
	}
	return total
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule derives the loan term from the yearly amortization rate
// and prepares the matching schedule.
func (g *AmortizationScheduleGenerator) GenerateSchedule(principal, annualRate, amortizationRate decimal.Decimal) (*Schedule, error) {
	termMonths, err := DeriveLoanTermMonths(amortizationRate)
	if err != nil {
		return nil, err
	}
	return g.GenerateScheduleForTerm(principal, annualRate, termMonths)
}

// GenerateScheduleForTerm prepares a schedule for an explicit term.
func (g *AmortizationScheduleGenerator) GenerateScheduleForTerm(principal, annualRate decimal.Decimal, termMonths int) (*Schedule, error) {
	schedule, err := NewSchedule(principal, annualRate, termMonths)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("generated amortization schedule",
		zap.String("op", "loans.GenerateSchedule"),
		zap.String("principal", mathutil.Round(principal).String()),
		zap.String("annual_rate", annualRate.String()),
		zap.Int("term_months", termMonths),
		zap.String("payment", mathutil.Round(schedule.payment).String()),
	)
	return schedule, nil
}
