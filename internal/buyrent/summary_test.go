package buyrent

import (
	"testing"

	"github.com/iwvelando/buy-vs-rent/pkg/testutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func summarize(t *testing.T, inputs PurchaseInputs, opts Options) Summary {
	t.Helper()
	summary, err := newTestAnalyzer(t, inputs).Summary(opts)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	return summary
}

func intValue(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

func TestSummaryReferenceScenario(t *testing.T) {
	s := summarize(t, DefaultPurchaseInputs(), DefaultOptions())

	testutil.AssertDecimal(t, "PropertyPrice", s.PropertyPrice, "500000")
	testutil.AssertDecimal(t, "TotalAcquisitionCost", s.TotalAcquisitionCost, "550000")
	testutil.AssertDecimal(t, "MortgageAmount", s.MortgageAmount, "450000")
	testutil.AssertCurrency(t, "MonthlyPI", s.MonthlyPI, "2495.69")
	testutil.AssertCurrency(t, "TotalInterestPaid", s.TotalInterestPaid, "148965.41")
	testutil.AssertDecimal(t, "OwnerCostMonth1", s.OwnerCostMonth1, "1125")
	testutil.AssertDecimal(t, "MonthlyRentTotal", s.MonthlyRentTotal, "2000")
	testutil.AssertDecimal(t, "OwnerVsRentMonthly", s.OwnerVsRentMonthly, "-875")
	testutil.AssertDecimal(t, "AnnualSavingVsRent", s.AnnualSavingVsRent, "10500")
	testutil.AssertDecimal(t, "CalculatedLoanTermYears", s.CalculatedLoanTermYears, "20")
	testutil.AssertDecimal(t, "YearlyAmortizationRate", s.YearlyAmortizationRate, "0.05")

	if s.LoanTermMonths != 240 {
		t.Errorf("LoanTermMonths = %d, expected 240", s.LoanTermMonths)
	}
	if s.HorizonYears != 30 {
		t.Errorf("HorizonYears = %d, expected 30", s.HorizonYears)
	}
	if got := intValue(s.BreakEvenYears); got != 5 {
		t.Errorf("BreakEvenYears = %d, expected 5", got)
	}
	// The invested down payment is ahead of net equity from the first year.
	if got := intValue(s.WealthCrossoverYear); got != 1 {
		t.Errorf("WealthCrossoverYear = %d, expected 1", got)
	}

	snapshots := []struct {
		label    string
		got      *decimal.Decimal
		expected string
	}{
		{"HouseWealth10Years", s.HouseWealth10Years, "351039.26"},
		{"InvestmentWealth10Years", s.InvestmentWealth10Years, "196715.14"},
		{"HouseWealth20Years", s.HouseWealth20Years, "742973.70"},
		{"InvestmentWealth20Years", s.InvestmentWealth20Years, "386968.45"},
		{"HouseWealth30Years", s.HouseWealth30Years, "905680.79"},
		{"InvestmentWealth30Years", s.InvestmentWealth30Years, "761225.50"},
	}
	for _, snap := range snapshots {
		if snap.got == nil {
			t.Errorf("%s is missing", snap.label)
			continue
		}
		testutil.AssertCurrency(t, snap.label, *snap.got, snap.expected)
	}

	testutil.AssertCurrency(t, "BaselineLiquidAtHorizon", s.BaselineLiquidAtHorizon, "761225.50")
	testutil.AssertCurrency(t, "NetAdvantageAtHorizon", s.NetAdvantageAtHorizon, "969123.78")
	testutil.AssertCurrency(t, "CashflowGapAtHorizon", s.CashflowGapAtHorizon, "774668.50")
	if s.AccountingIdentityFormula != AccountingIdentity {
		t.Errorf("AccountingIdentityFormula = %q", s.AccountingIdentityFormula)
	}
}

func TestSummarySnapshotsBeyondHorizon(t *testing.T) {
	tests := []struct {
		name         string
		horizon      int
		with10       bool
		with20       bool
		with30       bool
		netAdvantage string
	}{
		{"Five years", 5, false, false, false, ""},
		{"Ten years", 10, true, false, false, "309176.78"},
		{"Twenty years", 20, true, true, false, "790176.72"},
		{"Thirty years", 30, true, true, true, "969123.78"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := summarize(t, DefaultPurchaseInputs(), Options{HorizonYears: tt.horizon})
			if (s.HouseWealth10Years != nil) != tt.with10 || (s.InvestmentWealth10Years != nil) != tt.with10 {
				t.Errorf("10-year snapshot present = %v, expected %v", s.HouseWealth10Years != nil, tt.with10)
			}
			if (s.HouseWealth20Years != nil) != tt.with20 || (s.InvestmentWealth20Years != nil) != tt.with20 {
				t.Errorf("20-year snapshot present = %v, expected %v", s.HouseWealth20Years != nil, tt.with20)
			}
			if (s.HouseWealth30Years != nil) != tt.with30 || (s.InvestmentWealth30Years != nil) != tt.with30 {
				t.Errorf("30-year snapshot present = %v, expected %v", s.HouseWealth30Years != nil, tt.with30)
			}
			if tt.netAdvantage != "" {
				testutil.AssertCurrency(t, "NetAdvantageAtHorizon", s.NetAdvantageAtHorizon, tt.netAdvantage)
			}
			// Break-even is searched past short horizons.
			if got := intValue(s.BreakEvenYears); got != 5 {
				t.Errorf("BreakEvenYears = %d, expected 5", got)
			}
		})
	}
}

func TestBreakEvenYears(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*PurchaseInputs)
		horizon  int
		expected int
	}{
		{"Reference scenario", func(*PurchaseInputs) {}, 30, 5},
		{"Low rent", func(in *PurchaseInputs) { in.MonthlyRent = d("500") }, 30, 26},
		{"Low rent found after a short horizon", func(in *PurchaseInputs) { in.MonthlyRent = d("500") }, 10, 26},
		{"Rent never covers costs", func(in *PurchaseInputs) {
			in.MonthlyRent = d("100")
			in.RentInflationRate = decimal.Zero
		}, 30, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := DefaultPurchaseInputs()
			tt.mutate(&inputs)
			s := summarize(t, inputs, Options{HorizonYears: tt.horizon})
			if got := intValue(s.BreakEvenYears); got != tt.expected {
				t.Errorf("BreakEvenYears = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestWealthCrossoverYear(t *testing.T) {
	inputs := DefaultPurchaseInputs()
	inputs.FeesPct = decimal.Zero
	inputs.AmortizationRate = d("0.10")
	inputs.HouseAppreciationRate = decimal.Zero
	inputs.InvestmentReturnRate = d("0.08")

	s := summarize(t, inputs, Options{HorizonYears: 30})
	if got := intValue(s.WealthCrossoverYear); got != 21 {
		t.Fatalf("WealthCrossoverYear = %d, expected 21", got)
	}

	// The crossover lies outside a 20-year horizon.
	short := summarize(t, inputs, Options{HorizonYears: 20})
	if short.WealthCrossoverYear != nil {
		t.Errorf("WealthCrossoverYear = %d on a 20-year horizon, expected none", *short.WealthCrossoverYear)
	}
}

func TestWealthCrossoverYearSeries(t *testing.T) {
	tests := []struct {
		name     string
		series   []YearPoint
		expected int
	}{
		{
			"Baseline ahead from the first year",
			[]YearPoint{
				{Year: 0, NetEquity: d("50"), BaselineLiquid: d("100")},
				{Year: 1, NetEquity: d("76"), BaselineLiquid: d("107")},
				{Year: 2, NetEquity: d("130"), BaselineLiquid: d("114")},
			},
			1,
		},
		{
			"Equal values count",
			[]YearPoint{
				{Year: 0, NetEquity: d("100"), BaselineLiquid: d("100")},
				{Year: 1, NetEquity: d("130"), BaselineLiquid: d("110")},
				{Year: 2, NetEquity: d("125"), BaselineLiquid: d("125")},
			},
			2,
		},
		{
			"Year zero is ignored",
			[]YearPoint{
				{Year: 0, NetEquity: d("50"), BaselineLiquid: d("100")},
				{Year: 1, NetEquity: d("130"), BaselineLiquid: d("110")},
				{Year: 2, NetEquity: d("140"), BaselineLiquid: d("120")},
			},
			-1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := intValue(WealthCrossoverYear(tt.series)); got != tt.expected {
				t.Errorf("WealthCrossoverYear = %d, expected %d", got, tt.expected)
			}
		})
	}
}

// A gap of exactly zero counts as recovered.
func TestBreakEvenYearIgnoresYearZero(t *testing.T) {
	series := []YearPoint{
		{Year: 0, CashflowGap: d("0")},
		{Year: 1, CashflowGap: d("-10")},
		{Year: 2, CashflowGap: d("0")},
	}
	if got := intValue(BreakEvenYear(series)); got != 2 {
		t.Errorf("BreakEvenYear = %d, expected 2", got)
	}
}

func TestSummaryRounded(t *testing.T) {
	inputs := DefaultPurchaseInputs()
	inputs.AmortizationRate = d("0.045")
	s := summarize(t, inputs, Options{HorizonYears: 15}).Rounded()

	if s.LoanTermMonths != 267 {
		t.Fatalf("LoanTermMonths = %d, expected 267", s.LoanTermMonths)
	}
	testutil.AssertDecimal(t, "CalculatedLoanTermYears", s.CalculatedLoanTermYears, "22.25")
	if s.HouseWealth10Years == nil || s.HouseWealth20Years != nil {
		t.Fatal("unexpected snapshot presence after rounding")
	}
	if !s.HouseWealth10Years.Equal(s.HouseWealth10Years.Round(2)) {
		t.Errorf("HouseWealth10Years not rounded: %s", s.HouseWealth10Years)
	}
}

func TestSummaryRejectsBadOptions(t *testing.T) {
	analyzer, err := NewAnalyzer(DefaultPurchaseInputs(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := analyzer.Summary(Options{HorizonYears: 0}); err == nil {
		t.Error("expected an error for a zero horizon")
	}
}
