package buyrent

import (
	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Summary reduces a projection to the figures shown on a dashboard. Pointer
// fields are nil when the value does not exist, e.g. a 30-year snapshot on a
// 20-year horizon or a break-even that never happens.
type Summary struct {
	PropertyPrice           decimal.Decimal `json:"property_price"`
	TotalAcquisitionCost    decimal.Decimal `json:"total_acquisition_cost"`
	MortgageAmount          decimal.Decimal `json:"mortgage_amount"`
	MonthlyPI               decimal.Decimal `json:"monthly_pi"`
	TotalInterestPaid       decimal.Decimal `json:"total_interest_paid"`
	OwnerCostMonth1         decimal.Decimal `json:"owner_cost_month1"`
	MonthlyRentTotal        decimal.Decimal `json:"monthly_rent_total"`
	OwnerVsRentMonthly      decimal.Decimal `json:"owner_vs_rent_monthly"`
	AnnualSavingVsRent      decimal.Decimal `json:"annual_saving_vs_rent"`
	LoanTermMonths          int             `json:"loan_term_months"`
	CalculatedLoanTermYears decimal.Decimal `json:"calculated_loan_term_years"`
	YearlyAmortizationRate  decimal.Decimal `json:"yearly_amortization_rate"`
	HorizonYears            int             `json:"horizon_years"`

	HouseWealth10Years      *decimal.Decimal `json:"house_wealth_10_years"`
	InvestmentWealth10Years *decimal.Decimal `json:"investment_wealth_10_years"`
	HouseWealth20Years      *decimal.Decimal `json:"house_wealth_20_years"`
	InvestmentWealth20Years *decimal.Decimal `json:"investment_wealth_20_years"`
	HouseWealth30Years      *decimal.Decimal `json:"house_wealth_30_years"`
	InvestmentWealth30Years *decimal.Decimal `json:"investment_wealth_30_years"`

	WealthCrossoverYear *int `json:"wealth_crossover_year"`
	BreakEvenYears      *int `json:"break_even_years"`

	BaselineLiquidAtHorizon decimal.Decimal `json:"baseline_liquid_at_horizon"`
	NetAdvantageAtHorizon   decimal.Decimal `json:"net_advantage_at_horizon"`
	CashflowGapAtHorizon    decimal.Decimal `json:"cashflow_gap_at_horizon"`

	AccountingIdentityFormula string `json:"accounting_identity_formula"`
}

// OwnerCostMonth1 returns the first month's economic owner cost: interest
// on the full mortgage plus tax, insurance and maintenance.
func (a *Analyzer) OwnerCostMonth1() decimal.Decimal {
	interest := mathutil.Precise(a.inputs.MortgageAmount().Mul(mathutil.MonthlyRate(a.inputs.AnnualRate)))
	return interest.Add(a.inputs.OwnerOtherMonthly())
}

// AnnualSavingVsRent returns (rent − owner cost) × 12 for the first month;
// positive means owning is cheaper.
func (a *Analyzer) AnnualSavingVsRent() decimal.Decimal {
	return a.inputs.RentTotalMonthly().Sub(a.OwnerCostMonth1()).Mul(twelve)
}

// Summary projects over the horizon and reduces the series. The break-even
// search continues past a short horizon up to 50 years.
func (a *Analyzer) Summary(opts Options) (Summary, error) {
	if err := opts.Validate(); err != nil {
		return Summary{}, err
	}
	searchYears := max(opts.HorizonYears, constants.BreakEvenSearchYears)
	series := a.simulate(searchYears, opts.HorizonYears, opts.SellCostPct)
	horizon := series[:opts.HorizonYears+1]
	last := horizon[opts.HorizonYears]

	in := a.inputs
	ownerCost := a.OwnerCostMonth1()
	term := a.schedule.TermMonths()

	s := Summary{
		PropertyPrice:           in.Price,
		TotalAcquisitionCost:    in.TotalAcquisitionCost(),
		MortgageAmount:          in.MortgageAmount(),
		MonthlyPI:               a.schedule.Payment(),
		TotalInterestPaid:       a.schedule.TotalInterest(),
		OwnerCostMonth1:         ownerCost,
		MonthlyRentTotal:        in.RentTotalMonthly(),
		OwnerVsRentMonthly:      ownerCost.Sub(in.RentTotalMonthly()),
		AnnualSavingVsRent:      a.AnnualSavingVsRent(),
		LoanTermMonths:          term,
		CalculatedLoanTermYears: mathutil.Div(decimal.NewFromInt(int64(term)), twelve),
		YearlyAmortizationRate:  in.AmortizationRate,
		HorizonYears:            opts.HorizonYears,
		WealthCrossoverYear:     WealthCrossoverYear(horizon),
		BreakEvenYears:          BreakEvenYear(series),
		BaselineLiquidAtHorizon: last.BaselineLiquid,
		NetAdvantageAtHorizon:   last.NetAdvantage,
		CashflowGapAtHorizon:    last.CashflowGap,

		AccountingIdentityFormula: AccountingIdentity,
	}
	s.HouseWealth10Years, s.InvestmentWealth10Years = snapshot(horizon, 10)
	s.HouseWealth20Years, s.InvestmentWealth20Years = snapshot(horizon, 20)
	s.HouseWealth30Years, s.InvestmentWealth30Years = snapshot(horizon, 30)

	a.logger.Debug("summarized buy vs rent analysis",
		zap.String("op", "buyrent.Summary"),
		zap.Int("horizon_years", opts.HorizonYears),
		zap.Intp("break_even_years", s.BreakEvenYears),
		zap.Intp("wealth_crossover_year", s.WealthCrossoverYear),
	)
	return s, nil
}

func snapshot(series []YearPoint, year int) (house, investment *decimal.Decimal) {
	if year >= len(series) {
		return nil, nil
	}
	h := series[year].NetEquity
	i := series[year].BaselineLiquid
	return &h, &i
}

// WealthCrossoverYear returns the first year from 1 in which the renter's
// baseline is at least the owner's net equity.
func WealthCrossoverYear(series []YearPoint) *int {
	for _, p := range series {
		if p.Year >= 1 && p.BaselineLiquid.GreaterThanOrEqual(p.NetEquity) {
			year := p.Year
			return &year
		}
	}
	return nil
}

// BreakEvenYear returns the first year from 1 whose cumulative rent covers
// interest, other owner costs and closing costs, i.e. CashflowGap ≥ 0.
func BreakEvenYear(series []YearPoint) *int {
	for _, p := range series {
		if p.Year >= 1 && !p.CashflowGap.IsNegative() {
			year := p.Year
			return &year
		}
	}
	return nil
}

// Rounded returns the summary rounded for display.
func (s Summary) Rounded() Summary {
	r := s
	r.PropertyPrice = mathutil.Round(s.PropertyPrice)
	r.TotalAcquisitionCost = mathutil.Round(s.TotalAcquisitionCost)
	r.MortgageAmount = mathutil.Round(s.MortgageAmount)
	r.MonthlyPI = mathutil.Round(s.MonthlyPI)
	r.TotalInterestPaid = mathutil.Round(s.TotalInterestPaid)
	r.OwnerCostMonth1 = mathutil.Round(s.OwnerCostMonth1)
	r.MonthlyRentTotal = mathutil.Round(s.MonthlyRentTotal)
	r.OwnerVsRentMonthly = mathutil.Round(s.OwnerVsRentMonthly)
	r.AnnualSavingVsRent = mathutil.Round(s.AnnualSavingVsRent)
	r.CalculatedLoanTermYears = s.CalculatedLoanTermYears.Round(2)
	r.YearlyAmortizationRate = mathutil.RoundRate(s.YearlyAmortizationRate)
	r.HouseWealth10Years = roundPtr(s.HouseWealth10Years)
	r.InvestmentWealth10Years = roundPtr(s.InvestmentWealth10Years)
	r.HouseWealth20Years = roundPtr(s.HouseWealth20Years)
	r.InvestmentWealth20Years = roundPtr(s.InvestmentWealth20Years)
	r.HouseWealth30Years = roundPtr(s.HouseWealth30Years)
	r.InvestmentWealth30Years = roundPtr(s.InvestmentWealth30Years)
	r.BaselineLiquidAtHorizon = mathutil.Round(s.BaselineLiquidAtHorizon)
	r.NetAdvantageAtHorizon = mathutil.Round(s.NetAdvantageAtHorizon)
	r.CashflowGapAtHorizon = mathutil.Round(s.CashflowGapAtHorizon)
	return r
}

func roundPtr(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	r := mathutil.Round(*v)
	return &r
}
