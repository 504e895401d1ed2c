package output

import (
	"strconv"
	"strings"

	"github.com/iwvelando/buy-vs-rent/internal/buyrent"
	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/datetime"
	"github.com/shopspring/decimal"
)

type field struct {
	name   string
	pretty string
	plain  string
}

func (p *Printer) summaryFields(s buyrent.Summary) []field {
	snapshot := func(v *decimal.Decimal) string {
		if v == nil {
			return "n/a"
		}
		return p.money(*v)
	}
	crossover := "none"
	if s.WealthCrossoverYear != nil {
		crossover = "year " + strconv.Itoa(*s.WealthCrossoverYear)
	}
	return []field{
		{"property_price", p.money(s.PropertyPrice), plain(s.PropertyPrice)},
		{"total_acquisition_cost", p.money(s.TotalAcquisitionCost), plain(s.TotalAcquisitionCost)},
		{"mortgage_amount", p.money(s.MortgageAmount), plain(s.MortgageAmount)},
		{"monthly_pi", p.money(s.MonthlyPI), plain(s.MonthlyPI)},
		{"total_interest_paid", p.money(s.TotalInterestPaid), plain(s.TotalInterestPaid)},
		{"owner_cost_month1", p.money(s.OwnerCostMonth1), plain(s.OwnerCostMonth1)},
		{"monthly_rent_total", p.money(s.MonthlyRentTotal), plain(s.MonthlyRentTotal)},
		{"owner_vs_rent_monthly", p.money(s.OwnerVsRentMonthly), plain(s.OwnerVsRentMonthly)},
		{"annual_saving_vs_rent", p.money(s.AnnualSavingVsRent), plain(s.AnnualSavingVsRent)},
		{"loan_term_months", strconv.Itoa(s.LoanTermMonths), strconv.Itoa(s.LoanTermMonths)},
		{"calculated_loan_term_years", s.CalculatedLoanTermYears.StringFixed(2), s.CalculatedLoanTermYears.StringFixed(2)},
		{"yearly_amortization_rate", p.rate(s.YearlyAmortizationRate), plainRate(s.YearlyAmortizationRate)},
		{"horizon_years", strconv.Itoa(s.HorizonYears), strconv.Itoa(s.HorizonYears)},
		{"house_wealth_10_years", snapshot(s.HouseWealth10Years), optionalPlain(s.HouseWealth10Years)},
		{"investment_wealth_10_years", snapshot(s.InvestmentWealth10Years), optionalPlain(s.InvestmentWealth10Years)},
		{"house_wealth_20_years", snapshot(s.HouseWealth20Years), optionalPlain(s.HouseWealth20Years)},
		{"investment_wealth_20_years", snapshot(s.InvestmentWealth20Years), optionalPlain(s.InvestmentWealth20Years)},
		{"house_wealth_30_years", snapshot(s.HouseWealth30Years), optionalPlain(s.HouseWealth30Years)},
		{"investment_wealth_30_years", snapshot(s.InvestmentWealth30Years), optionalPlain(s.InvestmentWealth30Years)},
		{"wealth_crossover_year", crossover, optionalInt(s.WealthCrossoverYear)},
		{"break_even_years", yearsOrNever(s.BreakEvenYears, "never"), optionalInt(s.BreakEvenYears)},
		{"baseline_liquid_at_horizon", p.money(s.BaselineLiquidAtHorizon), plain(s.BaselineLiquidAtHorizon)},
		{"net_advantage_at_horizon", p.money(s.NetAdvantageAtHorizon), plain(s.NetAdvantageAtHorizon)},
		{"cashflow_gap_at_horizon", p.money(s.CashflowGapAtHorizon), plain(s.CashflowGapAtHorizon)},
	}
}

var summaryLabels = map[string]string{
	"property_price":             "Property price",
	"total_acquisition_cost":     "Total acquisition cost",
	"mortgage_amount":            "Mortgage amount",
	"monthly_pi":                 "Monthly payment (P&I)",
	"total_interest_paid":        "Total interest paid",
	"owner_cost_month1":          "Owner cost, month 1",
	"monthly_rent_total":         "Monthly rent",
	"owner_vs_rent_monthly":      "Owner cost vs rent",
	"annual_saving_vs_rent":      "Annual saving vs rent",
	"loan_term_months":           "Loan term (months)",
	"calculated_loan_term_years": "Loan term (years)",
	"yearly_amortization_rate":   "Yearly amortization",
	"horizon_years":              "Horizon (years)",
	"house_wealth_10_years":      "House wealth, 10 years",
	"investment_wealth_10_years": "Investment wealth, 10 years",
	"house_wealth_20_years":      "House wealth, 20 years",
	"investment_wealth_20_years": "Investment wealth, 20 years",
	"house_wealth_30_years":      "House wealth, 30 years",
	"investment_wealth_30_years": "Investment wealth, 30 years",
	"wealth_crossover_year":      "Wealth crossover",
	"break_even_years":           "Break-even",
	"baseline_liquid_at_horizon": "Renter wealth at horizon",
	"net_advantage_at_horizon":   "Net advantage at horizon",
	"cashflow_gap_at_horizon":    "Cashflow gap at horizon",
}

// Summary renders the dashboard figures of an analysis.
func (p *Printer) Summary(s buyrent.Summary) error {
	fields := p.summaryFields(s)
	switch p.Format {
	case constants.OutputFormatJSON:
		return p.json(s.Rounded())
	case constants.OutputFormatCSV:
		rows := make([][]string, len(fields))
		for i, f := range fields {
			rows[i] = []string{f.name, f.plain}
		}
		return p.csv([]string{"field", "value"}, rows)
	}

	p.printf("--- Buy vs rent summary (%d-year horizon) ---\n", s.HorizonYears)
	for _, f := range fields {
		p.printf("%s: %s\n", summaryLabels[f.name], f.pretty)
	}
	p.printf("%s\n", s.AccountingIdentityFormula)
	return nil
}

// Points renders a yearly projection.
func (p *Printer) Points(points []buyrent.YearPoint) error {
	switch p.Format {
	case constants.OutputFormatJSON:
		return p.json(buyrent.RoundPoints(points))
	case constants.OutputFormatCSV:
		rows := make([][]string, len(points))
		for i, pt := range points {
			c := pt.Components
			rows[i] = []string{
				strconv.Itoa(pt.Year), p.label(datetime.YearLabel, pt.Year),
				plain(pt.HouseValue), plain(pt.RemainingMortgage), plain(pt.Equity), plain(pt.NetEquity),
				plain(pt.BaselineLiquid), plain(pt.CumulRent), plain(pt.CumulInterest),
				plain(pt.CumulOwnerOther), plain(pt.CumulOwnerCost), plain(pt.CashflowGap), plain(pt.NetAdvantage),
				plain(c.AppreciationGain), plain(c.PrincipalBuilt), plain(c.InterestDrag),
				plain(c.OpportunityCostDP), plain(c.RentAvoidedNet), plain(c.ClosingCosts),
			}
		}
		return p.csv([]string{
			"year", "date", "house_value", "remaining_mortgage", "equity", "net_equity",
			"baseline_liquid", "cumul_rent", "cumul_interest", "cumul_owner_other", "cumul_owner_cost",
			"cashflow_gap", "net_advantage", "appreciation_gain", "principal_built", "interest_drag",
			"opportunity_cost_dp", "rent_avoided_net", "closing_costs",
		}, rows)
	}

	p.printf("Year | House value | Mortgage | Net equity | Renter wealth | Cashflow gap | Net advantage\n")
	p.printf("____ | ___________ | ________ | __________ | _____________ | ____________ | _____________\n")
	for _, pt := range points {
		p.printf("%s | %s | %s | %s | %s | %s | %s\n",
			p.yearColumn(pt.Year), p.money(pt.HouseValue), p.money(pt.RemainingMortgage), p.money(pt.NetEquity),
			p.money(pt.BaselineLiquid), p.money(pt.CashflowGap), p.money(pt.NetAdvantage))
	}
	return nil
}

func (p *Printer) yearColumn(year int) string {
	if l := p.label(datetime.YearLabel, year); l != "" {
		return strconv.Itoa(year) + " (" + l + ")"
	}
	return strconv.Itoa(year)
}

// Sensitivity renders a rate × rent grid in the order given.
func (p *Printer) Sensitivity(results []buyrent.SensitivityResult) error {
	switch p.Format {
	case constants.OutputFormatJSON:
		rounded := make([]buyrent.SensitivityResult, len(results))
		for i, r := range results {
			rounded[i] = r.Rounded()
		}
		return p.json(rounded)
	case constants.OutputFormatCSV:
		rows := make([][]string, len(results))
		for i, r := range results {
			rows[i] = []string{
				plainRate(r.Rate), plain(r.Rent), plain(r.OwnerCostM1), plain(r.AnnualSaving),
				optionalInt(r.BreakEvenYears), plain(r.NetAdvantageAtHorizon),
			}
		}
		return p.csv([]string{"rate", "rent", "owner_cost_m1", "annual_saving", "break_even_years", "net_advantage_at_horizon"}, rows)
	}

	p.printf("Rate | Rent | Owner cost | Annual saving | Break-even | Net advantage\n")
	p.printf("____ | ____ | __________ | _____________ | __________ | _____________\n")
	for _, r := range results {
		p.printf("%s | %s | %s | %s | %s | %s\n",
			p.rate(r.Rate), p.money(r.Rent), p.money(r.OwnerCostM1), p.money(r.AnnualSaving),
			yearsOrNever(r.BreakEvenYears, "never"), p.money(r.NetAdvantageAtHorizon))
	}
	return nil
}

// CashFlow renders monthly owner and renter cash flows.
func (p *Printer) CashFlow(months []buyrent.CashFlowMonth) error {
	switch p.Format {
	case constants.OutputFormatJSON:
		rounded := make([]buyrent.CashFlowMonth, len(months))
		for i, m := range months {
			rounded[i] = m.Rounded()
		}
		return p.json(rounded)
	case constants.OutputFormatCSV:
		rows := make([][]string, len(months))
		for i, m := range months {
			rows[i] = []string{
				strconv.Itoa(m.Month), p.label(datetime.MonthLabel, m.Month),
				plain(m.TotalPayment), plain(m.InterestPayment), plain(m.PrincipalPayment),
				plain(m.OwnerCost), plain(m.RentCost), plain(m.SavingsVsRent), plain(m.CumulativeSavings),
			}
		}
		return p.csv([]string{
			"month", "date", "total_payment", "interest_payment", "principal_payment",
			"owner_cost", "rent_cost", "savings_vs_rent", "cumulative_savings",
		}, rows)
	}

	p.printf("Month | Payment | Interest | Principal | Owner cost | Rent | Saving | Cumulative\n")
	p.printf("_____ | _______ | ________ | _________ | __________ | ____ | ______ | __________\n")
	for _, m := range months {
		month := strconv.Itoa(m.Month)
		if l := p.label(datetime.MonthLabel, m.Month); l != "" {
			month = l
		}
		p.printf("%s | %s | %s | %s | %s | %s | %s | %s\n",
			month, p.money(m.TotalPayment), p.money(m.InterestPayment), p.money(m.PrincipalPayment),
			p.money(m.OwnerCost), p.money(m.RentCost), p.money(m.SavingsVsRent), p.money(m.CumulativeSavings))
	}
	return nil
}

// HouseValues renders the appreciated house value per year.
func (p *Printer) HouseValues(points []buyrent.HouseValuePoint) error {
	switch p.Format {
	case constants.OutputFormatJSON:
		return p.json(points)
	case constants.OutputFormatCSV:
		rows := make([][]string, len(points))
		for i, pt := range points {
			rows[i] = []string{strconv.Itoa(pt.Year), plain(pt.HouseValue), plain(pt.Appreciation)}
		}
		return p.csv([]string{"year", "house_value", "appreciation"}, rows)
	}

	p.printf("Year | House value | Appreciation\n")
	p.printf("____ | ___________ | ____________\n")
	for _, pt := range points {
		p.printf("%s | %s | %s\n", p.yearColumn(pt.Year), p.money(pt.HouseValue), p.money(pt.Appreciation))
	}
	return nil
}

// Baseline renders the renter's position per year.
func (p *Printer) Baseline(points []buyrent.BaselinePoint) error {
	switch p.Format {
	case constants.OutputFormatJSON:
		return p.json(points)
	case constants.OutputFormatCSV:
		rows := make([][]string, len(points))
		for i, pt := range points {
			rows[i] = []string{strconv.Itoa(pt.Year), plain(pt.BaselineLiquid), plain(pt.CumulRent), plain(pt.InvestmentGains)}
		}
		return p.csv([]string{"year", "baseline_liquid", "cumul_rent", "investment_gains"}, rows)
	}

	p.printf("Year | Renter wealth | Rent paid | Investment gains\n")
	p.printf("____ | _____________ | _________ | ________________\n")
	for _, pt := range points {
		p.printf("%s | %s | %s | %s\n", p.yearColumn(pt.Year), p.money(pt.BaselineLiquid), p.money(pt.CumulRent), p.money(pt.InvestmentGains))
	}
	return nil
}

// Warnings prints configuration warnings ahead of pretty output. Machine
// readable formats stay clean.
func (p *Printer) Warnings(warnings []string) {
	if p.Format != constants.OutputFormatPretty || len(warnings) == 0 {
		return
	}
	p.printf("Warnings:\n  - %s\n\n", strings.Join(warnings, "\n  - "))
}
