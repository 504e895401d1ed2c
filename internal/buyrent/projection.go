package buyrent

import (
	"iter"

	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/finance"
	"github.com/iwvelando/buy-vs-rent/pkg/loans"
	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AccountingIdentity documents how NetAdvantage is assembled.
const AccountingIdentity = "Net Advantage = Net Equity - Baseline Wealth + Cashflow Gap - Closing Costs"

// Components split the net advantage for waterfall charts. They sum to
// NetAdvantage.
type Components struct {
	AppreciationGain  decimal.Decimal `json:"appreciation_gain"`
	PrincipalBuilt    decimal.Decimal `json:"principal_built"`
	InterestDrag      decimal.Decimal `json:"interest_drag"`
	OpportunityCostDP decimal.Decimal `json:"opportunity_cost_dp"`
	RentAvoidedNet    decimal.Decimal `json:"rent_avoided_net"`
	ClosingCosts      decimal.Decimal `json:"closing_costs"`
}

// Sum adds all components.
func (c Components) Sum() decimal.Decimal {
	return c.AppreciationGain.
		Add(c.PrincipalBuilt).
		Add(c.InterestDrag).
		Add(c.OpportunityCostDP).
		Add(c.RentAvoidedNet).
		Add(c.ClosingCosts)
}

// Rounded returns the components rounded to cents.
func (c Components) Rounded() Components {
	return Components{
		AppreciationGain:  mathutil.Round(c.AppreciationGain),
		PrincipalBuilt:    mathutil.Round(c.PrincipalBuilt),
		InterestDrag:      mathutil.Round(c.InterestDrag),
		OpportunityCostDP: mathutil.Round(c.OpportunityCostDP),
		RentAvoidedNet:    mathutil.Round(c.RentAvoidedNet),
		ClosingCosts:      mathutil.Round(c.ClosingCosts),
	}
}

// YearPoint is the state of both strategies at the end of a year. Year 0 is
// the acquisition instant.
type YearPoint struct {
	Year              int             `json:"year"`
	HouseValue        decimal.Decimal `json:"house_value"`
	RemainingMortgage decimal.Decimal `json:"remaining_mortgage"`
	Equity            decimal.Decimal `json:"equity"`
	NetEquity         decimal.Decimal `json:"net_equity"`
	BaselineLiquid    decimal.Decimal `json:"baseline_liquid"`
	CumulRent         decimal.Decimal `json:"cumul_rent"`
	CumulInterest     decimal.Decimal `json:"cumul_interest"`
	CumulOwnerOther   decimal.Decimal `json:"cumul_owner_other"`
	CumulOwnerCost    decimal.Decimal `json:"cumul_owner_cost"`
	CashflowGap       decimal.Decimal `json:"cashflow_gap"`
	NetAdvantage      decimal.Decimal `json:"net_advantage"`
	Components        Components      `json:"components"`
}

// Rounded returns the point rounded to cents for display.
func (p YearPoint) Rounded() YearPoint {
	return YearPoint{
		Year:              p.Year,
		HouseValue:        mathutil.Round(p.HouseValue),
		RemainingMortgage: mathutil.Round(p.RemainingMortgage),
		Equity:            mathutil.Round(p.Equity),
		NetEquity:         mathutil.Round(p.NetEquity),
		BaselineLiquid:    mathutil.Round(p.BaselineLiquid),
		CumulRent:         mathutil.Round(p.CumulRent),
		CumulInterest:     mathutil.Round(p.CumulInterest),
		CumulOwnerOther:   mathutil.Round(p.CumulOwnerOther),
		CumulOwnerCost:    mathutil.Round(p.CumulOwnerCost),
		CashflowGap:       mathutil.Round(p.CashflowGap),
		NetAdvantage:      mathutil.Round(p.NetAdvantage),
		Components:        p.Components.Rounded(),
	}
}

// RoundPoints rounds a whole series for display.
func RoundPoints(points []YearPoint) []YearPoint {
	rounded := make([]YearPoint, len(points))
	for i, p := range points {
		rounded[i] = p.Rounded()
	}
	return rounded
}

// Options control a projection.
type Options struct {
	HorizonYears int
	// SellCostPct is the share of the house value lost when selling at the
	// horizon. Only applied when the inputs ask to sell.
	SellCostPct decimal.Decimal
}

// DefaultOptions returns a 30-year horizon with a 5 % selling cost.
func DefaultOptions() Options {
	return Options{
		HorizonYears: constants.DefaultHorizonYears,
		SellCostPct:  decimal.RequireFromString(constants.DefaultSellCostPct),
	}
}

// Validate checks the horizon and selling cost bounds.
func (o Options) Validate() error {
	if o.HorizonYears <= 0 {
		return validation.NewInvalidInput("horizon_years", o.HorizonYears, "must be at least one year")
	}
	if o.HorizonYears > constants.MaxHorizonYears {
		return validation.NewInvalidInput("horizon_years", o.HorizonYears, "must not exceed 100 years")
	}
	if o.SellCostPct.IsNegative() || o.SellCostPct.GreaterThan(maxSellPct) {
		return validation.NewInvalidInput("sell_cost_pct", o.SellCostPct, "must be between 0 and "+constants.MaxSellCostPct)
	}
	return nil
}

// Analyzer runs every analysis for one set of purchase inputs. It is
// immutable once built and safe for concurrent use.
type Analyzer struct {
	inputs   PurchaseInputs
	schedule *loans.Schedule
	logger   *zap.Logger
}

// NewAnalyzer validates the inputs and prepares the amortization schedule.
func NewAnalyzer(inputs PurchaseInputs, logger *zap.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := inputs.Validate(); err != nil {
		return nil, err
	}
	schedule, err := loans.NewAmortizationScheduleGenerator(logger).
		GenerateSchedule(inputs.MortgageAmount(), inputs.AnnualRate, inputs.AmortizationRate)
	if err != nil {
		return nil, err
	}
	return &Analyzer{inputs: inputs, schedule: schedule, logger: logger}, nil
}

// Inputs returns the inputs the analyzer was built with.
func (a *Analyzer) Inputs() PurchaseInputs { return a.inputs }

// Schedule returns the mortgage amortization schedule.
func (a *Analyzer) Schedule() *loans.Schedule { return a.schedule }

// Project returns one point per year from 0 to the horizon inclusive.
func (a *Analyzer) Project(opts Options) ([]YearPoint, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	points := a.simulate(opts.HorizonYears, opts.HorizonYears, opts.SellCostPct)
	a.logger.Debug("projected buy vs rent series",
		zap.String("op", "buyrent.Project"),
		zap.Int("horizon_years", opts.HorizonYears),
		zap.String("baseline_mode", a.inputs.BaselineMode.String()),
		zap.String("net_advantage_at_horizon", mathutil.Round(points[opts.HorizonYears].NetAdvantage).String()),
	)
	return points, nil
}

// simulate walks month by month for the given number of years. The sale,
// when requested, happens at saleYear only.
func (a *Analyzer) simulate(years, saleYear int, sellCostPct decimal.Decimal) []YearPoint {
	in := a.inputs
	mortgage := in.MortgageAmount()
	ownerOther := in.OwnerOtherMonthly()

	base := in.BaselineMode.newBaseline(in, a.logger)
	observer, observes := base.(monthObserver)
	cashflow := finance.NewCashFlowProcessor(a.logger)
	ledger := &finance.Ledger{}

	nextRecord, stop := iter.Pull(a.schedule.All())
	defer stop()

	points := make([]YearPoint, 0, years+1)
	points = append(points, a.point(0, saleYear, sellCostPct, mortgage, ledger, base.LiquidAt(0)))

	for year := 1; year <= years; year++ {
		for m := 1; m <= constants.MonthsPerYear; m++ {
			month := (year-1)*constants.MonthsPerYear + m
			owner := finance.OwnerOutlay{Other: ownerOther}
			if record, ok := nextRecord(); ok {
				owner.Interest = record.Interest
				owner.Principal = record.Principal
			}
			renter := finance.RenterOutlay{
				Rent:      in.RentForMonth(month),
				Insurance: in.RenterInsuranceMonthly,
			}
			cashflow.ProcessMonth(ledger, owner, renter)
			if observes {
				observer.ObserveMonth(month, owner.Total(), renter.Total())
			}
		}
		remaining := mortgage.Sub(ledger.Principal)
		if year*constants.MonthsPerYear >= a.schedule.TermMonths() {
			remaining = decimal.Zero
		}
		points = append(points, a.point(year, saleYear, sellCostPct, remaining, ledger, base.LiquidAt(year)))
	}

	return points
}

// point assembles a checkpoint from the running ledger.
func (a *Analyzer) point(year, saleYear int, sellCostPct, remaining decimal.Decimal, ledger *finance.Ledger, liquid decimal.Decimal) YearPoint {
	in := a.inputs
	closing := in.ClosingCosts()

	houseValue := mathutil.Compound(in.Price, in.HouseAppreciationRate, year)
	equity := houseValue.Sub(remaining)
	saleFriction := decimal.Zero
	if in.SellOnHorizon && year == saleYear {
		saleFriction = mathutil.Precise(houseValue.Mul(sellCostPct))
	}
	netEquity := equity.Sub(saleFriction)

	ownerCost := ledger.Interest.Add(ledger.OwnerOther).Add(closing)
	gap := ledger.Rent.Sub(ownerCost)

	components := Components{
		AppreciationGain:  houseValue.Sub(in.Price).Sub(saleFriction),
		PrincipalBuilt:    in.MortgageAmount().Sub(remaining),
		InterestDrag:      ledger.Interest.Neg(),
		OpportunityCostDP: liquid.Sub(in.DownPayment).Neg(),
		RentAvoidedNet:    ledger.Rent.Sub(ledger.OwnerOther),
		ClosingCosts:      closing.Neg(),
	}

	return YearPoint{
		Year:              year,
		HouseValue:        houseValue,
		RemainingMortgage: remaining,
		Equity:            equity,
		NetEquity:         netEquity,
		BaselineLiquid:    liquid,
		CumulRent:         ledger.Rent,
		CumulInterest:     ledger.Interest,
		CumulOwnerOther:   ledger.OwnerOther,
		CumulOwnerCost:    ownerCost,
		CashflowGap:       gap,
		NetAdvantage:      netEquity.Sub(liquid).Add(gap).Sub(components.ClosingCosts),
		Components:        components,
	}
}

// CheckIdentity returns the first year whose net advantage differs from the
// sum of its components by more than a cent, or -1 when every year holds.
func CheckIdentity(points []YearPoint) int {
	for _, p := range points {
		if !mathutil.WithinCent(p.NetAdvantage, p.Components.Sum()) {
			return p.Year
		}
	}
	return -1
}
