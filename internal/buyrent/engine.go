package buyrent

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultsProvider supplies the purchase inputs used when a caller omits them.
type DefaultsProvider interface {
	DefaultInputs() PurchaseInputs
}

// StaticDefaults serves a fixed set of inputs.
type StaticDefaults PurchaseInputs

// DefaultInputs implements DefaultsProvider.
func (s StaticDefaults) DefaultInputs() PurchaseInputs {
	return PurchaseInputs(s)
}

// DefaultPurchaseInputs returns the reference scenario: a 500 000 home with
// 10 % fees and 100 000 down, 3 % over 20 years, against a 2 000 rent.
func DefaultPurchaseInputs() PurchaseInputs {
	return PurchaseInputs{
		Price:                  decimal.NewFromInt(500000),
		FeesPct:                decimal.RequireFromString("0.10"),
		DownPayment:            decimal.NewFromInt(100000),
		AnnualRate:             decimal.RequireFromString("0.03"),
		AmortizationRate:       decimal.RequireFromString("0.05"),
		MonthlyRent:            decimal.NewFromInt(2000),
		TaxeFonciereMonthly:    decimal.Zero,
		InsuranceMonthly:       decimal.Zero,
		MaintenancePctAnnual:   decimal.Zero,
		RenterInsuranceMonthly: decimal.Zero,
		HouseAppreciationRate:  decimal.RequireFromString("0.02"),
		InvestmentReturnRate:   decimal.RequireFromString("0.07"),
		RentInflationRate:      decimal.RequireFromString("0.02"),
		BaselineMode:           PureRenter,
		SellOnHorizon:          false,
	}
}

// Engine is the entry point used by the CLI and the HTTP server. It holds no
// per-call state.
type Engine struct {
	defaults DefaultsProvider
	logger   *zap.Logger
}

// NewEngine creates an engine. A nil provider serves DefaultPurchaseInputs.
func NewEngine(defaults DefaultsProvider, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults == nil {
		defaults = StaticDefaults(DefaultPurchaseInputs())
	}
	return &Engine{defaults: defaults, logger: logger}
}

// Defaults returns the injected default inputs.
func (e *Engine) Defaults() PurchaseInputs {
	return e.defaults.DefaultInputs()
}

// Analyzer builds an analyzer for the inputs.
func (e *Engine) Analyzer(inputs PurchaseInputs) (*Analyzer, error) {
	return NewAnalyzer(inputs, e.logger)
}

// Analyze returns the summary of inputs over opts.
func (e *Engine) Analyze(inputs PurchaseInputs, opts Options) (Summary, error) {
	analyzer, err := e.Analyzer(inputs)
	if err != nil {
		return Summary{}, err
	}
	return analyzer.Summary(opts)
}

// Project returns the yearly series of inputs over opts.
func (e *Engine) Project(inputs PurchaseInputs, opts Options) ([]YearPoint, error) {
	analyzer, err := e.Analyzer(inputs)
	if err != nil {
		return nil, err
	}
	return analyzer.Project(opts)
}

// PureBaselineWealth projects with the pure renter baseline regardless of the
// mode set in inputs, optionally selling at the horizon.
func (e *Engine) PureBaselineWealth(inputs PurchaseInputs, years int, sellOnHorizon bool, sellCostPct decimal.Decimal) ([]YearPoint, error) {
	inputs.BaselineMode = PureRenter
	inputs.SellOnHorizon = sellOnHorizon
	return e.Project(inputs, Options{HorizonYears: years, SellCostPct: sellCostPct})
}

// Sensitivity sweeps rates and rents around inputs.
func (e *Engine) Sensitivity(ctx context.Context, inputs PurchaseInputs, rates, rents []decimal.Decimal, sellCostPct decimal.Decimal) ([]SensitivityResult, error) {
	return Sensitivity(ctx, e.logger, inputs, rates, rents, sellCostPct)
}

// CashFlow returns the first months of cash flow for inputs.
func (e *Engine) CashFlow(inputs PurchaseInputs, months int) ([]CashFlowMonth, error) {
	analyzer, err := e.Analyzer(inputs)
	if err != nil {
		return nil, err
	}
	return analyzer.CashFlow(months)
}

// HouseValueOverTime returns the house value for years 0..years.
func (e *Engine) HouseValueOverTime(inputs PurchaseInputs, years int) ([]HouseValuePoint, error) {
	analyzer, err := e.Analyzer(inputs)
	if err != nil {
		return nil, err
	}
	return analyzer.HouseValueOverTime(years)
}

// BaselineOverTime returns the renter baseline for years 0..years.
func (e *Engine) BaselineOverTime(inputs PurchaseInputs, years int) ([]BaselinePoint, error) {
	analyzer, err := e.Analyzer(inputs)
	if err != nil {
		return nil, err
	}
	return analyzer.BaselineOverTime(years)
}
