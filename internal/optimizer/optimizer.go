// Package optimizer searches for the value of one purchase input at which
// buying and renting end the horizon level.
package optimizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/iwvelando/buy-vs-rent/internal/buyrent"
	"github.com/iwvelando/buy-vs-rent/pkg/format"
	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/iwvelando/buy-vs-rent/pkg/optimization"
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Searchable fields.
const (
	FieldMonthlyRent       = "monthly_rent"
	FieldAnnualRate        = "annual_rate"
	FieldHouseAppreciation = "house_appreciation_rate"
	FieldInvestmentReturn  = "investment_return_rate"
)

// DefaultMaxIterations bounds the bisection when a target sets no limit.
const DefaultMaxIterations = 100

var (
	two          = decimal.NewFromInt(2)
	centTol      = decimal.RequireFromString("0.01")
	rateTol      = decimal.RequireFromString("0.000001")
	maxRateBound = decimal.RequireFromString("0.25")
	lowGrowth    = decimal.RequireFromString("-0.10")
	highGrowth   = decimal.RequireFromString("0.20")
	highReturn   = decimal.RequireFromString("0.30")
)

var fieldAliases = map[string]string{
	"monthlyrent":           FieldMonthlyRent,
	"rent":                  FieldMonthlyRent,
	"annualrate":            FieldAnnualRate,
	"rate":                  FieldAnnualRate,
	"houseappreciationrate": FieldHouseAppreciation,
	"appreciation":          FieldHouseAppreciation,
	"investmentreturnrate":  FieldInvestmentReturn,
	"return":                FieldInvestmentReturn,
}

// CanonicalField maps user spellings ("monthlyRent", "monthly-rent", "rent")
// to a field constant. Unknown names return "".
func CanonicalField(field string) string {
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(field)))
	return fieldAliases[key]
}

// Target describes one search. When Min and Max are both zero the bounds are
// picked for the field; a zero Tolerance or MaxIterations also takes a
// default.
type Target struct {
	Field         string          `json:"field" mapstructure:"field" yaml:"field"`
	Min           decimal.Decimal `json:"min" mapstructure:"min" yaml:"min"`
	Max           decimal.Decimal `json:"max" mapstructure:"max" yaml:"max"`
	Tolerance     decimal.Decimal `json:"tolerance" mapstructure:"tolerance" yaml:"tolerance"`
	MaxIterations int             `json:"max_iterations" mapstructure:"maxIterations" yaml:"maxIterations"`
}

// DefaultTarget searches the monthly rent.
func DefaultTarget() Target {
	return Target{Field: FieldMonthlyRent}
}

// Normalize fills defaults against the inputs being searched.
func (t Target) Normalize(inputs buyrent.PurchaseInputs) Target {
	if canonical := CanonicalField(t.Field); canonical != "" {
		t.Field = canonical
	}
	if t.Min.IsZero() && t.Max.IsZero() {
		t.Min, t.Max = defaultBounds(t.Field, inputs)
	}
	if !t.Tolerance.IsPositive() {
		t.Tolerance = rateTol
		if t.Field == FieldMonthlyRent {
			t.Tolerance = centTol
		}
	}
	if t.MaxIterations <= 0 {
		t.MaxIterations = DefaultMaxIterations
	}
	return t
}

// Validate checks a normalized target.
func (t Target) Validate() error {
	if CanonicalField(t.Field) == "" {
		return validation.NewInvalidInput("field", t.Field, "must be one of monthly_rent, annual_rate, house_appreciation_rate, investment_return_rate")
	}
	if !t.Max.GreaterThan(t.Min) {
		return validation.NewInvalidInput("max", t.Max, "must be greater than min "+t.Min.String())
	}
	if !t.Tolerance.IsPositive() {
		return validation.NewInvalidInput("tolerance", t.Tolerance, "must be positive")
	}
	if t.MaxIterations <= 0 {
		return validation.NewInvalidInput("max_iterations", t.MaxIterations, "must be positive")
	}
	return nil
}

func defaultBounds(field string, inputs buyrent.PurchaseInputs) (decimal.Decimal, decimal.Decimal) {
	switch field {
	case FieldMonthlyRent:
		return decimal.Zero, mathutil.Max(inputs.MonthlyRent.Mul(decimal.NewFromInt(10)), inputs.Price.Div(decimal.NewFromInt(20)))
	case FieldAnnualRate:
		return decimal.Zero, maxRateBound
	case FieldHouseAppreciation:
		return lowGrowth, highGrowth
	case FieldInvestmentReturn:
		return lowGrowth, highReturn
	}
	return decimal.Zero, decimal.Zero
}

// Runner evaluates projections for a search. It holds no per-call state.
type Runner struct {
	logger *zap.Logger
}

// NewRunner constructs a Runner. A nil logger is replaced with a no-op one.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

type evaluation struct {
	value     decimal.Decimal
	advantage decimal.Decimal
}

func (r *Runner) evaluate(inputs buyrent.PurchaseInputs, opts buyrent.Options, field string, value decimal.Decimal) (evaluation, error) {
	candidate := withField(inputs, field, value)
	analyzer, err := buyrent.NewAnalyzer(candidate, r.logger)
	if err != nil {
		return evaluation{}, err
	}
	points, err := analyzer.Project(opts)
	if err != nil {
		return evaluation{}, err
	}
	return evaluation{value: value, advantage: points[len(points)-1].NetAdvantage}, nil
}

// Solve bisects target's bounds for the value at which the net advantage at
// the horizon changes sign. When it keeps one sign over the whole range the
// summary is not converged and reports the bound closest to zero.
func (r *Runner) Solve(ctx context.Context, inputs buyrent.PurchaseInputs, opts buyrent.Options, target Target) (optimization.Summary, error) {
	target = target.Normalize(inputs)
	if err := target.Validate(); err != nil {
		return optimization.Summary{}, err
	}
	if err := opts.Validate(); err != nil {
		return optimization.Summary{}, err
	}

	original := fieldValue(inputs, target.Field)
	originalEval, err := r.evaluate(inputs, opts, target.Field, original)
	if err != nil {
		return optimization.Summary{}, err
	}
	lower, err := r.evaluate(inputs, opts, target.Field, target.Min)
	if err != nil {
		return optimization.Summary{}, err
	}
	upper, err := r.evaluate(inputs, opts, target.Field, target.Max)
	if err != nil {
		return optimization.Summary{}, err
	}

	summary := optimization.Summary{
		Field:             target.Field,
		HorizonYears:      opts.HorizonYears,
		Original:          original,
		OriginalDisplay:   formatFieldDisplay(target.Field, original),
		Min:               target.Min,
		Max:               target.Max,
		OriginalAdvantage: originalEval.advantage,
	}

	if lower.advantage.Sign() != 0 && lower.advantage.Sign() == upper.advantage.Sign() {
		closest := upper
		if lower.advantage.Abs().LessThan(upper.advantage.Abs()) {
			closest = lower
		}
		side := "buying"
		if lower.advantage.IsNegative() {
			side = "renting"
		}
		summary.Value = closest.value
		summary.ValueDisplay = formatFieldDisplay(target.Field, closest.value)
		summary.NetAdvantage = closest.advantage
		summary.Notes = []string{fmt.Sprintf(
			"%s stays ahead for every %s between %s and %s",
			side, target.Field,
			formatFieldDisplay(target.Field, target.Min),
			formatFieldDisplay(target.Field, target.Max),
		)}
		r.logger.Debug("no sign change within bounds",
			zap.String("op", "optimizer.solve"),
			zap.String("field", target.Field),
			zap.String("min", target.Min.String()),
			zap.String("max", target.Max.String()),
		)
		return summary, nil
	}

	iterations := 0
	converged := true
	final := lower
	switch {
	case lower.advantage.IsZero():
	case upper.advantage.IsZero():
		final = upper
	default:
		lo, hi := lower, upper
		for iterations < target.MaxIterations && hi.value.Sub(lo.value).GreaterThan(target.Tolerance) {
			if err := ctx.Err(); err != nil {
				return optimization.Summary{}, err
			}
			mid, err := r.evaluate(inputs, opts, target.Field, lo.value.Add(hi.value).Div(two))
			if err != nil {
				return optimization.Summary{}, err
			}
			iterations++
			if mid.advantage.IsZero() {
				lo, hi = mid, mid
				break
			}
			if mid.advantage.Sign() == lo.advantage.Sign() {
				lo = mid
			} else {
				hi = mid
			}
		}
		converged = hi.value.Sub(lo.value).LessThanOrEqual(target.Tolerance)
		final, err = r.evaluate(inputs, opts, target.Field, snapFieldValue(target.Field, lo.value.Add(hi.value).Div(two)))
		if err != nil {
			return optimization.Summary{}, err
		}
	}

	summary.Value = final.value
	summary.ValueDisplay = formatFieldDisplay(target.Field, final.value)
	summary.NetAdvantage = final.advantage
	summary.Iterations = iterations
	summary.Converged = converged
	summary.Notes = []string{directionNote(target.Field, lower, summary.ValueDisplay)}
	if !summary.Converged {
		summary.Notes = append(summary.Notes, fmt.Sprintf("stopped after %d iterations before reaching the tolerance", iterations))
	}

	r.logger.Info("found indifference point",
		zap.String("op", "optimizer.solve"),
		zap.String("field", target.Field),
		zap.String("original", summary.OriginalDisplay),
		zap.String("value", summary.ValueDisplay),
		zap.String("net_advantage", mathutil.Round(final.advantage).String()),
		zap.Int("iterations", iterations),
		zap.Bool("converged", summary.Converged),
	)
	return summary, nil
}

func directionNote(field string, lower evaluation, display string) string {
	below, above := "renting", "buying"
	if lower.advantage.IsPositive() {
		below, above = above, below
	}
	return fmt.Sprintf("%s comes out ahead below a %s of %s and %s above it", below, field, display, above)
}

func fieldValue(inputs buyrent.PurchaseInputs, field string) decimal.Decimal {
	switch field {
	case FieldMonthlyRent:
		return inputs.MonthlyRent
	case FieldAnnualRate:
		return inputs.AnnualRate
	case FieldHouseAppreciation:
		return inputs.HouseAppreciationRate
	case FieldInvestmentReturn:
		return inputs.InvestmentReturnRate
	}
	return decimal.Zero
}

func withField(inputs buyrent.PurchaseInputs, field string, value decimal.Decimal) buyrent.PurchaseInputs {
	switch field {
	case FieldMonthlyRent:
		inputs.MonthlyRent = value
	case FieldAnnualRate:
		inputs.AnnualRate = value
	case FieldHouseAppreciation:
		inputs.HouseAppreciationRate = value
	case FieldInvestmentReturn:
		inputs.InvestmentReturnRate = value
	}
	return inputs
}

func snapFieldValue(field string, value decimal.Decimal) decimal.Decimal {
	if field == FieldMonthlyRent {
		return mathutil.Round(value)
	}
	return mathutil.RoundRate(value)
}

func formatFieldDisplay(field string, value decimal.Decimal) string {
	if field == FieldMonthlyRent {
		return format.Currency(value)
	}
	return format.LocalePercent(format.DefaultLocale, value, 4)
}
