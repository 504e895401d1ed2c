package output

import (
	"strconv"

	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/optimization"
	"github.com/shopspring/decimal"
)

const rentField = "monthly_rent"

// Indifference renders the result of an indifference search.
func (p *Printer) Indifference(s optimization.Summary) error {
	value := func(v decimal.Decimal) string {
		if s.Field == rentField {
			return p.money(v)
		}
		return p.rate(v)
	}
	rawValue := func(v decimal.Decimal) string {
		if s.Field == rentField {
			return plain(v)
		}
		return plainRate(v)
	}

	switch p.Format {
	case constants.OutputFormatJSON:
		return p.json(s.Rounded())
	case constants.OutputFormatCSV:
		rows := [][]string{
			{"field", s.Field},
			{"horizon_years", strconv.Itoa(s.HorizonYears)},
			{"original", rawValue(s.Original)},
			{"value", rawValue(s.Value)},
			{"min", rawValue(s.Min)},
			{"max", rawValue(s.Max)},
			{"original_net_advantage", plain(s.OriginalAdvantage)},
			{"net_advantage", plain(s.NetAdvantage)},
			{"iterations", strconv.Itoa(s.Iterations)},
			{"converged", strconv.FormatBool(s.Converged)},
		}
		for _, note := range s.Notes {
			rows = append(rows, []string{"note", note})
		}
		return p.csv([]string{"field", "value"}, rows)
	}

	p.printf("--- Indifference point for %s (%d-year horizon) ---\n", s.Field, s.HorizonYears)
	p.printf("Current value: %s (net advantage %s)\n", value(s.Original), p.money(s.OriginalAdvantage))
	p.printf("Searched between %s and %s\n", value(s.Min), value(s.Max))
	if s.Converged {
		p.printf("Indifference value: %s after %d iterations\n", value(s.Value), s.Iterations)
	} else {
		p.printf("Closest value: %s (not converged)\n", value(s.Value))
	}
	p.printf("Net advantage there: %s\n", p.money(s.NetAdvantage))
	for _, note := range s.Notes {
		p.printf("  - %s\n", note)
	}
	return nil
}
