package output

import (
	"sort"
	"strconv"

	"github.com/iwvelando/buy-vs-rent/internal/forward"
	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/format"
	"github.com/shopspring/decimal"
)

// points formats a value already in percentage points.
func (p *Printer) points(pp decimal.Decimal) string {
	return format.LocaleNumber(p.Locale, pp, 2) + "%"
}

// Decision renders a forward decision and its diagnostics, sorted by key.
func (p *Printer) Decision(r forward.Result) error {
	keys := make([]string, 0, len(r.Diagnostics))
	for k := range r.Diagnostics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	switch p.Format {
	case constants.OutputFormatJSON:
		return p.json(r)
	case constants.OutputFormatCSV:
		rows := [][]string{
			{"decision", string(r.Decision)},
			{"reason", r.Reason},
			{"fwd_10y", r.Forward10YRate.String()},
		}
		for _, k := range keys {
			if k == forward.DiagForward10Y {
				continue
			}
			rows = append(rows, []string{k, r.Diagnostics[k].String()})
		}
		return p.csv([]string{"field", "value"}, rows)
	}

	p.printf("--- Forward rate decision ---\n")
	p.printf("Decision: %s\n", r.Decision)
	p.printf("Reason: %s\n", r.Reason)
	p.printf("Forward 10y rate: %s\n", p.points(r.Forward10YRate))
	p.printf("Diagnostics:\n")
	for _, k := range keys {
		p.printf("  %s: %s\n", k, format.LocaleNumber(p.Locale, r.Diagnostics[k], 4))
	}
	return nil
}

// PremiumSchedule renders a lead-time sweep.
func (p *Printer) PremiumSchedule(a forward.PremiumScheduleAnalysis) error {
	switch p.Format {
	case constants.OutputFormatJSON:
		return p.json(a)
	case constants.OutputFormatCSV:
		rows := make([][]string, a.Len())
		for i := range rows {
			rows[i] = []string{
				strconv.Itoa(a.Months[i]), a.Premiums[i].String(), a.ForwardRates[i].String(), string(a.Decisions[i]),
			}
		}
		return p.csv([]string{"lead_months", "premium_pp", "fwd_10y", "decision"}, rows)
	}

	p.printf("Lead months | Premium | Forward 10y | Decision\n")
	p.printf("___________ | _______ | ___________ | ________\n")
	for i := 0; i < a.Len(); i++ {
		p.printf("%d | %s | %s | %s\n", a.Months[i], p.points(a.Premiums[i]), p.points(a.ForwardRates[i]), a.Decisions[i])
	}
	if first := a.FirstMonthWith(forward.Wait); first > 0 {
		p.printf("Waiting is advised from a %d-month lead onwards.\n", first)
	}
	return nil
}

// SmallLoanTrick renders the small-loan comparison.
func (p *Printer) SmallLoanTrick(t forward.SmallLoanTrick) error {
	switch p.Format {
	case constants.OutputFormatJSON:
		return p.json(t)
	case constants.OutputFormatCSV:
		return p.csv([]string{"field", "value"}, [][]string{
			{"small_rate_pct", t.SmallRatePct.String()},
			{"big_rate_pct", t.BigRatePct.String()},
			{"base_amount", plain(t.BaseAmount)},
			{"uplift_amount", plain(t.UpliftAmount)},
			{"years_horizon", strconv.Itoa(t.YearsHorizon)},
			{"interest_year1_small", plain(t.InterestYear1Small)},
			{"interest_year1_big", plain(t.InterestYear1Big)},
			{"approx_first_year_saving", plain(t.ApproxFirstYearSaving)},
			{"note", t.Note},
		})
	}

	p.printf("--- Small-loan comparison ---\n")
	p.printf("Small-loan offer: %s on %s\n", p.points(t.SmallRatePct), p.money(t.BaseAmount))
	p.printf("Big-loan offer: %s, prepaying %s\n", p.points(t.BigRatePct), p.money(t.UpliftAmount))
	p.printf("First-year interest (small): %s\n", p.money(t.InterestYear1Small))
	p.printf("First-year interest (big): %s\n", p.money(t.InterestYear1Big))
	p.printf("Approximate first-year saving: %s\n", p.money(t.ApproxFirstYearSaving))
	p.printf("%s\n", t.Note)
	return nil
}
