// Package optimization provides shared data structures for optimization results.
package optimization

import (
	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Summary captures the result of a single indifference search: the value of
// one purchase input at which the net advantage at the horizon is zero.
type Summary struct {
	Field             string          `json:"field"`
	HorizonYears      int             `json:"horizon_years"`
	Original          decimal.Decimal `json:"original"`
	Value             decimal.Decimal `json:"value"`
	Min               decimal.Decimal `json:"min"`
	Max               decimal.Decimal `json:"max"`
	OriginalAdvantage decimal.Decimal `json:"original_net_advantage"`
	NetAdvantage      decimal.Decimal `json:"net_advantage"`
	Iterations        int             `json:"iterations"`
	Converged         bool            `json:"converged"`
	Notes             []string        `json:"notes,omitempty"`
	OriginalDisplay   string          `json:"original_display,omitempty"`
	ValueDisplay      string          `json:"value_display,omitempty"`
}

// Rounded returns the summary with money rounded to cents.
func (s Summary) Rounded() Summary {
	s.OriginalAdvantage = mathutil.Round(s.OriginalAdvantage)
	s.NetAdvantage = mathutil.Round(s.NetAdvantage)
	return s
}
