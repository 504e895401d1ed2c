package buyrent

import (
	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// HouseValuePoint is the appreciated house value at a yearly checkpoint.
type HouseValuePoint struct {
	Year         int             `json:"year"`
	HouseValue   decimal.Decimal `json:"house_value"`
	Appreciation decimal.Decimal `json:"appreciation"`
}

// BaselinePoint is the pure renter's position at a yearly checkpoint.
type BaselinePoint struct {
	Year            int             `json:"year"`
	BaselineLiquid  decimal.Decimal `json:"baseline_liquid"`
	CumulRent       decimal.Decimal `json:"cumul_rent"`
	InvestmentGains decimal.Decimal `json:"investment_gains"`
}

// HouseValueOverTime lists the house value for years 0..years.
func (a *Analyzer) HouseValueOverTime(years int) ([]HouseValuePoint, error) {
	points, err := a.Project(Options{HorizonYears: years})
	if err != nil {
		return nil, err
	}
	out := make([]HouseValuePoint, len(points))
	for i, p := range points {
		out[i] = HouseValuePoint{
			Year:         p.Year,
			HouseValue:   mathutil.Round(p.HouseValue),
			Appreciation: mathutil.Round(p.HouseValue.Sub(a.inputs.Price)),
		}
	}
	return out, nil
}

// BaselineOverTime lists the renter baseline for years 0..years, using the
// analyzer's baseline mode.
func (a *Analyzer) BaselineOverTime(years int) ([]BaselinePoint, error) {
	points, err := a.Project(Options{HorizonYears: years})
	if err != nil {
		return nil, err
	}
	out := make([]BaselinePoint, len(points))
	for i, p := range points {
		out[i] = BaselinePoint{
			Year:            p.Year,
			BaselineLiquid:  mathutil.Round(p.BaselineLiquid),
			CumulRent:       mathutil.Round(p.CumulRent),
			InvestmentGains: mathutil.Round(p.BaselineLiquid.Sub(a.inputs.DownPayment)),
		}
	}
	return out, nil
}
