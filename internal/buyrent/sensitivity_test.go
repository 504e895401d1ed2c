package buyrent

import (
	"context"
	"errors"
	"testing"

	"github.com/iwvelando/buy-vs-rent/pkg/testutil"
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func decimals(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = d(v)
	}
	return out
}

func TestSensitivitySingleCellMatchesSummary(t *testing.T) {
	base := DefaultPurchaseInputs()
	results, err := Sensitivity(context.Background(), zap.NewNop(), base, decimals("0.03"), decimals("2000"), d("0.05"))
	if err != nil {
		t.Fatalf("Sensitivity() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	sold := base
	sold.SellOnHorizon = true
	summary := summarize(t, sold, Options{HorizonYears: 30, SellCostPct: d("0.05")})

	r := results[0]
	testutil.AssertDecimal(t, "OwnerCostM1", r.OwnerCostM1, summary.OwnerCostMonth1.String())
	testutil.AssertDecimal(t, "AnnualSaving", r.AnnualSaving, summary.AnnualSavingVsRent.String())
	testutil.AssertDecimal(t, "NetAdvantageAtHorizon", r.NetAdvantageAtHorizon, summary.NetAdvantageAtHorizon.String())
	if intValue(r.BreakEvenYears) != intValue(summary.BreakEvenYears) {
		t.Errorf("BreakEvenYears = %d, expected %d", intValue(r.BreakEvenYears), intValue(summary.BreakEvenYears))
	}

	testutil.AssertDecimal(t, "OwnerCostM1", r.OwnerCostM1, "1125")
	testutil.AssertDecimal(t, "AnnualSaving", r.AnnualSaving, "10500")
	testutil.AssertCurrency(t, "NetAdvantageAtHorizon", r.NetAdvantageAtHorizon, "923839.74")
}

func TestSensitivityRateMajorOrder(t *testing.T) {
	rates := decimals("0.025", "0.03", "0.045")
	rents := decimals("1500", "2000")
	results, err := Sensitivity(context.Background(), nil, DefaultPurchaseInputs(), rates, rents, d("0.05"))
	if err != nil {
		t.Fatalf("Sensitivity() error = %v", err)
	}
	if len(results) != len(rates)*len(rents) {
		t.Fatalf("expected %d results, got %d", len(rates)*len(rents), len(results))
	}

	for i, rate := range rates {
		for j, rent := range rents {
			r := results[i*len(rents)+j]
			if !r.Rate.Equal(rate) || !r.Rent.Equal(rent) {
				t.Errorf("slot %d holds (%s, %s), expected (%s, %s)", i*len(rents)+j, r.Rate, r.Rent, rate, rent)
			}
		}
	}

	cell := results[2*len(rents)]
	testutil.AssertDecimal(t, "OwnerCostM1 at 4.5%", cell.OwnerCostM1, "1687.5")
	testutil.AssertDecimal(t, "AnnualSaving at 4.5%", cell.AnnualSaving, "-2250")
	testutil.AssertCurrency(t, "NetAdvantageAtHorizon at 4.5%", cell.NetAdvantageAtHorizon, "596135.35")
	if got := intValue(cell.BreakEvenYears); got != 12 {
		t.Errorf("BreakEvenYears at 4.5%% = %d, expected 12", got)
	}
}

func TestSensitivityErrors(t *testing.T) {
	base := DefaultPurchaseInputs()
	tests := []struct {
		name  string
		base  PurchaseInputs
		rates []decimal.Decimal
		rents []decimal.Decimal
		sell  decimal.Decimal
		field string
	}{
		{"No rates", base, nil, decimals("2000"), d("0.05"), "rates"},
		{"No rents", base, decimals("0.03"), []decimal.Decimal{}, d("0.05"), "rents"},
		{"Sell cost out of range", base, decimals("0.03"), decimals("2000"), d("0.5"), "sell_cost_pct"},
		{"Negative rent in grid", base, decimals("0.03"), decimals("-1"), d("0.05"), "monthly_rent"},
		{"Negative rate in grid", base, decimals("-0.01"), decimals("2000"), d("0.05"), "annual_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sensitivity(context.Background(), nil, tt.base, tt.rates, tt.rents, tt.sell)
			if !errors.Is(err, validation.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
			if got := validation.FieldOf(err); got != tt.field {
				t.Errorf("error field = %q, expected %q", got, tt.field)
			}
		})
	}
}

func TestSensitivityGridLimit(t *testing.T) {
	rates := make([]decimal.Decimal, 51)
	rents := make([]decimal.Decimal, 50)
	for i := range rates {
		rates[i] = d("0.03")
	}
	for i := range rents {
		rents[i] = d("2000")
	}
	_, err := Sensitivity(context.Background(), nil, DefaultPurchaseInputs(), rates, rents, d("0.05"))
	if !errors.Is(err, validation.ErrInvalidInput) {
		t.Fatalf("expected invalid input for an oversized grid, got %v", err)
	}
}

func TestSensitivityCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sensitivity(ctx, nil, DefaultPurchaseInputs(), decimals("0.03", "0.04"), decimals("2000"), d("0.05"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
