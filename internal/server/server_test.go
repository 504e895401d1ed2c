package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/iwvelando/buy-vs-rent/internal/config"
	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	return NewHandler(zap.NewNop(), nil, constants.DefaultMaxRequestSizeBytes, "test")
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeObject(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
	return out
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
	return out
}

func assertNumber(t *testing.T, label string, v interface{}, expected string) {
	t.Helper()
	f, ok := v.(float64)
	if !ok {
		t.Fatalf("%s: expected a JSON number, got %T (%v)", label, v, v)
	}
	if got := decimal.NewFromFloat(f); !got.Equal(decimal.RequireFromString(expected)) {
		t.Errorf("%s = %s, want %s", label, got, expected)
	}
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, field string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
	body := decodeObject(t, rr)
	if body["error"] == "" || body["error"] == nil {
		t.Errorf("expected an error message, got %v", body)
	}
	if field != "" && body["field"] != field {
		t.Errorf("field = %v, want %s", body["field"], field)
	}
}

func TestHealthAndVersion(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK || decodeObject(t, rr)["status"] != "ok" {
		t.Fatalf("unexpected health response %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, "/api/version", "")
	if got := decodeObject(t, rr)["version"]; got != "test" {
		t.Fatalf("version = %v, want test", got)
	}

	blank := NewHandler(nil, nil, 0, "  ")
	rr = do(t, blank, http.MethodGet, "/api/version", "")
	if got := decodeObject(t, rr)["version"]; got != "dev" {
		t.Fatalf("blank version should fall back to dev, got %v", got)
	}
}

func TestDefaultInputs(t *testing.T) {
	rr := do(t, newTestHandler(t), http.MethodGet, "/api/buy-vs-rent/default-inputs", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := decodeObject(t, rr)
	assertNumber(t, "price", body["price"], "500000")
	assertNumber(t, "annual_rate", body["annual_rate"], "0.03")
	if body["baseline_mode"] != "pure_renter" {
		t.Errorf("baseline_mode = %v, want pure_renter", body["baseline_mode"])
	}
}

func TestDefaultInputsFromInjectedConfiguration(t *testing.T) {
	defaults := config.Default()
	defaults.Purchase.MonthlyRent = decimal.NewFromInt(1800)
	h := NewHandler(zap.NewNop(), &defaults, 0, "test")

	rr := do(t, h, http.MethodGet, "/api/buy-vs-rent/default-inputs", "")
	assertNumber(t, "monthly_rent", decodeObject(t, rr)["monthly_rent"], "1800")

	rr = do(t, h, http.MethodPost, "/api/buy-vs-rent/analyze", "")
	assertNumber(t, "monthly_rent_total", decodeObject(t, rr)["monthly_rent_total"], "1800")
}

func TestAnalyze(t *testing.T) {
	h := newTestHandler(t)

	t.Run("defaults", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/buy-vs-rent/analyze", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
		body := decodeObject(t, rr)
		assertNumber(t, "monthly_pi", body["monthly_pi"], "2495.69")
		assertNumber(t, "owner_cost_month1", body["owner_cost_month1"], "1125")
		assertNumber(t, "break_even_years", body["break_even_years"], "5")
		assertNumber(t, "house_wealth_30_years", body["house_wealth_30_years"], "905680.79")
		assertNumber(t, "wealth_crossover_year", body["wealth_crossover_year"], "1")
	})

	t.Run("partial body keeps defaults", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/buy-vs-rent/analyze", `{"monthly_rent": 2500}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
		body := decodeObject(t, rr)
		assertNumber(t, "annual_saving_vs_rent", body["annual_saving_vs_rent"], "16500")
		assertNumber(t, "mortgage_amount", body["mortgage_amount"], "450000")
	})

	t.Run("horizon query", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/buy-vs-rent/analyze?horizon_years=15", "")
		body := decodeObject(t, rr)
		assertNumber(t, "horizon_years", body["horizon_years"], "15")
		if body["house_wealth_20_years"] != nil {
			t.Errorf("20-year snapshot should be null on a 15-year horizon, got %v", body["house_wealth_20_years"])
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/buy-vs-rent/analyze", `{"price": -1}`)
		assertError(t, rr, http.StatusBadRequest, "price")
	})

	t.Run("invalid sell cost", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/buy-vs-rent/analyze?sell_cost_pct=0.5", "")
		assertError(t, rr, http.StatusBadRequest, "sell_cost_pct")
	})

	t.Run("unknown field", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/buy-vs-rent/analyze", `{"prize": 1}`)
		assertError(t, rr, http.StatusBadRequest, "body")
	})

	t.Run("wrong method", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/api/buy-vs-rent/analyze", "")
		if rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected status 405, got %d", rr.Code)
		}
	})
}

func TestRequestTooLarge(t *testing.T) {
	h := NewHandler(zap.NewNop(), nil, 32, "test")
	body := `{"price": 500000, "monthly_rent": 2000, "annual_rate": 0.03, "fees_pct": 0.1}`
	rr := do(t, h, http.MethodPost, "/api/buy-vs-rent/analyze", body)
	assertError(t, rr, http.StatusRequestEntityTooLarge, "")
}

func TestSensitivity(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/buy-vs-rent/sensitivity",
		`{"rates": [0.03, 0.045], "rents": [2000], "sell_cost_pct": 0.05}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	results := decodeList(t, rr)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	assertNumber(t, "first rate", results[0]["rate"], "0.03")
	assertNumber(t, "first annual_saving", results[0]["annual_saving"], "10500")
	assertNumber(t, "first net advantage", results[0]["net_advantage_at_horizon"], "923839.74")
	assertNumber(t, "second owner cost", results[1]["owner_cost_m1"], "1687.5")
	assertNumber(t, "second net advantage", results[1]["net_advantage_at_horizon"], "596135.35")

	rr = do(t, h, http.MethodPost, "/api/buy-vs-rent/sensitivity", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected the default grid to succeed, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := len(decodeList(t, rr)); got != 25 {
		t.Errorf("default grid has %d cells, want 25", got)
	}

	rr = do(t, h, http.MethodPost, "/api/buy-vs-rent/sensitivity", `{"rates": [], "rents": [2000]}`)
	assertError(t, rr, http.StatusBadRequest, "rates")

	rr = do(t, h, http.MethodPost, "/api/buy-vs-rent/sensitivity", `{"base_inputs": {"price": -1}}`)
	assertError(t, rr, http.StatusBadRequest, "price")
}

func TestCashFlow(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/buy-vs-rent/cash-flow?months=13", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	months := decodeList(t, rr)
	if len(months) != 13 {
		t.Fatalf("got %d months, want 13", len(months))
	}
	assertNumber(t, "month 1 payment", months[0]["total_payment"], "2495.69")
	assertNumber(t, "month 13 rent", months[12]["rent_cost"], "2040")

	rr = do(t, h, http.MethodPost, "/api/buy-vs-rent/cash-flow", "")
	if got := len(decodeList(t, rr)); got != constants.DefaultCashFlowMonths {
		t.Errorf("default cash flow has %d months, want %d", got, constants.DefaultCashFlowMonths)
	}

	for _, target := range []string{"/api/buy-vs-rent/cash-flow?months=abc", "/api/buy-vs-rent/cash-flow?months=0"} {
		rr = do(t, h, http.MethodPost, target, "")
		assertError(t, rr, http.StatusBadRequest, "months")
	}
}

func TestPureBaselineWealth(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/buy-vs-rent/pure-baseline-wealth?years=30&sell_on_horizon=true",
		`{"baseline_mode": "budget_matched"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	points := decodeList(t, rr)
	if len(points) != 31 {
		t.Fatalf("got %d points, want 31", len(points))
	}
	assertNumber(t, "year 1 baseline", points[1]["baseline_liquid"], "107000")
	assertNumber(t, "year 30 net advantage", points[30]["net_advantage"], "923839.74")

	rr = do(t, h, http.MethodPost, "/api/buy-vs-rent/pure-baseline-wealth?sell_on_horizon=maybe", "")
	assertError(t, rr, http.StatusBadRequest, "sell_on_horizon")
}

func TestSeriesEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/buy-vs-rent/net-advantage-over-time?years=10", "")
	points := decodeList(t, rr)
	if len(points) != 11 {
		t.Fatalf("got %d points, want 11", len(points))
	}
	assertNumber(t, "year 0 net advantage", points[0]["net_advantage"], "-50000")
	assertNumber(t, "year 1 net advantage", points[1]["net_advantage"], "-19595.61")
	if _, ok := points[1]["components"].(map[string]interface{}); !ok {
		t.Errorf("expected components object, got %T", points[1]["components"])
	}

	rr = do(t, h, http.MethodPost, "/api/buy-vs-rent/house-value-over-time?years=1", "")
	values := decodeList(t, rr)
	if len(values) != 2 {
		t.Fatalf("got %d values, want 2", len(values))
	}
	assertNumber(t, "year 0 value", values[0]["house_value"], "500000")
	assertNumber(t, "year 1 value", values[1]["house_value"], "510000")

	rr = do(t, h, http.MethodPost, "/api/buy-vs-rent/house-value-over-time?years=0", "")
	assertError(t, rr, http.StatusBadRequest, "horizon_years")
}

func TestIndifference(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/buy-vs-rent/indifference", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	body := decodeObject(t, rr)
	if body["field"] != "monthly_rent" || body["converged"] != true {
		t.Fatalf("unexpected summary %v", body)
	}
	assertNumber(t, "max", body["max"], "25000")
	assertNumber(t, "original", body["original"], "2000")
	if v, _ := body["value"].(float64); v < 9.24 || v > 9.29 {
		t.Errorf("indifference rent = %v, want about 9.26", body["value"])
	}

	rr = do(t, h, http.MethodPost, "/api/buy-vs-rent/indifference", `{"field": "annualRate"}`)
	body = decodeObject(t, rr)
	if body["field"] != "annual_rate" {
		t.Fatalf("unexpected field %v", body["field"])
	}
	if v, _ := body["value"].(float64); v < 0.16804 || v > 0.168046 {
		t.Errorf("indifference rate = %v, want about 0.168043", body["value"])
	}

	rr = do(t, h, http.MethodPost, "/api/buy-vs-rent/indifference", `{"field": "rent", "max": 5}`)
	body = decodeObject(t, rr)
	if body["converged"] != false {
		t.Errorf("expected no convergence below the indifference rent, got %v", body)
	}
	assertNumber(t, "closest bound", body["value"], "5")

	rr = do(t, h, http.MethodPost, "/api/buy-vs-rent/indifference", `{"field": "price"}`)
	assertError(t, rr, http.StatusBadRequest, "field")

	rr = do(t, h, http.MethodPost, "/api/buy-vs-rent/indifference?horizon_years=0", "")
	assertError(t, rr, http.StatusBadRequest, "horizon_years")
}

func TestForwardDecision(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name     string
		body     string
		decision string
		fwd      string
	}{
		{"defaults", "", "TAKE_5Y", "3.56"},
		{"no five-year quote", `{"spot_5y": null}`, "WAIT", "3.56"},
		{"short lead", `{"spot_5y": null, "lead_months": 6}`, "LOCK_10Y", "3.5"},
		{"large loan", `{"spot_5y": null, "lead_months": 6, "loan_amount": 200000}`, "LOCK_10Y", "3.4"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/forward/decision", tc.body)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}
			body := decodeObject(t, rr)
			if body["decision"] != tc.decision {
				t.Errorf("decision = %v, want %s (%v)", body["decision"], tc.decision, body["reason"])
			}
			assertNumber(t, "forward_10y_rate", body["forward_10y_rate"], tc.fwd)
			if _, ok := body["diagnostics"].(map[string]interface{}); !ok {
				t.Errorf("expected diagnostics object, got %T", body["diagnostics"])
			}
		})
	}

	rr := do(t, h, http.MethodPost, "/api/forward/decision", `{"rules": {"small_loan_threshold": 0}}`)
	assertError(t, rr, http.StatusUnprocessableEntity, "rules.small_loan_threshold")

	rr = do(t, h, http.MethodPost, "/api/forward/decision", `{"spot_10y": 0}`)
	assertError(t, rr, http.StatusBadRequest, "spot_10y")

	// The shared defaults must survive a request that clears the quote.
	rr = do(t, h, http.MethodPost, "/api/forward/decision", "")
	if got := decodeObject(t, rr)["decision"]; got != "TAKE_5Y" {
		t.Errorf("defaults were modified by an earlier request: decision %v", got)
	}
}

func TestPremiumSchedule(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/forward/premium-schedule?max_months=36&step=3", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	body := decodeObject(t, rr)
	months, _ := body["months"].([]interface{})
	if len(months) != 12 {
		t.Fatalf("got %d months, want 12", len(months))
	}
	assertNumber(t, "first month", months[0], "1")
	assertNumber(t, "last month", months[11], "34")
	decisions, _ := body["decisions"].([]interface{})
	for i, d := range decisions {
		if d != "TAKE_5Y" {
			t.Errorf("decision %d = %v, want TAKE_5Y", i, d)
		}
	}

	rr = do(t, h, http.MethodPost, "/api/forward/premium-schedule", `{"spot_5y": null}`)
	body = decodeObject(t, rr)
	rates, _ := body["forward_rates"].([]interface{})
	if len(rates) != constants.DefaultPremiumScheduleMonths {
		t.Fatalf("got %d rates, want %d", len(rates), constants.DefaultPremiumScheduleMonths)
	}
	assertNumber(t, "month 36 forward rate", rates[35], "3.74")

	rr = do(t, h, http.MethodPost, "/api/forward/premium-schedule?max_months=300", "")
	assertError(t, rr, http.StatusBadRequest, "max_months")
}

func TestSmallLoanTrick(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/forward/small-loan-trick",
		`{"offer_small_rate": 3.5, "offer_big_rate": 3.4, "base_amount": 150000, "uplift_amount": 10000, "years_horizon": 10}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	body := decodeObject(t, rr)
	assertNumber(t, "interest_year1_small", body["interest_year1_small"], "5250")
	assertNumber(t, "approx_first_year_saving_eur", body["approx_first_year_saving_eur"], "150")
	if note, _ := body["note"].(string); note == "" {
		t.Error("expected a note")
	}

	rr = do(t, h, http.MethodPost, "/api/forward/small-loan-trick", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("defaults should be accepted, got %d: %s", rr.Code, rr.Body.String())
	}
	assertNumber(t, "default base", decodeObject(t, rr)["base_amount"], "150000")

	rr = do(t, h, http.MethodPost, "/api/forward/small-loan-trick", `{"base_amount": 0}`)
	assertError(t, rr, http.StatusBadRequest, "base_amount")
}

func TestNewAddsCORSAndRequestIDs(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	h := New(cfg, zap.NewNop(), nil, "test")

	req := httptest.NewRequest(http.MethodOptions, "/api/buy-vs-rent/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected origin allowed: %q", got)
	}
	if _, err := uuid.Parse(rr.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("expected a generated request id, got %q", rr.Header().Get(RequestIDHeader))
	}

	id := uuid.NewString()
	req = httptest.NewRequest(http.MethodPost, "/api/buy-vs-rent/analyze", bytes.NewReader(nil))
	req.Header.Set(RequestIDHeader, id)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}
}
