// Package server exposes the buy-vs-rent and forward-rate engines over a JSON
// HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/buy-vs-rent/internal/buyrent"
	"github.com/iwvelando/buy-vs-rent/internal/config"
	"github.com/iwvelando/buy-vs-rent/internal/forward"
	"github.com/iwvelando/buy-vs-rent/internal/optimizer"
	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-ID"

type handler struct {
	logger         *zap.Logger
	maxRequestSize int64
	version        string
	defaults       *config.Configuration
	engine         *buyrent.Engine
	tracker        *forward.Tracker
	runner         *optimizer.Runner
}

// NewHandler constructs the HTTP handler serving the analysis API. Request
// fields that are omitted take their values from defaults.
func NewHandler(logger *zap.Logger, defaults *config.Configuration, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if defaults == nil {
		d := config.Default()
		d.Normalize()
		defaults = &d
	}

	h := &handler{
		logger:         logger,
		maxRequestSize: maxRequestSize,
		version:        trimmedVersion,
		defaults:       defaults,
		engine:         buyrent.NewEngine(defaults, logger),
		tracker:        forward.NewTracker(logger),
		runner:         optimizer.NewRunner(logger),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /api/version", h.handleVersion)

	mux.HandleFunc("GET /api/buy-vs-rent/default-inputs", h.handleDefaultInputs)
	mux.HandleFunc("POST /api/buy-vs-rent/analyze", h.handleAnalyze)
	mux.HandleFunc("POST /api/buy-vs-rent/sensitivity", h.handleSensitivity)
	mux.HandleFunc("POST /api/buy-vs-rent/cash-flow", h.handleCashFlow)
	mux.HandleFunc("POST /api/buy-vs-rent/pure-baseline-wealth", h.handlePureBaselineWealth)
	mux.HandleFunc("POST /api/buy-vs-rent/net-advantage-over-time", h.handleNetAdvantageOverTime)
	mux.HandleFunc("POST /api/buy-vs-rent/house-value-over-time", h.handleHouseValueOverTime)
	mux.HandleFunc("POST /api/buy-vs-rent/indifference", h.handleIndifference)

	mux.HandleFunc("POST /api/forward/decision", h.handleForwardDecision)
	mux.HandleFunc("POST /api/forward/premium-schedule", h.handlePremiumSchedule)
	mux.HandleFunc("POST /api/forward/small-loan-trick", h.handleSmallLoanTrick)

	return mux
}

// New wraps the API handler with CORS and request logging as configured.
func New(cfg *Config, logger *zap.Logger, defaults *config.Configuration, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	api := NewHandler(logger, defaults, cfg.RequestSizeBytes(), version)
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return withRequestLogging(logger, c.Handler(api))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLogging tags each request with an id, echoing a valid incoming
// one, and logs one line per request.
func withRequestLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info("handled request",
			zap.String("op", "server.request"),
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleDefaultInputs(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.engine.Defaults())
}

func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalyze"
	inputs, ok := h.decodePurchase(w, r, op)
	if !ok {
		return
	}
	opts, err := h.options(r)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	summary, err := h.engine.Analyze(inputs, opts)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, summary.Rounded())
}

type sensitivityRequest struct {
	BaseInputs  buyrent.PurchaseInputs `json:"base_inputs"`
	Rates       []decimal.Decimal      `json:"rates"`
	Rents       []decimal.Decimal      `json:"rents"`
	SellCostPct *decimal.Decimal       `json:"sell_cost_pct"`
}

func (h *handler) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSensitivity"
	req := sensitivityRequest{BaseInputs: h.engine.Defaults()}
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	if req.Rates == nil {
		req.Rates = h.defaults.Sensitivity.Rates
	}
	if req.Rents == nil {
		req.Rents = h.defaults.Sensitivity.Rents
	}
	sellCostPct := h.defaults.SellCostPct
	if req.SellCostPct != nil {
		sellCostPct = *req.SellCostPct
	}

	results, err := h.engine.Sensitivity(r.Context(), req.BaseInputs, req.Rates, req.Rents, sellCostPct)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	rounded := make([]buyrent.SensitivityResult, len(results))
	for i, res := range results {
		rounded[i] = res.Rounded()
	}
	h.writeJSON(w, http.StatusOK, rounded)
}

func (h *handler) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCashFlow"
	inputs, ok := h.decodePurchase(w, r, op)
	if !ok {
		return
	}
	months, err := queryInt(r, "months", constants.DefaultCashFlowMonths)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	flows, err := h.engine.CashFlow(inputs, months)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	rounded := make([]buyrent.CashFlowMonth, len(flows))
	for i, f := range flows {
		rounded[i] = f.Rounded()
	}
	h.writeJSON(w, http.StatusOK, rounded)
}

func (h *handler) handlePureBaselineWealth(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePureBaselineWealth"
	inputs, ok := h.decodePurchase(w, r, op)
	if !ok {
		return
	}
	years, err := queryInt(r, "years", h.defaults.HorizonYears)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	sell, err := queryBool(r, "sell_on_horizon", inputs.SellOnHorizon)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	sellCostPct, err := queryRate(r, "sell_cost_pct", h.defaults.SellCostPct)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	points, err := h.engine.PureBaselineWealth(inputs, years, sell, sellCostPct)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, buyrent.RoundPoints(points))
}

func (h *handler) handleNetAdvantageOverTime(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleNetAdvantageOverTime"
	inputs, ok := h.decodePurchase(w, r, op)
	if !ok {
		return
	}
	years, err := queryInt(r, "years", h.defaults.HorizonYears)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	points, err := h.engine.Project(inputs, buyrent.Options{HorizonYears: years, SellCostPct: h.defaults.SellCostPct})
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, buyrent.RoundPoints(points))
}

func (h *handler) handleHouseValueOverTime(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleHouseValueOverTime"
	inputs, ok := h.decodePurchase(w, r, op)
	if !ok {
		return
	}
	years, err := queryInt(r, "years", h.defaults.HorizonYears)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	points, err := h.engine.HouseValueOverTime(inputs, years)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, points)
}

type indifferenceRequest struct {
	BaseInputs    buyrent.PurchaseInputs `json:"base_inputs"`
	Field         string                 `json:"field"`
	Min           *decimal.Decimal       `json:"min"`
	Max           *decimal.Decimal       `json:"max"`
	Tolerance     *decimal.Decimal       `json:"tolerance"`
	MaxIterations int                    `json:"max_iterations"`
}

// target keeps the configured bounds only when the request searches the
// configured field without bounds of its own.
func (req indifferenceRequest) target(configured optimizer.Target) optimizer.Target {
	target := optimizer.Target{Field: req.Field, MaxIterations: req.MaxIterations}
	if target.Field == "" || optimizer.CanonicalField(target.Field) == configured.Field {
		target.Field = configured.Field
		if req.Min == nil && req.Max == nil {
			target.Min, target.Max = configured.Min, configured.Max
		}
		if req.Tolerance == nil {
			target.Tolerance = configured.Tolerance
		}
	}
	if req.Min != nil {
		target.Min = *req.Min
	}
	if req.Max != nil {
		target.Max = *req.Max
	}
	if req.Tolerance != nil {
		target.Tolerance = *req.Tolerance
	}
	return target
}

func (h *handler) handleIndifference(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleIndifference"
	req := indifferenceRequest{BaseInputs: h.engine.Defaults()}
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	opts, err := h.options(r)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	summary, err := h.runner.Solve(r.Context(), req.BaseInputs, opts, req.target(h.defaults.Indifference))
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, summary.Rounded())
}

func (h *handler) handleForwardDecision(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForwardDecision"
	in := h.forwardDefaults()
	if !h.decodeJSON(w, r, &in, op) {
		return
	}
	result, err := h.tracker.Decide(in)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handlePremiumSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePremiumSchedule"
	in := h.forwardDefaults()
	if !h.decodeJSON(w, r, &in, op) {
		return
	}
	maxMonths, err := queryInt(r, "max_months", h.defaults.Forward.MaxMonths)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	step, err := queryInt(r, "step", h.defaults.Forward.Step)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	analysis, err := h.tracker.AnalyzePremiumScheduleEvery(in, maxMonths, step)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, analysis)
}

type smallLoanTrickRequest struct {
	OfferSmallRate decimal.Decimal `json:"offer_small_rate"`
	OfferBigRate   decimal.Decimal `json:"offer_big_rate"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	UpliftAmount   decimal.Decimal `json:"uplift_amount"`
	YearsHorizon   int             `json:"years_horizon"`
}

func (h *handler) handleSmallLoanTrick(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSmallLoanTrick"
	trick := h.defaults.Forward.SmallLoanTrick
	req := smallLoanTrickRequest{
		OfferSmallRate: trick.SmallRatePct,
		OfferBigRate:   trick.BigRatePct,
		BaseAmount:     trick.BaseAmount,
		UpliftAmount:   trick.UpliftAmount,
		YearsHorizon:   trick.YearsHorizon,
	}
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	result, err := forward.EstimateSmallLoanTrickGain(req.OfferSmallRate, req.OfferBigRate, req.BaseAmount, req.UpliftAmount, req.YearsHorizon)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// forwardDefaults copies the configured forward inputs so a request body can
// be decoded over them without touching the shared configuration.
func (h *handler) forwardDefaults() forward.Inputs {
	in := h.defaults.Forward.Inputs
	if in.Spot5Y != nil {
		spot5y := *in.Spot5Y
		in.Spot5Y = &spot5y
	}
	return in
}

func (h *handler) decodePurchase(w http.ResponseWriter, r *http.Request, op string) (buyrent.PurchaseInputs, bool) {
	inputs := h.engine.Defaults()
	ok := h.decodeJSON(w, r, &inputs, op)
	return inputs, ok
}

// decodeJSON decodes the request body over target. An empty body leaves the
// target untouched.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				errorResponse{Error: fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize)}, op)
			return false
		}
		if errors.Is(err, validation.ErrInvalidInput) {
			h.respondEngineError(w, err, op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest,
			errorResponse{Error: fmt.Sprintf("failed to decode request: %v", err), Field: "body"}, op)
		return false
	}
	return true
}

func (h *handler) options(r *http.Request) (buyrent.Options, error) {
	sellCostPct, err := queryRate(r, "sell_cost_pct", h.defaults.SellCostPct)
	if err != nil {
		return buyrent.Options{}, err
	}
	horizon, err := queryInt(r, "horizon_years", h.defaults.HorizonYears)
	if err != nil {
		return buyrent.Options{}, err
	}
	return buyrent.Options{HorizonYears: horizon, SellCostPct: sellCostPct}, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.NewInvalidInput(name, raw, "expected an integer")
	}
	return n, nil
}

func queryBool(r *http.Request, name string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, validation.NewInvalidInput(name, raw, "expected true or false")
	}
	return b, nil
}

func queryRate(r *http.Request, name string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	return validation.ParseRate(name, raw)
}

// respondEngineError maps engine errors to statuses: invalid input is the
// caller's fault, a bad rule set cannot be processed.
func (h *handler) respondEngineError(w http.ResponseWriter, err error, op string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, validation.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, validation.ErrConfiguration):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	h.respondErrorWithOp(w, status, errorResponse{Error: err.Error(), Field: validation.FieldOf(err)}, op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, resp errorResponse, op string) {
	log := h.logger.Warn
	if status >= http.StatusInternalServerError {
		log = h.logger.Error
	}
	log("analysis request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("field", resp.Field),
		zap.String("error", resp.Error),
	)

	h.writeJSON(w, status, resp)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
