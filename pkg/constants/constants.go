// Package constants provides shared constants for the buy-vs-rent application.
package constants

// DateTimeLayout is the month format used when series are labelled with
// calendar months.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// CurrencyPlaces is the number of fractional digits kept for currency output
	CurrencyPlaces = 2

	// RatePlaces is the number of fractional digits kept for rate output
	RatePlaces = 6

	// InternalPlaces is the precision used for non-terminating divisions
	// inside the engines. Values are only rounded to CurrencyPlaces at the
	// presentation boundary.
	InternalPlaces = 16

	// BasisPointsPerPercent converts percentage points to basis points
	BasisPointsPerPercent = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = "0.01"
)

// Analysis defaults
const (
	// DefaultHorizonYears is the default projection horizon
	DefaultHorizonYears = 30

	// DefaultSellCostPct is the selling friction applied when selling at the horizon
	DefaultSellCostPct = "0.05"

	// MaxSellCostPct bounds the selling friction
	MaxSellCostPct = "0.20"

	// MaxFeesPct bounds the acquisition fees
	MaxFeesPct = "0.20"

	// BreakEvenSearchYears is the minimum number of years searched for a break-even
	BreakEvenSearchYears = 50

	// DefaultCashFlowMonths is the default length of the monthly cash flow series
	DefaultCashFlowMonths = 60

	// DefaultPremiumScheduleMonths is the default sweep length for forward premiums
	DefaultPremiumScheduleMonths = 36
)

// Upper bounds on the size of a single computation
const (
	// MaxLoanTermMonths caps the derived loan term (100 years)
	MaxLoanTermMonths = 1200

	// MaxHorizonYears caps the projection horizon
	MaxHorizonYears = 100

	// MaxCashFlowMonths caps the monthly cash flow series
	MaxCashFlowMonths = 1200

	// MaxPremiumScheduleMonths caps the forward premium sweep
	MaxPremiumScheduleMonths = 240

	// MaxSensitivityCombinations caps rates × rents in one sweep
	MaxSensitivityCombinations = 2500
)

// SnapshotYears are the fixed horizons reported in the summary.
var SnapshotYears = []int{10, 20, 30}

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. BUYRENT_HORIZONYEARS
	EnvPrefix = "BUYRENT"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum JSON request size (256 KB)
	DefaultMaxRequestSizeBytes int64 = 256 * 1024
)
