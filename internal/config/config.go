// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/buy-vs-rent/internal/buyrent"
	"github.com/iwvelando/buy-vs-rent/internal/forward"
	"github.com/iwvelando/buy-vs-rent/internal/optimizer"
	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/datetime"
	"github.com/iwvelando/buy-vs-rent/pkg/loans"
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected in config files and is also the output
// date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for buy-vs-rent.
type Configuration struct {
	Logging      LoggingConfig          `yaml:"logging,omitempty" mapstructure:"logging"`
	Output       OutputConfig           `yaml:"output,omitempty" mapstructure:"output"`
	StartDate    string                 `yaml:"startDate,omitempty" mapstructure:"startDate"`
	HorizonYears int                    `yaml:"horizonYears" mapstructure:"horizonYears"`
	SellCostPct  decimal.Decimal        `yaml:"sellCostPct" mapstructure:"sellCostPct"`
	Purchase     buyrent.PurchaseInputs `yaml:"purchase" mapstructure:"purchase"`
	Sensitivity  SensitivityConfig      `yaml:"sensitivity,omitempty" mapstructure:"sensitivity"`
	Forward      ForwardConfig          `yaml:"forward,omitempty" mapstructure:"forward"`
	Indifference optimizer.Target       `yaml:"indifference,omitempty" mapstructure:"indifference"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
	Locale string `yaml:"locale,omitempty" mapstructure:"locale"` // BCP 47 tag, e.g. en or fr
}

// Default returns a configuration populated with the reference scenario.
// Loaded files override it key by key.
func Default() Configuration {
	return Configuration{
		Logging:      LoggingConfig{Level: "info", Format: "console"},
		Output:       OutputConfig{Format: constants.OutputFormatPretty, Locale: "en"},
		HorizonYears: constants.DefaultHorizonYears,
		SellCostPct:  decimal.RequireFromString(constants.DefaultSellCostPct),
		Purchase:     buyrent.DefaultPurchaseInputs(),
		Forward:      ForwardConfig{Inputs: forward.DefaultInputs()},
		Indifference: optimizer.DefaultTarget(),
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Registered so environment variables can override them without a file entry.
	defaults := Default()
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.locale", defaults.Output.Locale)
	v.SetDefault("horizonYears", defaults.HorizonYears)
	v.SetDefault("sellCostPct", defaults.SellCostPct.String())
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	configuration := Default()
	if err := v.Unmarshal(&configuration, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if configuration.StartDate == "" {
		configuration.StartDate = datetime.CurrentMonth(time.Now())
	}
	configuration.Normalize()
	return &configuration, nil
}

// Normalize fills the derived defaults of the sensitivity grid, the forward
// settings and the indifference search.
func (c *Configuration) Normalize() {
	c.Sensitivity.Normalize(c.Purchase)
	c.Forward.Normalize()
	c.Indifference = c.Indifference.Normalize(c.Purchase)
}

// DefaultInputs implements buyrent.DefaultsProvider with the purchase section.
func (c *Configuration) DefaultInputs() buyrent.PurchaseInputs {
	return c.Purchase
}

// Options returns the projection options described by the configuration.
func (c *Configuration) Options() buyrent.Options {
	return buyrent.Options{HorizonYears: c.HorizonYears, SellCostPct: c.SellCostPct}
}

// Validate returns the first error that would make an analysis fail.
func (c *Configuration) Validate() error {
	if c.StartDate != "" {
		if _, err := time.Parse(DateTimeLayout, c.StartDate); err != nil {
			return validation.NewInvalidInput("startDate", c.StartDate, "expected YYYY-MM")
		}
	}
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return err
		}
	}
	if _, err := buyrent.NewAnalyzer(c.Purchase, nil); err != nil {
		return fmt.Errorf("purchase: %w", err)
	}
	if err := c.Options().Validate(); err != nil {
		return err
	}
	if err := c.Sensitivity.Validate(); err != nil {
		return fmt.Errorf("sensitivity: %w", err)
	}
	if err := c.Forward.Validate(); err != nil {
		return fmt.Errorf("forward: %w", err)
	}
	if err := c.Indifference.Normalize(c.Purchase).Validate(); err != nil {
		return fmt.Errorf("indifference: %w", err)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	termMonths, err := loans.DeriveLoanTermMonths(c.Purchase.AmortizationRate)
	if err != nil {
		termMonths = 0
	}
	cv := validation.ConfigValidator{
		StartDate:        c.StartDate,
		HorizonYears:     c.HorizonYears,
		LoanTermMonths:   termMonths,
		SellOnHorizon:    c.Purchase.SellOnHorizon,
		SellCostPct:      c.SellCostPct,
		Lock10YLE:        c.Forward.Rules.Lock10YLE,
		Lock10YAlt:       c.Forward.Rules.Lock10YAlt,
		SensitivityRates: len(c.Sensitivity.Rates),
		SensitivityRents: len(c.Sensitivity.Rents),
	}
	return cv.ValidateAll()
}
