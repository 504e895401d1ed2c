package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/iwvelando/buy-vs-rent/internal/config"
	"github.com/iwvelando/buy-vs-rent/internal/logging"
	"github.com/iwvelando/buy-vs-rent/internal/optimizer"
	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/output"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// BUYRENT_* overrides may live in a .env file next to the config.
	_ = godotenv.Load()

	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	mode := flag.String("mode", ModeAnalyze, "analysis to run: "+modeList())
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	years := flag.Int("years", 0, "horizon override in years")
	months := flag.Int("months", 0, "months of cash flow, or lead months swept by the premium mode")
	locale := flag.String("locale", "", "locale for pretty output, e.g. en or fr")
	field := flag.String("field", "", "input searched by the indifference mode: monthly_rent, annual_rate, house_appreciation_rate, investment_return_rate")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	outputLocale := conf.Output.Locale
	if *locale != "" {
		outputLocale = *locale
	}
	if *years > 0 {
		conf.HorizonYears = *years
	}
	if *field != "" {
		conf.Indifference = optimizer.Target{Field: *field}.Normalize(conf.Purchase)
	}

	printer, err := output.NewPrinter(os.Stdout, outputFormat, outputLocale)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	printer.StartDate = conf.StartDate

	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
	printer.Warnings(warnings)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, conf, printer, *mode, *months); err != nil {
		logger.Fatal("analysis failed",
			zap.String("op", "main"),
			zap.String("mode", *mode),
			zap.Error(err),
		)
	}
}
