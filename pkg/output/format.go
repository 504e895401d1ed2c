// Package output provides utilities for formatting and displaying analysis results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/iwvelando/buy-vs-rent/pkg/format"
	"github.com/iwvelando/buy-vs-rent/pkg/validation"
	"github.com/shopspring/decimal"
)

// Printer renders engine results in one output format. Pretty output honours
// Locale; CSV and JSON are locale independent. When StartDate is set, yearly
// and monthly rows are labelled with calendar months.
type Printer struct {
	w         io.Writer
	Format    string
	Locale    string
	StartDate string
}

// NewPrinter returns a printer writing to w, or an error for an unknown format.
func NewPrinter(w io.Writer, outputFormat, locale string) (*Printer, error) {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return nil, err
	}
	if locale == "" {
		locale = format.DefaultLocale
	}
	return &Printer{w: w, Format: outputFormat, Locale: locale}, nil
}

func (p *Printer) money(v decimal.Decimal) string {
	return format.LocaleCurrency(p.Locale, v)
}

func (p *Printer) rate(v decimal.Decimal) string {
	return format.LocalePercent(p.Locale, v, 2)
}

func (p *Printer) printf(template string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.w, template, args...)
}

func (p *Printer) json(v interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) csv(header []string, rows [][]string) error {
	cw := csv.NewWriter(p.w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// label returns the calendar label for an offset from StartDate, or "".
func (p *Printer) label(offset func(string, int) (string, error), n int) string {
	if p.StartDate == "" {
		return ""
	}
	l, err := offset(p.StartDate, n)
	if err != nil {
		return ""
	}
	return l
}

func plain(v decimal.Decimal) string {
	return v.StringFixed(constants.CurrencyPlaces)
}

func plainRate(v decimal.Decimal) string {
	return v.StringFixed(constants.RatePlaces)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optionalPlain(v *decimal.Decimal) string {
	if v == nil {
		return ""
	}
	return plain(*v)
}

func yearsOrNever(v *int, never string) string {
	if v == nil {
		return never
	}
	if *v == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", *v)
}
