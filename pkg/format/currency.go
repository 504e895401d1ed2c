// Package format renders amounts and rates for people, honouring the
// grouping and decimal conventions of a locale.
package format

import (
	"fmt"
	"sync"

	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is used when no locale or an unparsable one is given.
const DefaultLocale = "en"

// CurrencySymbol prefixes or suffixes formatted amounts.
const CurrencySymbol = "€"

var (
	printers sync.Map // language.Tag string -> *message.Printer
	hundred  = decimal.NewFromInt(100)
)

func init() {
	// Amounts go out as JSON numbers rather than strings, from the API and
	// the CLI alike.
	decimal.MarshalJSONWithoutQuotes = true
}

type localePrinter struct {
	printer       *message.Printer
	symbolPrefix  bool
	percentSpaced bool
}

func printerFor(locale string) *localePrinter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.English
	}
	key := tag.String()
	if cached, ok := printers.Load(key); ok {
		return cached.(*localePrinter)
	}
	base, _ := tag.Base()
	english, _ := language.English.Base()
	lp := &localePrinter{
		printer:       message.NewPrinter(tag),
		symbolPrefix:  base == english,
		percentSpaced: base != english,
	}
	actual, _ := printers.LoadOrStore(key, lp)
	return actual.(*localePrinter)
}

// Currency returns an English currency string with separators (e.g., "-€1,234.56").
func Currency(amount decimal.Decimal) string {
	return LocaleCurrency(DefaultLocale, amount)
}

// LocaleCurrency formats an amount for the locale: "€1,234.56" in English,
// "1 234,56 €" style elsewhere.
func LocaleCurrency(locale string, amount decimal.Decimal) string {
	lp := printerFor(locale)
	rounded := mathutil.Round(amount)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	digits := lp.printer.Sprintf("%.2f", rounded.Abs().InexactFloat64())
	if lp.symbolPrefix {
		return sign + CurrencySymbol + digits
	}
	return sign + digits + " " + CurrencySymbol
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount decimal.Decimal) string {
	return LocaleNumber(DefaultLocale, amount, 2)
}

// LocaleNumber formats a value with the given number of fractional digits.
func LocaleNumber(locale string, value decimal.Decimal, places int) string {
	lp := printerFor(locale)
	rounded := value.Round(int32(places))
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + lp.printer.Sprintf(fmt.Sprintf("%%.%df", places), rounded.Abs().InexactFloat64())
}

// Percent formats a fractional rate as an English percentage (0.035 -> "3.50%").
func Percent(rate decimal.Decimal) string {
	return LocalePercent(DefaultLocale, rate, 2)
}

// LocalePercent formats a fractional rate as a percentage for the locale.
func LocalePercent(locale string, rate decimal.Decimal, places int) string {
	lp := printerFor(locale)
	number := LocaleNumber(locale, rate.Mul(hundred), places)
	if lp.percentSpaced {
		return number + " %"
	}
	return number + "%"
}

// Points formats a value already expressed in percentage points (3.56 -> "3.56%").
func Points(pp decimal.Decimal) string {
	return LocaleNumber(DefaultLocale, pp, 2) + "%"
}
