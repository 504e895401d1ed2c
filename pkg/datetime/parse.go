// Package datetime labels simulation months with calendar dates.
package datetime

import (
	"time"

	"github.com/iwvelando/buy-vs-rent/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files and is also the output
	// date format.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// MonthLabel names simulation month m (1-based) of a loan drawn in startDate.
// Month 1 is the start month itself. An empty startDate yields an empty label.
func MonthLabel(startDate string, month int) (string, error) {
	if startDate == "" {
		return "", nil
	}
	return OffsetDate(startDate, DateTimeLayout, month-1)
}

// YearLabel names the checkpoint reached after the given number of years.
func YearLabel(startDate string, year int) (string, error) {
	if startDate == "" {
		return "", nil
	}
	return OffsetDate(startDate, DateTimeLayout, year*constants.MonthsPerYear)
}

// CurrentMonth returns the month containing now, in DateTimeLayout.
func CurrentMonth(now time.Time) string {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format(DateTimeLayout)
}
