package validation

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseAmount reads a user-typed number such as "1,234.56", "1.234,56",
// "250 000" or "€ 2000" into a decimal.
//
// When both separators appear the rightmost one is the decimal mark. A lone
// comma followed by one or two digits is a decimal comma; otherwise commas
// group thousands.
func ParseAmount(field, raw string) (decimal.Decimal, error) {
	value, _, err := parseNumber(field, raw)
	return value, err
}

// ParseRate reads a rate. A trailing percent sign means the value is in
// percent ("3,5 %" becomes 0.035); without it the value is already a fraction.
func ParseRate(field, raw string) (decimal.Decimal, error) {
	value, percent, err := parseNumber(field, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if percent {
		value = value.Div(hundred)
	}
	return value, nil
}

func parseNumber(field, raw string) (decimal.Decimal, bool, error) {
	s := strings.TrimSpace(raw)
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\'', '_', '€', '$':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero, false, NewInvalidInput(field, raw, "empty number")
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0 && strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, NewInvalidInput(field, raw, "not a number")
	}
	return value, percent, nil
}
