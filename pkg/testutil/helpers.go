// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/buy-vs-rent/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// D parses a decimal literal and panics on error. Intended for test tables.
func D(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Find returns a pointer to the first element matching the predicate, nil otherwise.
func Find[T any](items []T, match func(T) bool) *T {
	for i := range items {
		if match(items[i]) {
			return &items[i]
		}
	}
	return nil
}

// AssertDecimal fails the test when got is not exactly expected.
func AssertDecimal(t testing.TB, label string, got decimal.Decimal, expected string) {
	t.Helper()
	if !got.Equal(D(expected)) {
		t.Errorf("%s = %s, expected %s", label, got, expected)
	}
}

// AssertCurrency fails the test when got, rounded to cents, is not expected.
func AssertCurrency(t testing.TB, label string, got decimal.Decimal, expected string) {
	t.Helper()
	if rounded := mathutil.Round(got); !rounded.Equal(D(expected)) {
		t.Errorf("%s = %s, expected %s", label, rounded, expected)
	}
}

// AssertWithinCent fails the test when got and expected differ by more than a cent.
func AssertWithinCent(t testing.TB, label string, got, expected decimal.Decimal) {
	t.Helper()
	if !mathutil.WithinCent(got, expected) {
		t.Errorf("%s = %s, expected %s (±0.01)", label, mathutil.Round(got), mathutil.Round(expected))
	}
}
