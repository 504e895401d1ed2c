package testutil

import (
	"fmt"
	"testing"
)

type namedValue struct {
	Name  string
	Value int
}

func TestFind(t *testing.T) {
	items := []namedValue{
		{Name: "Scenario A", Value: 1000},
		{Name: "Scenario B", Value: 2000},
		{Name: "Another Scenario", Value: 3000},
	}

	tests := []struct {
		name          string
		searchName    string
		expectFound   bool
		expectedValue int
	}{
		{name: "Find existing scenario A", searchName: "Scenario A", expectFound: true, expectedValue: 1000},
		{name: "Find existing scenario B", searchName: "Scenario B", expectFound: true, expectedValue: 2000},
		{name: "Case sensitive search", searchName: "scenario a", expectFound: false},
		{name: "Non-existent scenario", searchName: "Missing", expectFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Find(items, func(v namedValue) bool { return v.Name == tt.searchName })
			if tt.expectFound {
				if result == nil {
					t.Fatalf("Find(%q) returned nil", tt.searchName)
				}
				if result.Value != tt.expectedValue {
					t.Errorf("Find(%q).Value = %d, expected %d", tt.searchName, result.Value, tt.expectedValue)
				}
			} else if result != nil {
				t.Errorf("Find(%q) = %+v, expected nil", tt.searchName, *result)
			}
		})
	}

	// Find returns a pointer into the slice.
	found := Find(items, func(v namedValue) bool { return v.Value == 3000 })
	found.Value = 42
	if items[2].Value != 42 {
		t.Error("Find should return a pointer into the original slice")
	}
}

func TestFindEmptySlice(t *testing.T) {
	var items []namedValue
	if Find(items, func(namedValue) bool { return true }) != nil {
		t.Error("Find on an empty slice should return nil")
	}
}

func TestAssertions(t *testing.T) {
	AssertDecimal(t, "exact", D("1.50"), "1.5")
	AssertCurrency(t, "rounded", D("2495.6892"), "2495.69")
	AssertWithinCent(t, "close", D("100.004"), D("100"))
}

func ExampleD() {
	fmt.Println(D("0.10").Add(D("0.20")))
	// Output: 0.3
}
