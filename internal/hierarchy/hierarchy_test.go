package hierarchy_test

import (
	"testing"
	"time"

	"curator/internal/hierarchy"
)

func TestBuild(t *testing.T) {
	got, err := hierarchy.Build(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if got != "2024/2024-01/2024-01-15" {
		t.Fatalf("Build = %s", got)
	}
}

func TestBuildRejectsOutOfRangeYears(t *testing.T) {
	for _, year := range []int{1899, 2101} {
		if _, err := hierarchy.Build(time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC)); err == nil {
			t.Fatalf("year %d accepted", year)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	dates := []time.Time{
		time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2100, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	for _, date := range dates {
		rel, err := hierarchy.Build(date)
		if err != nil {
			t.Fatalf("%v: %v", date, err)
		}
		parsed, err := hierarchy.Parse(rel)
		if err != nil {
			t.Fatalf("%s: %v", rel, err)
		}
		if !parsed.Equal(date) {
			t.Fatalf("%s parsed to %v, want %v", rel, parsed, date)
		}
	}
}

func TestParseRejectsMalformedPaths(t *testing.T) {
	bad := []string{
		"2024/2024-01",
		"2024/2023-01/2024-01-15",
		"2024/2024-01/2024-02-15",
		"2024/2024-13/2024-13-01",
		"2024/2024-02/2024-02-30",
		"abcd/abcd-ef/abcd-ef-gh",
		"photos/2024/2024-01/2024-01-15",
	}
	for _, rel := range bad {
		if _, err := hierarchy.Parse(rel); err == nil {
			t.Fatalf("%q accepted", rel)
		}
	}
}
