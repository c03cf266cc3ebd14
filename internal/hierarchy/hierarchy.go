// Package hierarchy builds and parses the year/month/day folder structure
// used below every vault category.
package hierarchy

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"time"

	"curator/internal/services"
)

// MinYear and MaxYear bound the dates the vault will represent on disk.
// Anything outside this window is treated as clock corruption.
const (
	MinYear = 1900
	MaxYear = 2100
)

var segmentPattern = regexp.MustCompile(`^(\d{4})/(\d{4})-(\d{2})/(\d{4})-(\d{2})-(\d{2})$`)

// Build returns the three-level relative path for a calendar date, in the
// form "2024/2024-01/2024-01-15".
func Build(date time.Time) (string, error) {
	year, month, day := date.Date()
	if year < MinYear || year > MaxYear {
		return "", services.Wrap(services.ErrValidation, "hierarchy", "build",
			fmt.Sprintf("year %d outside [%d, %d]", year, MinYear, MaxYear), nil)
	}
	return fmt.Sprintf("%04d/%04d-%02d/%04d-%02d-%02d", year, year, month, year, month, day), nil
}

// Parse recovers the calendar date from a relative hierarchy path produced
// by Build. Every level must agree on the date it names.
func Parse(rel string) (time.Time, error) {
	m := segmentPattern.FindStringSubmatch(path.Clean(rel))
	if m == nil {
		return time.Time{}, services.Wrap(services.ErrValidation, "hierarchy", "parse",
			fmt.Sprintf("malformed hierarchy path %q", rel), nil)
	}
	year, _ := strconv.Atoi(m[1])
	monthYear, _ := strconv.Atoi(m[2])
	month, _ := strconv.Atoi(m[3])
	dayYear, _ := strconv.Atoi(m[4])
	dayMonth, _ := strconv.Atoi(m[5])
	day, _ := strconv.Atoi(m[6])

	if monthYear != year || dayYear != year || dayMonth != month {
		return time.Time{}, services.Wrap(services.ErrValidation, "hierarchy", "parse",
			fmt.Sprintf("inconsistent levels in %q", rel), nil)
	}
	if year < MinYear || year > MaxYear {
		return time.Time{}, services.Wrap(services.ErrValidation, "hierarchy", "parse",
			fmt.Sprintf("year %d outside [%d, %d]", year, MinYear, MaxYear), nil)
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, services.Wrap(services.ErrValidation, "hierarchy", "parse",
			fmt.Sprintf("impossible date in %q", rel), nil)
	}
	return date, nil
}
