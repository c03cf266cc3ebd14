package dates

import (
	"regexp"
	"time"
)

// Filename patterns tried in priority order. Ambiguous formats (two-digit
// years, day-first orderings) are deliberately absent.
var filenamePatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"iso8601", regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)},
	{"compact", regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`)},
	{"underscore", regexp.MustCompile(`(\d{4})_(\d{2})_(\d{2})`)},
}

// dateFromFilename scans the filename against the fixed pattern set. The
// first pattern with a calendar-valid match wins.
func dateFromFilename(name string) (time.Time, string, bool) {
	for _, pattern := range filenamePatterns {
		for _, match := range pattern.re.FindAllStringSubmatch(name, -1) {
			if date, ok := validDate(match[1], match[2], match[3]); ok {
				return date, pattern.name, true
			}
		}
	}
	return time.Time{}, "", false
}

func validDate(yearStr, monthStr, dayStr string) (time.Time, bool) {
	year := atoi4(yearStr)
	month := atoi2(monthStr)
	day := atoi2(dayStr)
	if year < 1900 || year > 2100 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != time.Month(month) {
		// Rejects impossible dates like February 31st that roll over.
		return time.Time{}, false
	}
	return date, true
}

func atoi4(s string) int {
	return int(s[0]-'0')*1000 + int(s[1]-'0')*100 + int(s[2]-'0')*10 + int(s[3]-'0')
}

func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}
