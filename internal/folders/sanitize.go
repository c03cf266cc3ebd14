package folders

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// reservedNames are device names Windows refuses as path segments. The vault
// avoids them even on Linux so a synced copy stays portable.
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

const segmentReplacement = "_"

// SanitizeSegment makes a string safe to use as a single path segment. The
// result is NFC-normalized, free of separator and control characters, never
// a reserved device name, and never empty.
func SanitizeSegment(segment string) string {
	segment = norm.NFC.String(segment)

	var b strings.Builder
	b.Grow(len(segment))
	for _, r := range segment {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|':
			b.WriteString(segmentReplacement)
		case r < 0x20 || r == 0x7f:
			b.WriteString(segmentReplacement)
		default:
			b.WriteRune(r)
		}
	}

	out := strings.Trim(b.String(), " .")
	if out == "" {
		return "unnamed"
	}
	base := out
	if i := strings.IndexByte(out, '.'); i >= 0 {
		base = out[:i]
	}
	if _, reserved := reservedNames[strings.ToUpper(base)]; reserved {
		return segmentReplacement + out
	}
	return out
}
