//go:build !linux

package dates

import "time"

// birthTime is unavailable on this platform; the cascade level is skipped.
func birthTime(string) (time.Time, bool) {
	return time.Time{}, false
}
