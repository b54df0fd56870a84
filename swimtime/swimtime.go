// Package swimtime converts between human swim time notation and a
// canonical millisecond representation.
package swimtime

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Trailing ":NN" is a malformed decimal separator, e.g. "1:42:00" meaning "1:42.00".
var malformedTail = regexp.MustCompile(`:(\d{2})$`)

var validPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,2}\.\d{1,2}$`),         // SS.hh
	regexp.MustCompile(`^\d{1,2}:\d{2}\.\d{1,2}$`),   // M:SS.hh or MM:SS.hh
	regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}$`),      // malformed M:SS:hh
	regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}\.\d{1,2}$`), // H:MM:SS.hh
}

// ParseToMs parses a time string into milliseconds.
// Handles "20.91", "1:42.00", "14:30.67" and the malformed "1:42:00".
// Returns 0 for empty or unparseable input; the zero value means "no time".
func ParseToMs(input string) int {
	cleaned := strings.TrimSpace(input)
	if cleaned == "" {
		return 0
	}

	normalized := malformedTail.ReplaceAllString(cleaned, ".$1")
	parts := strings.Split(normalized, ":")

	switch len(parts) {
	case 1:
		seconds, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0
		}
		return int(math.Round(seconds * 1000))
	case 2:
		minutes, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0
		}
		seconds, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0
		}
		return int(math.Round((float64(minutes)*60 + seconds) * 1000))
	case 3:
		hours, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0
		}
		seconds, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return 0
		}
		return int(math.Round((float64(hours)*3600 + float64(minutes)*60 + seconds) * 1000))
	}

	return 0
}

// FormatMs formats milliseconds as "SS.hh" under a minute, "M:SS.hh" otherwise.
// Non-positive input returns the empty string ("no time").
func FormatMs(ms int) string {
	if ms <= 0 {
		return ""
	}

	centis := (ms + 5) / 10 // round to hundredths
	minutes := centis / 6000
	remainder := centis % 6000
	seconds := remainder / 100
	hundredths := remainder % 100

	if minutes == 0 {
		return fmt.Sprintf("%d.%02d", seconds, hundredths)
	}
	return fmt.Sprintf("%d:%02d.%02d", minutes, seconds, hundredths)
}

// IsValidFormat reports whether the string looks like an acceptable time
// entry, including the tolerated malformed "M:SS:hh" form.
func IsValidFormat(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false
	}
	for _, pattern := range validPatterns {
		if pattern.MatchString(trimmed) {
			return true
		}
	}
	return false
}
