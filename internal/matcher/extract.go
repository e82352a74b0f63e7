package matcher

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDatePattern = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)

	// "Jan 15 2025", "January 15, 2025", "15 Jan 2025"
	monthDatePattern = regexp.MustCompile(
		`\b(?:(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})|(\d{1,2})(?:st|nd|rd|th)?\s+(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?,?\s+(\d{4}))\b`)

	clockPattern = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*([ap]m)?\b`)
	hourPattern  = regexp.MustCompile(`\b(\d{1,2})\s*([ap]m)\b`)

	quotedAssignPattern   = regexp.MustCompile(`(\w+)\s*=\s*"([^"]*)"|(\w+)\s*=\s*'([^']*)'`)
	unquotedAssignPattern = regexp.MustCompile(`(\w+)\s*=\s*([\w.@-]+)`)
)

var monthNumbers = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// findDate locates a date mention anywhere in the query and returns it in
// canonical YYYY-MM-DD form. An ISO literal wins over a spelled-out date.
func findDate(query string) (string, bool) {
	if m := isoDatePattern.FindStringSubmatch(query); m != nil {
		return m[1], true
	}

	m := monthDatePattern.FindStringSubmatch(query)
	if m == nil {
		return "", false
	}

	var monthName, dayStr, yearStr string
	if m[1] != "" {
		monthName, dayStr, yearStr = m[1], m[2], m[3]
	} else {
		dayStr, monthName, yearStr = m[4], m[5], m[6]
	}

	month, ok := monthNumbers[strings.ToLower(monthName[:3])]
	if !ok {
		return "", false
	}
	day, _ := strconv.Atoi(dayStr)
	year, _ := strconv.Atoi(yearStr)
	if day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// findTime locates a time-of-day mention and returns it as HH:MM.
func findTime(query string) (string, bool) {
	lower := strings.ToLower(query)

	if m := clockPattern.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		hour = adjustMeridiem(hour, m[3])
		if hour < 24 && minute < 60 {
			return fmt.Sprintf("%02d:%02d", hour, minute), true
		}
	}

	if m := hourPattern.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		hour = adjustMeridiem(hour, m[2])
		if hour < 24 {
			return fmt.Sprintf("%02d:00", hour), true
		}
	}

	return "", false
}

func adjustMeridiem(hour int, meridiem string) int {
	switch meridiem {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}

// extractNamedValue looks for a "name[: ]value" pattern for one declared
// parameter in the raw query.
func extractNamedValue(query, name string) (string, bool) {
	pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `["']?[:=\s]+["']?([\w.-]+)`)
	if err != nil {
		return "", false
	}
	m := pattern.FindStringSubmatch(query)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// extractAssignments collects key=value pairs from the query. Quoted values
// are captured first; unquoted assignments only fill keys not already seen.
func extractAssignments(query string) map[string]string {
	out := make(map[string]string)

	for _, m := range quotedAssignPattern.FindAllStringSubmatch(query, -1) {
		if m[1] != "" {
			out[strings.ToLower(m[1])] = m[2]
		} else {
			out[strings.ToLower(m[3])] = m[4]
		}
	}

	for _, m := range unquotedAssignPattern.FindAllStringSubmatch(query, -1) {
		key := strings.ToLower(m[1])
		if _, seen := out[key]; !seen {
			out[key] = m[2]
		}
	}

	return out
}

// coerceValue converts a raw string to the declared parameter type.
// Unparseable values fall back to the raw string rather than being dropped.
func coerceValue(raw, declaredType string) any {
	switch declaredType {
	case "integer":
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	case "number":
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case "boolean":
		switch strings.ToLower(raw) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
	}
	return raw
}
