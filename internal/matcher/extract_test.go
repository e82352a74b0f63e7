package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindDate(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected string
		found    bool
	}{
		{"iso literal", "book for 2025-01-15 please", "2025-01-15", true},
		{"month day year", "book for Jan 15 2025", "2025-01-15", true},
		{"full month with comma", "book for January 15, 2025", "2025-01-15", true},
		{"ordinal day", "book for March 3rd, 2026", "2026-03-03", true},
		{"day month year", "book for 15 Jan 2025", "2025-01-15", true},
		{"iso wins over spelled out", "Jan 1 2024 or 2025-06-30", "2025-06-30", true},
		{"no date", "book an appointment", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := findDate(tt.query)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFindTime(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected string
		found    bool
	}{
		{"24h clock", "at 14:30", "14:30", true},
		{"12h clock pm", "at 2:30pm", "14:30", true},
		{"12h clock am", "at 9:15 am", "09:15", true},
		{"bare hour pm", "around 2pm", "14:00", true},
		{"noon", "12pm sharp", "12:00", true},
		{"midnight", "12am sharp", "00:00", true},
		{"no time", "tomorrow sometime", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := findTime(tt.query)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractAssignments(t *testing.T) {
	got := extractAssignments(`name="John Smith" email=john@example.com age=3 name=ignored`)

	assert.Equal(t, map[string]string{
		"name":  "John Smith", // quoted capture wins over the later unquoted one
		"email": "john@example.com",
		"age":   "3",
	}, got)
}

func TestExtractNamedValue(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		param    string
		expected string
		found    bool
	}{
		{"colon separator", "get garage garage_id: 42", "garage_id", "42", true},
		{"space separator", "get pets limit 10", "limit", "10", true},
		{"equals separator", "garage_id=123", "garage_id", "123", true},
		{"decimal value", "price=99.99", "price", "99.99", true},
		{"absent", "get pets", "limit", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractNamedValue(tt.query, tt.param)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCoerceValue(t *testing.T) {
	assert.Equal(t, 123, coerceValue("123", "integer"))
	assert.Equal(t, 99.99, coerceValue("99.99", "number"))
	assert.Equal(t, true, coerceValue("true", "boolean"))
	assert.Equal(t, false, coerceValue("no", "boolean"))
	assert.Equal(t, "hello", coerceValue("hello", "string"))
	// Unparseable values keep the raw string instead of being dropped.
	assert.Equal(t, "abc", coerceValue("abc", "integer"))
}

func TestLookupVocab(t *testing.T) {
	query := `Book an oil change at Joe's Garage for customer Jane Doe, email jane@example.com, phone 555-123-4567`
	got := lookupVocab(query, defaultVocab)

	assert.Equal(t, "Jane Doe", got["name"])
	assert.Equal(t, "jane@example.com", got["email"])
	assert.Equal(t, "555-123-4567", got["phone"])
	assert.Equal(t, "oil change", got["service"])
}

func TestMatchProperty(t *testing.T) {
	captured := map[string]string{"name": "Jane Doe", "garage": "Joe's Garage"}

	v, ok := matchProperty("customer_name", captured)
	assert.True(t, ok)
	assert.Equal(t, "Jane Doe", v)

	// garage_name matches both "garage" and "name"; the longer canonical wins.
	v, ok = matchProperty("garage_name", captured)
	assert.True(t, ok)
	assert.Equal(t, "Joe's Garage", v)

	_, ok = matchProperty("vin", captured)
	assert.False(t, ok)
}
