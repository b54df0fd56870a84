package swimtime

import "testing"

func TestParseToMs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "seconds only", input: "20.91", want: 20910},
		{name: "minutes and seconds", input: "1:42.00", want: 102000},
		{name: "long distance", input: "14:30.67", want: 870670},
		{name: "malformed colon separator", input: "1:42:00", want: 102000},
		{name: "hours", input: "1:02:03.50", want: 3723500},
		{name: "empty string", input: "", want: 0},
		{name: "whitespace only", input: "   ", want: 0},
		{name: "garbage", input: "bad", want: 0},
		{name: "garbage minutes", input: "x:30.00", want: 0},
		{name: "surrounding whitespace", input: " 24.56 ", want: 24560},
		{name: "whole seconds", input: "25", want: 25000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseToMs(tt.input); got != tt.want {
				t.Errorf("ParseToMs(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseToMsMalformedEqualsWellFormed(t *testing.T) {
	if ParseToMs("1:42:00") != ParseToMs("1:42.00") {
		t.Errorf("malformed %q should parse the same as %q", "1:42:00", "1:42.00")
	}
}

func TestFormatMs(t *testing.T) {
	tests := []struct {
		name string
		ms   int
		want string
	}{
		{name: "zero means no time", ms: 0, want: ""},
		{name: "negative means no time", ms: -5, want: ""},
		{name: "under a minute", ms: 24560, want: "24.56"},
		{name: "exactly a minute", ms: 60000, want: "1:00.00"},
		{name: "minutes and hundredths", ms: 102000, want: "1:42.00"},
		{name: "long distance", ms: 870670, want: "14:30.67"},
		{name: "sub second", ms: 50, want: "0.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMs(tt.ms); got != tt.want {
				t.Errorf("FormatMs(%d) = %q, want %q", tt.ms, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// Any whole-hundredth time must survive a format/parse cycle.
	for _, ms := range []int{10, 500, 24560, 59990, 60000, 102000, 870670, 3599990, 3600000} {
		formatted := FormatMs(ms)
		if got := ParseToMs(formatted); got != ms {
			t.Errorf("round trip %d -> %q -> %d", ms, formatted, got)
		}
	}
}

func TestIsValidFormat(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"20.91", true},
		{"1:42.00", true},
		{"14:30.67", true},
		{"1:42:00", true},
		{"1:02:03.50", true},
		{"24.5", true},
		{"", false},
		{"   ", false},
		{"abc", false},
		{"1:2.00", false},
		{"24", false},
		{"1:42.000", false},
	}

	for _, tt := range tests {
		if got := IsValidFormat(tt.input); got != tt.want {
			t.Errorf("IsValidFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
