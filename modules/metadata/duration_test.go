package metadata

import (
	"testing"
)

func TestParseISO8601Duration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantOK  bool
	}{
		{name: "hours minutes seconds", input: "PT1H2M10S", want: 3730, wantOK: true},
		{name: "minutes seconds", input: "PT3M25S", want: 205, wantOK: true},
		{name: "seconds only", input: "PT45S", want: 45, wantOK: true},
		{name: "hours only", input: "PT2H", want: 7200, wantOK: true},
		{name: "minutes only", input: "PT10M", want: 600, wantOK: true},
		{name: "empty duration", input: "PT", wantOK: false},
		{name: "empty string", input: "", wantOK: false},
		{name: "garbage", input: "1h2m", wantOK: false},
		{name: "date component unsupported", input: "P1DT2H", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseISO8601Duration(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseISO8601Duration(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseISO8601Duration(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDurationSeconds(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{45, "0:45"},
		{205, "3:25"},
		{600, "10:00"},
		{3730, "1:02:10"},
		{7200, "2:00:00"},
		{-5, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatDurationSeconds(tt.seconds); got != tt.want {
			t.Errorf("FormatDurationSeconds(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
