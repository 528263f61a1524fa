package main

import (
	"testing"
	"time"
)

func TestValidateYear(t *testing.T) {
	currentYear := time.Now().UTC().Year()

	tests := []struct {
		name    string
		year    int
		wantErr bool
	}{
		{"below data floor", 1999, true},
		{"just below floor", 2004, true},
		{"data floor", 2005, false},
		{"typical year", 2015, false},
		{"current year", currentYear, false},
		{"future year", currentYear + 1, true},
		{"zero", 0, true},
		{"negative", -2015, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateYear(tt.year)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateYear(%d) error = %v, wantErr %v", tt.year, err, tt.wantErr)
			}
		})
	}
}

func TestYearWindow(t *testing.T) {
	start, end := yearWindow(2015)

	wantStart := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	wantEnd := time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()

	if start != wantStart {
		t.Errorf("Expected start %d, got %d", wantStart, start)
	}
	if end != wantEnd {
		t.Errorf("Expected end %d, got %d", wantEnd, end)
	}
	if days := (end - start) / 86400; days != 365 {
		t.Errorf("Expected 2015 to span 365 days, got %d", days)
	}

	// Leap year
	start, end = yearWindow(2016)
	if days := (end - start) / 86400; days != 366 {
		t.Errorf("Expected 2016 to span 366 days, got %d", days)
	}
}

func TestAbsolutePermalink(t *testing.T) {
	tests := []struct {
		name      string
		permalink string
		want      string
	}{
		{"relative", "/r/golang/comments/abc/post/", "https://reddit.com/r/golang/comments/abc/post/"},
		{"already absolute", "https://reddit.com/r/golang/comments/abc/post/", "https://reddit.com/r/golang/comments/abc/post/"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := absolutePermalink(tt.permalink); got != tt.want {
				t.Errorf("absolutePermalink(%q) = %q, want %q", tt.permalink, got, tt.want)
			}
		})
	}
}
