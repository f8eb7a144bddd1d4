package utils

import (
	"testing"
	"time"
)

func TestValidClockTime(t *testing.T) {
	valid := []string{"00:00", "09:00", "23:59"}
	for _, value := range valid {
		if !ValidClockTime(value) {
			t.Errorf("expected %q to be valid", value)
		}
	}

	invalid := []string{"", "24:00", "9:00:00", "noon", "12:60"}
	for _, value := range invalid {
		if ValidClockTime(value) {
			t.Errorf("expected %q to be invalid", value)
		}
	}
}

func TestClockMinutes(t *testing.T) {
	mins, err := ClockMinutes("09:30")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if mins != 570 {
		t.Errorf("Expected 570 minutes, got %d", mins)
	}

	if _, err := ClockMinutes("25:00"); err == nil {
		t.Errorf("Expected error for out-of-range hour")
	}
}

func TestClockRangeValid(t *testing.T) {
	if !ClockRangeValid("09:00", "10:00") {
		t.Errorf("Expected valid range")
	}
	if ClockRangeValid("10:00", "10:00") {
		t.Errorf("Expected equal times to be invalid")
	}
	if ClockRangeValid("11:00", "10:00") {
		t.Errorf("Expected reversed range to be invalid")
	}
	if ClockRangeValid("bad", "10:00") {
		t.Errorf("Expected malformed start to be invalid")
	}
}

func TestDateOnly(t *testing.T) {
	stamp := time.Date(2025, 1, 6, 14, 45, 30, 12, time.UTC)
	date := DateOnly(stamp)
	if !date.Equal(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected midnight, got %v", date)
	}
}
