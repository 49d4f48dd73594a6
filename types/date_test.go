package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSONRoundTrip(t *testing.T) {
	date, err := ParseDate("2099-01-01")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}

	data, err := json.Marshal(date)
	if err != nil {
		t.Fatalf("marshal date: %v", err)
	}
	if string(data) != `"2099-01-01"` {
		t.Fatalf("unexpected JSON: %s", data)
	}

	var decoded Date
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal date: %v", err)
	}
	if decoded != date {
		t.Fatalf("round trip mismatch: %v != %v", decoded, date)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-date", "2024-13-01", "01/02/2024"} {
		if _, err := ParseDate(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestDateScanFromTime(t *testing.T) {
	var date Date
	if err := date.Scan(time.Date(2025, time.March, 9, 23, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if date.String() != "2025-03-09" {
		t.Fatalf("unexpected date: %s", date)
	}
}

func TestDaysUntil(t *testing.T) {
	today := NewDate(2025, time.June, 1)

	if got := today.DaysUntil(NewDate(2025, time.June, 11)); got != 10 {
		t.Fatalf("expected 10 days, got %d", got)
	}
	if got := today.DaysUntil(NewDate(2025, time.May, 31)); got != -1 {
		t.Fatalf("expected -1 days, got %d", got)
	}
	if got := today.DaysUntil(today); got != 0 {
		t.Fatalf("expected 0 days, got %d", got)
	}
}
