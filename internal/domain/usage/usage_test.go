package usage

import (
	"testing"
	"time"
)

func TestNewReport(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	r := NewReport(PeriodMonth, start, end, "openai", 384200, 1000000, 615800)

	if r.Period() != PeriodMonth || r.Provider() != "openai" {
		t.Errorf("period=%q provider=%q", r.Period(), r.Provider())
	}
	if !r.Start().Equal(start) || !r.ResetsAt().Equal(end) {
		t.Errorf("window = %v..%v", r.Start(), r.ResetsAt())
	}
	if r.Used() != 384200 || r.Limit() != 1000000 || r.Remaining() != 615800 {
		t.Errorf("used=%d limit=%d remaining=%d", r.Used(), r.Limit(), r.Remaining())
	}
	if r.Unlimited() || r.Exhausted() {
		t.Error("expected a capped, open budget")
	}
}

func TestNewReport_Unlimited(t *testing.T) {
	r := NewReport(PeriodDay, time.Time{}, time.Time{}, "openai", 10, 0, 123)
	if !r.Unlimited() || r.Remaining() != -1 || r.Exhausted() {
		t.Errorf("limit=%d remaining=%d", r.Limit(), r.Remaining())
	}
}

func TestNewReport_Exhausted(t *testing.T) {
	r := NewReport(PeriodDay, time.Time{}, time.Time{}, "openai", 500, 500, 0)
	if !r.Exhausted() {
		t.Error("expected exhausted")
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"", PeriodDay, false},
		{"day", PeriodDay, false},
		{"month", PeriodMonth, false},
		{"total", "", true},
	}
	for _, tc := range tests {
		got, err := ParsePeriod(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParsePeriod(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestPeriod_Bounds(t *testing.T) {
	at := time.Date(2026, 12, 31, 15, 4, 5, 0, time.FixedZone("ART", -3*3600))

	start, end := PeriodDay.Bounds(at)
	if !start.Equal(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)) || !end.Equal(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day = %v..%v", start, end)
	}

	start, end = PeriodMonth.Bounds(at)
	if !start.Equal(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)) || !end.Equal(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month = %v..%v", start, end)
	}
}
