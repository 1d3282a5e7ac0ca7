package usage

import (
	"context"
	"testing"
	"time"

	domusage "github.com/kailas-cloud/tagrank/internal/domain/usage"
)

// --- Mock ---

type mockBudgetReader struct {
	dailyLimit       int64
	monthlyLimit     int64
	dailyUsed        int64
	monthlyUsed      int64
	remainingDaily   int64
	remainingMonthly int64
}

func (m *mockBudgetReader) DailyLimit() int64       { return m.dailyLimit }
func (m *mockBudgetReader) MonthlyLimit() int64     { return m.monthlyLimit }
func (m *mockBudgetReader) DailyUsed() int64        { return m.dailyUsed }
func (m *mockBudgetReader) MonthlyUsed() int64      { return m.monthlyUsed }
func (m *mockBudgetReader) RemainingDaily() int64   { return m.remainingDaily }
func (m *mockBudgetReader) RemainingMonthly() int64 { return m.remainingMonthly }

func fixedNow(svc *Service) {
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 13, 0, 0, 0, time.UTC) }
}

// --- Tests ---

func TestGetReport_DailyPeriod(t *testing.T) {
	br := &mockBudgetReader{
		dailyLimit: 10000, dailyUsed: 3000, remainingDaily: 7000,
		monthlyLimit: 100000, monthlyUsed: 50000, remainingMonthly: 50000,
	}
	svc := New(br, "openai")
	fixedNow(svc)

	r := svc.GetReport(context.Background(), domusage.PeriodDay)

	if r.Period() != domusage.PeriodDay || r.Provider() != "openai" {
		t.Errorf("period=%q provider=%q", r.Period(), r.Provider())
	}
	if want := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC); !r.Start().Equal(want) {
		t.Errorf("start = %v", r.Start())
	}
	if want := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC); !r.ResetsAt().Equal(want) {
		t.Errorf("resets at = %v", r.ResetsAt())
	}
	if r.Used() != 3000 || r.Limit() != 10000 || r.Remaining() != 7000 {
		t.Errorf("used=%d limit=%d remaining=%d", r.Used(), r.Limit(), r.Remaining())
	}
}

func TestGetReport_MonthlyPeriod(t *testing.T) {
	br := &mockBudgetReader{
		dailyLimit: 10000, dailyUsed: 3000, remainingDaily: 7000,
		monthlyLimit: 100000, monthlyUsed: 100000, remainingMonthly: 0,
	}
	svc := New(br, "openai")
	fixedNow(svc)

	r := svc.GetReport(context.Background(), domusage.PeriodMonth)

	if want := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC); !r.ResetsAt().Equal(want) {
		t.Errorf("resets at = %v", r.ResetsAt())
	}
	if r.Used() != 100000 || !r.Exhausted() {
		t.Errorf("used=%d exhausted=%v", r.Used(), r.Exhausted())
	}
}

func TestGetReport_UnlimitedBudget(t *testing.T) {
	br := &mockBudgetReader{dailyUsed: 42, remainingDaily: -1}
	r := New(br, "openai").GetReport(context.Background(), domusage.PeriodDay)

	if !r.Unlimited() || r.Used() != 42 || r.Remaining() != -1 {
		t.Errorf("limit=%d used=%d remaining=%d", r.Limit(), r.Used(), r.Remaining())
	}
}

func TestGetReport_NoTracker(t *testing.T) {
	r := New(nil, "keyword").GetReport(context.Background(), domusage.PeriodMonth)

	if r.Used() != 0 || !r.Unlimited() || r.Exhausted() {
		t.Errorf("used=%d limit=%d", r.Used(), r.Limit())
	}
	if r.Provider() != "keyword" {
		t.Errorf("provider = %q", r.Provider())
	}
}
