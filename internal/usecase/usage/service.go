package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/tagrank/internal/domain/usage"
)

// Service reports classifier token usage.
type Service struct {
	br       BudgetReader
	provider string
	now      func() time.Time
}

// New creates a Service. br can be nil when no paid classifier is tracked;
// reports are then empty and unlimited.
func New(br BudgetReader, provider string) *Service {
	return &Service{br: br, provider: provider, now: time.Now}
}

// GetReport builds a usage report for the window of period containing now.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	start, end := period.Bounds(s.now())
	if s.br == nil {
		return domusage.NewReport(period, start, end, s.provider, 0, 0, 0)
	}

	if period == domusage.PeriodMonth {
		return domusage.NewReport(period, start, end, s.provider,
			s.br.MonthlyUsed(), s.br.MonthlyLimit(), s.br.RemainingMonthly())
	}
	return domusage.NewReport(period, start, end, s.provider,
		s.br.DailyUsed(), s.br.DailyLimit(), s.br.RemainingDaily())
}
