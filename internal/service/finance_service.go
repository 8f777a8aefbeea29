package service

import (
	"context"
	"fmt"
	"mcjmccartney/practice-app/internal/domain"
	"mcjmccartney/practice-app/internal/repository"
	"time"
)

// FinanceSummary aggregates completed-session revenue over a date range.
type FinanceSummary struct {
	From         string                         `json:"from"`
	To           string                         `json:"to"`
	Total        float64                        `json:"total"`
	SessionCount int                            `json:"sessionCount"`
	ByMonth      map[string]float64             `json:"byMonth"` // "YYYY-MM" -> revenue
	ByType       map[domain.SessionType]float64 `json:"byType"`
}

// --- Service Interface ---
type FinanceService interface {
	Summary(ctx context.Context, from, to string) (*FinanceSummary, error)
}

// --- Service Implementation ---

type financeService struct {
	sessionRepo repository.SessionRepository
}

// NewFinanceService creates a new instance of financeService.
func NewFinanceService(sessionRepo repository.SessionRepository) FinanceService {
	return &financeService{sessionRepo: sessionRepo}
}

// Summary folds the Completed sessions in [from, to] into revenue totals.
// Sessions without an amount count toward SessionCount but add nothing.
func (s *financeService) Summary(ctx context.Context, from, to string) (*FinanceSummary, error) {
	if _, err := time.Parse(domain.DateLayout, from); err != nil {
		return nil, fmt.Errorf("%w: from date %q is not in YYYY-MM-DD format", ErrValidation, from)
	}
	if _, err := time.Parse(domain.DateLayout, to); err != nil {
		return nil, fmt.Errorf("%w: to date %q is not in YYYY-MM-DD format", ErrValidation, to)
	}
	if from > to {
		return nil, fmt.Errorf("%w: from date is after to date", ErrValidation)
	}

	sessions, err := s.sessionRepo.ListCompletedInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	summary := &FinanceSummary{
		From:    from,
		To:      to,
		ByMonth: make(map[string]float64),
		ByType:  make(map[domain.SessionType]float64),
	}
	for i := range sessions {
		sess := &sessions[i]
		summary.SessionCount++
		if sess.Amount == nil {
			continue
		}
		summary.Total += *sess.Amount
		if len(sess.Date) >= 7 {
			summary.ByMonth[sess.Date[:7]] += *sess.Amount
		}
		summary.ByType[sess.SessionType] += *sess.Amount
	}

	return summary, nil
}
