package app

import (
	"context"
	"fmt"
	"time"

	"gopherai-qa/internal/model"
)

const (
	StatsSummary    = "summary"
	StatsToday      = "today"
	StatsTotal      = "total"
	StatsUnanswered = "unanswered"
)

type StatsPolicy struct {
	UnansweredPreview int
	RecentQuestions   int
}

type StatsService struct {
	questions QuestionStore
	answers   AnswerStore
	searches  SearchLogCounter
	policy    StatsPolicy
	now       func() time.Time
}

// NewStatsService builds the stats reader. searches may be nil when the search log is off.
func NewStatsService(stores Stores, searches SearchLogCounter, policy StatsPolicy) *StatsService {
	if policy.UnansweredPreview <= 0 {
		policy.UnansweredPreview = 10
	}
	if policy.RecentQuestions <= 0 {
		policy.RecentQuestions = 5
	}
	return &StatsService{
		questions: stores.Questions,
		answers:   stores.Answers,
		searches:  searches,
		policy:    policy,
		now:       time.Now,
	}
}

type TotalStats struct {
	TotalQuestions int64 `json:"total_questions"`
	TotalAnswers   int64 `json:"total_answers"`
}

type TodayStats struct {
	TodayQuestions int64 `json:"today_questions"`
	TodayAnswers   int64 `json:"today_answers"`
}

type UnansweredStats struct {
	UnansweredCount     int64            `json:"unanswered_count"`
	UnansweredQuestions []model.Question `json:"unanswered_questions"`
}

type SummaryStats struct {
	TotalStats
	TodayStats
	UnansweredStats
	RecentQuestions []model.Question `json:"recent_questions"`
	TotalSearches   *int64           `json:"total_searches,omitempty"`
}

// Get returns the stats block selected by typ; an empty typ means summary.
func (s *StatsService) Get(ctx context.Context, typ string) (interface{}, error) {
	switch typ {
	case "", StatsSummary:
		return s.Summary(ctx)
	case StatsToday:
		return s.Today(ctx)
	case StatsTotal:
		return s.Totals(ctx)
	case StatsUnanswered:
		return s.Unanswered(ctx)
	default:
		return nil, fmt.Errorf("%w: %q (expected summary, today, total or unanswered)", ErrInvalidStatsType, typ)
	}
}

func (s *StatsService) Totals(ctx context.Context) (*TotalStats, error) {
	questions, err := s.questions.Count(ctx)
	if err != nil {
		return nil, err
	}
	answers, err := s.answers.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &TotalStats{TotalQuestions: questions, TotalAnswers: answers}, nil
}

func (s *StatsService) Today(ctx context.Context) (*TodayStats, error) {
	since := startOfDay(s.now())
	questions, err := s.questions.CountSince(ctx, since)
	if err != nil {
		return nil, err
	}
	answers, err := s.answers.CountSince(ctx, since)
	if err != nil {
		return nil, err
	}
	return &TodayStats{TodayQuestions: questions, TodayAnswers: answers}, nil
}

func (s *StatsService) Unanswered(ctx context.Context) (*UnansweredStats, error) {
	preview, count, err := s.questions.ListUnanswered(ctx, s.policy.UnansweredPreview)
	if err != nil {
		return nil, err
	}
	if preview == nil {
		preview = []model.Question{}
	}
	return &UnansweredStats{UnansweredCount: count, UnansweredQuestions: preview}, nil
}

func (s *StatsService) Summary(ctx context.Context) (*SummaryStats, error) {
	totals, err := s.Totals(ctx)
	if err != nil {
		return nil, err
	}
	today, err := s.Today(ctx)
	if err != nil {
		return nil, err
	}
	unanswered, err := s.Unanswered(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.questions.ListNewestFirst(ctx, s.policy.RecentQuestions)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []model.Question{}
	}

	summary := &SummaryStats{
		TotalStats:      *totals,
		TodayStats:      *today,
		UnansweredStats: *unanswered,
		RecentQuestions: recent,
	}
	if s.searches != nil {
		searches, err := s.searches.Count(ctx)
		if err != nil {
			return nil, err
		}
		summary.TotalSearches = &searches
	}
	return summary, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
