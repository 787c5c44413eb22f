package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gopherai-qa/internal/ai"
	"gopherai-qa/internal/model"
)

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Completer runs one blocking chat completion.
type Completer interface {
	Complete(ctx context.Context, messages []ai.ChatMessage) (string, error)
}

// QuestionStore persists questions. Getters return (nil, nil) when the row is missing.
type QuestionStore interface {
	Create(ctx context.Context, question *model.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	ListNewestFirst(ctx context.Context, limit int) ([]model.Question, error)
	Nearest(ctx context.Context, embedding []float32) (*model.QuestionMatch, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	ListUnanswered(ctx context.Context, limit int) ([]model.Question, int64, error)
}

type AnswerStore interface {
	Create(ctx context.Context, answer *model.Answer) error
	ListByQuestionID(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error)
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type ChunkStore interface {
	Create(ctx context.Context, chunk *model.DocumentChunk) error
	Nearest(ctx context.Context, embedding []float32, k int) ([]model.ChunkMatch, error)
	Count(ctx context.Context) (int64, error)
	ListSources(ctx context.Context) ([]model.SourceSummary, error)
}

// Stores groups the three tables behind one process-scoped handle.
type Stores struct {
	Questions QuestionStore
	Answers   AnswerStore
	Chunks    ChunkStore
}

type SearchLogPublisher interface {
	Publish(ctx context.Context, entry model.SearchLog) error
}

type SearchLogCounter interface {
	Count(ctx context.Context) (int64, error)
}
