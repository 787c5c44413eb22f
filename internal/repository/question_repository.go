package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"gopherai-qa/internal/model"
)

// questionColumns leaves out the embedding so listings do not ship 3072 floats per row.
var questionColumns = []string{"id", "content", "created_at"}

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Create(ctx context.Context, question *model.Question) error {
	if err := r.db.WithContext(ctx).Omit("Answers").Create(question).Error; err != nil {
		return fmt.Errorf("create question failed: %w", err)
	}
	return nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	var question model.Question
	err := r.db.WithContext(ctx).Select(questionColumns).Where("id = ?", id).First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get question failed: %w", err)
	}
	return &question, nil
}

// ListNewestFirst lists questions by creation time descending; limit <= 0 means all.
func (r *QuestionRepository) ListNewestFirst(ctx context.Context, limit int) ([]model.Question, error) {
	q := r.db.WithContext(ctx).Select(questionColumns).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var questions []model.Question
	if err := q.Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("list questions failed: %w", err)
	}
	return questions, nil
}

type questionDistanceRow struct {
	ID        uuid.UUID
	Content   string
	CreatedAt time.Time
	Distance  float64
}

// Nearest returns the closest question by cosine distance, or nil when the table is empty.
func (r *QuestionRepository) Nearest(ctx context.Context, embedding []float32) (*model.QuestionMatch, error) {
	var rows []questionDistanceRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, content, created_at, embedding <=> ? AS distance
		 FROM questions
		 ORDER BY distance ASC
		 LIMIT 1`,
		pgvector.NewVector(embedding),
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("nearest question failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	return &model.QuestionMatch{
		Question: model.Question{ID: row.ID, Content: row.Content, CreatedAt: row.CreatedAt},
		Distance: row.Distance,
	}, nil
}

// Delete removes the question; the answers foreign key cascades.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Question{})
	if res.Error != nil {
		return false, fmt.Errorf("delete question failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Question{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count questions failed: %w", err)
	}
	return n, nil
}

func (r *QuestionRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Question{}).Where("created_at >= ?", since).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count questions since failed: %w", err)
	}
	return n, nil
}

// ListUnanswered returns up to limit questions without answers, newest first, and the total count.
func (r *QuestionRepository) ListUnanswered(ctx context.Context, limit int) ([]model.Question, int64, error) {
	unanswered := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Question{}).
			Where("NOT EXISTS (SELECT 1 FROM answers WHERE answers.question_id = questions.id)")
	}

	var total int64
	if err := unanswered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count unanswered questions failed: %w", err)
	}

	var questions []model.Question
	q := unanswered().Select(questionColumns).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&questions).Error; err != nil {
		return nil, 0, fmt.Errorf("list unanswered questions failed: %w", err)
	}
	return questions, total, nil
}
