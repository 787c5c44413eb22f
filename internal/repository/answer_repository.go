package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gopherai-qa/internal/model"
)

type AnswerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

func (r *AnswerRepository) Create(ctx context.Context, answer *model.Answer) error {
	if err := r.db.WithContext(ctx).Create(answer).Error; err != nil {
		return fmt.Errorf("create answer failed: %w", err)
	}
	return nil
}

func (r *AnswerRepository) ListByQuestionID(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error) {
	var answers []model.Answer
	if err := r.db.WithContext(ctx).Where("question_id = ?", questionID).Order("created_at ASC").Find(&answers).Error; err != nil {
		return nil, fmt.Errorf("list answers failed: %w", err)
	}
	return answers, nil
}

func (r *AnswerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Answer{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count answers failed: %w", err)
	}
	return n, nil
}

func (r *AnswerRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Answer{}).Where("created_at >= ?", since).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count answers since failed: %w", err)
	}
	return n, nil
}
