package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"gopherai-qa/internal/model"
)

type SearchLogRepository struct {
	db *gorm.DB
}

func NewSearchLogRepository(db *gorm.DB) *SearchLogRepository {
	return &SearchLogRepository{db: db}
}

func (r *SearchLogRepository) Create(ctx context.Context, entry *model.SearchLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create search log failed: %w", err)
	}
	return nil
}

func (r *SearchLogRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.SearchLog{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count search logs failed: %w", err)
	}
	return n, nil
}

// Publish writes the entry synchronously; used when no broker is configured.
func (r *SearchLogRepository) Publish(ctx context.Context, entry model.SearchLog) error {
	return r.Create(ctx, &entry)
}
