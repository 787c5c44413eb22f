package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"gopherai-qa/internal/model"
)

type DocumentChunkRepository struct {
	db *gorm.DB
}

func NewDocumentChunkRepository(db *gorm.DB) *DocumentChunkRepository {
	return &DocumentChunkRepository{db: db}
}

func (r *DocumentChunkRepository) Create(ctx context.Context, chunk *model.DocumentChunk) error {
	if err := r.db.WithContext(ctx).Create(chunk).Error; err != nil {
		return fmt.Errorf("create document chunk failed: %w", err)
	}
	return nil
}

type chunkDistanceRow struct {
	ID             uuid.UUID
	SourceFilename string
	ChunkIndex     int
	Content        string
	CreatedAt      time.Time
	Distance       float64
}

// Nearest returns up to k chunks ordered by ascending cosine distance.
func (r *DocumentChunkRepository) Nearest(ctx context.Context, embedding []float32, k int) ([]model.ChunkMatch, error) {
	if k <= 0 {
		return nil, nil
	}
	var rows []chunkDistanceRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, source_filename, chunk_index, content, created_at, embedding <=> ? AS distance
		 FROM document_chunks
		 ORDER BY distance ASC
		 LIMIT ?`,
		pgvector.NewVector(embedding), k,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("nearest document chunks failed: %w", err)
	}

	matches := make([]model.ChunkMatch, len(rows))
	for i, row := range rows {
		matches[i] = model.ChunkMatch{
			Chunk: model.DocumentChunk{
				ID:             row.ID,
				SourceFilename: row.SourceFilename,
				ChunkIndex:     row.ChunkIndex,
				Content:        row.Content,
				CreatedAt:      row.CreatedAt,
			},
			Distance: row.Distance,
		}
	}
	return matches, nil
}

func (r *DocumentChunkRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.DocumentChunk{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count document chunks failed: %w", err)
	}
	return n, nil
}

func (r *DocumentChunkRepository) ListSources(ctx context.Context) ([]model.SourceSummary, error) {
	var sources []model.SourceSummary
	err := r.db.WithContext(ctx).Model(&model.DocumentChunk{}).
		Select("source_filename, COUNT(*) AS chunks, MAX(created_at) AS last_uploaded_at").
		Group("source_filename").
		Order("last_uploaded_at DESC").
		Scan(&sources).Error
	if err != nil {
		return nil, fmt.Errorf("list document sources failed: %w", err)
	}
	return sources, nil
}
