package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// DocumentChunk is one window of text extracted from an uploaded document.
// ChunkIndex is zero-based within SourceFilename; re-uploading the same file
// produces a second, independent set of chunks.
type DocumentChunk struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SourceFilename string          `gorm:"type:text;not null;index" json:"source_filename"`
	ChunkIndex     int             `gorm:"not null" json:"chunk_index"`
	Content        string          `gorm:"type:text;not null" json:"content"`
	Embedding      pgvector.Vector `gorm:"type:vector(3072);not null" json:"-"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}

type ChunkMatch struct {
	Chunk    DocumentChunk
	Distance float64
}

// SourceSummary describes one uploaded filename and how many chunks it holds.
type SourceSummary struct {
	SourceFilename string    `json:"source_filename"`
	Chunks         int64     `json:"chunks"`
	LastUploadedAt time.Time `json:"last_uploaded_at"`
}
