package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions is the vector width produced by the embedding model
// and fixed in the vector(3072) columns.
const EmbeddingDimensions = 3072

type Question struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Content   string          `gorm:"type:text;not null" json:"content"`
	Embedding pgvector.Vector `gorm:"type:vector(3072);not null" json:"-"`
	CreatedAt time.Time       `gorm:"not null;index" json:"created_at"`

	Answers []Answer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionMatch is the nearest stored question for a query vector.
type QuestionMatch struct {
	Question Question
	Distance float64
}
