package model

import "time"

// SearchLog records the outcome of one /search request.
type SearchLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Query        string    `gorm:"type:text;not null" json:"query"`
	Source       string    `gorm:"size:16;index" json:"source"`
	Found        bool      `gorm:"not null;index" json:"found"`
	BestDistance *float64  `json:"best_distance,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (SearchLog) TableName() string {
	return "search_logs"
}
