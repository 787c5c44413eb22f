package app

import (
	"context"

	"gopherai-qa/internal/model"
)

type DocumentService struct {
	chunks ChunkStore
}

func NewDocumentService(stores Stores) *DocumentService {
	return &DocumentService{chunks: stores.Chunks}
}

// ListSources returns every uploaded filename with its chunk count.
func (s *DocumentService) ListSources(ctx context.Context) ([]model.SourceSummary, error) {
	sources, err := s.chunks.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	if sources == nil {
		sources = []model.SourceSummary{}
	}
	return sources, nil
}
