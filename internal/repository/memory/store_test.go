package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopherai-qa/internal/model"
)

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0.0, CosineDistance([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 1.0, CosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 2.0, CosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 1.0, CosineDistance([]float32{0, 0}, []float32{1, 0}))
}

func TestQuestionNearestAndCascadeDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	questions, answers := store.Questions(), store.Answers()

	match, err := questions.Nearest(ctx, []float32{1, 0})
	require.NoError(t, err)
	assert.Nil(t, match)

	near := &model.Question{Content: "near", Embedding: pgvector.NewVector([]float32{1, 0.1})}
	far := &model.Question{Content: "far", Embedding: pgvector.NewVector([]float32{0, 1})}
	require.NoError(t, questions.Create(ctx, near))
	require.NoError(t, questions.Create(ctx, far))
	require.NoError(t, answers.Create(ctx, &model.Answer{QuestionID: near.ID, Content: "a"}))

	match, err = questions.Nearest(ctx, []float32{1, 0})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "near", match.Question.Content)
	assert.Less(t, match.Distance, 0.01)

	unanswered, total, err := questions.ListUnanswered(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, unanswered, 1)
	assert.Equal(t, far.ID, unanswered[0].ID)

	deleted, err := questions.Delete(ctx, near.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	n, err := answers.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	deleted, err = questions.Delete(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListNewestFirstAndCountSince(t *testing.T) {
	ctx := context.Background()
	questions := NewStore().Questions()
	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, questions.Create(ctx, &model.Question{
			Content:   content,
			Embedding: pgvector.NewVector([]float32{1}),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	list, err := questions.ListNewestFirst(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "third", list[0].Content)
	assert.Equal(t, "second", list[1].Content)

	n, err := questions.CountSince(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestChunkNearestAndSources(t *testing.T) {
	ctx := context.Background()
	chunks := NewStore().Chunks()
	vectors := [][]float32{{1, 0}, {0.9, 0.1}, {0, 1}, {0.5, 0.5}}
	for i, v := range vectors {
		require.NoError(t, chunks.Create(ctx, &model.DocumentChunk{
			SourceFilename: "guide.pdf",
			ChunkIndex:     i,
			Content:        "chunk",
			Embedding:      pgvector.NewVector(v),
		}))
	}
	require.NoError(t, chunks.Create(ctx, &model.DocumentChunk{
		SourceFilename: "other.pdf",
		Embedding:      pgvector.NewVector([]float32{-1, 0}),
	}))

	matches, err := chunks.Nearest(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, 0, matches[0].Chunk.ChunkIndex)
	assert.Equal(t, 1, matches[1].Chunk.ChunkIndex)
	assert.Equal(t, 3, matches[2].Chunk.ChunkIndex)
	assert.LessOrEqual(t, matches[0].Distance, matches[1].Distance)

	sources, err := chunks.ListSources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	counts := map[string]int64{}
	for _, s := range sources {
		counts[s.SourceFilename] = s.Chunks
	}
	assert.Equal(t, int64(4), counts["guide.pdf"])
	assert.Equal(t, int64(1), counts["other.pdf"])
}
