package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gopherai-qa/internal/model"
)

// openTestDB connects to TEST_POSTGRES_DSN and resets the tables. The database
// must have the vector extension available.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error)
	require.NoError(t, db.Migrator().DropTable(&model.Answer{}, &model.Question{}, &model.DocumentChunk{}, &model.SearchLog{}))
	require.NoError(t, db.AutoMigrate(&model.Question{}, &model.Answer{}, &model.DocumentChunk{}, &model.SearchLog{}))
	return db
}

func unitVector(axis int) pgvector.Vector {
	v := make([]float32, model.EmbeddingDimensions)
	v[axis] = 1
	return pgvector.NewVector(v)
}

func TestQuestionRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	questions := NewQuestionRepository(db)
	answers := NewAnswerRepository(db)

	q := &model.Question{ID: uuid.New(), Content: "What is pgvector?", Embedding: unitVector(0)}
	require.NoError(t, questions.Create(ctx, q))
	require.NoError(t, answers.Create(ctx, &model.Answer{ID: uuid.New(), QuestionID: q.ID, Content: "A Postgres extension."}))

	got, err := questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, q.Content, got.Content)

	missing, err := questions.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	match, err := questions.Nearest(ctx, unitVector(0).Slice())
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, q.ID, match.Question.ID)
	assert.InDelta(t, 0.0, match.Distance, 1e-6)

	_, total, err := questions.ListUnanswered(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, total)

	deleted, err := questions.Delete(ctx, q.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	n, err := answers.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "answers cascade with their question")
}

func TestDocumentChunkRepositoryNearest(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	chunks := NewDocumentChunkRepository(db)

	for i := 0; i < 4; i++ {
		require.NoError(t, chunks.Create(ctx, &model.DocumentChunk{
			ID:             uuid.New(),
			SourceFilename: "guide.pdf",
			ChunkIndex:     i,
			Content:        "chunk",
			Embedding:      unitVector(i),
		}))
	}

	matches, err := chunks.Nearest(ctx, unitVector(2).Slice(), 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, 2, matches[0].Chunk.ChunkIndex)
	assert.InDelta(t, 0.0, matches[0].Distance, 1e-6)

	sources, err := chunks.ListSources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, int64(4), sources[0].Chunks)
}
