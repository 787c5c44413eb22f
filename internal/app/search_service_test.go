package app

import (
	"context"
	"strings"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopherai-qa/internal/model"
)

type searchFixture struct {
	stores    Stores
	embedder  *fakeEmbedder
	llm       *fakeCompleter
	qa        *QAService
	search    *SearchService
	published []model.SearchLog
}

func (f *searchFixture) Publish(_ context.Context, entry model.SearchLog) error {
	f.published = append(f.published, entry)
	return nil
}

func newSearchFixture(t *testing.T) *searchFixture {
	t.Helper()
	stores, _ := memoryStores()
	f := &searchFixture{
		stores:   stores,
		embedder: newFakeEmbedder(),
		llm:      &fakeCompleter{reply: "  synthesized answer  "},
	}
	f.qa = NewQAService(stores, f.embedder, testLogger)
	f.search = NewSearchService(stores, f.embedder, NewSynthesizer(f.llm), DefaultSearchPolicy(), f, testLogger)
	return f
}

func (f *searchFixture) addQuestion(t *testing.T, content string, vector []float32, answers ...string) *model.Question {
	t.Helper()
	f.embedder.set(content, vector...)
	q, err := f.qa.CreateQuestion(context.Background(), content)
	require.NoError(t, err)
	for _, a := range answers {
		_, err := f.qa.SubmitAnswer(context.Background(), SubmitAnswerInput{QuestionID: q.ID, Content: a})
		require.NoError(t, err)
	}
	return q
}

func (f *searchFixture) addChunk(t *testing.T, filename string, index int, vector []float32) {
	t.Helper()
	require.NoError(t, f.stores.Chunks.Create(context.Background(), &model.DocumentChunk{
		SourceFilename: filename,
		ChunkIndex:     index,
		Content:        filename + " excerpt",
		Embedding:      pgvector.NewVector(vector),
	}))
}

func TestSearchQAMatchSynthesizesFromAnswers(t *testing.T) {
	f := newSearchFixture(t)
	// cos = 0.9 against the query, so distance is 0.1
	q := f.addQuestion(t, "How do I reset my password?", []float32{0.9, 0.43588989, 0},
		"Use the forgot password link.", "Support can reset it for you.")
	f.embedder.set("password reset", 1, 0, 0)

	result, err := f.search.Search(context.Background(), "  password reset ")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, SourceQA, result.Source)
	assert.Equal(t, "password reset", result.Query)
	assert.Equal(t, "synthesized answer", result.Answer)
	assert.Equal(t, 2, result.AnswersUsed)
	require.NotNil(t, result.MatchedQuestion)
	assert.Equal(t, q.ID.String(), result.MatchedQuestion.ID)
	assert.InDelta(t, 0.1, result.MatchedQuestion.Distance, 1e-6)

	require.Equal(t, 1, f.llm.calls())
	user := f.llm.prompts[0][1].Content
	assert.Contains(t, user, "Use the forgot password link.")
	assert.Contains(t, user, "Support can reset it for you.")
	assert.Contains(t, user, "password reset")
}

func TestSearchDistanceAtThresholdIsNoMatch(t *testing.T) {
	f := newSearchFixture(t)
	// cos = 3/5, distance exactly 0.4
	f.addQuestion(t, "borderline", []float32{3, 4, 0}, "an answer")
	f.embedder.set("query", 1, 0, 0)

	result, err := f.search.Search(context.Background(), "query")
	require.NoError(t, err)

	assert.False(t, result.Found)
	assert.Equal(t, "No close match found", result.Message)
	require.NotNil(t, result.ClosestQuestion)
	assert.Equal(t, "borderline", result.ClosestQuestion.Content)
	assert.Zero(t, f.llm.calls())
}

func TestSearchJustBelowThresholdMatches(t *testing.T) {
	f := newSearchFixture(t)
	// cos = 4/5, distance 0.2
	f.addQuestion(t, "close enough", []float32{4, 3, 0}, "an answer")
	f.embedder.set("query", 1, 0, 0)

	result, err := f.search.Search(context.Background(), "query")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, SourceQA, result.Source)
}

func TestSearchQuestionWithoutAnswersSkipsSynthesis(t *testing.T) {
	f := newSearchFixture(t)
	f.addQuestion(t, "What is the refund window?", []float32{1, 0, 0})
	f.embedder.set("refund window", 1, 0, 0)

	result, err := f.search.Search(context.Background(), "refund window")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, SourceQA, result.Source)
	assert.Zero(t, result.AnswersUsed)
	assert.Equal(t, `This question has been recorded but has no answers yet: "What is the refund window?"`, result.Answer)
	assert.Zero(t, f.llm.calls())
}

func TestSearchQuestionWithoutAnswersFallsBackToChunks(t *testing.T) {
	f := newSearchFixture(t)
	f.addQuestion(t, "What is the refund window?", []float32{1, 0, 0})
	f.addChunk(t, "policy.pdf", 0, []float32{0.95, 0.31224990, 0})
	f.embedder.set("refund window", 1, 0, 0)

	result, err := f.search.Search(context.Background(), "refund window")
	require.NoError(t, err)

	assert.Equal(t, SourceDocument, result.Source)
	assert.Equal(t, []string{"policy.pdf"}, result.Sources)
	assert.Equal(t, 1, f.llm.calls())
}

func TestSearchDocumentMatch(t *testing.T) {
	f := newSearchFixture(t)
	f.addQuestion(t, "unrelated", []float32{0, 1, 0}, "an answer")
	f.addChunk(t, "manual.pdf", 0, []float32{1, 0.05, 0})
	f.addChunk(t, "manual.pdf", 1, []float32{1, 0.1, 0})
	f.addChunk(t, "faq.pdf", 0, []float32{1, 0.2, 0})
	f.addChunk(t, "faq.pdf", 1, []float32{0, 0, 1})
	f.embedder.set("install steps", 1, 0, 0)

	result, err := f.search.Search(context.Background(), "install steps")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, SourceDocument, result.Source)
	assert.Equal(t, 3, result.ChunksUsed)
	assert.Equal(t, []string{"manual.pdf", "faq.pdf"}, result.Sources)
	assert.Less(t, result.Distance, 0.01)
	assert.Equal(t, "synthesized answer", result.Answer)

	require.Equal(t, 1, f.llm.calls())
	assert.Equal(t, 3, strings.Count(f.llm.prompts[0][1].Content, "--- ["))
}

func TestSearchTieGoesToQuestion(t *testing.T) {
	f := newSearchFixture(t)
	f.addQuestion(t, "tied question", []float32{1, 0, 0}, "tied answer")
	f.addChunk(t, "tied.pdf", 0, []float32{1, 0, 0})
	f.embedder.set("tie", 1, 0, 0)

	result, err := f.search.Search(context.Background(), "tie")
	require.NoError(t, err)
	assert.Equal(t, SourceQA, result.Source)
	assert.Equal(t, 1, result.AnswersUsed)
}

func TestSearchEmptyStoreIsNoMatch(t *testing.T) {
	f := newSearchFixture(t)

	result, err := f.search.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Nil(t, result.ClosestQuestion)
	assert.Empty(t, result.ClosestChunks)

	require.Len(t, f.published, 1)
	assert.False(t, f.published[0].Found)
	assert.Nil(t, f.published[0].BestDistance)
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	f := newSearchFixture(t)
	_, err := f.search.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, f.embedder.calls)
}

func TestSearchPublishesOutcome(t *testing.T) {
	f := newSearchFixture(t)
	f.addQuestion(t, "logged", []float32{1, 0, 0}, "yes")
	f.embedder.set("logged", 1, 0, 0)

	_, err := f.search.Search(context.Background(), "logged")
	require.NoError(t, err)

	require.Len(t, f.published, 1)
	entry := f.published[0]
	assert.Equal(t, "logged", entry.Query)
	assert.Equal(t, SourceQA, entry.Source)
	assert.True(t, entry.Found)
	require.NotNil(t, entry.BestDistance)
	assert.InDelta(t, 0, *entry.BestDistance, 1e-9)
}
