package app

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gopherai-qa/internal/model"
)

const (
	DefaultSearchTopK        = 3
	DefaultDistanceThreshold = 0.4

	SourceQA       = "qa"
	SourceDocument = "document"

	noCloseMatchMessage = "No close match found"
)

type SearchPolicy struct {
	TopK              int
	DistanceThreshold float64
}

func DefaultSearchPolicy() SearchPolicy {
	return SearchPolicy{TopK: DefaultSearchTopK, DistanceThreshold: DefaultDistanceThreshold}
}

type SearchService struct {
	questions   QuestionStore
	answers     AnswerStore
	chunks      ChunkStore
	embedder    Embedder
	synthesizer *Synthesizer
	policy      SearchPolicy
	publisher   SearchLogPublisher
	logger      *zap.Logger
}

// NewSearchService wires the search flow. publisher may be nil.
func NewSearchService(
	stores Stores,
	embedder Embedder,
	synthesizer *Synthesizer,
	policy SearchPolicy,
	publisher SearchLogPublisher,
	logger *zap.Logger,
) *SearchService {
	if policy.TopK <= 0 {
		policy.TopK = DefaultSearchTopK
	}
	if policy.DistanceThreshold <= 0 {
		policy.DistanceThreshold = DefaultDistanceThreshold
	}
	return &SearchService{
		questions:   stores.Questions,
		answers:     stores.Answers,
		chunks:      stores.Chunks,
		embedder:    embedder,
		synthesizer: synthesizer,
		policy:      policy,
		publisher:   publisher,
		logger:      logger,
	}
}

type MatchedQuestion struct {
	ID       string  `json:"id"`
	Content  string  `json:"content"`
	Distance float64 `json:"distance"`
}

type ChunkHit struct {
	SourceFilename string  `json:"source_filename"`
	ChunkIndex     int     `json:"chunk_index"`
	Content        string  `json:"content"`
	Distance       float64 `json:"distance"`
}

// SearchResult is one of three outcomes: a Q&A match (Source "qa"), a document
// match (Source "document"), or no close match (Found false, closest candidates only).
type SearchResult struct {
	Query  string
	Found  bool
	Source string
	Answer string

	MatchedQuestion *MatchedQuestion
	AnswersUsed     int

	Sources    []string
	ChunksUsed int
	Distance   float64

	Message         string
	ClosestQuestion *MatchedQuestion
	ClosestChunks   []ChunkHit
}

// Search embeds the query, looks up the nearest question and the nearest chunks
// concurrently, and synthesizes an answer only when the best distance is strictly
// below the threshold. Ties between a question and a chunk go to the question.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}

	var (
		nearestQuestion *model.QuestionMatch
		nearestChunks   []model.ChunkMatch
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		match, err := s.questions.Nearest(gctx, embedding)
		nearestQuestion = match
		return err
	})
	g.Go(func() error {
		matches, err := s.chunks.Nearest(gctx, embedding, s.policy.TopK)
		nearestChunks = matches
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	questionDistance := math.Inf(1)
	if nearestQuestion != nil {
		questionDistance = nearestQuestion.Distance
	}
	chunkDistance := math.Inf(1)
	if len(nearestChunks) > 0 {
		chunkDistance = nearestChunks[0].Distance
	}
	bestIsQuestion := nearestQuestion != nil && questionDistance <= chunkDistance
	bestDistance := math.Min(questionDistance, chunkDistance)

	var result *SearchResult
	switch {
	case bestDistance >= s.policy.DistanceThreshold:
		result = noMatchResult(query, nearestQuestion, nearestChunks)
	case bestIsQuestion:
		result, err = s.answerFromQuestion(ctx, query, nearestQuestion, nearestChunks)
	default:
		result, err = s.answerFromChunks(ctx, query, nearestChunks)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, result, bestDistance)
	return result, nil
}

func (s *SearchService) answerFromQuestion(ctx context.Context, query string, match *model.QuestionMatch, chunks []model.ChunkMatch) (*SearchResult, error) {
	answers, err := s.answers.ListByQuestionID(ctx, match.Question.ID)
	if err != nil {
		return nil, err
	}
	matched := toMatchedQuestion(match)

	if len(answers) == 0 {
		if len(chunks) > 0 {
			return s.answerFromChunks(ctx, query, chunks)
		}
		return &SearchResult{
			Query:           query,
			Found:           true,
			Source:          SourceQA,
			MatchedQuestion: matched,
			Answer:          noAnswersYetMessage(match.Question.Content),
			Distance:        match.Distance,
		}, nil
	}

	answer, err := s.synthesizer.FromAnswers(ctx, query, match.Question, answers)
	if err != nil {
		return nil, err
	}
	return &SearchResult{
		Query:           query,
		Found:           true,
		Source:          SourceQA,
		MatchedQuestion: matched,
		Answer:          answer,
		AnswersUsed:     len(answers),
		Distance:        match.Distance,
	}, nil
}

func (s *SearchService) answerFromChunks(ctx context.Context, query string, chunks []model.ChunkMatch) (*SearchResult, error) {
	answer, err := s.synthesizer.FromChunks(ctx, query, chunks)
	if err != nil {
		return nil, err
	}
	return &SearchResult{
		Query:      query,
		Found:      true,
		Source:     SourceDocument,
		Answer:     answer,
		Sources:    distinctSources(chunks),
		ChunksUsed: len(chunks),
		Distance:   chunks[0].Distance,
	}, nil
}

func (s *SearchService) publish(ctx context.Context, result *SearchResult, bestDistance float64) {
	if s.publisher == nil {
		return
	}
	entry := model.SearchLog{
		Query:     result.Query,
		Source:    result.Source,
		Found:     result.Found,
		CreatedAt: time.Now(),
	}
	if !math.IsInf(bestDistance, 1) {
		entry.BestDistance = &bestDistance
	}
	if err := s.publisher.Publish(ctx, entry); err != nil {
		s.logger.Warn("publish search log failed", zap.Error(err))
	}
}

func noMatchResult(query string, question *model.QuestionMatch, chunks []model.ChunkMatch) *SearchResult {
	hits := make([]ChunkHit, len(chunks))
	for i, c := range chunks {
		hits[i] = ChunkHit{
			SourceFilename: c.Chunk.SourceFilename,
			ChunkIndex:     c.Chunk.ChunkIndex,
			Content:        c.Chunk.Content,
			Distance:       c.Distance,
		}
	}
	return &SearchResult{
		Query:           query,
		Found:           false,
		Message:         noCloseMatchMessage,
		ClosestQuestion: toMatchedQuestion(question),
		ClosestChunks:   hits,
	}
}

func noAnswersYetMessage(question string) string {
	return fmt.Sprintf("This question has been recorded but has no answers yet: %q", question)
}

func toMatchedQuestion(match *model.QuestionMatch) *MatchedQuestion {
	if match == nil {
		return nil
	}
	return &MatchedQuestion{
		ID:       match.Question.ID.String(),
		Content:  match.Question.Content,
		Distance: match.Distance,
	}
}

func distinctSources(chunks []model.ChunkMatch) []string {
	seen := make(map[string]struct{}, len(chunks))
	sources := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if _, ok := seen[c.Chunk.SourceFilename]; ok {
			continue
		}
		seen[c.Chunk.SourceFilename] = struct{}{}
		sources = append(sources, c.Chunk.SourceFilename)
	}
	return sources
}
