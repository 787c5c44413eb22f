package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"gopherai-qa/internal/ai"
	"gopherai-qa/internal/model"
	"gopherai-qa/internal/pkg/textchunk"
)

type IngestPolicy struct {
	ChunkSize     int
	ChunkOverlap  int
	QASourceChars int
	MinQAPairs    int
	MaxQAPairs    int
}

func DefaultIngestPolicy() IngestPolicy {
	return IngestPolicy{
		ChunkSize:     textchunk.DefaultSize,
		ChunkOverlap:  textchunk.DefaultOverlap,
		QASourceChars: 30000,
		MinQAPairs:    5,
		MaxQAPairs:    20,
	}
}

// IngestService stores an extracted document as chunks and generated Q&A pairs.
// It is best-effort: a failed item is recorded and skipped, never rolled back.
type IngestService struct {
	questions QuestionStore
	answers   AnswerStore
	chunks    ChunkStore
	embedder  Embedder
	llm       Completer
	policy    IngestPolicy
	logger    *zap.Logger
	now       func() time.Time
}

func NewIngestService(stores Stores, embedder Embedder, llm Completer, policy IngestPolicy, logger *zap.Logger) *IngestService {
	return &IngestService{
		questions: stores.Questions,
		answers:   stores.Answers,
		chunks:    stores.Chunks,
		embedder:  embedder,
		llm:       llm,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

type IngestInput struct {
	Filename  string
	SizeBytes int64
	Pages     int
	Text      string
}

// ItemFailure names one chunk or Q&A pair that could not be stored.
// Index is -1 when the failure concerns the Q&A generation call itself.
type ItemFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type PDFInfo struct {
	Filename   string `json:"filename"`
	SizeBytes  int64  `json:"size_bytes"`
	Pages      int    `json:"pages"`
	TextLength int    `json:"text_length"`
}

type ChunkReport struct {
	Total  int           `json:"total"`
	Saved  int           `json:"saved"`
	Failed []ItemFailure `json:"failed"`
}

type GeneratedQA struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

type IngestReport struct {
	PDFInfo     PDFInfo       `json:"pdf_info"`
	Chunks      ChunkReport   `json:"chunks"`
	GeneratedQA []GeneratedQA `json:"generated_qa"`
	QAFailures  []ItemFailure `json:"qa_failures"`
}

func (r *IngestReport) Message() string {
	return fmt.Sprintf("PDF processed: %d/%d chunks saved, %d Q&A pairs generated",
		r.Chunks.Saved, r.Chunks.Total, len(r.GeneratedQA))
}

// Ingest chunks and stores the text, then generates Q&A pairs from its opening part.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (*IngestReport, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrNoExtractableText
	}
	filename := strings.TrimSpace(input.Filename)
	if filename == "" {
		filename = "untitled.pdf"
	}

	windows, err := textchunk.Split(text, s.policy.ChunkSize, s.policy.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	report := &IngestReport{
		PDFInfo: PDFInfo{
			Filename:   filename,
			SizeBytes:  input.SizeBytes,
			Pages:      input.Pages,
			TextLength: len([]rune(text)),
		},
		Chunks:      ChunkReport{Total: len(windows), Failed: []ItemFailure{}},
		GeneratedQA: []GeneratedQA{},
		QAFailures:  []ItemFailure{},
	}

	for i, content := range windows {
		if err := s.storeChunk(ctx, filename, i, content); err != nil {
			s.logger.Warn("store chunk failed", zap.String("file", filename), zap.Int("index", i), zap.Error(err))
			report.Chunks.Failed = append(report.Chunks.Failed, ItemFailure{Index: i, Error: err.Error()})
			continue
		}
		report.Chunks.Saved++
	}

	pairs, err := s.generatePairs(ctx, text)
	if err != nil {
		s.logger.Warn("generate qa pairs failed", zap.String("file", filename), zap.Error(err))
		report.QAFailures = append(report.QAFailures, ItemFailure{Index: -1, Error: err.Error()})
		return report, nil
	}
	for i, pair := range pairs {
		if pair.Err != nil {
			s.logger.Warn("skip malformed qa pair", zap.String("file", filename), zap.Int("index", i), zap.Error(pair.Err))
			report.QAFailures = append(report.QAFailures, ItemFailure{Index: i, Error: pair.Err.Error()})
			continue
		}
		generated, err := s.storePair(ctx, pair.QAPair)
		if err != nil {
			s.logger.Warn("store qa pair failed", zap.String("file", filename), zap.Int("index", i), zap.Error(err))
			report.QAFailures = append(report.QAFailures, ItemFailure{Index: i, Error: err.Error()})
			continue
		}
		report.GeneratedQA = append(report.GeneratedQA, *generated)
	}

	s.logger.Info("document ingested",
		zap.String("file", filename),
		zap.Int("chunks_total", report.Chunks.Total),
		zap.Int("chunks_saved", report.Chunks.Saved),
		zap.Int("qa_generated", len(report.GeneratedQA)),
		zap.Int("qa_failed", len(report.QAFailures)),
	)
	return report, nil
}

func (s *IngestService) storeChunk(ctx context.Context, filename string, index int, content string) error {
	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed chunk failed: %w", err)
	}
	return s.chunks.Create(ctx, &model.DocumentChunk{
		ID:             uuid.New(),
		SourceFilename: filename,
		ChunkIndex:     index,
		Content:        content,
		Embedding:      pgvector.NewVector(embedding),
		CreatedAt:      s.now(),
	})
}

// generatePairs asks for MinQAPairs..MaxQAPairs pairs. The lower bound only
// shapes the prompt; a shorter reply is stored as is. Replies longer than
// MaxQAPairs are cut.
func (s *IngestService) generatePairs(ctx context.Context, text string) ([]ai.ParsedQAPair, error) {
	source := []rune(text)
	if s.policy.QASourceChars > 0 && len(source) > s.policy.QASourceChars {
		source = source[:s.policy.QASourceChars]
	}

	out, err := s.llm.Complete(ctx, []ai.ChatMessage{
		{Role: "system", Content: qaSystemPrompt(s.policy.MinQAPairs, s.policy.MaxQAPairs)},
		{Role: "user", Content: "Document:\n" + string(source)},
	})
	if err != nil {
		return nil, fmt.Errorf("qa generation request failed: %w", err)
	}
	pairs, err := ai.ParseQAPairs(out)
	if err != nil {
		return nil, err
	}
	if s.policy.MaxQAPairs > 0 && len(pairs) > s.policy.MaxQAPairs {
		pairs = pairs[:s.policy.MaxQAPairs]
	}
	return pairs, nil
}

func (s *IngestService) storePair(ctx context.Context, pair ai.QAPair) (*GeneratedQA, error) {
	embedding, err := s.embedder.Embed(ctx, pair.Question)
	if err != nil {
		return nil, fmt.Errorf("embed generated question failed: %w", err)
	}
	question := &model.Question{
		ID:        uuid.New(),
		Content:   pair.Question,
		Embedding: pgvector.NewVector(embedding),
		CreatedAt: s.now(),
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, err
	}
	if err := s.answers.Create(ctx, &model.Answer{
		ID:         uuid.New(),
		QuestionID: question.ID,
		Content:    pair.Answer,
		CreatedAt:  s.now(),
	}); err != nil {
		return nil, err
	}
	return &GeneratedQA{
		QuestionID: question.ID.String(),
		Question:   pair.Question,
		Answer:     pair.Answer,
	}, nil
}

func qaSystemPrompt(minPairs, maxPairs int) string {
	return fmt.Sprintf(
		"You generate study questions from documents. Read the document and write between %d and %d "+
			"question and answer pairs that cover its most important facts. Respond with only a JSON array "+
			`of objects shaped like {"question": "...", "answer": "..."} and no other text.`,
		minPairs, maxPairs,
	)
}
