package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"gopherai-qa/internal/model"
)

// QAService registers questions and answers.
type QAService struct {
	questions QuestionStore
	answers   AnswerStore
	embedder  Embedder
	logger    *zap.Logger
	now       func() time.Time
}

func NewQAService(stores Stores, embedder Embedder, logger *zap.Logger) *QAService {
	return &QAService{
		questions: stores.Questions,
		answers:   stores.Answers,
		embedder:  embedder,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateQuestion embeds the content and stores it as a new question.
func (s *QAService) CreateQuestion(ctx context.Context, content string) (*model.Question, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("embed question failed: %w", err)
	}

	question := &model.Question{
		ID:        uuid.New(),
		Content:   content,
		Embedding: pgvector.NewVector(embedding),
		CreatedAt: s.now(),
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, err
	}
	s.logger.Debug("question created", zap.String("question_id", question.ID.String()))
	return question, nil
}

// ListQuestions returns every question, newest first.
func (s *QAService) ListQuestions(ctx context.Context) ([]model.Question, error) {
	questions, err := s.questions.ListNewestFirst(ctx, 0)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

// DeleteQuestion removes a question; its answers go with it.
func (s *QAService) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.questions.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrQuestionNotFound
	}
	return nil
}

type SubmitAnswerInput struct {
	QuestionID uuid.UUID
	Content    string
}

// SubmitAnswer stores an answer for an existing question.
func (s *QAService) SubmitAnswer(ctx context.Context, input SubmitAnswerInput) (*model.Answer, error) {
	if input.QuestionID == uuid.Nil {
		return nil, fmt.Errorf("%w: question_id is required", ErrInvalidInput)
	}

	// An unknown question is reported before the content is looked at.
	question, err := s.questions.GetByID(ctx, input.QuestionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	answer := &model.Answer{
		ID:         uuid.New(),
		QuestionID: question.ID,
		Content:    content,
		CreatedAt:  s.now(),
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// ListAnswers returns the answers of a question, oldest first, each carrying
// the question text. An unknown question yields an empty list.
func (s *QAService) ListAnswers(ctx context.Context, questionID uuid.UUID) ([]model.AnswerView, error) {
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return []model.AnswerView{}, nil
	}

	answers, err := s.answers.ListByQuestionID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	views := make([]model.AnswerView, len(answers))
	for i, a := range answers {
		views[i] = model.AnswerView{
			ID:        a.ID,
			Content:   a.Content,
			CreatedAt: a.CreatedAt,
			Question:  question.Content,
		}
	}
	return views, nil
}
