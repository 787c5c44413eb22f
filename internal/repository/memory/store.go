// Package memory keeps questions, answers and document chunks in process memory.
// It ranks by the same cosine distance pgvector's <=> operator computes, so the
// search policy behaves the same against either backend.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"gopherai-qa/internal/model"
)

// Store is the shared state behind the three table views.
type Store struct {
	mu        sync.RWMutex
	questions map[uuid.UUID]model.Question
	answers   map[uuid.UUID]model.Answer
	chunks    map[uuid.UUID]model.DocumentChunk
	searches  []model.SearchLog
}

func NewStore() *Store {
	return &Store{
		questions: make(map[uuid.UUID]model.Question),
		answers:   make(map[uuid.UUID]model.Answer),
		chunks:    make(map[uuid.UUID]model.DocumentChunk),
	}
}

func (s *Store) Questions() *QuestionRepository { return &QuestionRepository{s: s} }
func (s *Store) Answers() *AnswerRepository     { return &AnswerRepository{s: s} }
func (s *Store) Chunks() *ChunkRepository       { return &ChunkRepository{s: s} }
func (s *Store) SearchLogs() *SearchLogRepository {
	return &SearchLogRepository{s: s}
}

type QuestionRepository struct{ s *Store }

func (r *QuestionRepository) Create(_ context.Context, question *model.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}
	stored := *question
	stored.Answers = nil
	r.s.questions[question.ID] = stored
	return nil
}

func (r *QuestionRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q, ok := r.s.questions[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (r *QuestionRepository) ListNewestFirst(_ context.Context, limit int) ([]model.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Question, 0, len(r.s.questions))
	for _, q := range r.s.questions {
		out = append(out, q)
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *QuestionRepository) Nearest(_ context.Context, embedding []float32) (*model.QuestionMatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var best *model.QuestionMatch
	for _, q := range r.s.questions {
		d := CosineDistance(embedding, q.Embedding.Slice())
		if best == nil || d < best.Distance {
			best = &model.QuestionMatch{Question: q, Distance: d}
		}
	}
	return best, nil
}

// Delete removes the question together with its answers.
func (r *QuestionRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.questions[id]; !ok {
		return false, nil
	}
	delete(r.s.questions, id)
	for aid, a := range r.s.answers {
		if a.QuestionID == id {
			delete(r.s.answers, aid)
		}
	}
	return true, nil
}

func (r *QuestionRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.questions)), nil
}

func (r *QuestionRepository) CountSince(_ context.Context, since time.Time) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, q := range r.s.questions {
		if !q.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *QuestionRepository) ListUnanswered(_ context.Context, limit int) ([]model.Question, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	answered := make(map[uuid.UUID]struct{}, len(r.s.answers))
	for _, a := range r.s.answers {
		answered[a.QuestionID] = struct{}{}
	}
	var out []model.Question
	for id, q := range r.s.questions {
		if _, ok := answered[id]; !ok {
			out = append(out, q)
		}
	}
	total := int64(len(out))
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

type AnswerRepository struct{ s *Store }

func (r *AnswerRepository) Create(_ context.Context, answer *model.Answer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if answer.ID == uuid.Nil {
		answer.ID = uuid.New()
	}
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now()
	}
	r.s.answers[answer.ID] = *answer
	return nil
}

func (r *AnswerRepository) ListByQuestionID(_ context.Context, questionID uuid.UUID) ([]model.Answer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Answer
	for _, a := range r.s.answers {
		if a.QuestionID == questionID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *AnswerRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.answers)), nil
}

func (r *AnswerRepository) CountSince(_ context.Context, since time.Time) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, a := range r.s.answers {
		if !a.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type ChunkRepository struct{ s *Store }

func (r *ChunkRepository) Create(_ context.Context, chunk *model.DocumentChunk) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if chunk.ID == uuid.Nil {
		chunk.ID = uuid.New()
	}
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now()
	}
	r.s.chunks[chunk.ID] = *chunk
	return nil
}

func (r *ChunkRepository) Nearest(_ context.Context, embedding []float32, k int) ([]model.ChunkMatch, error) {
	if k <= 0 {
		return nil, nil
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matches := make([]model.ChunkMatch, 0, len(r.s.chunks))
	for _, c := range r.s.chunks {
		matches = append(matches, model.ChunkMatch{
			Chunk:    c,
			Distance: CosineDistance(embedding, c.Embedding.Slice()),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (r *ChunkRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.chunks)), nil
}

func (r *ChunkRepository) ListSources(_ context.Context) ([]model.SourceSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byName := make(map[string]*model.SourceSummary)
	for _, c := range r.s.chunks {
		sum, ok := byName[c.SourceFilename]
		if !ok {
			sum = &model.SourceSummary{SourceFilename: c.SourceFilename}
			byName[c.SourceFilename] = sum
		}
		sum.Chunks++
		if c.CreatedAt.After(sum.LastUploadedAt) {
			sum.LastUploadedAt = c.CreatedAt
		}
	}
	out := make([]model.SourceSummary, 0, len(byName))
	for _, sum := range byName {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastUploadedAt.After(out[j].LastUploadedAt)
	})
	return out, nil
}

type SearchLogRepository struct{ s *Store }

func (r *SearchLogRepository) Publish(_ context.Context, entry model.SearchLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = uint(len(r.s.searches) + 1)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.s.searches = append(r.s.searches, entry)
	return nil
}

func (r *SearchLogRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.searches)), nil
}

// CosineDistance is 1 - cos(a, b). A zero vector on either side yields 1.
func CosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

func sortNewestFirst(questions []model.Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].CreatedAt.After(questions[j].CreatedAt)
	})
}
