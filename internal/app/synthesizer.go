package app

import (
	"context"
	"fmt"
	"strings"

	"gopherai-qa/internal/ai"
	"gopherai-qa/internal/model"
)

const (
	answersSystemPrompt = "You are a helpful assistant. Combine the recorded answers below into one clear, coherent response to the user's query. Use only the information in the recorded answers and do not make up facts."
	chunksSystemPrompt  = "You are a helpful assistant. Answer the user's query based only on the document excerpts below. If the excerpts do not contain enough information, say so. Do not make up facts."
)

// Synthesizer turns retrieved context into one natural-language answer with a single LLM call.
type Synthesizer struct {
	llm Completer
}

func NewSynthesizer(llm Completer) *Synthesizer {
	return &Synthesizer{llm: llm}
}

func (s *Synthesizer) FromAnswers(ctx context.Context, query string, question model.Question, answers []model.Answer) (string, error) {
	return s.complete(ctx, answersSystemPrompt, buildAnswersPrompt(query, question, answers))
}

func (s *Synthesizer) FromChunks(ctx context.Context, query string, chunks []model.ChunkMatch) (string, error) {
	return s.complete(ctx, chunksSystemPrompt, buildChunksPrompt(query, chunks))
}

func (s *Synthesizer) complete(ctx context.Context, system, user string) (string, error) {
	out, err := s.llm.Complete(ctx, []ai.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
	if err != nil {
		return "", fmt.Errorf("synthesize answer failed: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func buildAnswersPrompt(query string, question model.Question, answers []model.Answer) string {
	var b strings.Builder
	b.WriteString("User query: ")
	b.WriteString(query)
	b.WriteString("\n\nMatched question: ")
	b.WriteString(question.Content)
	b.WriteString("\n\nRecorded answers:\n")
	for i, a := range answers {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a.Content)
	}
	b.WriteString("\nAnswer:")
	return b.String()
}

func buildChunksPrompt(query string, chunks []model.ChunkMatch) string {
	var b strings.Builder
	b.WriteString("Document excerpts:\n")
	for i, c := range chunks {
		fmt.Fprintf(&b, "\n--- [%d] %s (part %d)\n%s\n", i+1, c.Chunk.SourceFilename, c.Chunk.ChunkIndex+1, c.Chunk.Content)
	}
	b.WriteString("---\n\nUser query: ")
	b.WriteString(query)
	b.WriteString("\n\nAnswer:")
	return b.String()
}
