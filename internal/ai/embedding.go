package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// EmbeddingConfig holds API settings for text-embedding (OpenAI-compatible).
type EmbeddingConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

var ErrEmptyEmbeddingInput = errors.New("embedding input is empty")

// Embed returns the embedding vector for the given text. One provider call per invocation.
func (c *OpenAICompatibleClient) Embed(ctx context.Context, cfg EmbeddingConfig, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyEmbeddingInput
	}

	reqBody := map[string]interface{}{
		"model": cfg.Model,
		"input": text,
	}
	raw, err := c.post(ctx, cfg.BaseURL, cfg.APIKey, "/embeddings", "embedding", reqBody)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &ParseError{What: "embedding response", Raw: string(raw), Err: err}
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, &ParseError{What: "embedding response", Raw: string(raw), Err: errors.New("empty embedding")}
	}
	return parsed.Data[0].Embedding, nil
}

// Embedder binds a client to one embedding configuration.
type Embedder struct {
	client *OpenAICompatibleClient
	cfg    EmbeddingConfig
}

func NewEmbedder(client *OpenAICompatibleClient, cfg EmbeddingConfig) *Embedder {
	return &Embedder{client: client, cfg: cfg}
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.client.Embed(ctx, e.cfg, text)
}

// Model is the embedding model name, used to namespace cached vectors.
func (e *Embedder) Model() string {
	return e.cfg.Model
}
