package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestEmbed(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "embed-model", body["model"])
		assert.Equal(t, "hello", body["input"])

		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	})

	client := NewOpenAICompatibleClient(5 * time.Second)
	embedder := NewEmbedder(client, EmbeddingConfig{BaseURL: srv.URL + "/", APIKey: "key", Model: "embed-model"})

	vec, err := embedder.Embed(context.Background(), "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "embed-model", embedder.Model())
}

func TestEmbed_EmptyInput(t *testing.T) {
	client := NewOpenAICompatibleClient(time.Second)
	_, err := client.Embed(context.Background(), EmbeddingConfig{}, "   ")
	assert.ErrorIs(t, err, ErrEmptyEmbeddingInput)
}

func TestEmbed_ProviderError(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	})

	client := NewOpenAICompatibleClient(time.Second)
	_, err := client.Embed(context.Background(), EmbeddingConfig{BaseURL: srv.URL}, "hello")
	require.Error(t, err)

	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusUnauthorized, providerErr.StatusCode)
	assert.Equal(t, "Incorrect API key provided", providerErr.Body)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestEmbed_MalformedPayload(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	client := NewOpenAICompatibleClient(time.Second)
	_, err := client.Embed(context.Background(), EmbeddingConfig{BaseURL: srv.URL}, "hello")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "embedding response", parseErr.What)
}

func TestComplete(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var body struct {
			Model    string        `json:"model"`
			Messages []ChatMessage `json:"messages"`
			Stream   bool          `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "chat-model", body.Model)
		assert.False(t, body.Stream)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  synthesized answer \n"}}]}`))
	})

	model := NewChatModel(NewOpenAICompatibleClient(time.Second), ChatConfig{BaseURL: srv.URL, Model: "chat-model"})
	out, err := model.Complete(context.Background(), []ChatMessage{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "synthesized answer", out)
}

func TestComplete_NoContent(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":""}}]}`))
	})

	client := NewOpenAICompatibleClient(time.Second)
	out, err := client.Complete(context.Background(), ChatConfig{BaseURL: srv.URL}, nil)
	require.NoError(t, err)
	assert.Equal(t, NoContentResponse, out)
}

func TestComplete_NoChoices(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	client := NewOpenAICompatibleClient(time.Second)
	_, err := client.Complete(context.Background(), ChatConfig{BaseURL: srv.URL}, nil)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestComplete_ServerError(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
	})

	client := NewOpenAICompatibleClient(time.Second)
	_, err := client.Complete(context.Background(), ChatConfig{BaseURL: srv.URL}, nil)

	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, "llm", providerErr.Op)
	assert.Equal(t, "upstream overloaded", providerErr.Body)
}

func TestNewOpenAICompatibleClientTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, NewOpenAICompatibleClient(30*time.Second).httpClient.Timeout)
	assert.Zero(t, NewOpenAICompatibleClient(0).httpClient.Timeout)
	assert.Zero(t, NewOpenAICompatibleClient(-time.Second).httpClient.Timeout)
}
