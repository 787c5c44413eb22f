package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// NoContentResponse replaces an empty completion so callers always get text back.
const NoContentResponse = "No response generated."

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type OpenAICompatibleClient struct {
	httpClient *http.Client
}

// NewOpenAICompatibleClient builds the client; timeout <= 0 leaves requests
// bounded only by the transport and the caller's context.
func NewOpenAICompatibleClient(timeout time.Duration) *OpenAICompatibleClient {
	httpClient := &http.Client{}
	if timeout > 0 {
		httpClient.Timeout = timeout
	}
	return &OpenAICompatibleClient{httpClient: httpClient}
}

// Complete sends one non-streaming chat completion and returns the first choice.
func (c *OpenAICompatibleClient) Complete(ctx context.Context, cfg ChatConfig, messages []ChatMessage) (string, error) {
	reqBody := map[string]interface{}{
		"model":    cfg.Model,
		"messages": messages,
		"stream":   false,
	}

	raw, err := c.post(ctx, cfg.BaseURL, cfg.APIKey, "/chat/completions", "llm", reqBody)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &ParseError{What: "llm response", Raw: string(raw), Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &ParseError{What: "llm response", Raw: string(raw), Err: errors.New("empty choices")}
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return NoContentResponse, nil
	}
	return content, nil
}

func (c *OpenAICompatibleClient) post(ctx context.Context, baseURL, apiKey, path, op string, body interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request failed: %w", op, err)
	}

	url := strings.TrimRight(baseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build %s request failed: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response failed: %w", op, err)
	}
	if resp.StatusCode >= 300 {
		return nil, &ProviderError{Op: op, StatusCode: resp.StatusCode, Body: providerMessage(raw)}
	}
	return raw, nil
}

// providerMessage pulls error.message out of an OpenAI-style error body,
// falling back to the raw body.
func providerMessage(raw []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return strings.TrimSpace(string(raw))
}

// ChatModel binds a client to one chat configuration.
type ChatModel struct {
	client *OpenAICompatibleClient
	cfg    ChatConfig
}

func NewChatModel(client *OpenAICompatibleClient, cfg ChatConfig) *ChatModel {
	return &ChatModel{client: client, cfg: cfg}
}

func (m *ChatModel) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	return m.client.Complete(ctx, m.cfg, messages)
}
