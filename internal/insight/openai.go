package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIConfig configures the OpenAI-compatible provider.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// openAIProvider speaks the OpenAI-compatible chat completions API.
type openAIProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIProvider constructs a TextProvider over the chat completions API.
func NewOpenAIProvider(cfg OpenAIConfig) TextProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	timeout := 60 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &openAIProvider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (p *openAIProvider) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	messages := []chatMessage{}
	if req.SystemInstruction != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemInstruction})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Content})

	chatReq := chatRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: req.Temperature,
	}

	if req.ResponseSchema != nil {
		chatReq.ResponseFormat = map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "structured_output",
				"strict": true,
				"schema": req.ResponseSchema,
			},
		}
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", &ProviderError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	var chatResp chatResponse
	if jsonErr := json.Unmarshal(respBody, &chatResp); jsonErr == nil && chatResp.Error != nil {
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: chatResp.Error.Message}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}

	if len(chatResp.Choices) == 0 {
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: "response contained no choices"}
	}

	return chatResp.Choices[0].Message.Content, nil
}
