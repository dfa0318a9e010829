// Package generator wraps the chat-completion provider that writes quiz
// content. One call per quiz creation, constrained to a strict JSON schema.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"quizmaster/config"
	"quizmaster/logger"
)

// ErrGeneration covers transport, authentication and API-level failures from
// the provider. The caller treats generation as a single atomic attempt.
var ErrGeneration = errors.New("quiz generation failed")

// Client produces the raw structured payload for a quiz. Implemented by
// OpenAIClient; faked in tests.
type Client interface {
	Generate(ctx context.Context, topic string, difficulty int, numberOfQuestions int) (string, error)
}

type OpenAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *logger.Logger
}

func NewOpenAIClient(cfg *config.Config, log *logger.Logger) *OpenAIClient {
	return &OpenAIClient{
		baseURL: cfg.OpenAIBaseURL,
		apiKey:  cfg.OpenAIAPIKey,
		model:   cfg.OpenAIModel,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.OpenAITimeoutSec) * time.Second,
		},
		log: log.With("component", "generator"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate asks the provider for numberOfQuestions questions about topic at
// the given difficulty and returns the raw JSON payload of the completion.
func (c *OpenAIClient) Generate(ctx context.Context, topic string, difficulty int, numberOfQuestions int) (string, error) {
	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(
				"Generate a quiz about %s. Difficulty: %d. Number of questions: %d.",
				topic, difficulty, numberOfQuestions)},
		},
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchema{
				Name:   "quiz_questions_schema",
				Strict: true,
				Schema: json.RawMessage(questionsSchema),
			},
		},
		Temperature: 0.2,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrGeneration, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("provider returned non-2xx status", "status", resp.StatusCode, "body", string(raw))
		return "", fmt.Errorf("%w: http %d", ErrGeneration, resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrGeneration, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrGeneration)
	}
	if refusal := completion.Choices[0].Message.Refusal; refusal != "" {
		return "", fmt.Errorf("%w: model refused: %s", ErrGeneration, refusal)
	}

	return completion.Choices[0].Message.Content, nil
}
