package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/agendou/agendou/internal/config"
)

// Parser turns one user message into a structured candidate. ref is the
// instant relative dates resolve against.
type Parser interface {
	Parse(ctx context.Context, text string, ref time.Time) (ParsedCandidate, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(cfg config.LLM) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *Client) Parse(ctx context.Context, text string, ref time.Time) (ParsedCandidate, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: buildSystemPrompt(ref)},
			{Role: "user", Content: text},
		},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ParsedCandidate{}, fmt.Errorf("nlp: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return ParsedCandidate{}, fmt.Errorf("nlp: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ParsedCandidate{}, fmt.Errorf("nlp: calling model: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ParsedCandidate{}, fmt.Errorf("nlp: reading reply: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ParsedCandidate{}, fmt.Errorf("nlp: decoding reply envelope: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return ParsedCandidate{}, fmt.Errorf("nlp: model returned %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return ParsedCandidate{}, fmt.Errorf("nlp: model returned %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return ParsedCandidate{}, fmt.Errorf("nlp: reply has no choices")
	}

	candidate, err := DecodeCandidate([]byte(parsed.Choices[0].Message.Content))
	if err != nil {
		log.Warnf("Model reply was not valid JSON: %v", err)
		return ParsedCandidate{}, err
	}
	return candidate, nil
}
