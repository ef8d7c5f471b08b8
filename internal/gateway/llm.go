package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"moodmic/internal/domain"
)

// Expected upstream failure classes. The handler degrades all of these to
// the 200 fallback shape; they never become hard failures for the caller.
var (
	ErrRateLimited   = errors.New("rate limit exceeded")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrBadModelJSON  = errors.New("model returned malformed JSON")
)

const systemPrompt = "You analyze the emotional sentiment of short transcribed speech segments. " +
	"Return a sentiment_score between 0 (very negative) and 1 (very positive), " +
	"a sentiment_label of positive, neutral, or negative, " +
	"a mood: one evocative lowercase word capturing the emotional tone, " +
	"and keywords: 3-5 emotionally salient words taken from the text."

// LLMConfig configures the chat-completion upstream.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMClient calls an OpenAI-compatible chat-completion API with a fixed
// JSON response schema.
type LLMClient struct {
	cfg  LLMConfig
	http *http.Client
}

func NewLLMClient(cfg LLMConfig) *LLMClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LLMClient{cfg: cfg, http: &http.Client{Timeout: timeout}}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat any           `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

type sentimentPayload struct {
	SentimentScore float64  `json:"sentiment_score"`
	SentimentLabel string   `json:"sentiment_label"`
	Mood           string   `json:"mood"`
	Keywords       []string `json:"keywords"`
}

var sentimentSchema = map[string]any{
	"type": "json_schema",
	"json_schema": map[string]any{
		"name":   "sentiment",
		"strict": true,
		"schema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"sentiment_score": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
				"sentiment_label": map[string]any{"type": "string", "enum": []string{"positive", "neutral", "negative"}},
				"mood":            map[string]any{"type": "string"},
				"keywords":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
			"required":             []string{"sentiment_score", "sentiment_label", "mood", "keywords"},
			"additionalProperties": false,
		},
	},
}

// AnalyzeText runs one chat-completion round trip and decodes the schema'd
// result. Rate-limit and quota exhaustion surface as their sentinel errors.
func (c *LLMClient) AnalyzeText(ctx context.Context, text string) (domain.SentimentResult, error) {
	if c.cfg.APIKey == "" {
		return domain.SentimentResult{}, errors.New("LLM API key is not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		Temperature:    0.2,
		ResponseFormat: sentimentSchema,
	})
	if err != nil {
		return domain.SentimentResult{}, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return domain.SentimentResult{}, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.SentimentResult{}, fmt.Errorf("chat completion call failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.SentimentResult{}, fmt.Errorf("read chat response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return domain.SentimentResult{}, ErrRateLimited
	case http.StatusPaymentRequired, http.StatusForbidden:
		return domain.SentimentResult{}, fmt.Errorf("%w: status %d", ErrQuotaExceeded, resp.StatusCode)
	default:
		return domain.SentimentResult{}, fmt.Errorf("chat completion returned status %d", resp.StatusCode)
	}

	var decoded chatResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return domain.SentimentResult{}, fmt.Errorf("decode chat response: %w", err)
	}
	if decoded.Error != nil {
		if decoded.Error.Code == "insufficient_quota" {
			return domain.SentimentResult{}, ErrQuotaExceeded
		}
		return domain.SentimentResult{}, fmt.Errorf("chat completion error: %s", decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return domain.SentimentResult{}, fmt.Errorf("%w: no choices", ErrBadModelJSON)
	}

	var result sentimentPayload
	if err := json.Unmarshal([]byte(decoded.Choices[0].Message.Content), &result); err != nil {
		return domain.SentimentResult{}, fmt.Errorf("%w: %v", ErrBadModelJSON, err)
	}

	score := result.SentimentScore
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}
	label := domain.SentimentLabel(result.SentimentLabel)
	switch label {
	case domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative:
	default:
		label = domain.SentimentNeutral
	}

	return domain.SentimentResult{
		Score:    score,
		Label:    label,
		Mood:     result.Mood,
		Keywords: result.Keywords,
	}, nil
}
