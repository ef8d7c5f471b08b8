// Package sentiment implements the sentiment analyzer port as an HTTP client
// for the mood gateway. Expected failure classes never surface as errors:
// the client always returns a renderable result, substituting the neutral
// fallback when the gateway cannot be reached.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"moodmic/internal/domain"
)

// Config controls the gateway client.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client implements ports.SentimentAnalyzer against the mood gateway.
type Client struct {
	endpoint string
	http     *http.Client
	log      zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	SentimentScore float64  `json:"sentiment_score"`
	SentimentLabel string   `json:"sentiment_label"`
	Mood           string   `json:"mood"`
	Keywords       []string `json:"keywords"`
	Error          string   `json:"error,omitempty"`
}

// Analyze posts the text to the gateway and returns its result. Transport
// failures, non-200 statuses, and undecodable bodies all degrade to the
// local neutral fallback with naive keywords.
func (c *Client) Analyze(ctx context.Context, text string) domain.SentimentResult {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return c.fallback(text, fmt.Sprintf("encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return c.fallback(text, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fallback(text, fmt.Sprintf("gateway unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.fallback(text, fmt.Sprintf("gateway returned status %d", resp.StatusCode))
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return c.fallback(text, fmt.Sprintf("decode response: %v", err))
	}

	result := domain.SentimentResult{
		Score:    clampScore(decoded.SentimentScore),
		Label:    normalizeLabel(decoded.SentimentLabel),
		Mood:     decoded.Mood,
		Keywords: decoded.Keywords,
	}
	if decoded.Error != "" {
		// The gateway degraded server-side (rate limit, quota). Still a
		// usable low-confidence result.
		result.Degraded = true
		result.Detail = decoded.Error
	}
	if len(result.Keywords) == 0 {
		result.Keywords = FallbackKeywords(text)
	}
	return result
}

func (c *Client) fallback(text string, detail string) domain.SentimentResult {
	c.log.Warn().Str("detail", detail).Msg("sentiment call failed, substituting neutral fallback")
	return domain.NeutralSentiment(FallbackKeywords(text), detail)
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func normalizeLabel(label string) domain.SentimentLabel {
	switch domain.SentimentLabel(label) {
	case domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral:
		return domain.SentimentLabel(label)
	default:
		return domain.SentimentNeutral
	}
}
