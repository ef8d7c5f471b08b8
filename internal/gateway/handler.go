// Package gateway is the sentiment passthrough service: it accepts a
// transcript segment, forwards it to an LLM chat-completion API with a
// fixed JSON schema, and always degrades expected upstream failures to a
// 200-status neutral fallback so callers never special-case transport
// errors against content errors.
package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"moodmic/internal/domain"
	"moodmic/internal/metrics"
	"moodmic/internal/providers/sentiment"
)

// Analyzer is the upstream the handler proxies to.
type Analyzer interface {
	AnalyzeText(ctx context.Context, text string) (domain.SentimentResult, error)
}

// SentimentHandler serves POST /api/sentiment.
type SentimentHandler struct {
	llm     Analyzer
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewSentimentHandler(llm Analyzer, m *metrics.Metrics, log zerolog.Logger) *SentimentHandler {
	if m == nil {
		m = metrics.Default
	}
	return &SentimentHandler{llm: llm, metrics: m, log: log}
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

// Analyze proxies one segment to the LLM. Only malformed requests get a
// non-200 status; every expected upstream failure returns the fallback
// shape with an error field.
func (h *SentimentHandler) Analyze(c *gin.Context) {
	start := time.Now()
	requestID := uuid.NewString()

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.GatewayRequests.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be JSON with a text field"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.metrics.GatewayRequests.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "text must not be empty"})
		return
	}

	result, err := h.llm.AnalyzeText(c.Request.Context(), req.Text)
	h.metrics.GatewayLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		h.metrics.GatewayRequests.WithLabelValues("fallback").Inc()
		h.log.Warn().
			Str("request_id", requestID).
			Err(err).
			Msg("upstream analysis failed, returning fallback")

		fallback := domain.NeutralSentiment(sentiment.FallbackKeywords(req.Text), err.Error())
		c.JSON(http.StatusOK, analyzeResponse{
			SentimentScore: fallback.Score,
			SentimentLabel: string(fallback.Label),
			Mood:           fallback.Mood,
			Keywords:       fallback.Keywords,
			Error:          err.Error(),
		})
		return
	}

	h.metrics.GatewayRequests.WithLabelValues("ok").Inc()
	h.log.Debug().
		Str("request_id", requestID).
		Float64("score", result.Score).
		Str("label", string(result.Label)).
		Msg("sentiment analyzed")

	c.JSON(http.StatusOK, analyzeResponse{
		SentimentScore: result.Score,
		SentimentLabel: string(result.Label),
		Mood:           result.Mood,
		Keywords:       result.Keywords,
	})
}
