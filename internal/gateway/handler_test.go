package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moodmic/internal/domain"
	"moodmic/internal/logging"
)

type stubAnalyzer struct {
	result domain.SentimentResult
	err    error
	texts  []string
}

func (s *stubAnalyzer) AnalyzeText(_ context.Context, text string) (domain.SentimentResult, error) {
	s.texts = append(s.texts, text)
	return s.result, s.err
}

func serveAnalyze(t *testing.T, analyzer Analyzer, body string) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewSentimentHandler(analyzer, nil, logging.Component("test"))
	router := NewRouter(handler, logging.Component("test"))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/sentiment", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestHandlerReturnsAnalysis(t *testing.T) {
	t.Parallel()

	analyzer := &stubAnalyzer{result: domain.SentimentResult{
		Score: 0.92, Label: domain.SentimentPositive, Mood: "happy",
		Keywords: []string{"happy", "today", "great"},
	}}

	recorder := serveAnalyze(t, analyzer, `{"text":"I feel really happy today, everything is going great!"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", recorder.Code)
	}

	var resp analyzeResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.SentimentScore != 0.92 || resp.SentimentLabel != "positive" || resp.Mood != "happy" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Error != "" {
		t.Fatalf("successful analysis must not carry an error field")
	}
	if len(analyzer.texts) != 1 {
		t.Fatalf("expected one upstream call, got %d", len(analyzer.texts))
	}
}

func TestHandlerDegradesUpstreamFailuresTo200Fallback(t *testing.T) {
	t.Parallel()

	for _, upstreamErr := range []error{ErrRateLimited, ErrQuotaExceeded, ErrBadModelJSON, errors.New("upstream exploded")} {
		recorder := serveAnalyze(t, &stubAnalyzer{err: upstreamErr}, `{"text":"everything is going sideways"}`)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200 fallback for %v, got %d", upstreamErr, recorder.Code)
		}

		var resp analyzeResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if resp.SentimentLabel != "neutral" || resp.SentimentScore != 0.5 || resp.Mood != "undetermined" {
			t.Fatalf("unexpected fallback shape for %v: %+v", upstreamErr, resp)
		}
		if resp.Error == "" {
			t.Fatalf("fallback must carry the error detail")
		}
		if len(resp.Keywords) == 0 {
			t.Fatalf("fallback keywords must derive from the text")
		}
	}
}

func TestHandlerRejectsBadRequests(t *testing.T) {
	t.Parallel()

	for _, body := range []string{``, `{`, `{"text":"   "}`} {
		recorder := serveAnalyze(t, &stubAnalyzer{}, body)
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", body, recorder.Code)
		}
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router := NewRouter(NewSentimentHandler(&stubAnalyzer{}, nil, logging.Component("test")), logging.Component("test"))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", recorder.Code)
	}
}
