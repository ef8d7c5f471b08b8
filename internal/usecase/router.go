package usecase

import (
	"context"
	"strings"
	"sync"

	"moodmic/internal/domain"
	"moodmic/internal/metrics"
	"moodmic/internal/ports"
)

// TranscriptRouter is the single place that decides interim vs. final
// handling. Interim events replace the live slot; final events grow the log
// and trigger exactly one asynchronous sentiment request each. Concurrent
// requests are neither deduplicated nor cancelled; results apply in
// resolution order.
type TranscriptRouter struct {
	analyzer ports.SentimentAnalyzer
	events   ports.EventSink
	metrics  *metrics.Metrics

	mu     sync.Mutex
	state  SessionState
	closed bool

	pending sync.WaitGroup
}

func NewTranscriptRouter(analyzer ports.SentimentAnalyzer, events ports.EventSink, m *metrics.Metrics) *TranscriptRouter {
	if m == nil {
		m = metrics.Default
	}
	return &TranscriptRouter{
		analyzer: analyzer,
		events:   events,
		metrics:  m,
	}
}

// HandleTranscript folds one provider event into the session state,
// synchronously with event arrival.
func (r *TranscriptRouter) HandleTranscript(event domain.TranscriptEvent) {
	if strings.TrimSpace(event.Text) == "" {
		return
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	next, finalized := applyTranscript(r.state, event)
	r.state = next
	r.mu.Unlock()

	if !finalized {
		r.metrics.TranscriptsInterim.Inc()
		r.events.InterimTranscript(event.Text)
		return
	}

	entry := domain.TranscriptEntry{Text: event.Text, TimestampMS: event.TimestampMS, IsFinal: true}
	r.metrics.TranscriptsFinal.Inc()
	r.events.FinalTranscript(entry)

	r.metrics.SentimentRequests.Inc()
	r.pending.Add(1)
	go r.analyze(entry.Text)
}

// analyze runs one sentiment round trip. It deliberately uses a background
// context: disconnecting the session does not cancel in-flight requests,
// their results are simply discarded once the router is closed.
func (r *TranscriptRouter) analyze(text string) {
	defer r.pending.Done()

	result := r.analyzer.Analyze(context.Background(), text)
	if result.Degraded {
		r.metrics.SentimentFallbacks.Inc()
		r.events.PipelineError(domain.ErrorCodeSentimentSoft, result.Detail)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.state = applySentiment(r.state, result)
	r.mu.Unlock()

	r.events.SentimentUpdated(result)
}

// Snapshot returns a copy of the current session state.
func (r *TranscriptRouter) Snapshot() SessionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.snapshot()
}

// Close stops the router from accepting further events; late sentiment
// results are discarded.
func (r *TranscriptRouter) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// Drain blocks until all in-flight sentiment requests have resolved.
// Intended for tests and orderly shutdown; the requests themselves are
// never cancelled.
func (r *TranscriptRouter) Drain() {
	r.pending.Wait()
}
