package domain

// PipelineState models the capture pipeline lifecycle.
type PipelineState string

const (
	PipelineStateIdle       PipelineState = "idle"
	PipelineStateConnecting PipelineState = "connecting"
	PipelineStateListening  PipelineState = "listening"
	PipelineStateError      PipelineState = "error"
)

// StateReason provides a structured reason for pipeline state transitions.
type StateReason string

const (
	ReasonStartup          StateReason = "startup"
	ReasonConnecting       StateReason = "connecting"
	ReasonListeningStarted StateReason = "listening_started"
	ReasonDisconnected     StateReason = "disconnected"
	ReasonStreamClosed     StateReason = "stream_closed"
	ReasonConnectFailed    StateReason = "connect_failed"
)

// ErrorCode identifies the error classes surfaced to the caller.
type ErrorCode string

const (
	ErrorCodeConfig        ErrorCode = "config"
	ErrorCodeCapture       ErrorCode = "capture"
	ErrorCodeTransport     ErrorCode = "transport"
	ErrorCodeAudioStream   ErrorCode = "audio_stream"
	ErrorCodeSentiment     ErrorCode = "sentiment"
	ErrorCodeSentimentSoft ErrorCode = "sentiment_degraded"
)

// TranscriptEvent represents incremental transcription output from a provider.
type TranscriptEvent struct {
	Text        string `json:"text"`
	TimestampMS int64  `json:"timestampMs"`
	IsFinal     bool   `json:"isFinal"`
}

// TranscriptEntry is a finalized segment appended to the session log.
// Entries are immutable once created.
type TranscriptEntry struct {
	Text        string `json:"text"`
	TimestampMS int64  `json:"timestampMs"`
	IsFinal     bool   `json:"isFinal"`
}

// SentimentLabel is the coarse polarity bucket attached to a result.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// SentimentResult is the analysis output for one final transcript segment.
type SentimentResult struct {
	Score    float64        `json:"sentiment_score"`
	Label    SentimentLabel `json:"sentiment_label"`
	Mood     string         `json:"mood"`
	Keywords []string       `json:"keywords"`

	// Degraded is set when the result is a fallback shape rather than a
	// real analysis (rate limit, quota, unreachable gateway). Degraded
	// results are still rendered; they are low confidence, not errors.
	Degraded bool   `json:"-"`
	Detail   string `json:"-"`
}

// NeutralSentiment returns the always-available substitute result.
func NeutralSentiment(keywords []string, detail string) SentimentResult {
	return SentimentResult{
		Score:    0.5,
		Label:    SentimentNeutral,
		Mood:     "undetermined",
		Keywords: keywords,
		Degraded: true,
		Detail:   detail,
	}
}

// Status summarizes the current pipeline status.
type Status struct {
	State     PipelineState `json:"state"`
	Connected bool          `json:"connected"`
	Recording bool          `json:"recording"`
	Speaking  bool          `json:"speaking"`
	Message   string        `json:"message,omitempty"`
}
