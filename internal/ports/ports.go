package ports

import (
	"context"
	"io"

	"moodmic/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live capture session emitting little-endian 32-bit
// float PCM.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// StreamingConfig describes provider-agnostic streaming settings.
type StreamingConfig struct {
	SampleRate     int
	Channels       int
	Encoding       string
	InterimResults bool
}

// StreamingSession is an active provider websocket session.
type StreamingSession interface {
	SendAudio(chunk []byte) error
	CloseSend() error
	Events() <-chan domain.TranscriptEvent
	Wait() error
	Close() error
}

// TranscriptionProvider starts streaming transcription sessions.
type TranscriptionProvider interface {
	StartStreaming(ctx context.Context, cfg StreamingConfig) (StreamingSession, error)
}

// SentimentAnalyzer analyzes one transcript segment. Implementations never
// return an error for expected failure classes; they degrade to a neutral
// fallback result instead.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) domain.SentimentResult
}

// EventSink emits pipeline state and data events to the front-end.
type EventSink interface {
	StateChanged(state domain.PipelineState, reason domain.StateReason)
	SpeakingChanged(speaking bool)
	InterimTranscript(text string)
	FinalTranscript(entry domain.TranscriptEntry)
	SentimentUpdated(result domain.SentimentResult)
	PipelineError(code domain.ErrorCode, detail string)
}
