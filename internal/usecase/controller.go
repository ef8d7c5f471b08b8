package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"moodmic/internal/domain"
	"moodmic/internal/metrics"
	"moodmic/internal/ports"
	"moodmic/internal/vad"
)

var ErrAlreadyConnected = errors.New("pipeline is already connected")

// ConnectError classifies a failed connect attempt so callers can
// distinguish capture problems (no device, permission) from remote
// connection failures. Either way the pipeline is left fully torn down.
type ConnectError struct {
	Code domain.ErrorCode
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// GateConfig mirrors the voice-activity gate tuning.
type GateConfig struct {
	Threshold    float64
	Hangover     time.Duration
	FrameSamples int
}

// Config controls pipeline behavior.
type Config struct {
	Audio     ports.AudioConfig
	Streaming ports.StreamingConfig
	Gate      GateConfig
}

// PipelineController orchestrates the capture -> gate -> transcription ->
// sentiment pipeline for one session at a time.
type PipelineController struct {
	audio    ports.AudioCapture
	provider ports.TranscriptionProvider
	analyzer ports.SentimentAnalyzer
	events   ports.EventSink
	metrics  *metrics.Metrics
	log      zerolog.Logger
	cfg      Config

	mu       sync.Mutex
	starting bool
	current  *activeSession
	last     SessionState
}

type activeSession struct {
	id     string
	cancel func()
	audio  ports.AudioSession
	stream ports.StreamingSession
	gate   *vad.Gate
	router *TranscriptRouter

	eventsDone chan struct{}
	audioDone  chan struct{}
}

func NewPipelineController(
	audio ports.AudioCapture,
	provider ports.TranscriptionProvider,
	analyzer ports.SentimentAnalyzer,
	events ports.EventSink,
	m *metrics.Metrics,
	log zerolog.Logger,
	cfg Config,
) *PipelineController {
	if m == nil {
		m = metrics.Default
	}
	if cfg.Gate.FrameSamples < 256 {
		cfg.Gate.FrameSamples = 4096
	}
	return &PipelineController{
		audio:    audio,
		provider: provider,
		analyzer: analyzer,
		events:   events,
		metrics:  m,
		log:      log,
		cfg:      cfg,
	}
}

// Connect opens the streaming connection first and starts pulling microphone
// frames only once it is live. Any failure unwinds whatever was initialized:
// no dangling recorder process, no open socket.
func (c *PipelineController) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.current != nil || c.starting {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.starting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.starting = false
		c.mu.Unlock()
	}()

	c.events.StateChanged(domain.PipelineStateConnecting, domain.ReasonConnecting)

	sessionCtx, cancel := context.WithCancel(ctx)
	stream, err := c.provider.StartStreaming(sessionCtx, c.cfg.Streaming)
	if err != nil {
		cancel()
		c.events.StateChanged(domain.PipelineStateIdle, domain.ReasonConnectFailed)
		return &ConnectError{Code: domain.ErrorCodeTransport, Err: err}
	}

	audioSession, err := c.audio.Start(sessionCtx, c.cfg.Audio)
	if err != nil {
		_ = stream.Close()
		cancel()
		c.events.StateChanged(domain.PipelineStateIdle, domain.ReasonConnectFailed)
		return &ConnectError{Code: domain.ErrorCodeCapture, Err: err}
	}

	gate := vad.NewGate(c.cfg.Gate.Threshold, c.cfg.Gate.Hangover, c.events.SpeakingChanged)
	active := &activeSession{
		id:         uuid.NewString(),
		cancel:     cancel,
		audio:      audioSession,
		stream:     stream,
		gate:       gate,
		router:     NewTranscriptRouter(c.analyzer, c.events, c.metrics),
		eventsDone: make(chan struct{}),
		audioDone:  make(chan struct{}),
	}

	c.mu.Lock()
	c.current = active
	c.mu.Unlock()

	go c.consumeEvents(active)
	go pumpGatedAudio(active.audio, active.stream, active.gate, c.cfg.Gate.FrameSamples, c.events, c.metrics, active.audioDone)

	c.log.Info().Str("session", active.id).Msg("pipeline connected")
	c.events.StateChanged(domain.PipelineStateListening, domain.ReasonListeningStarted)
	return nil
}

// Disconnect tears the session down unconditionally and idempotently,
// restoring the idle state. In-flight sentiment requests are not cancelled;
// their late results are discarded by the closed router.
func (c *PipelineController) Disconnect() error {
	c.mu.Lock()
	active := c.current
	c.current = nil
	c.mu.Unlock()

	if active == nil {
		return nil
	}

	active.cancel()
	_ = active.audio.Stop()
	_ = active.stream.Close()
	<-active.eventsDone
	<-active.audioDone
	active.gate.Reset()
	active.router.Close()

	c.mu.Lock()
	c.last = active.router.Snapshot()
	c.mu.Unlock()

	c.log.Info().Str("session", active.id).Msg("pipeline disconnected")
	c.events.StateChanged(domain.PipelineStateIdle, domain.ReasonDisconnected)
	return nil
}

// Status returns the current pipeline status.
func (c *PipelineController) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return domain.Status{State: domain.PipelineStateIdle}
	}
	return domain.Status{
		State:     domain.PipelineStateListening,
		Connected: true,
		Recording: true,
		Speaking:  c.current.gate.Speaking(),
	}
}

// Snapshot returns the live session state, or the final state of the most
// recently ended session when idle.
func (c *PipelineController) Snapshot() SessionState {
	c.mu.Lock()
	active := c.current
	last := c.last
	c.mu.Unlock()

	if active != nil {
		return active.router.Snapshot()
	}
	return last.snapshot()
}

// consumeEvents routes provider events synchronously with message arrival.
// When the channel closes the remote ended the session; that is terminal
// for the current session, there is no automatic reconnect.
func (c *PipelineController) consumeEvents(active *activeSession) {
	for event := range active.stream.Events() {
		active.router.HandleTranscript(event)
	}
	close(active.eventsDone)

	c.mu.Lock()
	owned := c.current == active
	if owned {
		c.current = nil
	}
	c.mu.Unlock()
	if !owned {
		// Disconnect already owns the teardown.
		return
	}

	active.cancel()
	_ = active.audio.Stop()
	streamErr := active.stream.Wait()
	<-active.audioDone
	active.gate.Reset()
	active.router.Close()

	c.mu.Lock()
	c.last = active.router.Snapshot()
	c.mu.Unlock()

	if streamErr != nil {
		c.log.Warn().Str("session", active.id).Err(streamErr).Msg("stream closed by remote")
		c.events.PipelineError(domain.ErrorCodeTransport, streamErr.Error())
	}
	c.events.StateChanged(domain.PipelineStateIdle, domain.ReasonStreamClosed)
}
