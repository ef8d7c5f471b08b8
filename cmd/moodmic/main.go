package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"moodmic/internal/audio"
	"moodmic/internal/config"
	"moodmic/internal/domain"
	"moodmic/internal/logging"
	"moodmic/internal/metrics"
	"moodmic/internal/ports"
	"moodmic/internal/providers/deepgram"
	"moodmic/internal/providers/sentiment"
	"moodmic/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init(logging.Config{Level: "info", Format: "console"})
		bootLog := logging.Component("main")
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log := logging.Component("main")

	if err := cfg.ValidatePipeline(); err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}

	controller := buildController(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := controller.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to connect pipeline")
	}

	log.Info().Msg("listening; press ctrl-c to stop")
	<-ctx.Done()

	if err := controller.Disconnect(); err != nil {
		log.Error().Err(err).Msg("disconnect failed")
	}

	state := controller.Snapshot()
	log.Info().
		Int("segments", len(state.Entries)).
		Str("mood", state.Sentiment.Mood).
		Str("keywords", strings.Join(state.Keywords, ", ")).
		Msg("session summary")
}

func buildController(cfg config.Config) *usecase.PipelineController {
	return usecase.NewPipelineController(
		audio.NewFFMPEGCapture(cfg.Audio.RecorderCommand),
		deepgram.NewProvider(deepgram.Config{
			APIKey:      cfg.Deepgram.APIKey,
			APIBaseURL:  cfg.Deepgram.APIBaseURL,
			Model:       cfg.Deepgram.Model,
			Language:    cfg.Deepgram.Language,
			SmartFormat: cfg.Deepgram.SmartFormat,
		}),
		sentiment.NewClient(sentiment.Config{
			Endpoint: cfg.Sentiment.Endpoint,
			Timeout:  cfg.Sentiment.Timeout,
		}, logging.Component("sentiment")),
		newTerminalSink(),
		metrics.Default,
		logging.Component("pipeline"),
		usecase.Config{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
			},
			Streaming: ports.StreamingConfig{
				SampleRate:     cfg.Audio.SampleRate,
				Channels:       cfg.Audio.Channels,
				Encoding:       "linear16",
				InterimResults: true,
			},
			Gate: usecase.GateConfig{
				Threshold:    cfg.Gate.RMSThreshold,
				Hangover:     cfg.Gate.Hangover,
				FrameSamples: cfg.Gate.FrameSamples,
			},
		},
	)
}

// terminalSink renders pipeline events as structured log lines. It stands in
// for the visual front-end: everything the renderer would need (mood, score,
// keywords, transcript) flows through here.
type terminalSink struct {
	log zerolog.Logger
}

func newTerminalSink() *terminalSink {
	return &terminalSink{log: logging.Component("ui")}
}

func (s *terminalSink) StateChanged(state domain.PipelineState, reason domain.StateReason) {
	s.log.Info().Str("state", string(state)).Str("reason", string(reason)).Msg("state")
}

func (s *terminalSink) SpeakingChanged(speaking bool) {
	s.log.Debug().Bool("speaking", speaking).Msg("voice activity")
}

func (s *terminalSink) InterimTranscript(text string) {
	s.log.Debug().Str("text", text).Msg("interim")
}

func (s *terminalSink) FinalTranscript(entry domain.TranscriptEntry) {
	s.log.Info().Str("text", entry.Text).Msg("transcript")
}

func (s *terminalSink) SentimentUpdated(result domain.SentimentResult) {
	s.log.Info().
		Float64("score", result.Score).
		Str("label", string(result.Label)).
		Str("mood", result.Mood).
		Strs("keywords", result.Keywords).
		Bool("degraded", result.Degraded).
		Msg("sentiment")
}

func (s *terminalSink) PipelineError(code domain.ErrorCode, detail string) {
	s.log.Warn().Str("code", string(code)).Str("detail", detail).Msg("pipeline error")
}
