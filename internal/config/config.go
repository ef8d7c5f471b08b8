package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingKey is wrapped by all missing-credential errors so callers can
// classify them as configuration failures before any network call is made.
var ErrMissingKey = errors.New("missing API key")

// Config stores runtime configuration for both binaries.
type Config struct {
	Deepgram  DeepgramConfig
	Audio     AudioConfig
	Gate      GateConfig
	Sentiment SentimentConfig
	Gateway   GatewayConfig
	Log       LogConfig
}

type DeepgramConfig struct {
	APIKey      string
	APIBaseURL  string
	Model       string
	Language    string
	SmartFormat bool
}

type AudioConfig struct {
	RecorderCommand string
	InputFormat     string
	InputDevice     string
	SampleRate      int
	Channels        int
}

// GateConfig tunes the voice-activity gate.
type GateConfig struct {
	RMSThreshold float64
	Hangover     time.Duration
	FrameSamples int
}

// SentimentConfig points the pipeline at the sentiment gateway.
type SentimentConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// GatewayConfig configures the sentiment gateway service and its LLM upstream.
type GatewayConfig struct {
	ListenAddr string
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// Load resolves configuration from a .env file (if present) and environment
// variables with typed defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Deepgram: DeepgramConfig{
			APIKey:      strings.TrimSpace(os.Getenv("DEEPGRAM_API_KEY")),
			APIBaseURL:  envOrDefault("DEEPGRAM_API_BASE", "https://api.deepgram.com/v1"),
			Model:       envOrDefault("DEEPGRAM_MODEL", "nova-2"),
			Language:    strings.TrimSpace(os.Getenv("DEEPGRAM_LANGUAGE")),
			SmartFormat: envOrDefaultBool("DEEPGRAM_SMART_FORMAT", true),
		},
		Audio: AudioConfig{
			RecorderCommand: envOrDefault("MOODMIC_FFMPEG_COMMAND", "ffmpeg"),
			InputFormat:     envOrDefault("MOODMIC_AUDIO_INPUT_FORMAT", "pulse"),
			InputDevice:     envOrDefault("MOODMIC_AUDIO_INPUT_DEVICE", "default"),
			SampleRate:      envOrDefaultInt("MOODMIC_SAMPLE_RATE", 16000),
			Channels:        envOrDefaultInt("MOODMIC_CHANNELS", 1),
		},
		Gate: GateConfig{
			RMSThreshold: envOrDefaultFloat("MOODMIC_SPEECH_THRESHOLD", 0.01),
			Hangover:     time.Duration(envOrDefaultInt("MOODMIC_SILENCE_HANGOVER_MS", 800)) * time.Millisecond,
			FrameSamples: envOrDefaultInt("MOODMIC_FRAME_SAMPLES", 4096),
		},
		Sentiment: SentimentConfig{
			Endpoint: envOrDefault("MOODMIC_SENTIMENT_URL", "http://localhost:8787/api/sentiment"),
			Timeout:  time.Duration(envOrDefaultInt("MOODMIC_SENTIMENT_TIMEOUT_MS", 30000)) * time.Millisecond,
		},
		Gateway: GatewayConfig{
			ListenAddr: envOrDefault("MOODGATEWAY_ADDR", ":8787"),
			LLMAPIKey:  strings.TrimSpace(os.Getenv("LLM_API_KEY")),
			LLMBaseURL: envOrDefault("LLM_API_BASE", "https://api.openai.com/v1"),
			LLMModel:   envOrDefault("LLM_MODEL", "gpt-4o-mini"),
			LLMTimeout: time.Duration(envOrDefaultInt("LLM_TIMEOUT_MS", 30000)) * time.Millisecond,
		},
		Log: LogConfig{
			Level:  envOrDefault("MOODMIC_LOG_LEVEL", "info"),
			Format: envOrDefault("MOODMIC_LOG_FORMAT", "console"),
		},
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Gate.RMSThreshold <= 0 {
		cfg.Gate.RMSThreshold = 0.01
	}
	if cfg.Gate.Hangover <= 0 {
		cfg.Gate.Hangover = 800 * time.Millisecond
	}
	if cfg.Gate.FrameSamples < 256 {
		cfg.Gate.FrameSamples = 4096
	}

	return cfg, nil
}

// ValidatePipeline checks the credentials the capture pipeline needs.
func (c Config) ValidatePipeline() error {
	if c.Deepgram.APIKey == "" {
		return fmt.Errorf("%w: DEEPGRAM_API_KEY is not set", ErrMissingKey)
	}
	return nil
}

// ValidateGateway checks the credentials the sentiment gateway needs.
func (c Config) ValidateGateway() error {
	if c.Gateway.LLMAPIKey == "" {
		return fmt.Errorf("%w: LLM_API_KEY is not set", ErrMissingKey)
	}
	return nil
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
