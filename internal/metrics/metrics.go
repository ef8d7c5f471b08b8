// Package metrics provides Prometheus metrics for the pipeline and gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "moodmic"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Gate metrics
	FramesEmitted    prometheus.Counter
	FramesSuppressed prometheus.Counter
	AudioBytesSent   prometheus.Counter

	// Transcript metrics
	TranscriptsInterim prometheus.Counter
	TranscriptsFinal   prometheus.Counter

	// Sentiment metrics
	SentimentRequests  prometheus.Counter
	SentimentFallbacks prometheus.Counter

	// Gateway metrics
	GatewayRequests *prometheus.CounterVec
	GatewayLatency  prometheus.Histogram
}

// New creates all metrics and registers them on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FramesEmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_emitted_total",
			Help:      "Audio frames that passed the voice-activity gate",
		}),
		FramesSuppressed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_suppressed_total",
			Help:      "Audio frames withheld during silence",
		}),
		AudioBytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_sent_total",
			Help:      "PCM bytes transmitted to the transcription provider",
		}),
		TranscriptsInterim: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_interim_total",
			Help:      "Interim transcript events received",
		}),
		TranscriptsFinal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_final_total",
			Help:      "Final transcript events received",
		}),
		SentimentRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiment_requests_total",
			Help:      "Sentiment analysis requests issued",
		}),
		SentimentFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiment_fallbacks_total",
			Help:      "Sentiment results substituted with the neutral fallback",
		}),
		GatewayRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Sentiment gateway requests by outcome",
		}, []string{"outcome"}),
		GatewayLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_latency_seconds",
			Help:      "Sentiment gateway end-to-end request latency",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
	}
}

// Default is the shared metrics instance registered on the default registry.
var Default = New(prometheus.DefaultRegisterer)
