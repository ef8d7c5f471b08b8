package usecase

import (
	"errors"
	"fmt"
	"io"

	"moodmic/internal/domain"
	"moodmic/internal/metrics"
	"moodmic/internal/ports"
	"moodmic/internal/vad"
)

// pumpGatedAudio reads fixed-size float PCM frames from the capture session,
// runs each through the voice-activity gate, and transmits only the frames
// the gate lets through.
func pumpGatedAudio(
	audio ports.AudioSession,
	stream ports.StreamingSession,
	gate *vad.Gate,
	frameSamples int,
	events ports.EventSink,
	m *metrics.Metrics,
	done chan struct{},
) {
	defer close(done)

	if frameSamples < 256 {
		frameSamples = 4096
	}
	if m == nil {
		m = metrics.Default
	}

	buf := make([]byte, frameSamples*4)
	for {
		n, err := io.ReadFull(audio, buf)
		if n >= 4 {
			frame := vad.DecodeFloat32LE(buf[:n])
			if pcm := gate.Process(frame); pcm != nil {
				m.FramesEmitted.Inc()
				m.AudioBytesSent.Add(float64(len(pcm)))
				if sendErr := stream.SendAudio(pcm); sendErr != nil {
					events.PipelineError(domain.ErrorCodeAudioStream, fmt.Sprintf("failed to stream audio: %v", sendErr))
					return
				}
			} else {
				m.FramesSuppressed.Inc()
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				events.PipelineError(domain.ErrorCodeAudioStream, fmt.Sprintf("audio capture error: %v", err))
			}
			return
		}
	}
}
