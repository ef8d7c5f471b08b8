// Package vad implements the amplitude-threshold voice-activity gate that
// decides whether an audio frame is transmitted to the transcription
// provider. It is a hysteresis gate: speech opens it immediately, silence
// closes it only after an uninterrupted hangover window.
package vad

import (
	"sync"
	"time"
)

// Gate suppresses sub-threshold audio frames and tracks speaking state.
type Gate struct {
	threshold  float64
	hangover   time.Duration
	onSpeaking func(bool)

	mu       sync.Mutex
	speaking bool
	silence  *time.Timer
}

// NewGate creates a gate. onSpeaking may be nil; when set it is invoked
// once per speaking-state transition, outside the gate's lock.
func NewGate(threshold float64, hangover time.Duration, onSpeaking func(bool)) *Gate {
	if threshold <= 0 {
		threshold = 0.01
	}
	if hangover <= 0 {
		hangover = 800 * time.Millisecond
	}
	return &Gate{
		threshold:  threshold,
		hangover:   hangover,
		onSpeaking: onSpeaking,
	}
}

// Process evaluates one frame of float samples. It returns the frame encoded
// as little-endian int16 PCM when it should be transmitted, or nil when it
// is suppressed. Frames below the threshold are never transmitted; a frame
// above it cancels any pending silence timer and keeps the gate open.
func (g *Gate) Process(frame []float32) []byte {
	if len(frame) == 0 {
		return nil
	}

	if RMS(frame) > g.threshold {
		g.markSpeaking()
		return EncodePCM16(frame)
	}

	g.armSilence()
	return nil
}

// Speaking reports whether the gate currently considers speech active.
func (g *Gate) Speaking() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.speaking
}

// Reset cancels any pending silence timer and returns the gate to the
// not-speaking state without notifying the observer. Used on teardown.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.silence != nil {
		g.silence.Stop()
		g.silence = nil
	}
	g.speaking = false
}

func (g *Gate) markSpeaking() {
	g.mu.Lock()
	if g.silence != nil {
		g.silence.Stop()
		g.silence = nil
	}
	changed := !g.speaking
	g.speaking = true
	g.mu.Unlock()

	if changed && g.onSpeaking != nil {
		g.onSpeaking(true)
	}
}

func (g *Gate) armSilence() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.speaking || g.silence != nil {
		return
	}
	g.silence = time.AfterFunc(g.hangover, g.silenceElapsed)
}

func (g *Gate) silenceElapsed() {
	g.mu.Lock()
	g.silence = nil
	changed := g.speaking
	g.speaking = false
	g.mu.Unlock()

	if changed && g.onSpeaking != nil {
		g.onSpeaking(false)
	}
}
