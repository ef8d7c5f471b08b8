package vad

import (
	"sync"
	"testing"
	"time"
)

func loudFrame(n int) []float32 {
	frame := make([]float32, n)
	for i := range frame {
		frame[i] = 0.5
	}
	return frame
}

func quietFrame(n int) []float32 {
	frame := make([]float32, n)
	for i := range frame {
		frame[i] = 0.001
	}
	return frame
}

func TestGateSuppressesSilenceWhileNotSpeaking(t *testing.T) {
	t.Parallel()

	gate := NewGate(0.01, 50*time.Millisecond, nil)
	for i := 0; i < 10; i++ {
		if out := gate.Process(quietFrame(512)); out != nil {
			t.Fatalf("expected silence frame %d to be suppressed", i)
		}
	}
	if gate.Speaking() {
		t.Fatalf("gate should not be speaking")
	}
}

func TestGateEmitsSpeechFramesAtDoubleByteLength(t *testing.T) {
	t.Parallel()

	gate := NewGate(0.01, 50*time.Millisecond, nil)
	frame := loudFrame(512)
	out := gate.Process(frame)
	if out == nil {
		t.Fatalf("expected speech frame to be emitted")
	}
	if len(out) != len(frame)*2 {
		t.Fatalf("expected %d bytes, got %d", len(frame)*2, len(out))
	}
	if !gate.Speaking() {
		t.Fatalf("gate should be speaking after speech frame")
	}
}

func TestGateHangoverFlipsToNotSpeakingAfterFullWindow(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var transitions []bool
	gate := NewGate(0.01, 40*time.Millisecond, func(speaking bool) {
		mu.Lock()
		transitions = append(transitions, speaking)
		mu.Unlock()
	})

	gate.Process(loudFrame(512))
	gate.Process(quietFrame(512))

	// Still inside the hangover window.
	time.Sleep(15 * time.Millisecond)
	if !gate.Speaking() {
		t.Fatalf("gate flipped before the hangover elapsed")
	}

	time.Sleep(60 * time.Millisecond)
	if gate.Speaking() {
		t.Fatalf("gate should be not-speaking after an uninterrupted window")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(transitions) != 2 || !transitions[0] || transitions[1] {
		t.Fatalf("expected transitions [true false], got %v", transitions)
	}
}

func TestGateSpeechFrameResetsPendingHangover(t *testing.T) {
	t.Parallel()

	gate := NewGate(0.01, 40*time.Millisecond, nil)
	gate.Process(loudFrame(512))
	gate.Process(quietFrame(512))

	time.Sleep(20 * time.Millisecond)
	gate.Process(loudFrame(512))

	// Past the original deadline; the speech frame must have cancelled it.
	time.Sleep(30 * time.Millisecond)
	if !gate.Speaking() {
		t.Fatalf("qualifying frame inside the window should keep the gate open")
	}
}

func TestGateSilenceDuringHangoverDoesNotExtendIt(t *testing.T) {
	t.Parallel()

	gate := NewGate(0.01, 40*time.Millisecond, nil)
	gate.Process(loudFrame(512))

	// Continuous silence frames must not keep the gate open forever.
	deadline := time.Now().Add(120 * time.Millisecond)
	for time.Now().Before(deadline) {
		gate.Process(quietFrame(512))
		time.Sleep(10 * time.Millisecond)
	}
	if gate.Speaking() {
		t.Fatalf("gate stayed open through continuous silence")
	}
}

func TestGateResetClearsState(t *testing.T) {
	t.Parallel()

	gate := NewGate(0.01, time.Hour, nil)
	gate.Process(loudFrame(512))
	gate.Reset()
	if gate.Speaking() {
		t.Fatalf("reset should return the gate to not-speaking")
	}
}
