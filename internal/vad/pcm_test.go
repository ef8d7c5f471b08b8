package vad

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestEncodePCM16ClampsOutOfRangeSamples(t *testing.T) {
	t.Parallel()

	out := EncodePCM16([]float32{2.0, -2.0, 1.0, -1.0, 0})
	if len(out) != 10 {
		t.Fatalf("expected 10 bytes, got %d", len(out))
	}

	samples := make([]int16, 5)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(out[i*2:]))
	}

	if samples[0] != math.MaxInt16 || samples[2] != math.MaxInt16 {
		t.Fatalf("positive clip mismatch: %v", samples)
	}
	if samples[1] != math.MinInt16 || samples[3] != math.MinInt16 {
		t.Fatalf("negative clip mismatch: %v", samples)
	}
	if samples[4] != 0 {
		t.Fatalf("zero sample mismatch: %v", samples)
	}
}

func TestDecodeFloat32LEDropsTrailingPartialSample(t *testing.T) {
	t.Parallel()

	raw := make([]byte, 11)
	binary.LittleEndian.PutUint32(raw[0:], math.Float32bits(0.25))
	binary.LittleEndian.PutUint32(raw[4:], math.Float32bits(-0.5))

	samples := DecodeFloat32LE(raw)
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0] != 0.25 || samples[1] != -0.5 {
		t.Fatalf("unexpected samples: %v", samples)
	}
}

func TestRMSOfConstantWindow(t *testing.T) {
	t.Parallel()

	frame := make([]float32, 256)
	for i := range frame {
		frame[i] = 0.5
	}
	if got := RMS(frame); math.Abs(got-0.5) > 1e-6 {
		t.Fatalf("expected RMS 0.5, got %f", got)
	}
	if got := RMS(nil); got != 0 {
		t.Fatalf("expected zero RMS for empty window, got %f", got)
	}
}
