package vad

import (
	"encoding/binary"
	"math"
)

// DecodeFloat32LE converts raw little-endian 32-bit float PCM into samples.
// A trailing partial sample is dropped.
func DecodeFloat32LE(raw []byte) []float32 {
	n := len(raw) / 4
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(raw[i*4:])
		samples[i] = math.Float32frombits(bits)
	}
	return samples
}

// EncodePCM16 converts float samples in [-1,1] into little-endian signed
// 16-bit PCM, clamping out-of-range samples before scaling.
func EncodePCM16(frame []float32) []byte {
	out := make([]byte, len(frame)*2)
	for i, sample := range frame {
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		var value int16
		if sample < 0 {
			value = int16(sample * 0x8000)
		} else {
			value = int16(sample * 0x7FFF)
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(value))
	}
	return out
}

// RMS computes the root-mean-square amplitude of a sample window.
func RMS(frame []float32) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, sample := range frame {
		sum += float64(sample) * float64(sample)
	}
	return math.Sqrt(sum / float64(len(frame)))
}
