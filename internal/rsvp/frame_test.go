package rsvp

import (
	"reflect"
	"testing"
)

func TestExtractFrame(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon"}

	tests := []struct {
		name     string
		words    []string
		center   int
		size     int
		expected Frame
	}{
		{
			name:     "middle of document",
			words:    words,
			center:   2,
			size:     2,
			expected: Frame{Words: []string{"beta", "gamma", "delta"}, CenterOffset: 1},
		},
		{
			name:     "left edge clamps window",
			words:    words,
			center:   0,
			size:     2,
			expected: Frame{Words: []string{"alpha", "beta"}, CenterOffset: 0},
		},
		{
			name:     "left edge with odd size",
			words:    words,
			center:   0,
			size:     3,
			expected: Frame{Words: []string{"alpha", "beta"}, CenterOffset: 0},
		},
		{
			name:     "right edge clamps window",
			words:    words,
			center:   4,
			size:     2,
			expected: Frame{Words: []string{"delta", "epsilon"}, CenterOffset: 1},
		},
		{
			name:     "size larger than document",
			words:    words,
			center:   2,
			size:     100,
			expected: Frame{Words: []string{"alpha", "beta", "gamma", "delta", "epsilon"}, CenterOffset: 2},
		},
		{
			name:     "size one shows only the current word",
			words:    words,
			center:   3,
			size:     1,
			expected: Frame{Words: []string{"delta"}, CenterOffset: 0},
		},
		{
			name:     "size zero shows only the current word",
			words:    words,
			center:   3,
			size:     0,
			expected: Frame{Words: []string{"delta"}, CenterOffset: 0},
		},
		{
			name:     "center past the end",
			words:    words,
			center:   5,
			size:     2,
			expected: Frame{Words: []string{""}, CenterOffset: 0},
		},
		{
			name:     "negative center",
			words:    words,
			center:   -1,
			size:     2,
			expected: Frame{Words: []string{""}, CenterOffset: 0},
		},
		{
			name:     "empty document",
			words:    nil,
			center:   0,
			size:     2,
			expected: Frame{Words: []string{""}, CenterOffset: 0},
		},
		{
			name:     "odd size rounds radius down",
			words:    words,
			center:   2,
			size:     3,
			expected: Frame{Words: []string{"beta", "gamma", "delta"}, CenterOffset: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractFrame(tt.words, tt.center, tt.size)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("ExtractFrame(center=%d, size=%d) = %+v, want %+v",
					tt.center, tt.size, result, tt.expected)
			}
		})
	}
}

func TestExtractFrameCenterInvariant(t *testing.T) {
	words := []string{"one", "two", "three", "four", "five", "six", "seven"}
	for center := 0; center < len(words); center++ {
		for size := 0; size <= 8; size++ {
			frame := ExtractFrame(words, center, size)
			if frame.CenterOffset < 0 || frame.CenterOffset >= len(frame.Words) {
				t.Fatalf("center=%d size=%d: offset %d out of range for %d words",
					center, size, frame.CenterOffset, len(frame.Words))
			}
			if got := frame.Words[frame.CenterOffset]; got != words[center] {
				t.Errorf("center=%d size=%d: frame centers on %q, want %q",
					center, size, got, words[center])
			}
		}
	}
}
