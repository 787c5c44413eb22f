// Package textchunk splits text into fixed-size overlapping character windows.
package textchunk

import (
	"errors"
	"fmt"
)

const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

var ErrInvalidWindow = errors.New("invalid chunk window")

// Window is one chunk with its rune offsets in the source text.
type Window struct {
	Index int
	Start int
	End   int
	Text  string
}

// Split returns the text of every window produced by Windows.
func Split(text string, size, overlap int) ([]string, error) {
	windows, err := Windows(text, size, overlap)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(windows))
	for i, w := range windows {
		out[i] = w.Text
	}
	return out, nil
}

// Windows slides a window of size runes across text, advancing size-overlap
// runes per step. Window i covers [i*step, i*step+size) clipped to the text.
// The last window is the first one that reaches the end of the text, so every
// rune is covered and no window is a strict suffix of its predecessor.
func Windows(text string, size, overlap int) ([]Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidWindow, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", ErrInvalidWindow, size, overlap)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := size - overlap
	var windows []Window
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		windows = append(windows, Window{
			Index: len(windows),
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
		})
		if end == len(runes) {
			break
		}
	}
	return windows, nil
}
