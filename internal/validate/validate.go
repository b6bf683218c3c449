// Package validate holds the pre-save gate: pure predicates over audio
// waveforms, narration text and the target filesystem. Hard failures
// block a save; clipping and long-silence detection are advisory.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/emmett/voxset/internal/audio"
)

const (
	// SilenceThreshold is the peak amplitude below which a recording is
	// treated as a microphone failure. A peak exactly at the threshold
	// passes.
	SilenceThreshold = 0.001

	// MinTextLength is the minimum narration length in characters after
	// trimming whitespace.
	MinTextLength = 10

	// ClippingThreshold is the default amplitude at or above which a
	// sample counts as clipped.
	ClippingThreshold = 0.99

	// LongSilenceThreshold is the amplitude below which a sample counts
	// toward a silent run in the long-silence advisory. Deliberately
	// higher than SilenceThreshold so quiet-but-audible dead air still
	// gets flagged.
	LongSilenceThreshold = 0.01
)

// ValidateAudioData fails for nil, empty, or near-silent audio.
func ValidateAudioData(data []float32) error {
	if data == nil {
		return fmt.Errorf("no audio data recorded")
	}
	if len(data) == 0 {
		return fmt.Errorf("audio recording is empty")
	}
	if audio.Peak(data) < SilenceThreshold {
		return fmt.Errorf("audio appears to be silent, check your microphone")
	}
	return nil
}

// ValidateTextContent fails for empty, whitespace-only, or too-short
// text. Length is counted in characters, not bytes; text of exactly
// MinTextLength trimmed characters passes.
func ValidateTextContent(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("text content is empty")
	}
	if utf8.RuneCountInString(trimmed) < MinTextLength {
		return fmt.Errorf("text is too short (minimum %d characters)", MinTextLength)
	}
	return nil
}

// ValidateSample gates both halves of a sample, short-circuiting on the
// first failure.
func ValidateSample(data []float32, text string) error {
	if err := ValidateAudioData(data); err != nil {
		return err
	}
	return ValidateTextContent(text)
}

// CheckDiskSpace fails when free space under path is below requiredMB.
func CheckDiskSpace(path string, requiredMB int) error {
	free, err := freeSpace(path)
	if err != nil {
		return fmt.Errorf("cannot check disk space: %w", err)
	}

	availableMB := float64(free) / (1024 * 1024)
	if availableMB < float64(requiredMB) {
		return fmt.Errorf("insufficient disk space: %.1f MB available, %d MB required", availableMB, requiredMB)
	}
	return nil
}

// DetectClipping reports whether any sample's absolute amplitude meets
// or exceeds threshold. Advisory only, never blocks a save.
func DetectClipping(data []float32, threshold float64) bool {
	if len(data) == 0 {
		return false
	}
	return audio.Peak(data) >= threshold
}

// DetectLongSilence reports whether the longest run of consecutive
// samples strictly below threshold lasts at least minDuration seconds.
// Advisory only.
func DetectLongSilence(data []float32, threshold, minDuration float64, sampleRate int) bool {
	if len(data) == 0 || sampleRate <= 0 {
		return false
	}

	maxRun := 0
	run := 0
	for _, s := range data {
		v := float64(s)
		if v < 0 {
			v = -v
		}
		if v < threshold {
			run++
			if run > maxRun {
				maxRun = run
			}
		} else {
			run = 0
		}
	}

	return float64(maxRun)/float64(sampleRate) >= minDuration
}

// ValidateBasePath ensures the dataset root exists (creating it if
// missing), is a directory, and is writable, probing with a throwaway
// file.
func ValidateBasePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	st, err := os.Stat(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access path: %w", err)
	} else if !st.IsDir() {
		return fmt.Errorf("path must be a directory")
	}

	probe := filepath.Join(path, ".write_test")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		return fmt.Errorf("no write permission: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		return fmt.Errorf("no write permission: %w", err)
	}

	return nil
}
