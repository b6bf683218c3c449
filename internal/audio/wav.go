package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SaveWAV writes normalized float32 samples to path as a 16-bit PCM WAV
// file, creating parent directories as needed. Samples outside -1.0..1.0
// are clamped.
func SaveWAV(path string, data []float32, sampleRate, channels int) error {
	if len(data) == 0 {
		return fmt.Errorf("no audio data to save")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)

	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, len(data)),
		SourceBitDepth: 16,
	}
	for i, s := range data {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf.Data[i] = int(math.Round(float64(s) * 32767))
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalize wav file: %w", err)
	}

	return f.Close()
}

// WAVDuration reads the duration of a WAV file from its own format
// header, not from any assumed sample rate.
func WAVDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dur, err := dec.Duration()
	if err != nil {
		return 0, fmt.Errorf("failed to read wav header: %w", err)
	}
	return dur, nil
}

// LoadWAV reads a 16-bit PCM WAV file back into normalized float32
// samples, returning the samples and the file's sample rate.
func LoadWAV(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode wav: %w", err)
	}

	data := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		data[i] = float32(s) / 32767.0
	}
	return data, buf.Format.SampleRate, nil
}
