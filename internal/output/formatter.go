package output

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/emmett/voxset/internal/dataset"
)

// DatasetSummary is the aggregate view of a dataset
type DatasetSummary struct {
	BasePath             string  `json:"base_path"`
	TotalSamples         int     `json:"total_samples"`
	TotalDurationMinutes float64 `json:"total_duration_minutes"`
}

// Formatter is the interface for dataset listing output
type Formatter interface {
	// WriteSample writes one sample record
	WriteSample(info dataset.SampleInfo) error

	// WriteSummary writes the dataset aggregate line
	WriteSummary(summary DatasetSummary) error

	// Close closes the formatter and releases resources
	Close() error
}

// JSONFormatter outputs sample records as a JSON stream
type JSONFormatter struct {
	encoder *json.Encoder
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(writer io.Writer) *JSONFormatter {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return &JSONFormatter{encoder: encoder}
}

// WriteSample writes one sample record as JSON
func (j *JSONFormatter) WriteSample(info dataset.SampleInfo) error {
	return j.encoder.Encode(info)
}

// WriteSummary writes the dataset aggregate as JSON
func (j *JSONFormatter) WriteSummary(summary DatasetSummary) error {
	return j.encoder.Encode(summary)
}

// Close closes the formatter
func (j *JSONFormatter) Close() error {
	return nil
}

// PlainTextFormatter outputs sample records as human-readable lines
type PlainTextFormatter struct {
	writer io.Writer
}

// NewPlainTextFormatter creates a new plain text formatter
func NewPlainTextFormatter(writer io.Writer) *PlainTextFormatter {
	return &PlainTextFormatter{writer: writer}
}

// WriteSample writes one sample record as a single line
func (p *PlainTextFormatter) WriteSample(info dataset.SampleInfo) error {
	flags := ""
	if !info.HasAudio {
		flags += " [no audio]"
	}
	if !info.HasText {
		flags += " [no text]"
	}
	if !info.HasMetadata {
		flags += " [no metadata]"
	}

	preview := info.Text
	if utf8.RuneCountInString(preview) > 60 {
		runes := []rune(preview)
		preview = string(runes[:57]) + "..."
	}

	_, err := fmt.Fprintf(p.writer, "%03d  %6.1fs  %8d bytes  %q%s\n",
		info.Number, info.DurationSeconds, info.AudioSize, preview, flags)
	return err
}

// WriteSummary writes the dataset aggregate line
func (p *PlainTextFormatter) WriteSummary(summary DatasetSummary) error {
	_, err := fmt.Fprintf(p.writer, "\n%d sample(s), %.1f minute(s) total at %s\n",
		summary.TotalSamples, summary.TotalDurationMinutes, summary.BasePath)
	return err
}

// Close closes the formatter
func (p *PlainTextFormatter) Close() error {
	return nil
}
