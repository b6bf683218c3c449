package dataset

import "time"

// Metadata is the optional per-sample sidecar record, persisted as
// {n}_metadata.json inside the sample folder.
type Metadata struct {
	Timestamp        string         `json:"timestamp"`
	GenerationParams map[string]any `json:"generation_params"`
}

// NewMetadata stamps the current time onto the given generation
// parameters. Pure construction, no I/O.
func NewMetadata(generationParams map[string]any) *Metadata {
	return &Metadata{
		Timestamp:        time.Now().Format(time.RFC3339),
		GenerationParams: generationParams,
	}
}

// SampleInfo describes one stored sample's on-disk state. A sample whose
// save was interrupted can exist with HasAudio or HasText false; listing
// reports it rather than hiding it.
type SampleInfo struct {
	Number      int       `json:"number"`
	Folder      string    `json:"folder"`
	HasAudio    bool      `json:"has_audio"`
	HasText     bool      `json:"has_text"`
	HasMetadata bool      `json:"has_metadata"`
	AudioSize   int64     `json:"audio_size,omitempty"`
	Text        string    `json:"text,omitempty"`
	TextLength  int       `json:"text_length,omitempty"`
	Metadata    *Metadata `json:"metadata,omitempty"`

	// DurationSeconds is read from the wav header; zero when the audio
	// file is missing or unreadable. Filled by AllSamples only.
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}
