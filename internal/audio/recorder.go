package audio

import (
	"fmt"
	"sync"
)

// LevelFunc receives the mean absolute amplitude (0.0-1.0) of each
// captured period, for live metering.
type LevelFunc func(level float64)

// Recorder manages the lifecycle of one recording: it accumulates frames
// streamed from an input device and supports pause/resume without tearing
// the stream down. Frames arrive on the audio subsystem's thread; all
// buffer access is serialized through a single mutex so that duration
// polling from a UI timer sees a consistent snapshot.
type Recorder struct {
	sampleRate int
	channels   int

	mu        sync.Mutex
	recording bool
	paused    bool
	chunks    [][]float32
	stream    InputStream

	levelFn LevelFunc
	open    StreamOpener
}

// NewRecorder creates a Recorder capturing at the given rate and channel
// count. Mono at 44100 Hz is the usual configuration for voice datasets.
func NewRecorder(sampleRate, channels int) *Recorder {
	return &Recorder{
		sampleRate: sampleRate,
		channels:   channels,
		open:       OpenInputStream,
	}
}

// SetLevelCallback registers an observer invoked with the mean absolute
// amplitude of every appended period. Pass nil to remove it. The callback
// runs on the capture thread outside the buffer lock, so it may safely
// call back into the Recorder.
func (r *Recorder) SetLevelCallback(fn LevelFunc) {
	r.mu.Lock()
	r.levelFn = fn
	r.mu.Unlock()
}

// Start opens an input stream and begins accumulating frames. A negative
// deviceIndex selects the default device. Calling Start while already
// recording is a no-op. Any previously buffered audio is discarded.
// A device that cannot be opened surfaces as an error and leaves the
// recorder idle.
func (r *Recorder) Start(deviceIndex int) error {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return nil
	}
	r.chunks = nil
	r.recording = true
	r.paused = false
	r.mu.Unlock()

	cfg := StreamConfig{
		SampleRate:   r.sampleRate,
		Channels:     r.channels,
		BufferFrames: DefaultStreamConfig().BufferFrames,
		DeviceIndex:  deviceIndex,
	}

	stream, err := r.open(cfg, r.handleFrames)
	if err != nil {
		r.mu.Lock()
		r.recording = false
		r.mu.Unlock()
		return fmt.Errorf("failed to open input stream: %w", err)
	}

	r.mu.Lock()
	r.stream = stream
	r.mu.Unlock()

	return nil
}

// handleFrames is the capture-thread producer. Frames are dropped while
// paused or once the recorder has left the recording state.
func (r *Recorder) handleFrames(frames []float32) {
	if len(frames) == 0 {
		return
	}

	r.mu.Lock()
	if !r.recording || r.paused {
		r.mu.Unlock()
		return
	}
	chunk := make([]float32, len(frames))
	copy(chunk, frames)
	r.chunks = append(r.chunks, chunk)
	fn := r.levelFn
	r.mu.Unlock()

	if fn != nil {
		fn(MeanAbs(chunk))
	}
}

// Pause stops appending frames without closing the stream.
// No-op unless currently recording and unpaused.
func (r *Recorder) Pause() {
	r.mu.Lock()
	if r.recording && !r.paused {
		r.paused = true
	}
	r.mu.Unlock()
}

// Resume re-enables frame accumulation after Pause.
func (r *Recorder) Resume() {
	r.mu.Lock()
	if r.recording && r.paused {
		r.paused = false
	}
	r.mu.Unlock()
}

// Stop closes the input stream and returns the concatenation, in arrival
// order, of every chunk appended while unpaused. It returns nil if
// nothing was captured or the recorder was idle. After Stop returns, no
// further frames can be appended and the internal buffer is empty.
func (r *Recorder) Stop() ([]float32, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil, nil
	}
	r.recording = false
	r.paused = false
	stream := r.stream
	r.stream = nil
	r.mu.Unlock()

	// Close the stream outside the lock: the capture callback takes the
	// same lock and some backends block Stop until in-flight callbacks
	// return.
	var stopErr error
	if stream != nil {
		stopErr = stream.Stop()
	}

	r.mu.Lock()
	data := concat(r.chunks)
	r.chunks = nil
	r.mu.Unlock()

	if stopErr != nil {
		return data, fmt.Errorf("failed to stop input stream: %w", stopErr)
	}
	return data, nil
}

// IsRecording reports whether a capture session is active (paused counts
// as active).
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// IsPaused reports whether the active session is paused.
func (r *Recorder) IsPaused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// HasAudio reports whether any frames have been buffered.
func (r *Recorder) HasAudio() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chunks) > 0
}

// ClearAudio discards buffered frames without changing the recording or
// paused flags.
func (r *Recorder) ClearAudio() {
	r.mu.Lock()
	r.chunks = nil
	r.mu.Unlock()
}

// LiveDuration returns the duration in seconds of the audio buffered so
// far, reading a consistent snapshot even while frames are arriving.
func (r *Recorder) LiveDuration() float64 {
	r.mu.Lock()
	var total int
	for _, c := range r.chunks {
		total += len(c)
	}
	r.mu.Unlock()

	return float64(total) / float64(r.sampleRate*r.channels)
}

// Duration returns the duration in seconds of the given waveform at the
// recorder's configured rate. Empty input yields 0.
func (r *Recorder) Duration(data []float32) float64 {
	if len(data) == 0 {
		return 0
	}
	return float64(len(data)) / float64(r.sampleRate*r.channels)
}

// SaveAudio writes the waveform to path as 16-bit PCM at the recorder's
// configured rate, creating parent directories as needed.
func (r *Recorder) SaveAudio(data []float32, path string) error {
	return SaveWAV(path, data, r.sampleRate, r.channels)
}

// SampleRate returns the configured sample rate in Hz.
func (r *Recorder) SampleRate() int {
	return r.sampleRate
}

func concat(chunks [][]float32) []float32 {
	var total int
	for _, c := range chunks {
		total += len(c)
	}
	if total == 0 {
		return nil
	}
	out := make([]float32, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
