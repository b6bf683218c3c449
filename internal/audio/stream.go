package audio

// StreamConfig holds configuration for an audio input stream
type StreamConfig struct {
	// SampleRate is the number of samples per second (Hz)
	// Common values: 44100 (recommended for voice datasets), 48000
	SampleRate int

	// Channels is the number of audio channels
	// 1 = mono (recommended for voice training), 2 = stereo
	Channels int

	// BufferFrames is the number of frames per callback period
	// Smaller = lower latency, higher CPU usage
	BufferFrames int

	// DeviceIndex selects a specific capture device
	// Negative value = use default device
	DeviceIndex int
}

// DefaultStreamConfig returns a configuration suitable for voice recording
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		SampleRate:   44100, // CD-quality, what most training pipelines expect
		Channels:     1,     // Mono
		BufferFrames: 1024,  // ~23ms at 44.1kHz
		DeviceIndex:  -1,    // Default device
	}
}

// FrameFunc receives a period of captured audio as interleaved float32
// samples in the -1.0..1.0 range. It is invoked on the audio subsystem's
// own thread; implementations must copy the slice if they keep it.
type FrameFunc func(frames []float32)

// InputStream is an open capture stream delivering frames to a FrameFunc.
type InputStream interface {
	// Stop closes the stream and releases the device. No FrameFunc
	// invocation begins after Stop returns.
	Stop() error
}

// StreamOpener opens an input stream for the given configuration.
// The default implementation is backed by malgo; tests substitute fakes.
type StreamOpener func(cfg StreamConfig, onFrames FrameFunc) (InputStream, error)
