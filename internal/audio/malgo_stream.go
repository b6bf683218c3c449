package audio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gen2brain/malgo"
)

// malgoStream implements InputStream using malgo
type malgoStream struct {
	device       *malgo.Device
	malgoContext *malgo.AllocatedContext
}

// OpenInputStream opens a capture stream on the configured device and
// begins delivering frames to onFrames. It is the default StreamOpener.
func OpenInputStream(cfg StreamConfig, onFrames FrameFunc) (InputStream, error) {
	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32 // 32-bit float samples
	deviceConfig.Capture.Channels = uint32(cfg.Channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(cfg.BufferFrames)

	// Resolve a specific device if requested
	if cfg.DeviceIndex >= 0 {
		infos, err := malgoCtx.Devices(malgo.Capture)
		if err != nil {
			malgoCtx.Uninit()
			malgoCtx.Free()
			return nil, fmt.Errorf("failed to enumerate devices: %w", err)
		}
		if cfg.DeviceIndex >= len(infos) {
			malgoCtx.Uninit()
			malgoCtx.Free()
			return nil, fmt.Errorf("device index %d out of range (%d devices)", cfg.DeviceIndex, len(infos))
		}
		id := infos[cfg.DeviceIndex].ID
		deviceConfig.Capture.DeviceID = id.Pointer()
	}

	var callbacks malgo.DeviceCallbacks
	callbacks.Data = func(pOutputSample, pInputSamples []byte, framecount uint32) {
		onFrames(decodeFloat32(pInputSamples))
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, callbacks)
	if err != nil {
		malgoCtx.Uninit()
		malgoCtx.Free()
		return nil, fmt.Errorf("failed to initialize device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		malgoCtx.Uninit()
		malgoCtx.Free()
		return nil, fmt.Errorf("failed to start device: %w", err)
	}

	return &malgoStream{device: device, malgoContext: malgoCtx}, nil
}

// Stop stops the device and tears down the malgo context
func (s *malgoStream) Stop() error {
	if s.device != nil {
		if err := s.device.Stop(); err != nil {
			return fmt.Errorf("failed to stop device: %w", err)
		}
		s.device.Uninit()
		s.device = nil
	}

	if s.malgoContext != nil {
		_ = s.malgoContext.Uninit()
		s.malgoContext.Free()
		s.malgoContext = nil
	}

	return nil
}

// decodeFloat32 converts raw little-endian F32 bytes into samples
func decodeFloat32(data []byte) []float32 {
	n := len(data) / 4
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		samples[i] = math.Float32frombits(bits)
	}
	return samples
}
