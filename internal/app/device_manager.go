package app

import (
	"fmt"
	"os"
	"time"

	"github.com/emmett/voxset/internal/audio"
	"github.com/emmett/voxset/internal/config"
)

// DeviceManager handles audio device selection and listing
type DeviceManager struct{}

// NewDeviceManager creates a new DeviceManager instance
func NewDeviceManager() *DeviceManager {
	return &DeviceManager{}
}

// ListDevices lists all available audio input devices
func (dm *DeviceManager) ListDevices() error {
	fmt.Println("Detecting audio input devices...")
	fmt.Println()

	devices, err := audio.ListInputDevices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to list devices: %v\n", err)
		return err
	}

	if len(devices) == 0 {
		fmt.Println("No audio capture devices found.")
		return fmt.Errorf("no devices found")
	}

	fmt.Printf("Found %d capture device(s):\n\n", len(devices))
	for _, device := range devices {
		fmt.Printf("  %s\n", device.String())
	}

	fmt.Println()
	fmt.Println("To record from a specific device, run:")
	fmt.Printf("  voxset --record --device \"%s\"\n", devices[0].Name)

	return nil
}

// SelectDevice resolves which input device to record from. Priority:
// explicit name override, then the configured preference, then the
// system default.
func (dm *DeviceManager) SelectDevice(cfg *config.Config, override string) (*audio.InputDevice, error) {
	if override != "" {
		device, err := audio.FindDeviceByName(override)
		if err != nil {
			return nil, err
		}
		return device, nil
	}

	if cfg != nil && cfg.PreferredDeviceIndex != nil {
		device, err := audio.FindDeviceByIndex(*cfg.PreferredDeviceIndex)
		if err == nil {
			return device, nil
		}
		// Preferred index is stale (devices changed); try the saved name
		// before giving up on the preference.
		if cfg.PreferredDeviceName != "" {
			if device, err := audio.FindDeviceByName(cfg.PreferredDeviceName); err == nil {
				return device, nil
			}
		}
	}

	return audio.DefaultInputDevice()
}

// TestDevice records a short fixed-duration clip from the given device
// and returns the captured waveform, for checking that a microphone
// actually produces signal.
func (dm *DeviceManager) TestDevice(deviceIndex int, seconds float64, sampleRate int) ([]float32, error) {
	rec := audio.NewRecorder(sampleRate, 1)
	if err := rec.Start(deviceIndex); err != nil {
		return nil, fmt.Errorf("device test failed: %w", err)
	}

	time.Sleep(time.Duration(seconds * float64(time.Second)))

	data, err := rec.Stop()
	if err != nil {
		return nil, fmt.Errorf("device test failed: %w", err)
	}
	return data, nil
}
