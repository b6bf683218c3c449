package audio

import (
	"fmt"
	"strings"

	"github.com/gen2brain/malgo"
)

// InputDevice is a read-only snapshot of one capture endpoint.
type InputDevice struct {
	Index             int    // Position in the enumeration order, used for selection
	Name              string // Human-readable device name
	IsDefault         bool   // Whether this is the system default input
	Channels          int    // Input channel count
	DefaultSampleRate int    // Preferred sample rate in Hz
}

// String returns a human-readable representation of the device
func (d InputDevice) String() string {
	defaultMarker := ""
	if d.IsDefault {
		defaultMarker = " [DEFAULT]"
	}
	return fmt.Sprintf("%d: %s%s (channels: %d, rate: %d Hz)",
		d.Index, d.Name, defaultMarker, d.Channels, d.DefaultSampleRate)
}

// ListInputDevices returns all available capture devices.
func ListInputDevices() ([]InputDevice, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	devices := make([]InputDevice, 0, len(infos))
	for i, info := range infos {
		devices = append(devices, InputDevice{
			Index:             i,
			Name:              info.Name(),
			IsDefault:         info.IsDefault > 0,
			Channels:          1, // malgo does not expose this without opening the device
			DefaultSampleRate: 44100,
		})
	}

	return devices, nil
}

// DefaultInputDevice returns the default capture device, falling back to
// the first enumerated device when none is flagged as default.
func DefaultInputDevice() (*InputDevice, error) {
	devices, err := ListInputDevices()
	if err != nil {
		return nil, err
	}

	for i := range devices {
		if devices[i].IsDefault {
			return &devices[i], nil
		}
	}

	if len(devices) > 0 {
		return &devices[0], nil
	}

	return nil, fmt.Errorf("no capture devices found")
}

// FindDeviceByIndex returns the device at the given enumeration index.
func FindDeviceByIndex(index int) (*InputDevice, error) {
	devices, err := ListInputDevices()
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(devices) {
		return nil, fmt.Errorf("device index %d out of range (%d devices)", index, len(devices))
	}

	return &devices[index], nil
}

// FindDeviceByName finds a device by name (case-insensitive partial match)
func FindDeviceByName(name string) (*InputDevice, error) {
	devices, err := ListInputDevices()
	if err != nil {
		return nil, err
	}

	searchName := strings.ToLower(name)
	for i := range devices {
		if strings.Contains(strings.ToLower(devices[i].Name), searchName) {
			return &devices[i], nil
		}
	}

	return nil, fmt.Errorf("no device found matching name: %s", name)
}
