package input

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.design/x/hotkey"
)

// HotkeyManager registers one global hotkey and invokes a callback on
// every press. The callback runs on the manager's own goroutine.
type HotkeyManager struct {
	hk      *hotkey.Hotkey
	onPress func()
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewHotkeyManager creates a new HotkeyManager
func NewHotkeyManager(onPress func()) *HotkeyManager {
	return &HotkeyManager{
		onPress: onPress,
		done:    make(chan struct{}),
	}
}

// Start registers the hotkey and begins listening for presses.
func (h *HotkeyManager) Start(ctx context.Context, hotkeyStr string) error {
	mods, key, err := parseHotkey(hotkeyStr)
	if err != nil {
		return fmt.Errorf("invalid hotkey: %w", err)
	}

	h.hk = hotkey.New(mods, key)
	if err := h.hk.Register(); err != nil {
		return fmt.Errorf("failed to register hotkey: %w", err)
	}

	ctx, h.cancel = context.WithCancel(ctx)

	go func() {
		defer close(h.done)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-h.hk.Keydown():
				if !ok {
					return
				}
				if h.onPress != nil {
					h.onPress()
				}
			}
		}
	}()

	return nil
}

// Stop unregisters the hotkey and stops the listener goroutine.
func (h *HotkeyManager) Stop() {
	if h.cancel != nil {
		h.cancel()
	}
	if h.hk != nil {
		h.hk.Unregister()
	}
	if h.done != nil {
		select {
		case <-h.done:
		case <-time.After(100 * time.Millisecond):
		}
	}
}

var keyNames = map[string]hotkey.Key{
	"space":  hotkey.KeySpace,
	"return": hotkey.KeyReturn,
	"enter":  hotkey.KeyReturn,
	"tab":    hotkey.KeyTab,
	"escape": hotkey.KeyEscape,
	"esc":    hotkey.KeyEscape,
	"a":      hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3,
	"f4": hotkey.KeyF4, "f5": hotkey.KeyF5, "f6": hotkey.KeyF6,
	"f7": hotkey.KeyF7, "f8": hotkey.KeyF8, "f9": hotkey.KeyF9,
	"f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}

// parseHotkey parses a hotkey string like "ctrl+shift+r" into modifiers
// and a key
func parseHotkey(s string) ([]hotkey.Modifier, hotkey.Key, error) {
	parts := strings.Split(strings.ToLower(s), "+")

	var mods []hotkey.Modifier
	var key hotkey.Key
	var keyFound bool

	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "ctrl", "control":
			mods = append(mods, hotkey.ModCtrl)
		case "shift":
			mods = append(mods, hotkey.ModShift)
		case "alt":
			mods = append(mods, modAlt())
		case "cmd", "command", "super", "win":
			mods = append(mods, modSuper())
		default:
			if keyFound {
				return nil, 0, fmt.Errorf("multiple keys specified")
			}
			k, ok := keyNames[part]
			if !ok {
				return nil, 0, fmt.Errorf("unknown key: %s", part)
			}
			key = k
			keyFound = true
		}
	}

	if !keyFound {
		return nil, 0, fmt.Errorf("no key specified")
	}

	return mods, key, nil
}
