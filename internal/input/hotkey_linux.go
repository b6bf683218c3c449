//go:build linux

package input

import "golang.design/x/hotkey"

// X11 exposes Alt and Super as Mod1 and Mod4.

func modAlt() hotkey.Modifier {
	return hotkey.Mod1
}

func modSuper() hotkey.Modifier {
	return hotkey.Mod4
}
