//go:build darwin

package input

import "golang.design/x/hotkey"

// macOS maps the alt/cmd names onto Option and Command.

func modAlt() hotkey.Modifier {
	return hotkey.ModOption
}

func modSuper() hotkey.Modifier {
	return hotkey.ModCmd
}
