package util

import (
	"os"

	"github.com/fatih/color"
)

// InitColor disables colored output when asked or when stdout is not
// a terminal.
func InitColor(noColor bool) {
	if noColor || !stdoutIsTTY() {
		color.NoColor = true
	}
}

func stdoutIsTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
