//go:build !linux

package cmd

import "os"

// isTerminal returns whether f is attached to a character device.
func isTerminal(f *os.File) bool {
	finfo, err := f.Stat()
	if err != nil {
		return false
	}

	return finfo.Mode()&os.ModeCharDevice != 0
}
