//go:build !linux

package cli

// IsTerminal reports whether fd refers to a terminal. Outside Linux output is
// treated as plain.
func IsTerminal(fd uintptr) bool { return false }
