//go:build !windows

package browser

import "syscall"

// killProcessGroup sends SIGKILL to the browser's process group so helper
// processes die with it.
func killProcessGroup(pid int) {
	// launcher.Kill runs after this as a fallback.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
