//go:build !windows

// Package process terminates browser process trees left behind by PDF rendering.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid.
// Errors are ignored; the rod launcher kill remains as a fallback.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
