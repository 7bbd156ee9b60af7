//go:build !windows

// Package process cleans up browser process trees left by the rasterizer.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, taking
// Chrome's renderer and GPU helpers down with it. Non-positive PIDs are
// ignored: -0 would address the caller's own group.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// launcher.Kill already ran; a failure here only means the group is gone.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
