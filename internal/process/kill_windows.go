//go:build windows

// Package process cleans up browser process trees left by the rasterizer.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup force-kills pid and its descendants with taskkill.
// Non-positive PIDs are ignored.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
