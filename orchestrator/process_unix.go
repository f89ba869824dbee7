//go:build !windows

package orchestrator

import (
	"os"
	"syscall"
)

// isProcessAlive checks whether pid is alive by sending signal 0.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
