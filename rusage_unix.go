//go:build unix

package main

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// peakRSS returns the peak resident set size of the process in bytes.
func peakRSS() uint64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	maxrss := uint64(ru.Maxrss)
	if runtime.GOOS == "darwin" {
		return maxrss
	}
	// kilobytes everywhere else
	return maxrss * 1024
}
