//go:build windows

package statbench

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// timePoint is a QueryPerformanceCounter reading. Points are only
// comparable to other points taken by the same process on the same
// machine.
type timePoint = int64

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")
	procFreq    = modkernel32.NewProc("QueryPerformanceFrequency")
	procCounter = modkernel32.NewProc("QueryPerformanceCounter")

	qpcFrequency = qpcGetFrequency()
)

// qpcGetFrequency returns the performance counter frequency in ticks
// per second. The call cannot fail on Windows XP and later.
func qpcGetFrequency() int64 {
	var freq int64
	r1, _, err := procFreq.Call(uintptr(unsafe.Pointer(&freq)))
	if r1 == 0 {
		panic(fmt.Sprintf("QueryPerformanceFrequency failed: %v", err))
	}
	return freq
}

func now() timePoint {
	var qpc int64
	procCounter.Call(uintptr(unsafe.Pointer(&qpc)))
	return qpc
}

func sinceTimePoint(t timePoint) time.Duration { return sinceBetween(t, now()) }

func sinceBetween(earlier, later timePoint) time.Duration {
	ticks := later - earlier
	return time.Duration(ticks * int64(time.Second) / qpcFrequency)
}
