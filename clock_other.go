//go:build !windows

package statbench

import "time"

// timePoint is a relative timestamp with the highest precision the
// runtime system offers. Points are only comparable to other points
// taken by the same process on the same machine.
type timePoint = time.Time

func now() timePoint { return time.Now() }

// sinceTimePoint returns the elapsed time since t. The runtime's
// monotonic clock reading guarantees the result is never negative.
func sinceTimePoint(t timePoint) time.Duration { return time.Since(t) }

func sinceBetween(earlier, later timePoint) time.Duration { return later.Sub(earlier) }
