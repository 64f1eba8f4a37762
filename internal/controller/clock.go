package controller

import "time"

// Clock abstracts time for the pacing gate so tests can run on a virtual
// clock instead of sleeping for real.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock returns the wall-clock implementation used outside tests.
func SystemClock() Clock { return systemClock{} }
