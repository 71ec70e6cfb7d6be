package services

import "time"

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop prevents the callback from running; false if it already ran.
	Stop() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

// NewScheduler schedules on the runtime timer heap.
func NewScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
