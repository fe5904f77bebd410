package services

import "time"

// Clock abstracts time so schedulers and rule dispatch are testable and
// no service hides a shared global timeline.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }
