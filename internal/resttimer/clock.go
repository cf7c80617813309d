package resttimer

import "time"

// Wakeup is a pending scheduled callback.
type Wakeup interface {
	Stop() bool
}

// Clock provides wall-clock time and delayed callbacks to the registry.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Wakeup
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Wakeup {
	return time.AfterFunc(d, f)
}
