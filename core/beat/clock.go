package beat

import "time"

// Ticker is the repeating timer driving the step loop.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Timer is a one-shot delayed callback.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so tests can drive the scheduler by hand.
type Clock interface {
	NewTicker(d time.Duration) Ticker
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func (realClock) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock is backed by the time package.
var SystemClock Clock = realClock{}
