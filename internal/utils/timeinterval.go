package utils

import (
	"time"
)

// IntervalTimer runs a function on a fixed period until stopped.
type IntervalTimer interface {
	Stop()
}

type timeInterval struct {
	quit chan<- struct{}
}

// Stop halts the timer. Safe to call once; the periodic function will not
// run again after Stop returns.
func (t *timeInterval) Stop() {
	t.quit <- struct{}{}
}

func SetIntervalTimer(duration time.Duration, fn func()) IntervalTimer {
	ticker := time.NewTicker(duration)
	quit := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-quit:
				return
			}
		}
	}()
	return &timeInterval{quit: quit}
}
