package fs

import "time"

// debouncer collapses a burst of touches into one signal delivered after the
// burst has been quiet for delay. It is owned by a single goroutine.
type debouncer struct {
	delay time.Duration
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	t := time.NewTimer(delay)
	t.Stop()
	return &debouncer{delay: delay, timer: t}
}

// touch restarts the quiet period.
func (d *debouncer) touch() {
	d.timer.Reset(d.delay)
}

func (d *debouncer) fired() <-chan time.Time {
	return d.timer.C
}

func (d *debouncer) stop() {
	d.timer.Stop()
}
