// Package pacer implements cpu.Pacer, throttling emulated execution to
// approximate a real clock rate by spin-waiting between cycles. The
// calibration approach - measure the overhead of time.Now() itself,
// then derive a busy-loop count from the gap between that overhead and
// the desired cycle period - lives only here: the cpu package has no
// clock calibration of its own and is paced solely through cpu.Pacer.
package pacer

import (
	"fmt"
	"time"
)

// Clock paces WaitNextCycle calls to approximate one clock cycle every
// Period. It free-runs (WaitNextCycle returns immediately) when Period
// is zero.
type Clock struct {
	period  time.Duration
	avgTime time.Duration
	runs    int

	last time.Time
}

// calibrationRuns is the number of consecutive time.Now() calls used to
// measure its average overhead. 10 million is enough to get a stable
// average without calibration itself taking more than a few hundred
// milliseconds.
const calibrationRuns = 10_000_000

// NewClock calibrates and returns a Clock that paces WaitNextCycle to
// approximate period per call. Calibration takes a few hundred
// milliseconds; this is expected to happen once at startup, not per
// instruction.
func NewClock(period time.Duration) (*Clock, error) {
	c := &Clock{period: period}
	if period == 0 {
		return c, nil
	}
	c.avgTime = averageNowOverhead()
	if c.avgTime > period {
		return nil, fmt.Errorf("pacer: can't pace to %s, time.Now overhead alone is %s", period, c.avgTime)
	}
	c.runs = int(period / c.avgTime)
	c.last = time.Now()
	return c, nil
}

func averageNowOverhead() time.Duration {
	var tot int64
	for i := 0; i < calibrationRuns; i++ {
		s := time.Now()
		tot += time.Now().Sub(s).Nanoseconds()
	}
	return time.Duration(tot / calibrationRuns)
}

// WaitNextCycle implements cpu.Pacer: it spins, re-checking time.Now()
// runs times, then sleeps off whatever's left of the period since the
// last call. A zero period makes this a no-op, so an unpaced Clock can
// still be constructed and handed to cpu.Config without branching at
// call sites.
func (c *Clock) WaitNextCycle() {
	if c.period == 0 {
		return
	}
	for i := 0; i < c.runs; i++ {
		_ = time.Now()
	}
	if remaining := c.period - time.Now().Sub(c.last); remaining > 0 {
		time.Sleep(remaining)
	}
	c.last = time.Now()
}
