package pacer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClockZeroPeriod(t *testing.T) {
	c, err := NewClock(0)
	require.NoError(t, err)
	// Should return essentially instantly no matter how many times it's called.
	start := time.Now()
	for i := 0; i < 1000; i++ {
		c.WaitNextCycle()
	}
	assert.Less(t, time.Now().Sub(start), 10*time.Millisecond)
}

func TestNewClockTooFast(t *testing.T) {
	_, err := NewClock(1 * time.Nanosecond)
	assert.Error(t, err)
}

func TestClockPacesRoughlyToPeriod(t *testing.T) {
	period := 200 * time.Microsecond
	c, err := NewClock(period)
	require.NoError(t, err)

	const cycles = 50
	start := time.Now()
	for i := 0; i < cycles; i++ {
		c.WaitNextCycle()
	}
	elapsed := time.Now().Sub(start)

	want := period * cycles
	// Spin/sleep based pacing is inherently jittery under a scheduler;
	// just check it's in the right order of magnitude rather than exact.
	assert.Greater(t, elapsed, want/2)
	assert.Less(t, elapsed, want*4)
}
