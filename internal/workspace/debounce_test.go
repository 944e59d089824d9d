package workspace

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { runs.Add(1) })

	for range 5 {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestDebouncer_FlushRunsPendingOnce(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(time.Hour, func() { runs.Add(1) })

	assert.False(t, d.Flush(), "nothing pending")
	d.Trigger()
	assert.True(t, d.Pending())
	assert.True(t, d.Flush())
	assert.False(t, d.Pending())
	assert.False(t, d.Flush())
	assert.Equal(t, int32(1), runs.Load())
}

func TestDebouncer_StopCancels(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { runs.Add(1) })
	d.Trigger()
	d.Stop()
	d.Trigger()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
}

func TestDebouncer_StaleTimerWaitsForNewQuietPeriod(t *testing.T) {
	const delay = 100 * time.Millisecond
	var runs atomic.Int32
	var lastRun atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})

	d := NewDebouncer(delay, func() {
		if runs.Add(1) == 1 {
			close(started)
			<-release
		}
		lastRun.Store(time.Now().UnixNano())
	})

	// Hold the run lock with a flushed run.
	d.Trigger()
	go d.Flush()
	<-started

	// This timer fires while the flushed run is still going and queues
	// behind it.
	d.Trigger()
	time.Sleep(delay + 50*time.Millisecond)

	// A new edit restarts the wait before the queued timer gets to run.
	retriggered := time.Now()
	d.Trigger()
	close(release)

	time.Sleep(delay / 2)
	assert.Equal(t, int32(1), runs.Load(), "stale timer ran early")

	assert.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond)
	ran := time.Unix(0, lastRun.Load())
	assert.GreaterOrEqual(t, ran.Sub(retriggered), delay-10*time.Millisecond)
	time.Sleep(delay)
	assert.Equal(t, int32(2), runs.Load())
}
