package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerQueueFiresInDueOrder(t *testing.T) {
	var q timerQueue
	base := time.Unix(0, 0)
	var order []string

	q.schedule(base.Add(3*time.Second), func(time.Time) { order = append(order, "c") })
	q.schedule(base.Add(time.Second), func(time.Time) { order = append(order, "a") })
	q.schedule(base.Add(time.Second), func(time.Time) { order = append(order, "a2") })
	q.schedule(base.Add(2*time.Second), func(time.Time) { order = append(order, "b") })

	q.fire(base.Add(2 * time.Second))
	assert.Equal(t, []string{"a", "a2", "b"}, order)
	assert.Equal(t, 1, q.pending())
}

func TestTimerQueueCancel(t *testing.T) {
	var q timerQueue
	base := time.Unix(0, 0)
	fired := false

	h := q.schedule(base, func(time.Time) { fired = true })
	other := q.schedule(base, func(time.Time) {})
	q.cancel(h)
	q.cancel(h)
	q.cancel(0)
	assert.Equal(t, 1, q.pending())
	q.cancel(other)
	assert.Zero(t, q.pending())

	q.fire(base.Add(time.Hour))
	assert.False(t, fired)
}

func TestTimerQueueRunsCallbacksScheduledWhileFiring(t *testing.T) {
	var q timerQueue
	base := time.Unix(0, 0)
	var seen []time.Time

	q.schedule(base, func(now time.Time) {
		seen = append(seen, now)
		q.schedule(now, func(now time.Time) { seen = append(seen, now) })
		q.schedule(now.Add(time.Minute), func(now time.Time) { seen = append(seen, now) })
	})

	at := base.Add(time.Second)
	q.fire(at)
	assert.Equal(t, []time.Time{at, at}, seen)
	assert.Equal(t, 1, q.pending())
}
