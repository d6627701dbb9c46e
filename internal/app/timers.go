package app

import (
	"slices"
	"sort"
	"time"
)

// timerHandle identifies a scheduled callback. Zero is never issued.
type timerHandle uint64

type timerEntry struct {
	handle timerHandle
	due    time.Time
	fn     func(now time.Time)
}

// timerQueue holds the deferred callbacks of one session. Nothing runs on its own:
// callbacks fire only from fire, on the caller's goroutine, in due order.
type timerQueue struct {
	last    timerHandle
	entries []timerEntry
}

func (q *timerQueue) schedule(due time.Time, fn func(now time.Time)) timerHandle {
	q.last++
	// equal due times keep scheduling order
	i := sort.Search(len(q.entries), func(i int) bool {
		return q.entries[i].due.After(due)
	})
	q.entries = slices.Insert(q.entries, i, timerEntry{handle: q.last, due: due, fn: fn})
	return q.last
}

// cancel drops a pending callback. Cancelling a fired or unknown handle is a no-op.
func (q *timerQueue) cancel(h timerHandle) {
	if h == 0 {
		return
	}
	for i, e := range q.entries {
		if e.handle == h {
			q.entries = slices.Delete(q.entries, i, i+1)
			return
		}
	}
}

func (q *timerQueue) cancelAll() {
	q.entries = nil
}

// fire runs every callback due at or before now. Callbacks may schedule or cancel
// others; anything they schedule that is already due runs in the same pass.
func (q *timerQueue) fire(now time.Time) {
	for len(q.entries) > 0 && !q.entries[0].due.After(now) {
		e := q.entries[0]
		q.entries = q.entries[1:]
		e.fn(now)
	}
}

func (q *timerQueue) pending() int {
	return len(q.entries)
}
