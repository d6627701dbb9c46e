package app

import (
	"context"
	"sync"
	"time"

	"kviz/internal/domain"
)

// DefaultFrame is the tick cadence of a Runner.
const DefaultFrame = 50 * time.Millisecond

type selection struct {
	question int
	choice   int
	result   chan bool
}

// Runner drives one Session from a single goroutine. Frame ticks, player selections
// and the session's deferred transitions are all applied there, in arrival order.
type Runner struct {
	session    *Session
	now        func() time.Time
	frame      time.Duration
	selections chan selection
	done       chan struct{}

	mu          sync.Mutex
	subscribers map[chan domain.SessionSnapshot]struct{}
	closed      bool
}

func NewRunner(session *Session, frame time.Duration) *Runner {
	return NewRunnerWithClock(session, frame, time.Now)
}

// NewRunnerWithClock is used by tests that control time.
func NewRunnerWithClock(session *Session, frame time.Duration, now func() time.Time) *Runner {
	if frame <= 0 {
		frame = DefaultFrame
	}
	return &Runner{
		session:     session,
		now:         now,
		frame:       frame,
		selections:  make(chan selection),
		done:        make(chan struct{}),
		subscribers: make(map[chan domain.SessionSnapshot]struct{}),
	}
}

func (r *Runner) Session() *Session {
	return r.session
}

// Done is closed when Run returns.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Run ticks the session until it completes, ctx is cancelled or the session is
// abandoned elsewhere. Subscribers receive a snapshot after every frame and selection,
// and their channels are closed on return.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	defer r.closeSubscribers()
	defer r.session.Abandon()

	ticker := time.NewTicker(r.frame)
	defer ticker.Stop()

	r.broadcast()
	for !r.session.Completed() {
		if r.session.Abandoned() {
			return domain.ErrSessionAbandoned
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.session.Tick(r.now())
		case sel := <-r.selections:
			sel.result <- r.session.SelectChoice(r.now(), sel.question, sel.choice)
		}
		r.broadcast()
	}
	return nil
}

// Select hands a player selection to the run loop and reports whether it was accepted.
func (r *Runner) Select(ctx context.Context, questionIndex, choice int) (bool, error) {
	sel := selection{question: questionIndex, choice: choice, result: make(chan bool, 1)}
	select {
	case r.selections <- sel:
	case <-r.done:
		return false, domain.ErrSessionFinished
	case <-ctx.Done():
		return false, ctx.Err()
	}
	return <-sel.result, nil
}

// Subscribe returns a channel of snapshots starting with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (r *Runner) Subscribe() (<-chan domain.SessionSnapshot, func()) {
	ch := make(chan domain.SessionSnapshot, 8)

	r.mu.Lock()
	ch <- r.session.Snapshot(r.now())
	if r.closed {
		r.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	r.subscribers[ch] = struct{}{}
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

func (r *Runner) broadcast() {
	snap := r.session.Snapshot(r.now())

	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.subscribers {
		select {
		case ch <- snap:
		default:
			// slow reader: drop its oldest snapshot
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (r *Runner) closeSubscribers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for ch := range r.subscribers {
		delete(r.subscribers, ch)
		close(ch)
	}
}
