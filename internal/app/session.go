package app

import (
	"sync"
	"time"

	"kviz/internal/domain"
	"kviz/internal/logging"
)

const (
	// LockDelay is how long a picked answer stays revealed before the question resolves.
	LockDelay = 850 * time.Millisecond
	// TransitionDelay is the pause between resolving a question and presenting the next.
	TransitionDelay = 180 * time.Millisecond
	// CriticalWindow flags the last seconds of a question's countdown.
	CriticalWindow = 3 * time.Second
)

const noSelection = -1

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithLockDelay overrides LockDelay.
func WithLockDelay(d time.Duration) SessionOption {
	return func(s *Session) { s.lockDelay = d }
}

// WithTransitionDelay overrides TransitionDelay.
func WithTransitionDelay(d time.Duration) SessionOption {
	return func(s *Session) { s.transitionDelay = d }
}

// WithHaptics registers a callback for selection pulses. It is called outside the
// session lock and must not block.
func WithHaptics(fn func(domain.Pulse)) SessionOption {
	return func(s *Session) { s.haptics = fn }
}

// Session is the state machine of one single-player quiz run.
//
// All mutation goes through Tick, SelectChoice and Abandon. Deferred work (the
// question deadline, the answer reveal and the advance to the next question) is
// queued on the session itself and runs only inside those calls, keyed by the
// question index it was scheduled for.
type Session struct {
	id        string
	cfg       domain.SessionConfig
	questions []domain.Question

	lockDelay       time.Duration
	transitionDelay time.Duration
	haptics         func(domain.Pulse)

	mu        sync.Mutex
	current   int
	selected  int
	outcomes  []domain.Outcome
	startedAt time.Time
	phase     domain.Phase
	locked    bool
	completed bool
	abandoned bool

	timers   timerQueue
	deadline timerHandle
	pending  timerHandle
}

// NewSession starts presenting the first question at start.
func NewSession(id string, cfg domain.SessionConfig, questions []domain.Question, start time.Time, opts ...SessionOption) *Session {
	s := &Session{
		id:              id,
		cfg:             cfg,
		questions:       questions,
		lockDelay:       LockDelay,
		transitionDelay: TransitionDelay,
		selected:        noSelection,
		outcomes:        make([]domain.Outcome, len(questions)),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.outcomes {
		s.outcomes[i] = domain.OutcomeIdle
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(questions) == 0 {
		s.completed = true
		s.phase = domain.PhaseFinished
		return s
	}
	s.startQuestionLocked(0, start)
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Config() domain.SessionConfig {
	return s.cfg
}

// Total is the effective session length, which may be below the configured count.
func (s *Session) Total() int {
	return len(s.questions)
}

// Question returns the question at index.
func (s *Session) Question(index int) (domain.Question, bool) {
	if index < 0 || index >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[index], true
}

func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Abandoned reports whether Abandon was called. An abandoned session never completes.
func (s *Session) Abandoned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.abandoned
}

// MaxDuration is the longest the session can run when no question is answered early:
// every question waits out its deadline plus the reveal and transition delays.
func (s *Session) MaxDuration() time.Duration {
	perQuestion := s.cfg.PerQuestion + s.lockDelay + s.transitionDelay
	return time.Duration(len(s.questions)) * perQuestion
}

// Outcomes returns a copy of the per-question outcome slots.
func (s *Session) Outcomes() []domain.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Outcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}

// Summary aggregates the outcomes. It is meaningful at any point but final only
// once Completed reports true.
func (s *Session) Summary() domain.Summary {
	summary := domain.Summarize(s.Outcomes())
	summary.SessionID = s.id
	summary.Category = s.cfg.Category
	return summary
}

// Remaining is the time left on the current question at now.
func (s *Session) Remaining(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked(now)
}

// Tick runs every deferred transition due at now. It is safe to call at any cadence.
func (s *Session) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.abandoned {
		return
	}
	s.timers.fire(now)
}

// SelectChoice records the player's answer for questionIndex. It reports whether the
// selection was accepted; late, repeated, out-of-range or stale selections are ignored.
// Transitions due at now are applied first, so an answer at or past the deadline loses
// to the timeout.
func (s *Session) SelectChoice(now time.Time, questionIndex, choice int) bool {
	s.mu.Lock()
	accepted, pulse := s.selectLocked(now, questionIndex, choice)
	haptics := s.haptics
	s.mu.Unlock()

	if accepted && haptics != nil {
		haptics(pulse)
	}
	return accepted
}

// Abandon cancels every pending transition. The session is frozen afterwards.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandoned = true
	s.timers.cancelAll()
	s.deadline, s.pending = 0, 0
}

// Snapshot projects the session state at now.
func (s *Session) Snapshot(now time.Time) domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcomes := make([]domain.Outcome, len(s.outcomes))
	copy(outcomes, s.outcomes)
	snap := domain.SessionSnapshot{
		SessionID:    s.id,
		Phase:        s.phase,
		CurrentIndex: s.current,
		Total:        len(s.questions),
		Locked:       s.locked,
		Outcomes:     outcomes,
		Score:        domain.Summarize(outcomes).Score,
		Completed:    s.completed,
	}
	if s.completed {
		return snap
	}

	q := s.questions[s.current]
	view := &domain.QuestionView{ID: q.ID, Prompt: q.Prompt, Choices: append([]string(nil), q.Choices...)}
	if s.selected != noSelection {
		selected, correct := s.selected, q.Correct
		snap.Selected = &selected
		view.Correct = &correct
	}
	snap.Question = view

	remaining := s.remainingLocked(now)
	snap.RemainingMs = remaining.Milliseconds()
	if s.cfg.PerQuestion > 0 {
		snap.Progress = 1 - float64(remaining)/float64(s.cfg.PerQuestion)
	}
	snap.Critical = s.phase == domain.PhasePresenting && remaining <= CriticalWindow
	return snap
}

func (s *Session) remainingLocked(now time.Time) time.Duration {
	if s.completed {
		return 0
	}
	elapsed := now.Sub(s.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := s.cfg.PerQuestion - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *Session) startQuestionLocked(index int, now time.Time) {
	s.timers.cancel(s.deadline)
	s.timers.cancel(s.pending)
	s.pending = 0

	s.current = index
	s.startedAt = now
	s.selected = noSelection
	s.locked = false
	s.phase = domain.PhasePresenting
	s.deadline = s.timers.schedule(now.Add(s.cfg.PerQuestion), func(at time.Time) {
		s.expireLocked(index, at)
	})
	logging.Verbosef("[Session %s] question %d/%d presented", s.id, index+1, len(s.questions))
}

// expireLocked is the deadline callback of question index.
func (s *Session) expireLocked(index int, now time.Time) {
	if index != s.current || s.selected != noSelection {
		return
	}
	s.resolveLocked(index, domain.OutcomeSkipped, now)
}

func (s *Session) selectLocked(now time.Time, questionIndex, choice int) (bool, domain.Pulse) {
	if s.abandoned || s.completed {
		return false, domain.Pulse{}
	}
	s.timers.fire(now)

	if s.completed || questionIndex != s.current || s.locked || s.selected != noSelection {
		return false, domain.Pulse{}
	}
	if s.outcomes[s.current] != domain.OutcomeIdle {
		return false, domain.Pulse{}
	}
	q := s.questions[s.current]
	if choice < 0 || choice >= len(q.Choices) {
		return false, domain.Pulse{}
	}

	correct := choice == q.Correct
	outcome := domain.OutcomeWrong
	if correct {
		outcome = domain.OutcomeCorrect
	}
	s.selected = choice
	s.locked = true
	s.phase = domain.PhaseLocked

	index := s.current
	s.pending = s.timers.schedule(now.Add(s.lockDelay), func(at time.Time) {
		s.resolveLocked(index, outcome, at)
	})
	logging.Verbosef("[Session %s] question %d answered %d (%s)", s.id, index+1, choice, outcome)
	return true, domain.PulseFor(correct)
}

// resolveLocked commits the outcome of question index. Only the first call for an
// index while it is current has any effect.
func (s *Session) resolveLocked(index int, outcome domain.Outcome, now time.Time) {
	if s.completed || index != s.current || s.outcomes[index] != domain.OutcomeIdle {
		return
	}
	s.outcomes[index] = outcome
	s.timers.cancel(s.deadline)
	s.timers.cancel(s.pending)
	s.deadline = 0
	s.phase = domain.PhaseAdvancing

	s.pending = s.timers.schedule(now.Add(s.transitionDelay), func(at time.Time) {
		s.advanceLocked(index, at)
	})
	logging.Verbosef("[Session %s] question %d resolved %s", s.id, index+1, outcome)
}

func (s *Session) advanceLocked(index int, now time.Time) {
	if index != s.current || s.phase != domain.PhaseAdvancing {
		return
	}
	if index == len(s.questions)-1 {
		s.current = len(s.questions)
		s.completed = true
		s.selected = noSelection
		s.phase = domain.PhaseFinished
		s.timers.cancelAll()
		s.deadline, s.pending = 0, 0
		logging.Verbosef("[Session %s] finished", s.id)
		return
	}
	s.startQuestionLocked(index+1, now)
}
