package app_test

import (
	"testing"
	"time"

	"kviz/internal/app"
	"kviz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 11, 22, 12, 0, 0, 0, time.UTC)

const perQuestion = 10 * time.Second

func testQuestions() []domain.Question {
	return []domain.Question{
		{ID: "1", Prompt: "Capital of France?", Choices: []string{"Paris", "Marseille", "Lyon", "Nice"}, Correct: 0},
		{ID: "2", Prompt: "River through Belgrade?", Choices: []string{"Danube", "Sava", "Morava", "Tisa"}, Correct: 1},
		{ID: "3", Prompt: "Element with symbol O?", Choices: []string{"Oxygen", "Gold", "Silver", "Iron"}, Correct: 0},
	}
}

func newTestSession(opts ...app.SessionOption) *app.Session {
	cfg := domain.SessionConfig{PerQuestion: perQuestion, TotalQuestions: 3, Category: domain.DefaultCategory}
	return app.NewSession("s-1", cfg, testQuestions(), t0, opts...)
}

// answer selects choice at now and ticks through the reveal and the transition.
func answer(t *testing.T, s *app.Session, now time.Time, index, choice int) time.Time {
	t.Helper()
	require.True(t, s.SelectChoice(now, index, choice), "selection on question %d rejected", index)
	now = now.Add(app.LockDelay)
	s.Tick(now)
	now = now.Add(app.TransitionDelay)
	s.Tick(now)
	return now
}

// timeout lets question run out and ticks through the transition.
func timeout(s *app.Session, start time.Time) time.Time {
	now := start.Add(perQuestion)
	s.Tick(now)
	now = now.Add(app.TransitionDelay)
	s.Tick(now)
	return now
}

func TestAllCorrectIsPerfect(t *testing.T) {
	s := newTestSession()

	now := t0
	for i, q := range testQuestions() {
		now = answer(t, s, now.Add(2*time.Second), i, q.Correct)
	}

	assert.True(t, s.Completed())
	assert.Equal(t, 3, s.CurrentIndex())
	assert.Equal(t, []domain.Outcome{domain.OutcomeCorrect, domain.OutcomeCorrect, domain.OutcomeCorrect}, s.Outcomes())

	summary := s.Summary()
	assert.Equal(t, 3, summary.Score)
	assert.True(t, summary.Perfect)
	assert.Equal(t, "✓ ✓ ✓", summary.Glyphs())
}

func TestNoSelectionSkipsEveryQuestion(t *testing.T) {
	s := newTestSession()

	now := t0
	for range testQuestions() {
		now = timeout(s, now)
	}

	assert.True(t, s.Completed())
	assert.Equal(t, []domain.Outcome{domain.OutcomeSkipped, domain.OutcomeSkipped, domain.OutcomeSkipped}, s.Outcomes())
	summary := s.Summary()
	assert.Equal(t, 0, summary.Score)
	assert.False(t, summary.Perfect)
}

func TestSelectionJustBeforeDeadlineWins(t *testing.T) {
	s := newTestSession()

	now := answer(t, s, t0.Add(time.Second), 0, 0)
	start := now

	// wrong answer 1ms before the deadline of question 2
	selectedAt := start.Add(perQuestion - time.Millisecond)
	require.True(t, s.SelectChoice(selectedAt, 1, 3))

	// the deadline passes while the answer is being revealed
	s.Tick(start.Add(perQuestion))
	assert.Equal(t, domain.OutcomeIdle, s.Outcomes()[1])
	assert.Equal(t, domain.PhaseLocked, s.Snapshot(start.Add(perQuestion)).Phase)

	now = selectedAt.Add(app.LockDelay)
	s.Tick(now)
	assert.Equal(t, domain.OutcomeWrong, s.Outcomes()[1])

	now = now.Add(app.TransitionDelay)
	s.Tick(now)
	require.Equal(t, 2, s.CurrentIndex())

	// much later ticks must not touch question 2 again
	s.Tick(now.Add(time.Second))
	assert.Equal(t, domain.OutcomeWrong, s.Outcomes()[1])
	assert.Equal(t, domain.OutcomeIdle, s.Outcomes()[2])

	timeout(s, now)
	assert.Equal(t, []domain.Outcome{domain.OutcomeCorrect, domain.OutcomeWrong, domain.OutcomeSkipped}, s.Outcomes())
}

func TestSelectionAtDeadlineLosesToTimeout(t *testing.T) {
	s := newTestSession()

	assert.False(t, s.SelectChoice(t0.Add(perQuestion), 0, 0))
	assert.Equal(t, domain.OutcomeSkipped, s.Outcomes()[0])
}

func TestLateSelectionWithoutTickLosesToTimeout(t *testing.T) {
	s := newTestSession()

	// no frame has run since the deadline passed
	assert.False(t, s.SelectChoice(t0.Add(perQuestion+40*time.Millisecond), 0, 0))
	assert.Equal(t, domain.OutcomeSkipped, s.Outcomes()[0])

	// still question 0 while advancing; a retry is ignored as well
	assert.False(t, s.SelectChoice(t0.Add(perQuestion+50*time.Millisecond), 0, 0))
	assert.Equal(t, 0, s.CurrentIndex())
}

func TestDoubleTapKeepsFirstSelection(t *testing.T) {
	var pulses []domain.Pulse
	s := newTestSession(app.WithHaptics(func(p domain.Pulse) { pulses = append(pulses, p) }))

	now := t0.Add(time.Second)
	require.True(t, s.SelectChoice(now, 0, 2))
	assert.False(t, s.SelectChoice(now.Add(10*time.Millisecond), 0, 0))

	s.Tick(now.Add(app.LockDelay))
	assert.Equal(t, domain.OutcomeWrong, s.Outcomes()[0])
	require.Len(t, pulses, 1)
	assert.Equal(t, domain.PulseFailure, pulses[0].Kind)
	assert.Equal(t, []int{30, 40, 30}, pulses[0].PatternMs)
}

func TestCorrectSelectionSendsShortPulse(t *testing.T) {
	var pulses []domain.Pulse
	s := newTestSession(app.WithHaptics(func(p domain.Pulse) { pulses = append(pulses, p) }))

	require.True(t, s.SelectChoice(t0.Add(time.Second), 0, 0))
	require.Len(t, pulses, 1)
	assert.Equal(t, domain.PulseSuccess, pulses[0].Kind)
	assert.Equal(t, []int{25}, pulses[0].PatternMs)
}

func TestInvalidSelectionsAreIgnored(t *testing.T) {
	var pulses []domain.Pulse
	s := newTestSession(app.WithHaptics(func(p domain.Pulse) { pulses = append(pulses, p) }))
	now := t0.Add(time.Second)

	assert.False(t, s.SelectChoice(now, 1, 0), "future question")
	assert.False(t, s.SelectChoice(now, -1, 0), "negative question")
	assert.False(t, s.SelectChoice(now, 0, 4), "choice out of range")
	assert.False(t, s.SelectChoice(now, 0, -1), "negative choice")
	assert.Empty(t, pulses)

	snap := s.Snapshot(now)
	assert.Nil(t, snap.Selected)
	assert.False(t, snap.Locked)
	assert.Equal(t, domain.PhasePresenting, snap.Phase)
}

func TestSelectionForPreviousQuestionIsIgnored(t *testing.T) {
	s := newTestSession()
	now := answer(t, s, t0.Add(time.Second), 0, 0)

	assert.False(t, s.SelectChoice(now.Add(time.Second), 0, 1))
	assert.Equal(t, domain.OutcomeCorrect, s.Outcomes()[0])
	assert.Equal(t, domain.OutcomeIdle, s.Outcomes()[1])
}

func TestCurrentIndexAdvancesByOne(t *testing.T) {
	s := newTestSession()

	seen := []int{s.CurrentIndex()}
	now := t0
	for step := 0; step < 400 && !s.Completed(); step++ {
		now = now.Add(100 * time.Millisecond)
		s.Tick(now)
		if idx := s.CurrentIndex(); idx != seen[len(seen)-1] {
			seen = append(seen, idx)
		}
	}

	assert.Equal(t, []int{0, 1, 2, 3}, seen)
	assert.True(t, s.Completed())
}

func TestOutcomesNeverRevert(t *testing.T) {
	s := newTestSession()

	now := answer(t, s, t0.Add(time.Second), 0, 1)
	first := s.Outcomes()[0]
	require.Equal(t, domain.OutcomeWrong, first)

	for i := 0; i < 50; i++ {
		now = now.Add(time.Second)
		s.Tick(now)
		s.SelectChoice(now, 0, 0)
		assert.Equal(t, first, s.Outcomes()[0])
	}
	assert.True(t, s.Completed())
	assert.Len(t, s.Outcomes(), 3)
}

func TestFinishedSessionIgnoresInput(t *testing.T) {
	s := newTestSession()
	now := t0
	for range testQuestions() {
		now = timeout(s, now)
	}
	require.True(t, s.Completed())

	assert.False(t, s.SelectChoice(now, 2, 0))
	assert.False(t, s.SelectChoice(now, 3, 0))
	s.Tick(now.Add(time.Hour))
	assert.Equal(t, 3, s.CurrentIndex())

	snap := s.Snapshot(now)
	assert.Equal(t, domain.PhaseFinished, snap.Phase)
	assert.Nil(t, snap.Question)
	assert.Zero(t, snap.RemainingMs)
}

func TestAbandonStopsPendingTransitions(t *testing.T) {
	s := newTestSession()
	require.True(t, s.SelectChoice(t0.Add(time.Second), 0, 0))

	s.Abandon()
	s.Tick(t0.Add(time.Hour))

	assert.Equal(t, domain.OutcomeIdle, s.Outcomes()[0])
	assert.Equal(t, 0, s.CurrentIndex())
	assert.False(t, s.Completed())
}

func TestSnapshotRevealsAnswerAfterSelection(t *testing.T) {
	s := newTestSession()

	before := s.Snapshot(t0.Add(4 * time.Second))
	require.NotNil(t, before.Question)
	assert.Nil(t, before.Question.Correct)
	assert.Equal(t, int64(6000), before.RemainingMs)
	assert.InDelta(t, 0.4, before.Progress, 1e-9)
	assert.False(t, before.Critical)

	critical := s.Snapshot(t0.Add(7 * time.Second))
	assert.True(t, critical.Critical)

	require.True(t, s.SelectChoice(t0.Add(8*time.Second), 0, 3))
	after := s.Snapshot(t0.Add(8 * time.Second))
	require.NotNil(t, after.Question.Correct)
	assert.Equal(t, 0, *after.Question.Correct)
	require.NotNil(t, after.Selected)
	assert.Equal(t, 3, *after.Selected)
	assert.True(t, after.Locked)
	assert.False(t, after.Critical)
}

func TestRemainingNeverNegative(t *testing.T) {
	s := newTestSession()

	assert.Equal(t, perQuestion, s.Remaining(t0.Add(-time.Second)))
	assert.Equal(t, 3*time.Second, s.Remaining(t0.Add(7*time.Second)))
	assert.Zero(t, s.Remaining(t0.Add(time.Minute)))
}

func TestEmptySessionIsFinished(t *testing.T) {
	s := app.NewSession("empty", domain.DefaultSessionConfig(), nil, t0)

	assert.True(t, s.Completed())
	assert.Equal(t, 0, s.Total())
	assert.False(t, s.Summary().Perfect)
	assert.False(t, s.SelectChoice(t0, 0, 0))
}
