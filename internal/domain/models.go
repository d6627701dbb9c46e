package domain

import "fmt"

// ChoiceCount is the number of answers every question offers.
const ChoiceCount = 4

// Question models a four-choice question. Field tags follow the line-record format.
type Question struct {
	ID       string   `json:"id"`
	Prompt   string   `json:"pitanje"`
	Choices  []string `json:"odgovori"`
	Correct  int      `json:"tacan"`
	Category string   `json:"kategorija,omitempty"`
}

// Validate reports whether the question can be played.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidQuestion)
	}
	if len(q.Choices) != ChoiceCount {
		return fmt.Errorf("%w: %s has %d choices", ErrInvalidQuestion, q.ID, len(q.Choices))
	}
	if q.Correct < 0 || q.Correct >= ChoiceCount {
		return fmt.Errorf("%w: %s correct index %d", ErrInvalidQuestion, q.ID, q.Correct)
	}
	return nil
}

// Outcome is the resolved classification of a single question.
type Outcome string

const (
	OutcomeIdle    Outcome = "idle"
	OutcomeCorrect Outcome = "correct"
	OutcomeWrong   Outcome = "wrong"
	OutcomeSkipped Outcome = "skipped"
)

// Glyph is the summary marker for the outcome.
func (o Outcome) Glyph() string {
	switch o {
	case OutcomeCorrect:
		return "✓"
	case OutcomeWrong:
		return "✗"
	case OutcomeSkipped:
		return "○"
	default:
		return "·"
	}
}

// Phase is the per-question state of a session.
type Phase string

const (
	PhasePresenting Phase = "presenting"
	PhaseLocked     Phase = "locked"
	PhaseAdvancing  Phase = "advancing"
	PhaseFinished   Phase = "finished"
)

// PulseKind distinguishes the haptic signal sent after a selection.
type PulseKind string

const (
	PulseSuccess PulseKind = "success"
	PulseFailure PulseKind = "failure"
)

// Pulse is a fire-and-forget vibration request. PatternMs alternates on/off milliseconds.
type Pulse struct {
	Kind      PulseKind `json:"kind"`
	PatternMs []int     `json:"patternMs"`
}

// PulseFor returns the pulse matching the correctness of a selection.
func PulseFor(correct bool) Pulse {
	if correct {
		return Pulse{Kind: PulseSuccess, PatternMs: []int{25}}
	}
	return Pulse{Kind: PulseFailure, PatternMs: []int{30, 40, 30}}
}

// QuestionView is the player-facing projection of the current question.
// Correct is only populated once a choice has been picked.
type QuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
	Correct *int     `json:"correct,omitempty"`
}

// SessionSnapshot is a read-only projection of a session at an instant.
type SessionSnapshot struct {
	SessionID    string        `json:"sessionId"`
	Phase        Phase         `json:"phase"`
	CurrentIndex int           `json:"currentIndex"`
	Total        int           `json:"total"`
	Question     *QuestionView `json:"question,omitempty"`
	Selected     *int          `json:"selected,omitempty"`
	Locked       bool          `json:"locked"`
	RemainingMs  int64         `json:"remainingMs"`
	Progress     float64       `json:"progress"`
	Critical     bool          `json:"critical"`
	Outcomes     []Outcome     `json:"outcomes"`
	Score        int           `json:"score"`
	Completed    bool          `json:"completed"`
}

// Summary is what the summary presenter renders after a session finishes.
type Summary struct {
	SessionID string    `json:"sessionId"`
	Category  string    `json:"category"`
	Total     int       `json:"total"`
	Score     int       `json:"score"`
	Perfect   bool      `json:"perfect"`
	Outcomes  []Outcome `json:"outcomes"`
}

// Summarize counts correct outcomes. A session is perfect only when every slot is correct.
func Summarize(outcomes []Outcome) Summary {
	score := 0
	for _, o := range outcomes {
		if o == OutcomeCorrect {
			score++
		}
	}
	out := make([]Outcome, len(outcomes))
	copy(out, outcomes)
	return Summary{
		Total:    len(outcomes),
		Score:    score,
		Perfect:  len(outcomes) > 0 && score == len(outcomes),
		Outcomes: out,
	}
}

// Glyphs renders the outcomes as a single line of markers.
func (s Summary) Glyphs() string {
	out := make([]byte, 0, len(s.Outcomes)*4)
	for i, o := range s.Outcomes {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, o.Glyph()...)
	}
	return string(out)
}
