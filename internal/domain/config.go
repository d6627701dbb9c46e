package domain

import "time"

const (
	MinPerQuestion     = 3 * time.Second
	MaxPerQuestion     = 90 * time.Second
	DefaultPerQuestion = 10 * time.Second

	MinQuestions     = 5
	MaxQuestions     = 20
	DefaultQuestions = 10
)

// SessionConfig holds the three session tunables. Build it with NewSessionConfig.
type SessionConfig struct {
	PerQuestion    time.Duration
	TotalQuestions int
	Category       string
}

// NewSessionConfig clamps duration and count to their supported ranges and
// replaces an unknown category with the default one.
func NewSessionConfig(perQuestion time.Duration, totalQuestions int, category string) SessionConfig {
	return SessionConfig{
		PerQuestion:    ClampPerQuestion(perQuestion),
		TotalQuestions: ClampQuestions(totalQuestions),
		Category:       CategoryOrDefault(category),
	}
}

// DefaultSessionConfig is 10 questions of 10 seconds in the general knowledge category.
func DefaultSessionConfig() SessionConfig {
	return NewSessionConfig(DefaultPerQuestion, DefaultQuestions, DefaultCategory)
}

// ClampPerQuestion rounds to whole milliseconds and clamps to [3s, 90s].
func ClampPerQuestion(d time.Duration) time.Duration {
	d = d.Round(time.Millisecond)
	if d < MinPerQuestion {
		return MinPerQuestion
	}
	if d > MaxPerQuestion {
		return MaxPerQuestion
	}
	return d
}

// ClampQuestions clamps the question count to [5, 20].
func ClampQuestions(n int) int {
	if n < MinQuestions {
		return MinQuestions
	}
	if n > MaxQuestions {
		return MaxQuestions
	}
	return n
}
