package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a session ID is unknown or was discarded.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionFinished is returned when an action targets a finished session.
	ErrSessionFinished = errors.New("quiz session already finished")
	// ErrSessionAbandoned is returned by a runner whose session was stopped from outside.
	ErrSessionAbandoned = errors.New("quiz session abandoned")
	// ErrSessionNotFinished indicates a summary was requested while questions remain.
	ErrSessionNotFinished = errors.New("quiz session still in progress")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrBankEmpty indicates the bank loaded but held no playable questions.
	ErrBankEmpty = errors.New("question bank empty")
	// ErrInvalidQuestion marks a record that cannot be played.
	ErrInvalidQuestion = errors.New("invalid question")
)
