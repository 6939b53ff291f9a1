package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrNoQuestions is returned when a quiz has no playable questions.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrAlreadyStarted is returned on a second Start of the same attempt.
	ErrAlreadyStarted = errors.New("attempt already started")
	// ErrNotAwaitingAnswer is returned when a submission arrives outside
	// the answering window.
	ErrNotAwaitingAnswer = errors.New("attempt is not awaiting an answer")
	// ErrNotRevealing is returned when advance is requested before the
	// current question has been resolved.
	ErrNotRevealing = errors.New("attempt is not in the reveal phase")
	// ErrAttemptFinished is returned for any operation after the final
	// question.
	ErrAttemptFinished = errors.New("attempt already finished")
	// ErrNotFinished is returned when the final result is read before the
	// last question has been advanced past.
	ErrNotFinished = errors.New("attempt not finished")
	// ErrViewOnly is returned when an answer is submitted to a view-mode
	// quiz.
	ErrViewOnly = errors.New("quiz is view-only")
)
