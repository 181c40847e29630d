package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session does not exist.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionFinished is returned when answers arrive after the verdict.
	ErrSessionFinished = errors.New("game session already finished")
	// ErrQuestionNotActive is returned when an answer targets a question
	// that is not the one currently posed (or was already settled).
	ErrQuestionNotActive = errors.New("question not active")
	// ErrQuestionSetNotFound indicates the question content could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrUnknownDifficulty indicates an unrecognized difficulty value.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrNoQuestions indicates the requested tier has no questions at all.
	ErrNoQuestions = errors.New("no questions available for difficulty")
)
