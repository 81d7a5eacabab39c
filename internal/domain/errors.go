package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no session exists for the id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrPackNotFound indicates the pack content could not be loaded.
	ErrPackNotFound = errors.New("pack not found")
	// ErrInvalidPack marks malformed pack data; unlike race-class
	// conditions this one is surfaced loudly.
	ErrInvalidPack = errors.New("invalid pack")
	// ErrNoCurrentQuestion means the session has no drawn question for its level.
	ErrNoCurrentQuestion = errors.New("no current question")
	// ErrNoFFFQuestion means the pack carries no fastest-finger question.
	ErrNoFFFQuestion = errors.New("no fastest finger question in pack")
	// ErrLiveUnavailable signals that the replicated store could not be
	// reached; callers fall back to local play.
	ErrLiveUnavailable = errors.New("live features unavailable")
)
