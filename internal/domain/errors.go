package domain

import "errors"

// Common domain errors.
var (
	ErrInvalidDuration = errors.New("invalid duration")
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrUnknownSession  = errors.New("unknown session")
	ErrEmptyTaskTitle  = errors.New("task title cannot be empty")
	ErrTaskNotFound    = errors.New("task not found")
	ErrUnknownSetting  = errors.New("unknown setting")
	ErrInvalidChoice   = errors.New("choice not offered")
)
