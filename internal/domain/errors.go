package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on create.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCard is returned when a card payload fails validation.
	ErrInvalidCard = errors.New("invalid card")
	// ErrInvalidDirection is returned by move for anything other than -1 or +1.
	ErrInvalidDirection = errors.New("direction must be -1 or 1")
	// ErrUnknownSection is returned for a settings key outside the six known sections.
	ErrUnknownSection = errors.New("unknown settings section")
	// ErrInvalidSettings is returned when a settings document does not fit its section shape.
	ErrInvalidSettings = errors.New("invalid settings document")
)
