package models

import (
	"errors"
	"fmt"
)

// Error taxonomy shared across packages. Callers wrap these with context and
// match them with errors.Is at the API boundary.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUpstream          = errors.New("upstream error")
	ErrParse             = errors.New("parse error")
	ErrPersistenceAbsent = errors.New("no persisted state found")
	ErrNotFound          = errors.New("record not found")
	ErrAlreadySettled    = errors.New("match already settled")
)

// ErrInvalidOdds is an ErrInvalidInput specialised for decimal odds
var ErrInvalidOdds = fmt.Errorf("%w: invalid odds", ErrInvalidInput)
