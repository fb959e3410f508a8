package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidTransition is returned when an operation is not valid in the current phase.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrUnknownQuestion is returned when a question id is not in the catalog.
var ErrUnknownQuestion = errors.New("unknown question")

// ErrQuestionHidden is returned when answering a question that is not currently visible.
var ErrQuestionHidden = errors.New("question not visible")

// ErrUnknownOption is returned when an option id does not belong to the question.
var ErrUnknownOption = errors.New("unknown option")

// ErrTooManySelections is returned when a single choice question receives more than one option.
var ErrTooManySelections = errors.New("too many selections")

// ErrUnknownTrack is returned for a track outside the declared enumeration.
var ErrUnknownTrack = errors.New("unknown track")

// ErrUnknownDeliveryMode is returned for a delivery mode outside the declared enumeration.
var ErrUnknownDeliveryMode = errors.New("unknown delivery mode")

// ErrInvalidTeamSize is returned for a zero or negative team size.
var ErrInvalidTeamSize = errors.New("invalid team size")

// ErrInvalidCatalog is returned when catalog data violates its invariants.
var ErrInvalidCatalog = errors.New("invalid catalog")
