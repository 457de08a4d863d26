package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateVote      = errors.New("vote already cast for this position")
	ErrAlreadyRegistered  = errors.New("voter id already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrVoterNotFound      = errors.New("voter not found")
	ErrInvalidCredential  = errors.New("invalid credentials")
	ErrBallotNotFound     = errors.New("ballot not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Reasons carried by InputError. They are safe to show to API clients.
const (
	ReasonMissingFields   = "All fields are required"
	ReasonInvalidPosition = "position must be one of: MLA, MP"
	ReasonMissingVoterID  = "voterID is required"
	ReasonSecretTooLong   = "password must be at most 72 bytes"
)

// MaxSecretBytes is the longest secret bcrypt will hash.
const MaxSecretBytes = 72

// InputError describes why a request was rejected before any store access.
// It matches ErrInvalidInput under errors.Is.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return "invalid input: " + e.Reason }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// InvalidInput returns an *InputError with the given client-facing reason.
func InvalidInput(reason string) error {
	return &InputError{Reason: reason}
}
