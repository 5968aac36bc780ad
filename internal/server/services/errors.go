package services

import "errors"

var (
	// ErrCardNotFound is returned when a claim or admin action references
	// a code with no card row.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardDisabled is returned when a claim is attempted on a disabled card.
	ErrCardDisabled = errors.New("card is disabled")

	// ErrCardClaimed is returned when a claim is attempted on a card that
	// already belongs to another profile.
	ErrCardClaimed = errors.New("card is already claimed")

	// ErrInvalidCode is returned for codes outside the 6-16 character
	// 32-symbol alphabet.
	ErrInvalidCode = errors.New("invalid card code")

	// ErrProfileNotFound is returned by profile lookups with no match.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrHandleTaken is returned when a profile save collides with another
	// profile's handle.
	ErrHandleTaken = errors.New("handle is already taken")

	// ErrInvalidHandle is returned for handles outside the lowercase slug
	// format.
	ErrInvalidHandle = errors.New("handle must be 3-30 characters of a-z, 0-9 or -")

	// ErrExhaustedAttempts is returned when the code generator hit its draw
	// budget before producing the requested batch. Retrying with a longer
	// code length or a smaller count is the usual fix.
	ErrExhaustedAttempts = errors.New("exhausted attempts generating unique codes")

	// ErrRegistrationDisabled is returned for sign-ups while the admin
	// registration toggle is off.
	ErrRegistrationDisabled = errors.New("registration is disabled")
)
