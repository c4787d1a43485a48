package models

import "errors"

// Error taxonomy surfaced to the HTTP boundary. Handlers map these with
// errors.Is; anything else is an internal error.
var (
	// ErrDuplicateMobile rejects a registration whose mobile number is
	// already on file. Never retried.
	ErrDuplicateMobile = errors.New("mobile number already registered")

	// ErrMemberNotFound reports a card render or verification for an
	// unknown key.
	ErrMemberNotFound = errors.New("member not found")

	// ErrRenderConfiguration reports a missing or unusable branding asset
	// (script font, palette). Checked at startup so it surfaces before
	// traffic; fatal for the request when hit at render time.
	ErrRenderConfiguration = errors.New("card render configuration error")

	// ErrSequenceRace reports that hardened membership numbering exhausted
	// its retry budget on membership_no conflicts.
	ErrSequenceRace = errors.New("membership number assignment conflict")

	// ErrInvalidCredentials rejects an admin login.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
