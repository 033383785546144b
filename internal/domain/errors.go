package domain

import "errors"

var (
	// ErrQuizNotFound indicates the requested quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrEntryNotFound indicates a timeline entry id resolves to nothing.
	ErrEntryNotFound = errors.New("timeline entry not found")
	// ErrCounterNotFound indicates a global counter was never seeded.
	ErrCounterNotFound = errors.New("global counter not found")
	// ErrEditorNotFound indicates no editor account with that username.
	ErrEditorNotFound = errors.New("editor not found")
	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSessionNotFound indicates an expired or unknown session token.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTitleRequired rejects a quiz submission without a title.
	ErrTitleRequired = errors.New("quiz title is required")
	// ErrContentRequired rejects an empty timeline submission.
	ErrContentRequired = errors.New("timeline content is required")
)
