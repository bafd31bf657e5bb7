package model

import "errors"

var (
	// ErrNotFound indicates an absent record where a default is not
	// appropriate.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken indicates a signup against an already registered email.
	ErrEmailTaken = errors.New("user already exists")
	// ErrInvalidCredentials indicates a failed email/password match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoSession indicates an absent, expired or unverifiable session.
	ErrNoSession = errors.New("no active session")
	// ErrVersionConflict indicates a stale whole-document overwrite.
	ErrVersionConflict = errors.New("record version conflict")
)
