// Package repository provides data access for wizard sessions and submitted
// quotes. This file defines sentinel errors shared across repositories so
// that handlers can distinguish failure scenarios, for example a wizard
// session that expired from Redis versus a storage outage.
package repository

import "errors"

// ErrSessionNotFound is returned when a wizard session does not exist or
// its TTL elapsed. Handlers should translate this into an HTTP 404; the
// client reacts by opening a fresh session.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionStoreUnavailable is returned when the session store cannot be
// reached. Handlers should translate this into an HTTP 503.
var ErrSessionStoreUnavailable = errors.New("session store unavailable")

// ErrSubmissionStarted is returned by BeginSubmission when another request
// already claimed this session's submission.
var ErrSubmissionStarted = errors.New("submission already started")
