package model

import "time"

// SubmissionStatus tracks the terminal submission sub-machine of a wizard
// session. It starts idle, becomes pending exactly once when the visitor
// passes the contact step, and then settles on success or error. There is
// no automatic retry out of error.
type SubmissionStatus string

const (
	SubmissionIdle    SubmissionStatus = "idle"
	SubmissionPending SubmissionStatus = "pending"
	SubmissionSuccess SubmissionStatus = "success"
	SubmissionError   SubmissionStatus = "error"
)

// Direction records which way the visitor last navigated, so the client can
// animate transitions accordingly.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// WizardSession is the persisted state of one quote-request flow. It is
// serialized to JSON and kept in Redis under a TTL, so a visitor can leave
// and resume within the same browser session; it is never shared between
// visitors.
//
// Fields:
//  ID               – session UUID, also the subject of the session token.
//  Record           – the answers collected so far.
//  StepIndex        – index into the current step sequence.
//  Direction        – last navigation direction.
//  SubmissionStatus – terminal sub-machine state.
//  QuoteReference   – human-readable quote number once submitted.
//  DocumentURL      – public URL of the generated quote document.
//  SubmissionError  – user-facing message when submission failed.
//  CreatedAt        – when the session was opened.
//  UpdatedAt        – last mutation timestamp.
type WizardSession struct {
	ID               string           `json:"id"`
	Record           QuoteRequest     `json:"record"`
	StepIndex        int              `json:"step_index"`
	Direction        Direction        `json:"direction"`
	SubmissionStatus SubmissionStatus `json:"submission_status"`
	QuoteReference   string           `json:"quote_reference"`
	DocumentURL      string           `json:"document_url"`
	SubmissionError  string           `json:"submission_error"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewWizardSession opens a fresh session with default answers, positioned on
// the first step.
func NewWizardSession(id string) WizardSession {
	now := time.Now().UTC()
	return WizardSession{
		ID:               id,
		Record:           NewQuoteRequest(),
		StepIndex:        0,
		Direction:        DirectionForward,
		SubmissionStatus: SubmissionIdle,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
