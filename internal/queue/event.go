// Package queue defines message payloads exchanged over the message broker.
package queue

// QuoteSubmittedEvent is published when the quoting backend successfully
// generated a quote document. It carries enough information for downstream
// consumers to log, notify the studio, or feed analytics without touching
// the primary database.
type QuoteSubmittedEvent struct {
	SessionID      string `json:"session_id"`
	QuoteReference string `json:"quote_reference"`
	DocumentURL    string `json:"document_url"`
	LastName       string `json:"last_name"`
	FirstName      string `json:"first_name"`
	Email          string `json:"email"`
	ServiceType    string `json:"service_type"`
	WeddingDate    string `json:"wedding_date"`
	SubtotalCents  int64  `json:"subtotal_cents"`
	SubmittedAt    string `json:"submitted_at"`
}
