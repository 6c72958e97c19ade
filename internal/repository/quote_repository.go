package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/StudioJuno/interactive-quote-magic/internal/model"
)

// SubmittedQuote is the persistence model for one successfully generated
// quote. It is the only durable trace of a wizard run; the session itself
// expires from Redis.
//
// Fields map onto the submitted_quotes table:
//  ID             – primary key.
//  SessionID      – the wizard session UUID that produced the quote.
//  QuoteReference – human-readable reference from the quoting backend.
//  DocumentURL    – public URL of the quote document.
//  LastName, FirstName, Email – contact block, denormalized for lookups.
//  ServiceType    – chosen service.
//  WeddingDate    – as entered, may be empty.
//  SubtotalCents  – estimate subtotal at submission time.
//  RecordJSON     – the full answer record, serialized.
//  CreatedAt      – insertion timestamp.
type SubmittedQuote struct {
	ID             uint64
	SessionID      string
	QuoteReference string
	DocumentURL    string
	LastName       string
	FirstName      string
	Email          string
	ServiceType    string
	WeddingDate    string
	SubtotalCents  int64
	RecordJSON     []byte
	CreatedAt      time.Time
}

// QuoteRepo archives submitted quotes in MySQL.
type QuoteRepo struct {
	db *sql.DB
}

// NewQuoteRepo returns a QuoteRepo bound to the provided database.
func NewQuoteRepo(db *sql.DB) *QuoteRepo { return &QuoteRepo{db: db} }

// Create inserts one archive row and returns its ID. The full record is
// stored as JSON so future pricing or schema changes never lose what the
// visitor actually answered.
func (r *QuoteRepo) Create(ctx context.Context, sessionID, reference, documentURL string, record model.QuoteRequest, subtotalCents int64) (uint64, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO submitted_quotes
		   (session_id, quote_reference, document_url, last_name, first_name, email,
		    service_type, wedding_date, subtotal_cents, record_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, reference, documentURL, record.LastName, record.FirstName, record.Email,
		string(record.ServiceType), record.WeddingDate, subtotalCents, raw,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetBySessionID returns the archive row for a session, or sql.ErrNoRows
// when the session never submitted.
func (r *QuoteRepo) GetBySessionID(ctx context.Context, sessionID string) (SubmittedQuote, error) {
	const q = `SELECT id, session_id, quote_reference, document_url, last_name, first_name,
	                  email, service_type, wedding_date, subtotal_cents, record_json, created_at
	           FROM submitted_quotes WHERE session_id = ? ORDER BY id DESC LIMIT 1`
	var sq SubmittedQuote
	err := r.db.QueryRowContext(ctx, q, sessionID).Scan(
		&sq.ID, &sq.SessionID, &sq.QuoteReference, &sq.DocumentURL, &sq.LastName, &sq.FirstName,
		&sq.Email, &sq.ServiceType, &sq.WeddingDate, &sq.SubtotalCents, &sq.RecordJSON, &sq.CreatedAt,
	)
	if err != nil {
		return SubmittedQuote{}, err
	}
	return sq, nil
}
