package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/StudioJuno/interactive-quote-magic/internal/model"
)

// sessionKeyPrefix namespaces wizard sessions in Redis so they coexist with
// rate-limit and cache entries on the same instance.
const sessionKeyPrefix = "quote:session:"

// SessionRepo stores wizard sessions as JSON blobs in Redis. Sessions are
// deliberately ephemeral: every save renews the TTL, and once it elapses the
// session is gone and the visitor starts over. Nothing here survives a
// completed or abandoned flow except the submitted-quote archive row.
type SessionRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionRepo returns a SessionRepo bound to the provided client. A
// non-positive ttl falls back to 24 hours.
func NewSessionRepo(rdb *redis.Client, ttl time.Duration) *SessionRepo {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionRepo{rdb: rdb, ttl: ttl}
}

// Save serializes the session and writes it under its key, renewing the TTL.
func (r *SessionRepo) Save(ctx context.Context, sess model.WizardSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sess.ID, err)
	}
	if err := r.rdb.Set(ctx, sessionKeyPrefix+sess.ID, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionStoreUnavailable, err)
	}
	return nil
}

// Get loads a session by ID. A missing or expired key yields
// ErrSessionNotFound.
func (r *SessionRepo) Get(ctx context.Context, id string) (model.WizardSession, error) {
	raw, err := r.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.WizardSession{}, ErrSessionNotFound
	}
	if err != nil {
		return model.WizardSession{}, fmt.Errorf("%w: %v", ErrSessionStoreUnavailable, err)
	}
	var sess model.WizardSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		// A corrupt blob is unrecoverable; treat it as absent so the client
		// can restart cleanly.
		return model.WizardSession{}, ErrSessionNotFound
	}
	return sess, nil
}

// BeginSubmission atomically claims the session's one outbound submission
// and persists the pending state. The claim is a SETNX marker keyed next to
// the session, so of any number of concurrent requests exactly one proceeds;
// the rest get ErrSubmissionStarted. The marker shares the session TTL and
// is never released, because a settled submission is terminal either way.
func (r *SessionRepo) BeginSubmission(ctx context.Context, sess model.WizardSession) error {
	ok, err := r.rdb.SetNX(ctx, sessionKeyPrefix+sess.ID+":submitting", 1, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSessionStoreUnavailable, err)
	}
	if !ok {
		return ErrSubmissionStarted
	}
	return r.Save(ctx, sess)
}

// Delete removes a session and its submission marker. Deleting an absent
// session is not an error.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, sessionKeyPrefix+id, sessionKeyPrefix+id+":submitting").Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionStoreUnavailable, err)
	}
	return nil
}
