package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/StudioJuno/interactive-quote-magic/internal/model"
	"github.com/StudioJuno/interactive-quote-magic/internal/pricing"
)

// Navigation errors. They map to 409-style refusals at the HTTP layer; none
// of them mutate the session.
var (
	// ErrSubmissionInFlight is returned while the quote submission is
	// pending. The controller accepts no navigation or mutation until the
	// call settles, which is what guarantees the submission fires once.
	ErrSubmissionInFlight = errors.New("submission in flight")
	// ErrAlreadySubmitted is returned when advancing from the terminal step
	// after the submission settled.
	ErrAlreadySubmitted = errors.New("quote already submitted")
	// ErrCannotSkipAhead is returned when a group jump targets a step the
	// visitor has not reached yet.
	ErrCannotSkipAhead = errors.New("cannot jump ahead of the current step")
)

// Receipt is what the quoting backend hands back for a successful
// submission.
type Receipt struct {
	Reference   string
	DocumentURL string
}

// Submitter sends a finalized record to the quoting backend. Implemented by
// the pennylane client; tests substitute their own.
type Submitter interface {
	Submit(ctx context.Context, record model.QuoteRequest, table pricing.Table) (Receipt, error)
}

// Reporter receives user-facing notices (rendered as toasts by the web
// client). Injecting it keeps the controller free of any UI concern.
type Reporter interface {
	Info(message string)
	Error(message string)
}

// NopReporter discards all notices.
type NopReporter struct{}

func (NopReporter) Info(string) {}

func (NopReporter) Error(string) {}

// Gate guards the terminal submission across concurrent copies of the same
// session. Each request rebuilds its own controller from storage, so the
// in-memory submission status alone cannot keep the outbound call
// single-fire. Begin must atomically record that this session's submission
// started and persist the pending state; when another copy already began it
// must fail with ErrSubmissionInFlight.
type Gate interface {
	Begin(ctx context.Context, sess *model.WizardSession) error
}

// NopGate admits every submission. Only safe when a session has exactly one
// live controller, as in tests.
type NopGate struct{}

func (NopGate) Begin(context.Context, *model.WizardSession) error { return nil }

// Controller drives one wizard session: it owns the answer record, the step
// index and the navigation direction, recomputes the step sequence when a
// mutation changes its inputs, and triggers the quote submission when the
// visitor passes the contact step. A controller is not safe for concurrent
// use, and each request builds its own over a fresh session copy; the gate
// is what keeps the submission single-fire across those copies.
type Controller struct {
	session   *model.WizardSession
	steps     []StepID
	table     pricing.Table
	reporter  Reporter
	submitter Submitter
	gate      Gate
}

// NewController wraps an existing session. The step sequence is rebuilt from
// the record, so a session restored from storage resumes exactly where it
// left off. A nil reporter falls back to NopReporter, a nil gate to NopGate.
func NewController(sess *model.WizardSession, table pricing.Table, reporter Reporter, submitter Submitter, gate Gate) *Controller {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if gate == nil {
		gate = NopGate{}
	}
	c := &Controller{
		session:   sess,
		table:     table,
		reporter:  reporter,
		submitter: submitter,
		gate:      gate,
	}
	c.steps = StepsFor(sess.Record)
	if sess.StepIndex < 0 {
		sess.StepIndex = 0
	}
	if sess.StepIndex >= len(c.steps) {
		sess.StepIndex = len(c.steps) - 1
	}
	return c
}

// Session exposes the underlying session for persistence.
func (c *Controller) Session() *model.WizardSession { return c.session }

// Steps returns the current ordered step sequence.
func (c *Controller) Steps() []StepID { return c.steps }

// Current returns the step the visitor is on.
func (c *Controller) Current() StepID { return c.steps[c.session.StepIndex] }

// Price derives the live estimate for the current record.
func (c *Controller) Price() ([]pricing.LineItem, int64) {
	return pricing.Quote(c.session.Record, c.table)
}

// Mutate merges a partial update into the record. When the merge changes the
// service type or crosses the multi-moment threshold, the step sequence is
// recomputed and the index remapped: the visitor stays on the same step if
// it still exists, otherwise on the nearest surviving predecessor.
func (c *Controller) Mutate(patch model.QuotePatch) error {
	if c.session.SubmissionStatus == model.SubmissionPending {
		return ErrSubmissionInFlight
	}

	old := c.steps
	patch.Apply(&c.session.Record)

	next := StepsFor(c.session.Record)
	if !stepsEqual(old, next) {
		c.session.StepIndex = remapIndex(old, next, c.session.StepIndex)
		c.steps = next
	}
	c.touch()
	return nil
}

// Advance validates the current step and moves forward. A validation
// failure is reported and leaves the state untouched. Passing the contact
// step fires the quote submission exactly once: the session moves onto the
// terminal step with status pending, the submitter is called, and the
// status settles on success or error.
func (c *Controller) Advance(ctx context.Context) error {
	switch c.session.SubmissionStatus {
	case model.SubmissionPending:
		return ErrSubmissionInFlight
	case model.SubmissionSuccess, model.SubmissionError:
		return ErrAlreadySubmitted
	}

	current := c.Current()
	if err := Validate(current, c.session.Record); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			c.reporter.Error(verr.Reason)
		}
		return err
	}

	if current == StepContact {
		return c.submit(ctx)
	}
	if current == StepSubmission {
		// Unreachable while status is idle unless the sequencer broke.
		return ErrAlreadySubmitted
	}

	c.session.StepIndex++
	c.session.Direction = model.DirectionForward
	c.touch()
	return nil
}

// Retreat moves one step back. Going backward never validates. It is a
// no-op on the first step and refused while a submission is pending.
func (c *Controller) Retreat() error {
	if c.session.SubmissionStatus == model.SubmissionPending {
		return ErrSubmissionInFlight
	}
	if c.session.StepIndex > 0 {
		c.session.StepIndex--
		c.session.Direction = model.DirectionBackward
		c.touch()
	}
	return nil
}

// JumpToGroup relocates the visitor to the first step of a group they
// already reached. Jumping ahead is refused so no validation gate is
// skipped.
func (c *Controller) JumpToGroup(group GroupID) error {
	if c.session.SubmissionStatus == model.SubmissionPending {
		return ErrSubmissionInFlight
	}
	target := -1
	for i, s := range c.steps {
		if GroupOf(s) == group {
			target = i
			break
		}
	}
	if target < 0 || target > c.session.StepIndex {
		return ErrCannotSkipAhead
	}
	if target < c.session.StepIndex {
		c.session.Direction = model.DirectionBackward
	} else {
		c.session.Direction = model.DirectionForward
	}
	c.session.StepIndex = target
	c.touch()
	return nil
}

// submit moves the session onto the terminal step and performs the single
// outbound call. Both a transport error and an application-level error
// payload surface identically: status error, message recorded, no retry.
func (c *Controller) submit(ctx context.Context) error {
	c.session.SubmissionStatus = model.SubmissionPending
	c.session.StepIndex = indexOf(c.steps, StepSubmission)
	c.session.Direction = model.DirectionForward
	c.touch()

	// The pending state must be visible to other request copies of this
	// session before the backend is called, otherwise a duplicate advance
	// loads idle and fires a second quote.
	if err := c.gate.Begin(ctx, c.session); err != nil {
		if !errors.Is(err, ErrSubmissionInFlight) {
			// The gate itself failed; nothing was sent, so the visitor may
			// try again from the contact step.
			c.session.SubmissionStatus = model.SubmissionIdle
			c.session.StepIndex = indexOf(c.steps, StepContact)
		}
		return err
	}

	receipt, err := c.submitter.Submit(ctx, c.session.Record, c.table)
	if err != nil {
		c.session.SubmissionStatus = model.SubmissionError
		c.session.SubmissionError = err.Error()
		c.touch()
		c.reporter.Error("We could not generate your quote. Please try again later.")
		return err
	}

	c.session.SubmissionStatus = model.SubmissionSuccess
	c.session.QuoteReference = receipt.Reference
	c.session.DocumentURL = receipt.DocumentURL
	c.touch()
	c.reporter.Info("Your quote request has been sent!")
	return nil
}

func (c *Controller) touch() {
	c.session.UpdatedAt = time.Now().UTC()
}

// remapIndex finds the position in the new sequence that preserves the
// visitor's logical place: the same step if it survived, otherwise the
// closest predecessor from the old sequence that did.
func remapIndex(old, next []StepID, idx int) int {
	if idx >= len(old) {
		idx = len(old) - 1
	}
	for i := idx; i >= 0; i-- {
		if p := indexOf(next, old[i]); p >= 0 {
			return p
		}
	}
	return 0
}

func indexOf(steps []StepID, step StepID) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}

func stepsEqual(a, b []StepID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
