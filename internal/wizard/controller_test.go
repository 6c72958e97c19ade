package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StudioJuno/interactive-quote-magic/internal/model"
	"github.com/StudioJuno/interactive-quote-magic/internal/pricing"
)

// fakeSubmitter counts invocations and returns either a receipt or a fixed
// error.
type fakeSubmitter struct {
	calls   int
	err     error
	receipt Receipt
}

func (f *fakeSubmitter) Submit(ctx context.Context, record model.QuoteRequest, table pricing.Table) (Receipt, error) {
	f.calls++
	if f.err != nil {
		return Receipt{}, f.err
	}
	return f.receipt, nil
}

// recordingReporter captures notices for assertions.
type recordingReporter struct {
	infos  []string
	errors []string
}

func (r *recordingReporter) Info(msg string) { r.infos = append(r.infos, msg) }

func (r *recordingReporter) Error(msg string) { r.errors = append(r.errors, msg) }

func newTestController(sess *model.WizardSession, sub Submitter) (*Controller, *recordingReporter) {
	rep := &recordingReporter{}
	return NewController(sess, pricing.DefaultTable(), rep, sub, nil), rep
}

// memoryGate stands in for the Redis-backed submission gate: it admits the
// first Begin per session ID and records the state it was asked to persist.
type memoryGate struct {
	begun map[string]bool
	saved []model.WizardSession
}

func newMemoryGate() *memoryGate {
	return &memoryGate{begun: map[string]bool{}}
}

func (g *memoryGate) Begin(_ context.Context, sess *model.WizardSession) error {
	if g.begun[sess.ID] {
		return ErrSubmissionInFlight
	}
	g.begun[sess.ID] = true
	g.saved = append(g.saved, *sess)
	return nil
}

// completeRecord returns answers that satisfy every validation gate.
func completeRecord() model.QuoteRequest {
	q := scheduledRecord()
	q.ServiceType = model.ServicePhoto
	q.CoverageScope = model.CoverageSingleDay
	q.Moments = []string{"Ceremony"}
	q.NumPhotographers = 2
	q.PhotoAlbum = true
	q.DeliverySpeed = model.DeliveryExpress
	q.Source = "Instagram"
	q.LastName = "Martin"
	q.Email = "martin@example.com"
	return q
}

func TestAdvance_BlockedByValidation(t *testing.T) {
	sess := model.NewWizardSession("s1")
	sub := &fakeSubmitter{}
	ctrl, rep := newTestController(&sess, sub)

	err := ctrl.Advance(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepServiceSelection, verr.Step)
	assert.Equal(t, 0, sess.StepIndex, "index must not move on validation failure")
	assert.Equal(t, model.SubmissionIdle, sess.SubmissionStatus)
	assert.Zero(t, sub.calls)
	assert.NotEmpty(t, rep.errors, "the reason must be reported to the user")
}

func TestAdvance_MovesForward(t *testing.T) {
	sess := model.NewWizardSession("s1")
	sess.Record = completeRecord()
	ctrl, _ := newTestController(&sess, &fakeSubmitter{})

	require.NoError(t, ctrl.Advance(context.Background()))
	assert.Equal(t, 1, sess.StepIndex)
	assert.Equal(t, model.DirectionForward, sess.Direction)
}

func TestAdvance_ContactWithoutEmailNeverSubmits(t *testing.T) {
	sess := model.NewWizardSession("s1")
	sess.Record = completeRecord()
	sess.Record.Email = ""
	sub := &fakeSubmitter{}
	ctrl, _ := newTestController(&sess, sub)

	sess.StepIndex = indexOf(ctrl.Steps(), StepContact)

	err := ctrl.Advance(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, indexOf(ctrl.Steps(), StepContact), sess.StepIndex)
	assert.Zero(t, sub.calls, "submission client must not be invoked")
	assert.Equal(t, model.SubmissionIdle, sess.SubmissionStatus)
}

func TestAdvance_ContactStepSubmitsOnce(t *testing.T) {
	sess := model.NewWizardSession("s1")
	sess.Record = completeRecord()
	sub := &fakeSubmitter{receipt: Receipt{Reference: "DEV-2027-001", DocumentURL: "https://quotes.example/dev-2027-001.pdf"}}
	ctrl, rep := newTestController(&sess, sub)

	sess.StepIndex = indexOf(ctrl.Steps(), StepContact)

	require.NoError(t, ctrl.Advance(context.Background()))
	assert.Equal(t, 1, sub.calls)
	assert.Equal(t, model.SubmissionSuccess, sess.SubmissionStatus)
	assert.Equal(t, "DEV-2027-001", sess.QuoteReference)
	assert.Equal(t, "https://quotes.example/dev-2027-001.pdf", sess.DocumentURL)
	assert.Equal(t, StepSubmission, ctrl.Current())
	assert.NotEmpty(t, rep.infos)

	// A duplicate advance must not fire again.
	err := ctrl.Advance(context.Background())
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, 1, sub.calls)
}

// Two requests may hold separate copies of the same stored session, both
// still showing an idle status. The gate, not the in-memory status, must
// keep the backend call single-fire.
func TestAdvance_DuplicateSessionCopiesSubmitOnce(t *testing.T) {
	stored := model.NewWizardSession("s1")
	stored.Record = completeRecord()

	gate := newMemoryGate()
	sub := &fakeSubmitter{receipt: Receipt{Reference: "DEV-2027-001"}}

	first := stored
	second := stored

	ctrlA := NewController(&first, pricing.DefaultTable(), nil, sub, gate)
	first.StepIndex = indexOf(ctrlA.Steps(), StepContact)
	ctrlB := NewController(&second, pricing.DefaultTable(), nil, sub, gate)
	second.StepIndex = indexOf(ctrlB.Steps(), StepContact)

	require.NoError(t, ctrlA.Advance(context.Background()))

	// The pending state reached the gate before the backend was called.
	require.Len(t, gate.saved, 1)
	assert.Equal(t, model.SubmissionPending, gate.saved[0].SubmissionStatus)
	assert.Equal(t, StepSubmission, ctrlA.Steps()[gate.saved[0].StepIndex])

	// The duplicate copy still believes the session is idle, so it passes
	// the status check and validation; the gate must stop it.
	err := ctrlB.Advance(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Equal(t, 1, sub.calls, "submission must fire exactly once per terminal reach")
	assert.Equal(t, model.SubmissionSuccess, first.SubmissionStatus)
}

// A gate that cannot persist the claim must abort before the backend call
// and put the visitor back on the contact step.
type failingGate struct{ err error }

func (g failingGate) Begin(context.Context, *model.WizardSession) error { return g.err }

func TestAdvance_GateFailureAbortsSubmission(t *testing.T) {
	sess := model.NewWizardSession("s1")
	sess.Record = completeRecord()
	sub := &fakeSubmitter{}
	gateErr := errors.New("session store unavailable")
	ctrl := NewController(&sess, pricing.DefaultTable(), nil, sub, failingGate{err: gateErr})

	sess.StepIndex = indexOf(ctrl.Steps(), StepContact)

	err := ctrl.Advance(context.Background())
	require.ErrorIs(t, err, gateErr)
	assert.Zero(t, sub.calls)
	assert.Equal(t, model.SubmissionIdle, sess.SubmissionStatus)
	assert.Equal(t, StepContact, ctrl.Current())
}

func TestAdvance_RefusedWhilePending(t *testing.T) {
	sess := model.NewWizardSession("s1")
	sess.Record = completeRecord()
	sess.SubmissionStatus = model.SubmissionPending
	sub := &fakeSubmitter{}
	ctrl, _ := newTestController(&sess, sub)

	assert.ErrorIs(t, ctrl.Advance(context.Background()), ErrSubmissionInFlight)
	assert.ErrorIs(t, ctrl.Retreat(), ErrSubmissionInFlight)
	assert.ErrorIs(t, ctrl.Mutate(model.QuotePatch{}), ErrSubmissionInFlight)
	assert.Zero(t, sub.calls)
}

func TestAdvance_SubmissionFailureIsTerminal(t *testing.T) {
	sess := model.NewWizardSession("s1")
	sess.Record = completeRecord()
	sub := &fakeSubmitter{err: errors.New("quoting backend error: could not create customer")}
	ctrl, rep := newTestController(&sess, sub)

	sess.StepIndex = indexOf(ctrl.Steps(), StepContact)

	err := ctrl.Advance(context.Background())
	require.Error(t, err)
	assert.Equal(t, model.SubmissionError, sess.SubmissionStatus)
	assert.Contains(t, sess.SubmissionError, "could not create customer")
	assert.Equal(t, StepSubmission, ctrl.Current())
	assert.NotEmpty(t, rep.errors)
	assert.Equal(t, 1, sub.calls)

	// No automatic retry.
	assert.ErrorIs(t, ctrl.Advance(context.Background()), ErrAlreadySubmitted)
	assert.Equal(t, 1, sub.calls)
}

func TestRetreat(t *testing.T) {
	sess := model.NewWizardSession("s1")
	sess.Record = completeRecord()
	sess.Record.Email = "" // retreat must not validate
	sess.StepIndex = 2
	ctrl, _ := newTestController(&sess, &fakeSubmitter{})

	require.NoError(t, ctrl.Retreat())
	assert.Equal(t, 1, sess.StepIndex)
	assert.Equal(t, model.DirectionBackward, sess.Direction)

	require.NoError(t, ctrl.Retreat())
	require.NoError(t, ctrl.Retreat(), "retreat at the first step is a no-op")
	assert.Equal(t, 0, sess.StepIndex)
}

func TestMutate_ServiceTypeChangeRemapsIndex(t *testing.T) {
	sess := model.NewWizardSession("s1")
	sess.Record = completeRecord() // photo, single moment
	ctrl, _ := newTestController(&sess, &fakeSubmitter{})

	deliverables := indexOf(ctrl.Steps(), StepDeliverables)
	require.GreaterOrEqual(t, deliverables, 0)
	sess.StepIndex = deliverables

	video := model.ServiceVideo
	require.NoError(t, ctrl.Mutate(model.QuotePatch{ServiceType: &video}))

	// physical-deliverables no longer exists; the visitor lands on the
	// nearest surviving predecessor, provider-counts.
	assert.NotContains(t, ctrl.Steps(), StepDeliverables)
	assert.Equal(t, StepProviderCounts, ctrl.Current())
}

func TestMutate_SameStepSurvivesSequenceChange(t *testing.T) {
	sess := model.NewWizardSession("s1")
	sess.Record = completeRecord() // photo
	ctrl, _ := newTestController(&sess, &fakeSubmitter{})

	sess.StepIndex = indexOf(ctrl.Steps(), StepDeliverySpeed)

	combined := model.ServicePhotoVideo
	require.NoError(t, ctrl.Mutate(model.QuotePatch{ServiceType: &combined}))

	// The combined offer inserts add-ons and film-extras before
	// delivery-speed; the visitor must still be on delivery-speed.
	assert.Equal(t, StepDeliverySpeed, ctrl.Current())
}

func TestMutate_MomentThresholdSwapsScheduleStep(t *testing.T) {
	sess := model.NewWizardSession("s1")
	sess.Record = completeRecord()
	ctrl, _ := newTestController(&sess, &fakeSubmitter{})

	require.Contains(t, ctrl.Steps(), StepSchedule)

	moments := []string{"Preparations", "Ceremony", "Party"}
	require.NoError(t, ctrl.Mutate(model.QuotePatch{Moments: &moments}))
	assert.Contains(t, ctrl.Steps(), StepScheduleMulti)
	assert.NotContains(t, ctrl.Steps(), StepSchedule)
}

func TestJumpToGroup(t *testing.T) {
	sess := model.NewWizardSession("s1")
	sess.Record = completeRecord()
	ctrl, _ := newTestController(&sess, &fakeSubmitter{})

	sess.StepIndex = indexOf(ctrl.Steps(), StepDeliverySpeed)

	// Jumping back to the offer group lands on its first step.
	require.NoError(t, ctrl.JumpToGroup(GroupOffer))
	assert.Equal(t, StepServiceSelection, ctrl.Current())
	assert.Equal(t, model.DirectionBackward, sess.Direction)

	// Jumping ahead is refused and moves nothing.
	err := ctrl.JumpToGroup(GroupContact)
	assert.ErrorIs(t, err, ErrCannotSkipAhead)
	assert.Equal(t, StepServiceSelection, ctrl.Current())
}

func TestNewController_ClampsStaleIndex(t *testing.T) {
	sess := model.NewWizardSession("s1")
	sess.StepIndex = 99
	ctrl, _ := newTestController(&sess, &fakeSubmitter{})
	assert.Equal(t, StepSubmission, ctrl.Current())
}
