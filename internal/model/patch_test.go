package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotePatch_ApplyLeavesUntouchedFields(t *testing.T) {
	q := NewQuoteRequest()
	q.ServiceType = ServiceVideo
	q.Notes = "outdoor ceremony"

	name := "Durand"
	QuotePatch{LastName: &name}.Apply(&q)

	assert.Equal(t, "Durand", q.LastName)
	assert.Equal(t, ServiceVideo, q.ServiceType)
	assert.Equal(t, "outdoor ceremony", q.Notes)
}

func TestQuotePatch_ApplyReplacesSlicesWholesale(t *testing.T) {
	q := NewQuoteRequest()
	q.Moments = []string{"Preparations", "Ceremony", "Party"}

	moments := []string{"Ceremony"}
	QuotePatch{Moments: &moments}.Apply(&q)
	assert.Equal(t, []string{"Ceremony"}, q.Moments)

	// Mutating the caller's slice afterwards must not leak into the record.
	moments[0] = "Party"
	assert.Equal(t, []string{"Ceremony"}, q.Moments)
}

func TestQuotePatch_ApplyClampsCoverageHours(t *testing.T) {
	q := NewQuoteRequest()
	when := time.Date(2027, 6, 12, 14, 0, 0, 0, time.UTC)
	events := []EventEntry{
		{DateTime: &when, Department: "75", CoverageHours: 0},
		{DateTime: &when, Department: "77", CoverageHours: 40},
	}

	QuotePatch{Events: &events}.Apply(&q)

	require.Len(t, q.Events, 2)
	assert.Equal(t, 1, q.Events[0].CoverageHours)
	assert.Equal(t, 16, q.Events[1].CoverageHours)
}

func TestNewQuoteRequestDefaults(t *testing.T) {
	q := NewQuoteRequest()

	assert.Equal(t, ServiceUnset, q.ServiceType)
	assert.Equal(t, 2, q.NumDays)
	require.Len(t, q.Events, 1)
	assert.Equal(t, "75", q.Events[0].Department)
	assert.Equal(t, 10, q.Events[0].CoverageHours)
	assert.False(t, q.HasMultipleMoments())

	q.Moments = []string{"Ceremony", "Party"}
	assert.True(t, q.HasMultipleMoments())
}

func TestWizardSession_JSONRoundTrip(t *testing.T) {
	sess := NewWizardSession("4fd1c2de-1111-2222-3333-444455556666")
	sess.Record.ServiceType = ServicePhotoVideo
	sess.StepIndex = 4
	sess.SubmissionStatus = SubmissionSuccess
	sess.QuoteReference = "DEV-2027-0042"

	raw, err := json.Marshal(sess)
	require.NoError(t, err)

	var back WizardSession
	require.NoError(t, json.Unmarshal(raw, &back))

	assert.Equal(t, sess.ID, back.ID)
	assert.Equal(t, sess.StepIndex, back.StepIndex)
	assert.Equal(t, SubmissionSuccess, back.SubmissionStatus)
	assert.Equal(t, ServicePhotoVideo, back.Record.ServiceType)
	assert.Equal(t, "DEV-2027-0042", back.QuoteReference)
}
