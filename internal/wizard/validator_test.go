package wizard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StudioJuno/interactive-quote-magic/internal/model"
)

func scheduledRecord() model.QuoteRequest {
	q := model.NewQuoteRequest()
	when := time.Date(2027, 6, 12, 14, 0, 0, 0, time.UTC)
	q.Events = []model.EventEntry{{DateTime: &when, Department: "75", CoverageHours: 10}}
	return q
}

func TestValidate_StepRules(t *testing.T) {
	when := time.Date(2027, 6, 12, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		step   StepID
		mutate func(q *model.QuoteRequest)
		wantOK bool
	}{
		{"service unset", StepServiceSelection, nil, false},
		{"service chosen", StepServiceSelection, func(q *model.QuoteRequest) { q.ServiceType = model.ServicePhoto }, true},

		{"coverage unset", StepCoverageScope, nil, false},
		{"coverage chosen", StepCoverageScope, func(q *model.QuoteRequest) { q.CoverageScope = model.CoverageSingleDay }, true},

		{"no moments", StepMomentsSelection, nil, false},
		{"one moment", StepMomentsSelection, func(q *model.QuoteRequest) { q.Moments = []string{"Ceremony"} }, true},

		{"schedule missing date", StepSchedule, nil, false},
		{"schedule missing department", StepSchedule, func(q *model.QuoteRequest) {
			q.Events = []model.EventEntry{{DateTime: &when, Department: "", CoverageHours: 10}}
		}, false},
		{"schedule complete", StepSchedule, func(q *model.QuoteRequest) {
			q.Events = []model.EventEntry{{DateTime: &when, Department: "75", CoverageHours: 10}}
		}, true},
		{"multi schedule one incomplete entry", StepScheduleMulti, func(q *model.QuoteRequest) {
			q.Events = []model.EventEntry{
				{DateTime: &when, Department: "75", CoverageHours: 10},
				{DateTime: nil, Department: "92", CoverageHours: 4},
			}
		}, false},

		{"guest count empty is fine", StepGuestCount, nil, true},

		{"no providers", StepProviderCounts, func(q *model.QuoteRequest) { q.ServiceType = model.ServicePhoto }, false},
		{"photographer counts for photo", StepProviderCounts, func(q *model.QuoteRequest) {
			q.ServiceType = model.ServicePhoto
			q.NumPhotographers = 1
		}, true},
		{"videographer does not count for photo-only", StepProviderCounts, func(q *model.QuoteRequest) {
			q.ServiceType = model.ServicePhoto
			q.NumVideographers = 2
		}, false},
		{"videographer counts for combined", StepProviderCounts, func(q *model.QuoteRequest) {
			q.ServiceType = model.ServicePhotoVideo
			q.NumVideographers = 1
		}, true},

		{"add-ons always pass", StepAddOns, nil, true},
		{"film extras always pass", StepFilmExtras, nil, true},
		{"deliverables always pass", StepDeliverables, nil, true},
		{"notes always pass", StepNotes, nil, true},
		{"recap always passes", StepRecap, nil, true},

		{"delivery speed unset", StepDeliverySpeed, nil, false},
		{"delivery speed chosen", StepDeliverySpeed, func(q *model.QuoteRequest) { q.DeliverySpeed = model.DeliveryStandard }, true},

		{"source empty", StepSource, nil, false},
		{"source set", StepSource, func(q *model.QuoteRequest) { q.Source = "Instagram" }, true},

		{"contact missing email", StepContact, func(q *model.QuoteRequest) { q.LastName = "Martin" }, false},
		{"contact missing last name", StepContact, func(q *model.QuoteRequest) { q.Email = "a@b.fr" }, false},
		{"contact complete", StepContact, func(q *model.QuoteRequest) {
			q.LastName = "Martin"
			q.Email = "a@b.fr"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := model.NewQuoteRequest()
			if tt.mutate != nil {
				tt.mutate(&q)
			}
			err := Validate(tt.step, q)
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.NotEmpty(t, verr.Reason)
				assert.Equal(t, tt.step, verr.Step)
			}
		})
	}
}

func TestValidate_UnknownStepIsFatal(t *testing.T) {
	err := Validate(StepID("no-such-step"), model.NewQuoteRequest())
	require.ErrorIs(t, err, ErrUnknownStep)

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr), "unknown step must not be a user-facing validation failure")
}
