// Package wizard implements the quote-request flow: the ordered step
// sequence, per-step completion rules, and the controller that walks a
// session through them and fires the final submission.
package wizard

import "github.com/StudioJuno/interactive-quote-magic/internal/model"

// StepID names one screen of the wizard. The sequence of IDs a session
// traverses depends only on the chosen service type and on whether the
// visitor picked two or more moments to cover.
type StepID string

const (
	StepServiceSelection StepID = "service-selection"
	StepCoverageScope    StepID = "coverage-scope"
	StepMomentsSelection StepID = "moments-selection"
	StepSchedule         StepID = "schedule"       // single combined date/venue entry
	StepScheduleMulti    StepID = "schedule-multi" // one entry per selected moment
	StepGuestCount       StepID = "guest-count"
	StepProviderCounts   StepID = "provider-counts"
	StepAddOns           StepID = "add-ons"
	StepFilmExtras       StepID = "film-extras"
	StepDeliverables     StepID = "physical-deliverables"
	StepDeliverySpeed    StepID = "delivery-speed"
	StepNotes            StepID = "notes"
	StepSource           StepID = "acquisition-source"
	StepRecap            StepID = "recap"
	StepContact          StepID = "contact"
	StepSubmission       StepID = "submission"
)

// GroupID names one of the four headline phases shown in the progress
// indicator. Jumps are only allowed to groups the visitor already reached.
type GroupID string

const (
	GroupOffer   GroupID = "offer"
	GroupDetails GroupID = "details"
	GroupNotes   GroupID = "notes"
	GroupContact GroupID = "contact"
)

// Steps returns the ordered step sequence for the given inputs. The result
// is total (never empty) and deterministic: identical inputs always yield an
// identical list, which keeps the controller's index remapping sound when
// the record changes mid-flow.
func Steps(serviceType model.ServiceType, multiMoment bool) []StepID {
	steps := []StepID{StepServiceSelection, StepCoverageScope, StepMomentsSelection}

	if multiMoment {
		steps = append(steps, StepScheduleMulti)
	} else {
		steps = append(steps, StepSchedule)
	}

	steps = append(steps, StepGuestCount, StepProviderCounts)

	if serviceType.IncludesVideo() {
		steps = append(steps, StepAddOns, StepFilmExtras)
	}
	if serviceType.IncludesPhoto() {
		steps = append(steps, StepDeliverables)
	}

	return append(steps, StepDeliverySpeed, StepNotes, StepSource, StepRecap, StepContact, StepSubmission)
}

// StepsFor is a convenience wrapper deriving the sequence straight from a
// record.
func StepsFor(q model.QuoteRequest) []StepID {
	return Steps(q.ServiceType, q.HasMultipleMoments())
}

// GroupOf maps a step to its headline phase.
func GroupOf(step StepID) GroupID {
	switch step {
	case StepServiceSelection, StepCoverageScope, StepMomentsSelection:
		return GroupOffer
	case StepSchedule, StepScheduleMulti, StepGuestCount, StepProviderCounts,
		StepAddOns, StepFilmExtras, StepDeliverables, StepDeliverySpeed:
		return GroupDetails
	case StepNotes, StepSource:
		return GroupNotes
	default:
		return GroupContact
	}
}
