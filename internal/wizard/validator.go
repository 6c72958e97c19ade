package wizard

import (
	"errors"
	"fmt"

	"github.com/StudioJuno/interactive-quote-magic/internal/model"
)

// ErrUnknownStep is returned when validation is asked about a step the
// sequencer never produces. Reaching it indicates a controller bug, not bad
// user input; callers should treat it as fatal.
var ErrUnknownStep = errors.New("unknown wizard step")

// ValidationError carries the user-facing reason a step refused to advance.
// It is recoverable: the wizard stays on the current step and the visitor
// completes the missing field.
type ValidationError struct {
	Step   StepID
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalid(step StepID, reason string) error {
	return &ValidationError{Step: step, Reason: reason}
}

// Validate checks whether the record is complete enough to advance past the
// given step. Each rule only inspects fields collected up to and including
// that step, never fields from later screens. A nil return means the step
// may advance.
func Validate(step StepID, q model.QuoteRequest) error {
	switch step {
	case StepServiceSelection:
		if !q.ServiceType.Known() {
			return invalid(step, "Please choose a service to continue.")
		}
	case StepCoverageScope:
		if q.CoverageScope == model.CoverageUnset {
			return invalid(step, "Please choose a coverage option.")
		}
	case StepMomentsSelection:
		if len(q.Moments) == 0 {
			return invalid(step, "Please select at least one moment.")
		}
	case StepSchedule, StepScheduleMulti:
		for _, e := range q.Events {
			if e.DateTime == nil {
				return invalid(step, "Please fill in every date.")
			}
			if e.Department == "" {
				return invalid(step, "Please fill in every department.")
			}
		}
	case StepProviderCounts:
		relevant := 0
		if q.ServiceType.IncludesPhoto() {
			relevant += q.NumPhotographers
		}
		if q.ServiceType.IncludesVideo() {
			relevant += q.NumVideographers
		}
		if relevant <= 0 {
			return invalid(step, "Please add at least one photographer or videographer.")
		}
	case StepDeliverySpeed:
		if q.DeliverySpeed == model.DeliveryUnset {
			return invalid(step, "Please choose a delivery speed.")
		}
	case StepSource:
		if q.Source == "" {
			return invalid(step, "Please tell us how you heard about us.")
		}
	case StepContact, StepSubmission:
		if q.LastName == "" || q.Email == "" {
			return invalid(step, "Please fill in at least your last name and email.")
		}
	case StepGuestCount, StepAddOns, StepFilmExtras, StepDeliverables, StepNotes, StepRecap:
		// Always passable: these steps have sensible empty defaults.
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
	return nil
}
