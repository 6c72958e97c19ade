package model

import "time"

// ServiceType identifies which crafts the couple wants booked. It decides
// which wizard steps exist downstream and which provider counts are
// user-editable.
type ServiceType string

const (
	ServiceUnset      ServiceType = ""
	ServiceVideo      ServiceType = "video"
	ServicePhoto      ServiceType = "photo"
	ServicePhotoVideo ServiceType = "video+photo"
)

// IncludesVideo reports whether the selection contains video coverage.
func (s ServiceType) IncludesVideo() bool {
	return s == ServiceVideo || s == ServicePhotoVideo
}

// IncludesPhoto reports whether the selection contains photo coverage.
func (s ServiceType) IncludesPhoto() bool {
	return s == ServicePhoto || s == ServicePhotoVideo
}

// Known reports whether the value is one of the accepted service types.
func (s ServiceType) Known() bool {
	switch s {
	case ServiceVideo, ServicePhoto, ServicePhotoVideo:
		return true
	}
	return false
}

// CoverageScope distinguishes a single wedding day from coverage that spans
// several days.
type CoverageScope string

const (
	CoverageUnset     CoverageScope = ""
	CoverageSingleDay CoverageScope = "single-day"
	CoverageMultiDay  CoverageScope = "multi-day"
)

// DeliverySpeed selects the post-production turnaround. Express carries a
// flat surcharge in the price table.
type DeliverySpeed string

const (
	DeliveryUnset    DeliverySpeed = ""
	DeliveryStandard DeliverySpeed = "standard"
	DeliveryExpress  DeliverySpeed = "express"
)

// EventEntry is one moment to schedule: when, where, and for how long the
// crew is on site. Multiple entries exist when the couple picked two or more
// moments that need separate scheduling.
//
// Fields:
//  DateTime      – date and time-of-day; nil until the visitor sets it.
//  VenueName     – free-text venue (optional).
//  Department    – administrative department code; required before advancing.
//  CoverageHours – on-site hours, 1 to 16.
type EventEntry struct {
	DateTime      *time.Time `json:"date_time"`
	VenueName     string     `json:"venue_name"`
	Department    string     `json:"department"`
	CoverageHours int        `json:"coverage_hours"`
}

// QuoteRequest is the full mutable set of answers collected over one wizard
// session. It is owned by the wizard controller: steps propose partial
// updates via QuotePatch and the controller merges them. The pricing engine
// and the submission client only ever read it.
type QuoteRequest struct {
	// Service selection
	ServiceType ServiceType `json:"service_type"`

	// Coverage window
	CoverageScope CoverageScope `json:"coverage_scope"`
	NumDays       int           `json:"num_days"` // only meaningful for multi-day

	// Schedule
	Moments []string     `json:"moments"` // insertion order preserved for display
	Events  []EventEntry `json:"events"`  // at least one entry at all times

	// Guests
	GuestCount string `json:"guest_count"` // free-form, may stay empty

	// Providers
	NumPhotographers int `json:"num_photographers"`
	NumVideographers int `json:"num_videographers"`

	// Add-ons
	AerialDrone bool `json:"aerial_drone"`
	Speeches    bool `json:"speeches"`
	Interviews  bool `json:"interviews"`

	// Film extras (video offers only)
	Teaser        bool `json:"teaser"`
	SignatureFilm bool `json:"signature_film"`
	SocialContent bool `json:"social_content"`
	Bloopers      bool `json:"bloopers"`

	// Physical deliverables (photo offers only)
	PhotoAlbum bool `json:"photo_album"`
	USBBox     bool `json:"usb_box"`

	// Delivery
	DeliverySpeed DeliverySpeed `json:"delivery_speed"`

	// Free text
	Notes string `json:"notes"`

	// Acquisition source
	Source       string `json:"source"`
	SourceDetail string `json:"source_detail"`

	// Promo code is accepted and forwarded but does not affect pricing yet.
	PromoCode string `json:"promo_code"`

	// Contact
	LastName       string `json:"last_name"`
	FirstName      string `json:"first_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	BillingAddress string `json:"billing_address"`
	WeddingDate    string `json:"wedding_date"` // YYYY-MM-DD, optional
}

// NewQuoteRequest returns a record with the same defaults the form starts
// from: two days pre-filled for multi-day coverage, ten coverage hours and
// the Paris department on the first (empty) event entry.
func NewQuoteRequest() QuoteRequest {
	return QuoteRequest{
		NumDays: 2,
		Moments: []string{},
		Events: []EventEntry{
			{Department: "75", CoverageHours: 10},
		},
	}
}

// HasMultipleMoments reports whether the schedule step should collect one
// event entry per moment instead of a single combined entry.
func (q QuoteRequest) HasMultipleMoments() bool {
	return len(q.Moments) >= 2
}
