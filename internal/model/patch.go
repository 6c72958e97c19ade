package model

// QuotePatch is a partial update to a QuoteRequest. Every field is a
// pointer: nil means "leave unchanged", a non-nil value overwrites the
// target field wholesale, slices included (entries are replaced, never
// deep-merged). The validate tags are enforced at the HTTP boundary before
// the patch reaches the wizard controller.
type QuotePatch struct {
	ServiceType   *ServiceType   `json:"service_type" validate:"omitempty,oneof=video photo video+photo"`
	CoverageScope *CoverageScope `json:"coverage_scope" validate:"omitempty,oneof=single-day multi-day"`
	NumDays       *int           `json:"num_days" validate:"omitempty,min=2,max=30"`

	Moments *[]string     `json:"moments"`
	Events  *[]EventEntry `json:"events" validate:"omitempty,min=1,dive"`

	GuestCount *string `json:"guest_count"`

	NumPhotographers *int `json:"num_photographers" validate:"omitempty,min=0,max=3"`
	NumVideographers *int `json:"num_videographers" validate:"omitempty,min=0,max=3"`

	AerialDrone *bool `json:"aerial_drone"`
	Speeches    *bool `json:"speeches"`
	Interviews  *bool `json:"interviews"`

	Teaser        *bool `json:"teaser"`
	SignatureFilm *bool `json:"signature_film"`
	SocialContent *bool `json:"social_content"`
	Bloopers      *bool `json:"bloopers"`

	PhotoAlbum *bool `json:"photo_album"`
	USBBox     *bool `json:"usb_box"`

	DeliverySpeed *DeliverySpeed `json:"delivery_speed" validate:"omitempty,oneof=standard express"`

	Notes *string `json:"notes"`

	Source       *string `json:"source"`
	SourceDetail *string `json:"source_detail"`

	PromoCode *string `json:"promo_code"`

	LastName       *string `json:"last_name"`
	FirstName      *string `json:"first_name"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
	BillingAddress *string `json:"billing_address"`
	WeddingDate    *string `json:"wedding_date" validate:"omitempty,datetime=2006-01-02"`
}

// Apply merges the patch into the record. Event entries keep their
// coverage-hours within the accepted 1–16 range.
func (p QuotePatch) Apply(q *QuoteRequest) {
	if p.ServiceType != nil {
		q.ServiceType = *p.ServiceType
	}
	if p.CoverageScope != nil {
		q.CoverageScope = *p.CoverageScope
	}
	if p.NumDays != nil {
		q.NumDays = *p.NumDays
	}
	if p.Moments != nil {
		q.Moments = append([]string(nil), (*p.Moments)...)
	}
	if p.Events != nil {
		entries := append([]EventEntry(nil), (*p.Events)...)
		for i := range entries {
			if entries[i].CoverageHours < 1 {
				entries[i].CoverageHours = 1
			}
			if entries[i].CoverageHours > 16 {
				entries[i].CoverageHours = 16
			}
		}
		q.Events = entries
	}
	if p.GuestCount != nil {
		q.GuestCount = *p.GuestCount
	}
	if p.NumPhotographers != nil {
		q.NumPhotographers = *p.NumPhotographers
	}
	if p.NumVideographers != nil {
		q.NumVideographers = *p.NumVideographers
	}
	if p.AerialDrone != nil {
		q.AerialDrone = *p.AerialDrone
	}
	if p.Speeches != nil {
		q.Speeches = *p.Speeches
	}
	if p.Interviews != nil {
		q.Interviews = *p.Interviews
	}
	if p.Teaser != nil {
		q.Teaser = *p.Teaser
	}
	if p.SignatureFilm != nil {
		q.SignatureFilm = *p.SignatureFilm
	}
	if p.SocialContent != nil {
		q.SocialContent = *p.SocialContent
	}
	if p.Bloopers != nil {
		q.Bloopers = *p.Bloopers
	}
	if p.PhotoAlbum != nil {
		q.PhotoAlbum = *p.PhotoAlbum
	}
	if p.USBBox != nil {
		q.USBBox = *p.USBBox
	}
	if p.DeliverySpeed != nil {
		q.DeliverySpeed = *p.DeliverySpeed
	}
	if p.Notes != nil {
		q.Notes = *p.Notes
	}
	if p.Source != nil {
		q.Source = *p.Source
	}
	if p.SourceDetail != nil {
		q.SourceDetail = *p.SourceDetail
	}
	if p.PromoCode != nil {
		q.PromoCode = *p.PromoCode
	}
	if p.LastName != nil {
		q.LastName = *p.LastName
	}
	if p.FirstName != nil {
		q.FirstName = *p.FirstName
	}
	if p.Email != nil {
		q.Email = *p.Email
	}
	if p.Phone != nil {
		q.Phone = *p.Phone
	}
	if p.BillingAddress != nil {
		q.BillingAddress = *p.BillingAddress
	}
	if p.WeddingDate != nil {
		q.WeddingDate = *p.WeddingDate
	}
}
