// Package pricing derives the live price estimate for a quote request. The
// engine is a pure function over the answer record and a fixed price table;
// nothing here performs I/O or keeps state.
package pricing

// Table lists the fixed unit prices, in euro cents. Providers are priced per
// head, everything else is a flat fee added when the matching flag is set.
// Tax is left to the quoting backend.
type Table struct {
	PhotographerCents  int64 `json:"photographer_cents"`
	VideographerCents  int64 `json:"videographer_cents"`
	DroneCents         int64 `json:"drone_cents"`
	SpeechesCents      int64 `json:"speeches_cents"`
	InterviewsCents    int64 `json:"interviews_cents"`
	TeaserCents        int64 `json:"teaser_cents"`
	SignatureFilmCents int64 `json:"signature_film_cents"`
	SocialContentCents int64 `json:"social_content_cents"`
	BloopersCents      int64 `json:"bloopers_cents"`
	PhotoAlbumCents    int64 `json:"photo_album_cents"`
	USBBoxCents        int64 `json:"usb_box_cents"`
	ExpressCents       int64 `json:"express_cents"`
}

// DefaultTable returns the current studio rates.
func DefaultTable() Table {
	return Table{
		PhotographerCents:  126000,
		VideographerCents:  170000,
		DroneCents:         15000,
		SpeechesCents:      10000,
		InterviewsCents:    10000,
		TeaserCents:        20000,
		SignatureFilmCents: 25000,
		SocialContentCents: 20000,
		BloopersCents:      8000,
		PhotoAlbumCents:    20000,
		USBBoxCents:        8000,
		ExpressCents:       15000,
	}
}
