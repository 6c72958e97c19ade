package pricing

import "github.com/StudioJuno/interactive-quote-magic/internal/model"

// LineItem is one priced component of the estimate. It is derived fresh on
// every record change and never stored.
type LineItem struct {
	Description    string `json:"description"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

// TotalCents returns quantity times unit price.
func (l LineItem) TotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Quote prices the record against the table. Line order is fixed:
// videographers, photographers, add-ons, film extras, deliverables, then the
// express surcharge. Provider counts only contribute when the service type
// makes them relevant and the count is positive; every set flag contributes
// exactly one flat line. An empty result is the valid "no price yet" state.
func Quote(q model.QuoteRequest, t Table) ([]LineItem, int64) {
	var lines []LineItem

	if q.ServiceType.IncludesVideo() && q.NumVideographers > 0 {
		lines = append(lines, LineItem{
			Description:    pluralize(q.NumVideographers, "Videographer", "Videographers"),
			UnitPriceCents: t.VideographerCents,
			Quantity:       q.NumVideographers,
		})
	}
	if q.ServiceType.IncludesPhoto() && q.NumPhotographers > 0 {
		lines = append(lines, LineItem{
			Description:    pluralize(q.NumPhotographers, "Photographer", "Photographers"),
			UnitPriceCents: t.PhotographerCents,
			Quantity:       q.NumPhotographers,
		})
	}

	flat := func(set bool, desc string, cents int64) {
		if set {
			lines = append(lines, LineItem{Description: desc, UnitPriceCents: cents, Quantity: 1})
		}
	}

	flat(q.AerialDrone, "Aerial footage (drone)", t.DroneCents)
	flat(q.Speeches, "Speeches coverage", t.SpeechesCents)
	flat(q.Interviews, "Guest interviews", t.InterviewsCents)

	flat(q.Teaser, "Teaser film", t.TeaserCents)
	flat(q.SignatureFilm, "Signature film", t.SignatureFilmCents)
	flat(q.SocialContent, "Social media content", t.SocialContentCents)
	flat(q.Bloopers, "Bloopers reel", t.BloopersCents)

	flat(q.PhotoAlbum, "Premium 50-page photo album", t.PhotoAlbumCents)
	flat(q.USBBox, "USB keepsake box", t.USBBoxCents)

	flat(q.DeliverySpeed == model.DeliveryExpress, "Express delivery (under 10 days)", t.ExpressCents)

	var subtotal int64
	for _, l := range lines {
		subtotal += l.TotalCents()
	}
	return lines, subtotal
}

func pluralize(n int, singular, plural string) string {
	if n > 1 {
		return plural
	}
	return singular
}
