// Package pennylane talks to the external quoting backend that turns a
// finalized answer record into a formal quote document. The backend owns
// customer creation and invoice-line layout; this client only assembles the
// request payload precisely and interprets the response.
package pennylane

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/StudioJuno/interactive-quote-magic/internal/model"
	"github.com/StudioJuno/interactive-quote-magic/internal/pricing"
	"github.com/StudioJuno/interactive-quote-magic/internal/wizard"
)

// ErrBackend wraps every failure of the quoting backend, transport-level or
// application-level. The wizard treats both the same way: terminal error
// state, no automatic retry.
var ErrBackend = errors.New("quoting backend error")

// Client submits quote requests over HTTP. The zero value is not usable;
// construct it with NewClient.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a client for the quoting backend at baseURL. A nil
// httpClient falls back to a 30 second timeout client.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, http: httpClient}
}

// payload is the canonical flat field-by-field request body with the price
// table embedded. Key names follow the backend's contract, which predates
// this service; the backend reduces them to invoice lines itself.
type payload struct {
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Adresse   string `json:"adresse"`

	OfferType          string             `json:"offerType"`
	DateHeure          string             `json:"dateHeure"`
	NbHeuresCouverture int                `json:"nbHeuresCouverture"`
	Moments            []string           `json:"moments"`
	Events             []payloadEvent     `json:"events"`
	Lieu               string             `json:"lieu"`
	Departement        string             `json:"departement"`
	NbInvites          string             `json:"nbInvites"`
	NbPhotographes     int                `json:"nbPhotographes"`
	NbVideastes        int                `json:"nbVideastes"`

	OptionDrone      bool `json:"optionDrone"`
	OptionDiscours   bool `json:"optionDiscours"`
	OptionInterviews bool `json:"optionInterviews"`

	FilmTeaser    bool `json:"filmTeaser"`
	FilmSignature bool `json:"filmSignature"`
	FilmReseaux   bool `json:"filmReseaux"`
	FilmBetisier  bool `json:"filmBetisier"`

	AlbumPhoto bool `json:"albumPhoto"`
	CoffretUSB bool `json:"coffretUSB"`

	Delai       string `json:"delai"`
	Remarques   string `json:"remarques"`
	Source      string `json:"source"`
	SourceAutre string `json:"sourceAutre"`
	CodePromo   string `json:"codePromo"`
	DateMariage string `json:"dateMariage"`

	Prices map[string]int64 `json:"prices"` // whole euros, backend keys
}

type payloadEvent struct {
	DateHeure          string `json:"dateHeure"`
	Lieu               string `json:"lieu"`
	Departement        string `json:"departement"`
	NbHeuresCouverture int    `json:"nbHeuresCouverture"`
}

// successResponse is the shape the backend returns on a created quote.
type successResponse struct {
	Success bool `json:"success"`
	Quote   struct {
		ID            json.Number `json:"id"`
		QuoteNumber   string      `json:"quote_number"`
		PublicFileURL string      `json:"public_file_url"`
		FileURL       string      `json:"file_url"`
	} `json:"quote"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// offerTypeWire maps the internal service type onto the backend's
// historical offer keys.
func offerTypeWire(s model.ServiceType) string {
	switch s {
	case model.ServiceVideo:
		return "film"
	case model.ServicePhoto:
		return "photos"
	case model.ServicePhotoVideo:
		return "photos-film"
	}
	return ""
}

// BuildPayload serializes the record into the backend's request shape. The
// first event entry supplies the flat date/venue fields the backend still
// reads; the full entry list rides along for quotes that span several
// moments. Prices travel in whole euros because that is how the backend's
// defaults are expressed.
func BuildPayload(q model.QuoteRequest, t pricing.Table) ([]byte, error) {
	moments := q.Moments
	if moments == nil {
		// The backend expects an array; a nil slice would serialize as null.
		moments = []string{}
	}
	p := payload{
		Nom:       q.LastName,
		Prenom:    q.FirstName,
		Email:     q.Email,
		Telephone: q.Phone,
		Adresse:   q.BillingAddress,

		OfferType:      offerTypeWire(q.ServiceType),
		Moments:        moments,
		NbInvites:      q.GuestCount,
		NbPhotographes: q.NumPhotographers,
		NbVideastes:    q.NumVideographers,

		OptionDrone:      q.AerialDrone,
		OptionDiscours:   q.Speeches,
		OptionInterviews: q.Interviews,

		FilmTeaser:    q.Teaser,
		FilmSignature: q.SignatureFilm,
		FilmReseaux:   q.SocialContent,
		FilmBetisier:  q.Bloopers,

		AlbumPhoto: q.PhotoAlbum,
		CoffretUSB: q.USBBox,

		Delai:       string(q.DeliverySpeed),
		Remarques:   q.Notes,
		Source:      q.Source,
		SourceAutre: q.SourceDetail,
		CodePromo:   q.PromoCode,
		DateMariage: q.WeddingDate,

		Prices: map[string]int64{
			"photographe": t.PhotographerCents / 100,
			"vidéaste":    t.VideographerCents / 100,
			"drone":       t.DroneCents / 100,
			"discours":    t.SpeechesCents / 100,
			"interviews":  t.InterviewsCents / 100,
			"teaser":      t.TeaserCents / 100,
			"signature":   t.SignatureFilmCents / 100,
			"reseaux":     t.SocialContentCents / 100,
			"betisier":    t.BloopersCents / 100,
			"album":       t.PhotoAlbumCents / 100,
			"coffret":     t.USBBoxCents / 100,
			"express":     t.ExpressCents / 100,
		},
	}

	for _, e := range q.Events {
		ev := payloadEvent{
			Lieu:               e.VenueName,
			Departement:        e.Department,
			NbHeuresCouverture: e.CoverageHours,
		}
		if e.DateTime != nil {
			ev.DateHeure = e.DateTime.Format("2006-01-02T15:04")
		}
		p.Events = append(p.Events, ev)
	}
	if len(q.Events) > 0 {
		first := p.Events[0]
		p.DateHeure = first.DateHeure
		p.Lieu = first.Lieu
		p.Departement = first.Departement
		p.NbHeuresCouverture = first.NbHeuresCouverture
	}

	return json.Marshal(p)
}

// Submit sends the record and returns the quote reference and document URL.
// It satisfies wizard.Submitter.
func (c *Client) Submit(ctx context.Context, record model.QuoteRequest, table pricing.Table) (wizard.Receipt, error) {
	body, err := BuildPayload(record, table)
	if err != nil {
		return wizard.Receipt{}, fmt.Errorf("%w: encode payload: %v", ErrBackend, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return wizard.Receipt{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wizard.Receipt{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return wizard.Receipt{}, fmt.Errorf("%w: read response: %v", ErrBackend, err)
	}

	// An application-level {"error": ...} payload counts as failure even on
	// a 2xx status.
	var appErr errorResponse
	if jsonErr := json.Unmarshal(raw, &appErr); jsonErr == nil && appErr.Error != "" {
		return wizard.Receipt{}, fmt.Errorf("%w: %s", ErrBackend, appErr.Error)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return wizard.Receipt{}, fmt.Errorf("%w: unexpected status %d", ErrBackend, resp.StatusCode)
	}

	var ok successResponse
	if err := json.Unmarshal(raw, &ok); err != nil {
		return wizard.Receipt{}, fmt.Errorf("%w: decode response: %v", ErrBackend, err)
	}

	receipt := wizard.Receipt{
		Reference:   ok.Quote.QuoteNumber,
		DocumentURL: ok.Quote.PublicFileURL,
	}
	if receipt.Reference == "" {
		receipt.Reference = ok.Quote.ID.String()
	}
	if receipt.DocumentURL == "" {
		receipt.DocumentURL = ok.Quote.FileURL
	}
	if receipt.Reference == "" {
		return wizard.Receipt{}, fmt.Errorf("%w: response carries no quote reference", ErrBackend)
	}
	return receipt, nil
}
