// Package handler contains the HTTP handlers for the quote wizard API.
package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/StudioJuno/interactive-quote-magic/internal/config"
	"github.com/StudioJuno/interactive-quote-magic/internal/model"
	"github.com/StudioJuno/interactive-quote-magic/internal/pricing"
	"github.com/StudioJuno/interactive-quote-magic/internal/queue"
	"github.com/StudioJuno/interactive-quote-magic/internal/repository"
	queue_publisher "github.com/StudioJuno/interactive-quote-magic/internal/service"
	"github.com/StudioJuno/interactive-quote-magic/internal/utils"
	"github.com/StudioJuno/interactive-quote-magic/internal/wizard"
)

// WizardHandler bundles everything the wizard endpoints need: the session
// store, the submitted-quote archive, the quoting backend client and the
// static price table. Quotes may be nil when no database is configured;
// archiving then degrades to a log line.
type WizardHandler struct {
	Cfg       config.Config
	Sessions  *repository.SessionRepo
	Quotes    *repository.QuoteRepo
	Submitter wizard.Submitter
	Table     pricing.Table

	validate *validator.Validate
}

// NewWizardHandler constructs a WizardHandler. Sessions and submitter must
// be non-nil.
func NewWizardHandler(cfg config.Config, sessions *repository.SessionRepo, quotes *repository.QuoteRepo, submitter wizard.Submitter, table pricing.Table) *WizardHandler {
	if sessions == nil || submitter == nil {
		panic("nil dependency passed to NewWizardHandler")
	}
	return &WizardHandler{
		Cfg:       cfg,
		Sessions:  sessions,
		Quotes:    quotes,
		Submitter: submitter,
		Table:     table,
		validate:  validator.New(),
	}
}

// submissionGate backs wizard.Gate with the Redis session store, so the
// single-fire guarantee holds across concurrent requests that each hold
// their own copy of the session.
type submissionGate struct {
	sessions *repository.SessionRepo
}

func (g submissionGate) Begin(ctx context.Context, sess *model.WizardSession) error {
	err := g.sessions.BeginSubmission(ctx, *sess)
	if errors.Is(err, repository.ErrSubmissionStarted) {
		return wizard.ErrSubmissionInFlight
	}
	return err
}

func (h *WizardHandler) controller(sess *model.WizardSession, rep wizard.Reporter) *wizard.Controller {
	return wizard.NewController(sess, h.Table, rep, h.Submitter, submissionGate{sessions: h.Sessions})
}

// ----- DTOs -----

type notice struct {
	Level   string `json:"level"` // "info" | "error"
	Message string `json:"message"`
}

// noticeRecorder satisfies wizard.Reporter and collects the user-facing
// notices produced during one request so they can ride back in the
// response body. The web client renders them as toasts.
type noticeRecorder struct {
	notices []notice
}

func (r *noticeRecorder) Info(msg string) {
	r.notices = append(r.notices, notice{Level: "info", Message: msg})
}

func (r *noticeRecorder) Error(msg string) {
	r.notices = append(r.notices, notice{Level: "error", Message: msg})
}

type sessionResp struct {
	Token   string     `json:"token"`
	Expires time.Time  `json:"expires"`
	Wizard  wizardView `json:"wizard"`
}

type jumpReq struct {
	Group wizard.GroupID `json:"group" validate:"required,oneof=offer details notes contact"`
}

// wizardView is the full client-facing state of a session: enough to render
// the current step, the progress indicator and the live estimate.
type wizardView struct {
	SessionID        string                 `json:"session_id"`
	Steps            []wizard.StepID        `json:"steps"`
	StepIndex        int                    `json:"step_index"`
	CurrentStep      wizard.StepID          `json:"current_step"`
	CurrentGroup     wizard.GroupID         `json:"current_group"`
	Direction        model.Direction        `json:"direction"`
	Record           model.QuoteRequest     `json:"record"`
	PriceLines       []pricing.LineItem     `json:"price_lines"`
	SubtotalCents    int64                  `json:"subtotal_cents"`
	SubmissionStatus model.SubmissionStatus `json:"submission_status"`
	QuoteReference   string                 `json:"quote_reference,omitempty"`
	DocumentURL      string                 `json:"document_url,omitempty"`
	SubmissionError  string                 `json:"submission_error,omitempty"`
	Notices          []notice               `json:"notices,omitempty"`
}

type priceResp struct {
	Lines         []pricing.LineItem `json:"lines"`
	SubtotalCents int64              `json:"subtotal_cents"`
}

func (h *WizardHandler) view(ctrl *wizard.Controller, notices []notice) wizardView {
	sess := ctrl.Session()
	lines, subtotal := ctrl.Price()
	current := ctrl.Current()
	return wizardView{
		SessionID:        sess.ID,
		Steps:            ctrl.Steps(),
		StepIndex:        sess.StepIndex,
		CurrentStep:      current,
		CurrentGroup:     wizard.GroupOf(current),
		Direction:        sess.Direction,
		Record:           sess.Record,
		PriceLines:       lines,
		SubtotalCents:    subtotal,
		SubmissionStatus: sess.SubmissionStatus,
		QuoteReference:   sess.QuoteReference,
		DocumentURL:      sess.DocumentURL,
		SubmissionError:  sess.SubmissionError,
		Notices:          notices,
	}
}

// ----- Handlers -----

// CreateSession handles POST /v1/quote-sessions. It opens a fresh wizard
// session with default answers and returns the signed session token the
// client must present on every subsequent call.
func (h *WizardHandler) CreateSession(c echo.Context) error {
	sess := model.NewWizardSession(uuid.NewString())

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Sessions.Save(ctx, sess); err != nil {
		log.Printf("wizard: save new session failed: %v", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, sess.ID, h.Cfg.SessionTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session token failed"})
	}

	ctrl := h.controller(&sess, nil)
	return c.JSON(http.StatusCreated, sessionResp{
		Token:   tok.Token,
		Expires: tok.Exp,
		Wizard:  h.view(ctrl, nil),
	})
}

// GetCurrent handles GET /v1/quote-sessions/current and returns the full
// wizard view for the caller's session.
func (h *WizardHandler) GetCurrent(c echo.Context) error {
	sess, errResp := h.loadSession(c)
	if errResp != nil {
		return errResp(c)
	}
	ctrl := h.controller(&sess, nil)
	return c.JSON(http.StatusOK, h.view(ctrl, nil))
}

// Answers handles POST /v1/quote-sessions/current/answers. The body is a
// partial record; present fields overwrite, absent fields stay. Changing
// the service type or crossing the multi-moment threshold recomputes the
// step sequence and remaps the visitor's position.
func (h *WizardHandler) Answers(c echo.Context) error {
	var patch model.QuotePatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.validate.Struct(patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid answers", "details": err.Error()})
	}

	sess, errResp := h.loadSession(c)
	if errResp != nil {
		return errResp(c)
	}

	ctrl := h.controller(&sess, nil)
	if err := ctrl.Mutate(patch); err != nil {
		return h.navigationError(c, err)
	}
	return h.saveAndRespond(c, ctrl, nil)
}

// Advance handles POST /v1/quote-sessions/current/advance. It validates the
// current step and moves forward; advancing past the contact step fires the
// quote submission. Validation failures return 422 and leave the session
// untouched.
func (h *WizardHandler) Advance(c echo.Context) error {
	sess, errResp := h.loadSession(c)
	if errResp != nil {
		return errResp(c)
	}

	rec := &noticeRecorder{}
	ctrl := h.controller(&sess, rec)
	submitting := ctrl.Current() == wizard.StepContact

	ctx, cancel := context.WithTimeout(c.Request().Context(), 35*time.Second)
	defer cancel()

	err := ctrl.Advance(ctx)

	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": verr.Reason, "step": verr.Step, "notices": rec.notices})
	case errors.Is(err, wizard.ErrUnknownStep):
		// Sequencer and validator disagree on the step set; nothing a
		// client can do about it.
		log.Printf("wizard: %v (session %s)", err, sess.ID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	case errors.Is(err, wizard.ErrSubmissionInFlight), errors.Is(err, wizard.ErrAlreadySubmitted):
		return h.navigationError(c, err)
	case errors.Is(err, repository.ErrSessionStoreUnavailable):
		// The submission gate could not persist the pending state; the
		// backend was never called.
		log.Printf("wizard: submission gate failed for session %s: %v", sess.ID, err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
	case err != nil:
		// The submission call itself failed. The session is now in its
		// terminal error state, which must be persisted before replying.
		log.Printf("wizard: submission failed for session %s: %v", sess.ID, err)
		return h.saveAndRespond(c, ctrl, rec.notices)
	}

	if submitting && sess.SubmissionStatus == model.SubmissionSuccess {
		h.archiveAndAnnounce(ctx, ctrl)
	}
	return h.saveAndRespond(c, ctrl, rec.notices)
}

// Retreat handles POST /v1/quote-sessions/current/retreat. Going backward
// never validates and is a no-op on the first step.
func (h *WizardHandler) Retreat(c echo.Context) error {
	sess, errResp := h.loadSession(c)
	if errResp != nil {
		return errResp(c)
	}
	ctrl := h.controller(&sess, nil)
	if err := ctrl.Retreat(); err != nil {
		return h.navigationError(c, err)
	}
	return h.saveAndRespond(c, ctrl, nil)
}

// Jump handles POST /v1/quote-sessions/current/jump, relocating the visitor
// to the first step of a group they already passed.
func (h *WizardHandler) Jump(c echo.Context) error {
	var req jumpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown group"})
	}

	sess, errResp := h.loadSession(c)
	if errResp != nil {
		return errResp(c)
	}
	ctrl := h.controller(&sess, nil)
	if err := ctrl.JumpToGroup(req.Group); err != nil {
		return h.navigationError(c, err)
	}
	return h.saveAndRespond(c, ctrl, nil)
}

// Price handles GET /v1/quote-sessions/current/price and returns only the
// derived estimate.
func (h *WizardHandler) Price(c echo.Context) error {
	sess, errResp := h.loadSession(c)
	if errResp != nil {
		return errResp(c)
	}
	lines, subtotal := pricing.Quote(sess.Record, h.Table)
	return c.JSON(http.StatusOK, priceResp{Lines: lines, SubtotalCents: subtotal})
}

// Abandon handles DELETE /v1/quote-sessions/current. It drops the session
// so a visitor who hit the terminal error screen can start over with a
// fresh one.
func (h *WizardHandler) Abandon(c echo.Context) error {
	sid, ok := c.Get("session_id").(string)
	if !ok || sid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.Delete(ctx, sid); err != nil {
		log.Printf("wizard: delete session %s failed: %v", sid, err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Receipt handles GET /v1/quote-sessions/current/receipt. It reads the
// archive row rather than the session, so the quote reference and document
// link remain available once the quote has been archived.
func (h *WizardHandler) Receipt(c echo.Context) error {
	sid, ok := c.Get("session_id").(string)
	if !ok || sid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Quotes == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no quote archived for this session"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sq, err := h.Quotes.GetBySessionID(ctx, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no quote archived for this session"})
	}
	if err != nil {
		log.Printf("wizard: load receipt for session %s failed: %v", sid, err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "archive unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"quote_reference": sq.QuoteReference,
		"document_url":    sq.DocumentURL,
		"subtotal_cents":  sq.SubtotalCents,
		"created_at":      sq.CreatedAt,
	})
}

// PriceTable handles GET /v1/pricing, the public static rate card.
func (h *WizardHandler) PriceTable(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Table)
}

// ----- helpers -----

// loadSession reads the caller's session using the ID the auth middleware
// put in the context. The second return value, when non-nil, writes the
// error response.
func (h *WizardHandler) loadSession(c echo.Context) (model.WizardSession, func(echo.Context) error) {
	sid, ok := c.Get("session_id").(string)
	if !ok || sid == "" {
		return model.WizardSession{}, func(c echo.Context) error {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Sessions.Get(ctx, sid)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return model.WizardSession{}, func(c echo.Context) error {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session expired or not found"})
		}
	}
	if err != nil {
		log.Printf("wizard: load session %s failed: %v", sid, err)
		return model.WizardSession{}, func(c echo.Context) error {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
		}
	}
	return sess, nil
}

func (h *WizardHandler) saveAndRespond(c echo.Context, ctrl *wizard.Controller, notices []notice) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Sessions.Save(ctx, *ctrl.Session()); err != nil {
		log.Printf("wizard: save session %s failed: %v", ctrl.Session().ID, err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
	}
	return c.JSON(http.StatusOK, h.view(ctrl, notices))
}

func (h *WizardHandler) navigationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, wizard.ErrSubmissionInFlight):
		return c.JSON(http.StatusConflict, echo.Map{"error": "submission in progress"})
	case errors.Is(err, wizard.ErrAlreadySubmitted):
		return c.JSON(http.StatusConflict, echo.Map{"error": "quote already submitted"})
	case errors.Is(err, wizard.ErrCannotSkipAhead):
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot jump ahead"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// archiveAndAnnounce persists the archive row and publishes the completion
// event. Both are best-effort: the visitor already has their quote, so
// failures are logged, never surfaced.
func (h *WizardHandler) archiveAndAnnounce(ctx context.Context, ctrl *wizard.Controller) {
	sess := ctrl.Session()
	_, subtotal := ctrl.Price()

	if h.Quotes != nil {
		if _, err := h.Quotes.Create(ctx, sess.ID, sess.QuoteReference, sess.DocumentURL, sess.Record, subtotal); err != nil {
			log.Printf("wizard: archive quote for session %s failed: %v", sess.ID, err)
		}
	} else {
		log.Printf("wizard: no archive database configured; quote %s for session %s not archived", sess.QuoteReference, sess.ID)
	}

	ev := queue.QuoteSubmittedEvent{
		SessionID:      sess.ID,
		QuoteReference: sess.QuoteReference,
		DocumentURL:    sess.DocumentURL,
		LastName:       sess.Record.LastName,
		FirstName:      sess.Record.FirstName,
		Email:          sess.Record.Email,
		ServiceType:    string(sess.Record.ServiceType),
		WeddingDate:    sess.Record.WeddingDate,
		SubtotalCents:  subtotal,
		SubmittedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishQuoteSubmitted(ctx, ev); err != nil {
		log.Printf("wizard: publish quote.submitted for session %s failed: %v", sess.ID, err)
	}
}
