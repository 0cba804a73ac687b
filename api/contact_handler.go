package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const contactFailedMsg = "Email could not be sent"

type contactRelay interface {
	Relay(ctx context.Context, msg services.ContactMessage) error
	SendTest(ctx context.Context) (string, error)
}

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	relay     contactRelay
}

func newContactHandler(relay contactRelay) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		relay:     relay,
	}
}

// sendContact relays a visitor's message to the site owner
// @Router /api/contact [post]
func (h contactHandler) sendContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if err := decodeJSON(w, r, "contact", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		msg := services.ContactMessage{
			Name:    strings.TrimSpace(req.Name),
			Email:   strings.TrimSpace(req.Email),
			Message: strings.TrimSpace(req.Message),
		}
		if msg.Name == "" || msg.Email == "" || msg.Message == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("Please enter all fields"))
			return
		}

		if h.relay == nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause(contactFailedMsg, errs.NewConfigError("contact relay", nil)))
			return
		}

		if err := h.relay.Relay(r.Context(), msg); err != nil {
			h.responder.WriteError(w, contactFailure(contactFailedMsg, err))
			return
		}

		h.responder.WriteMessage(w, http.StatusOK, "Email sent successfully")
	}
}

// sendTest mails a fixed message to the owner to check the mail setup
// @Router /api/contact/test [post]
func (h contactHandler) sendTest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.relay == nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Test email failed", errs.NewConfigError("contact relay", nil)))
			return
		}

		id, err := h.relay.SendTest(r.Context())
		if err != nil {
			h.responder.WriteError(w, contactFailure("Test email failed", err))
			return
		}

		h.responder.WriteJSON(w, contactTestResponse{
			Msg:       "Test email sent successfully",
			MessageID: id,
		})
	}
}

// contactFailure keeps provider and breaker errors, whose status is meaningful,
// and turns anything else into a 500 carrying msg.
func contactFailure(msg string, err error) error {
	if errs.IsServiceUnreachableError(err) || errs.IsCircuitBreakerOpenError(err) {
		return err
	}
	return errs.NewInternalErrorWithCause(msg, err)
}
