package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
)

const (
	contactFailedMessage = "Email could not be sent"
	smsPreviewLength     = 140
)

type Mailer interface {
	SendEmail(ctx context.Context, email Email) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
}

// ContactMessage is a visitor's contact form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

type ContactRelayConfig struct {
	OwnerEmail string
	SMSTo      string
	Timeout    time.Duration
}

// ContactRelay forwards contact form submissions to the site owner by e-mail
// and, when an SMS sender is set, by text message.
type ContactRelay struct {
	mailer  Mailer
	sms     SMSSender
	cfg     ContactRelayConfig
	breaker *gobreaker.CircuitBreaker
	logger  zerolog.Logger
}

// NewContactRelay builds a relay. sms may be nil.
func NewContactRelay(mailer Mailer, sms SMSSender, cfg ContactRelayConfig) *ContactRelay {
	logger := log.With().Str("service", "ContactRelay").Logger()
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	st := gobreaker.Settings{
		Name:        "resend",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}

	return &ContactRelay{
		mailer:  mailer,
		sms:     sms,
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker(st),
		logger:  logger,
	}
}

// Relay sends msg to the owner. Only the e-mail decides the outcome; a failed
// SMS is logged.
func (r *ContactRelay) Relay(ctx context.Context, msg ContactMessage) error {
	if r.cfg.OwnerEmail == "" {
		return errs.NewConfigError("CONTACT_TO_EMAIL", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	g, groupCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		id, err := r.sendEmail(groupCtx, Email{
			To:      []string{r.cfg.OwnerEmail},
			Subject: fmt.Sprintf("New Contact Form Submission from %s", msg.Name),
			HTML:    contactHTML(msg),
			ReplyTo: msg.Email,
		})
		if err != nil {
			return err
		}
		r.logger.Info().Str("emailId", id).Msg("contact e-mail sent")
		return nil
	})

	if r.sms != nil && r.cfg.SMSTo != "" {
		g.Go(func() error {
			// a canceled groupCtx means the e-mail already failed
			sid, err := r.sms.SendSMS(groupCtx, r.cfg.SMSTo, contactSMS(msg))
			if err != nil {
				r.logger.Error().Err(err).Msg("contact SMS failed")
				return nil
			}
			r.logger.Info().Str("sid", sid).Msg("contact SMS sent")
			return nil
		})
	}

	return g.Wait()
}

// SendTest mails a fixed message to the owner and returns the message id.
func (r *ContactRelay) SendTest(ctx context.Context) (string, error) {
	if r.cfg.OwnerEmail == "" {
		return "", errs.NewConfigError("CONTACT_TO_EMAIL", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	return r.sendEmail(ctx, Email{
		To:      []string{r.cfg.OwnerEmail},
		Subject: "Test Email",
		HTML:    "<p>This is a test email to verify the e-mail configuration.</p>",
	})
}

func (r *ContactRelay) sendEmail(ctx context.Context, email Email) (string, error) {
	res, err := r.breaker.Execute(func() (interface{}, error) {
		return r.mailer.SendEmail(ctx, email)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", errs.NewCircuitBreakerOpenError("resend", contactFailedMessage, err)
		}
		return "", errs.NewServiceUnreachableError("resend", contactFailedMessage, err)
	}
	return res.(string), nil
}

func contactHTML(msg ContactMessage) string {
	var b strings.Builder
	b.WriteString("<h2>New Contact Form Submission</h2>\n")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>\n", html.EscapeString(msg.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>\n", html.EscapeString(msg.Email))
	b.WriteString("<p><strong>Message:</strong></p>\n")
	fmt.Fprintf(&b, "<p>%s</p>\n", strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"))
	return b.String()
}

func contactSMS(msg ContactMessage) string {
	preview := []rune(msg.Message)
	if len(preview) > smsPreviewLength {
		preview = append(preview[:smsPreviewLength], '…')
	}
	return fmt.Sprintf("Portfolio contact from %s <%s>: %s", msg.Name, msg.Email, string(preview))
}
