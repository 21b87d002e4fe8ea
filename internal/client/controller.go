// Package client drives the site's forms from the visitor's side: it checks
// input, posts it to the submission endpoints and, whenever delivery cannot be
// confirmed, hands the message to the visitor's mail client instead.
package client

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"sync/atomic"
)

// MessageKind selects how a status line is rendered.
type MessageKind int

const (
	Info MessageKind = iota
	Success
	Error
)

// View is the page the controller drives.
type View interface {
	SetMessage(kind MessageKind, text string)
	// Reset clears the form fields.
	Reset()
	// Open navigates to url, used for mailto: links.
	Open(url string)
}

// TokenSource issues bot-detection tokens bound to an action label.
type TokenSource interface {
	Token(ctx context.Context, action string) (string, error)
}

// TokenFunc adapts a plain function to TokenSource.
type TokenFunc func(ctx context.Context, action string) (string, error)

func (f TokenFunc) Token(ctx context.Context, action string) (string, error) {
	return f(ctx, action)
}

const ContactAction = "contact"

const (
	msgFillAll      = "Please fill all fields."
	msgInvalidEmail = "Please enter a valid email."
	msgShortMessage = "Please write a short message."
	msgSending      = "Sending..."
	msgSubscribing  = "Subscribing..."
	msgSent         = "Message sent, thank you!"
	msgFeedbackSent = "Feedback sent, thank you!"
	msgSubscribed   = "Subscribed, check your email for confirmation."
	msgServerError  = "Server error, opening email client as fallback."
	msgNetworkError = "Network error, opening email client as fallback."
)

var (
	ErrIncomplete   = errors.New(msgFillAll)
	ErrInvalidEmail = errors.New(msgInvalidEmail)
	ErrEmptyMessage = errors.New(msgShortMessage)
	// ErrInFlight is returned when a submission is already pending.
	ErrInFlight = errors.New("submission already in progress")
)

var emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)

func IsEmail(v string) bool {
	return emailShape.MatchString(strings.TrimSpace(v))
}

// Form holds the raw field values of any of the site's forms.
type Form struct {
	Name    string
	Email   string
	Message string
}

// CheckContact mirrors the server's contact rules closely enough to catch
// obvious mistakes without a round trip.
func CheckContact(f Form) error {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Email) == "" || strings.TrimSpace(f.Message) == "" {
		return ErrIncomplete
	}
	if !IsEmail(f.Email) {
		return ErrInvalidEmail
	}
	return nil
}

func CheckFeedback(f Form) error {
	if strings.TrimSpace(f.Message) == "" {
		return ErrEmptyMessage
	}
	return nil
}

func CheckSubscribe(f Form) error {
	if strings.TrimSpace(f.Email) == "" || !IsEmail(f.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// MailtoURL builds the fallback link. Subject and body follow the same
// convention as the relayed mail.
func MailtoURL(recipient string, f Form) string {
	name := f.Name
	if name == "" {
		name = "visitor"
	}
	subject := "Website message from " + name
	body := f.Message + "\n\n---\nFrom: " + f.Name + "\nEmail: " + f.Email
	return "mailto:" + recipient + "?subject=" + encodeURIComponent(subject) + "&body=" + encodeURIComponent(body)
}

// encodeURIComponent escapes like the browser function of the same name:
// spaces become %20, not '+'.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Dispatch renders an outcome. Anything other than Accepted also opens the
// mail-client fallback so the visitor always has a way to send the message.
func Dispatch(view View, o Outcome, success, fallbackURL string) {
	switch o.Kind {
	case Accepted:
		view.SetMessage(Success, success)
		view.Reset()
	case Rejected:
		reason := o.Reason
		if reason == "" {
			reason = msgServerError
		}
		view.SetMessage(Error, reason)
		view.Open(fallbackURL)
	default:
		view.SetMessage(Error, msgNetworkError)
		view.Open(fallbackURL)
	}
}

// Poster sends a JSON payload and reports the outcome. *API implements it.
type Poster interface {
	PostJSON(ctx context.Context, path string, payload any) Outcome
}

// Controller wires the site's forms to the submission endpoints.
type Controller struct {
	poster    Poster
	tokens    TokenSource
	view      View
	recipient string
	logger    *slog.Logger

	busy atomic.Bool
}

// Options configure a Controller. Tokens may be nil when no widget key is configured.
type Options struct {
	Tokens    TokenSource
	Recipient string
	Logger    *slog.Logger
}

func NewController(poster Poster, view View, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		poster:    poster,
		tokens:    opts.Tokens,
		view:      view,
		recipient: opts.Recipient,
		logger:    logger,
	}
}

type contactPayload struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Message        string `json:"message"`
	RecaptchaToken string `json:"recaptchaToken"`
}

type feedbackPayload struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type subscribePayload struct {
	Email string `json:"email"`
}

// SubmitContact handles the main contact form. A validation failure is shown
// inline and returned; no request is made.
func (c *Controller) SubmitContact(ctx context.Context, f Form) (Outcome, error) {
	return c.submit(ctx, f, CheckContact, msgSending, func(ctx context.Context) Outcome {
		return c.poster.PostJSON(ctx, ContactPath, contactPayload{
			Name:           f.Name,
			Email:          f.Email,
			Message:        f.Message,
			RecaptchaToken: c.token(ctx),
		})
	}, msgSent)
}

func (c *Controller) SubmitFeedback(ctx context.Context, f Form) (Outcome, error) {
	return c.submit(ctx, f, CheckFeedback, msgSending, func(ctx context.Context) Outcome {
		return c.poster.PostJSON(ctx, FeedbackPath, feedbackPayload{Name: f.Name, Message: f.Message})
	}, msgFeedbackSent)
}

func (c *Controller) Subscribe(ctx context.Context, f Form) (Outcome, error) {
	return c.submit(ctx, f, CheckSubscribe, msgSubscribing, func(ctx context.Context) Outcome {
		return c.poster.PostJSON(ctx, SubscribePath, subscribePayload{Email: f.Email})
	}, msgSubscribed)
}

func (c *Controller) submit(
	ctx context.Context,
	f Form,
	check func(Form) error,
	pending string,
	post func(context.Context) Outcome,
	success string,
) (Outcome, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return Outcome{}, ErrInFlight
	}
	defer c.busy.Store(false)

	c.view.SetMessage(Info, "")
	if err := check(f); err != nil {
		c.view.SetMessage(Error, err.Error())
		return Outcome{}, err
	}

	c.view.SetMessage(Info, pending)
	o := post(ctx)
	if o.Kind != Accepted {
		c.logger.Warn("submission not accepted", "outcome", o.Kind.String(), "status", o.Status, "err", o.Err)
	}
	Dispatch(c.view, o, success, MailtoURL(c.recipient, f))
	return o, nil
}

// token asks the token source for a token; failures are logged and the
// submission proceeds without one.
func (c *Controller) token(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	tok, err := c.tokens.Token(ctx, ContactAction)
	if err != nil {
		c.logger.Warn("token request failed", "err", err)
		return ""
	}
	return tok
}
