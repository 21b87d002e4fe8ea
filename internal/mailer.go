package contact

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// Message is one outbound notification.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	ReplyTo string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// SMTPMailer delivers through an authenticated relay. Each Send is a single
// attempt; failures are returned to the caller as-is.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = msg.From
	e.To = []string{msg.To}
	if msg.ReplyTo != "" {
		e.ReplyTo = []string{msg.ReplyTo}
	}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)

	var err error
	if m.cfg.Secure {
		err = e.SendWithTLS(m.cfg.Addr(), auth, &tls.Config{ServerName: m.cfg.Host})
	} else {
		err = e.Send(m.cfg.Addr(), auth)
	}
	if err != nil {
		return fmt.Errorf("smtp %s: %w", m.cfg.Addr(), err)
	}
	return nil
}

// ContactMessage builds the notification for a contact form submission.
func ContactMessage(from, to string, r SubmissionRequest) Message {
	return Message{
		From:    from,
		To:      to,
		Subject: "Website message from " + r.Name,
		Text:    MessageBody(r.Message, r.Name, r.Email),
		ReplyTo: r.Email,
	}
}

func FeedbackMessage(from, to string, r FeedbackRequest) Message {
	name := r.Name
	if name == "" {
		name = "visitor"
	}
	return Message{
		From:    from,
		To:      to,
		Subject: "Website feedback from " + name,
		Text:    MessageBody(r.Message, r.Name, ""),
	}
}

func SubscribeMessage(from, to string, r SubscribeRequest) Message {
	return Message{
		From:    from,
		To:      to,
		Subject: "New subscriber: " + r.Email,
		Text:    MessageBody("Please add this address to the mailing list.", "", r.Email),
		ReplyTo: r.Email,
	}
}

// MessageBody appends the sender trailer used by both the relay and the
// client-side mailto fallback.
func MessageBody(message, name, addr string) string {
	return fmt.Sprintf("%s\n\n---\nFrom: %s\nEmail: %s", message, name, addr)
}
