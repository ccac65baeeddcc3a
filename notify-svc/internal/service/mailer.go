package service

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"

	"restobar/notify-svc/internal/domain"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer delivers HTML email through a single relay.
type SMTPMailer struct {
	Addr string
	Auth smtp.Auth
	From mail.Address

	send sendFunc
}

func NewSMTPMailer(host, port, user, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPMailer{
		Addr: net.JoinHostPort(host, port),
		Auth: auth,
		From: mail.Address{Name: "Nap's Grill and Restobar", Address: from},
		send: smtp.SendMail,
	}
}

// Send gives up when ctx is done; the SMTP exchange itself is not cancellable
// and finishes in the background.
func (m *SMTPMailer) Send(ctx context.Context, email domain.Email) error {
	to, err := mail.ParseAddress(email.To)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", email.To, err)
	}

	msg := m.compose(to, email)
	done := make(chan error, 1)
	go func() {
		done <- m.send(m.Addr, m.Auth, m.From.Address, []string{to.Address}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *SMTPMailer) compose(to *mail.Address, email domain.Email) []byte {
	var b strings.Builder
	b.WriteString("From: " + m.From.String() + "\r\n")
	b.WriteString("To: " + to.String() + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", email.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(email.Body)
	return []byte(b.String())
}
