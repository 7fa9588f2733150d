// Package email renders and delivers the digest and trends reports.
package email

import (
	"fmt"
	"io"
	"net/smtp"
	"strings"
)

// Msg is a rendered, ready-to-send email.
type Msg struct {
	Subject string
	HTML    string
}

// Sender delivers a message to the configured recipients.
type Sender interface {
	Send(msg *Msg) error
}

// SMTPSender delivers via a plain SMTP server.
type SMTPSender struct {
	// eg "localhost:25"
	Addr string
	From string
	To   []string
	// Auth is optional - nil for an open relay on localhost.
	Auth smtp.Auth
}

func (s *SMTPSender) Send(msg *Msg) error {
	if s.From == "" || len(s.To) == 0 {
		return fmt.Errorf("email not configured (from/to missing)")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(s.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	err := smtp.SendMail(s.Addr, s.Auth, s.From, s.To, []byte(b.String()))
	if err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// WriterSender dumps the message to a writer instead of sending it.
// Used for dry runs.
type WriterSender struct {
	Out io.Writer
}

func (s *WriterSender) Send(msg *Msg) error {
	fmt.Fprintf(s.Out, "Subject: %s\n\n%s\n", msg.Subject, msg.HTML)
	return nil
}
