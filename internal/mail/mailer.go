package mail

import (
	"fmt"
	"net/smtp"
)

// Mailer sends a single email.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a plain SMTP endpoint.
type SMTPMailer struct {
	Addr string // host:port of the SMTP server
	From string // From address
}

// Send delivers one message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.From, to, subject, body)
	return smtp.SendMail(m.Addr, nil, m.From, []string{to}, []byte(msg))
}
