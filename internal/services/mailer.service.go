package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"
	"vistoria/config"

	logger "github.com/Bparsons0904/goLogger"
)

var ErrMailerNotConfigured = errors.New("smtp host not configured")

type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type sendMailFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer delivers HTML mail through a plain SMTP relay with optional PLAIN auth.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	sendMail sendMailFunc
	log      logger.Logger
}

func NewSMTPMailer(config config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     config.SMTPHost,
		port:     config.SMTPPort,
		user:     config.SMTPUser,
		pass:     config.SMTPPass,
		from:     config.SMTPFrom,
		sendMail: smtp.SendMail,
		log:      logger.New("smtpMailer"),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	log := m.log.Function("Send")

	if m.host == "" {
		return ErrMailerNotConfigured
	}

	from, err := mail.ParseAddress(m.from)
	if err != nil {
		return log.Err("invalid sender address", err, "from", m.from)
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	addr := m.host + ":" + strconv.Itoa(m.port)
	msg := buildMessage(from.String(), to, subject, html, time.Now())

	done := make(chan error, 1)
	go func() {
		done <- m.sendMail(addr, auth, from.Address, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return log.Err("failed to send email", errors.Join(ErrStorageBackend, err), "to", to)
		}
	case <-ctx.Done():
		return log.Err("email send cancelled", ctx.Err(), "to", to)
	}

	log.Info("Email sent", "to", to, "subject", subject)
	return nil
}

func buildMessage(from, to, subject, html string, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}
