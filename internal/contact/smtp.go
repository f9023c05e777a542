package contact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	TLSEnabled bool
	From       string
	To         string
}

type sendFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

// SMTPSender mails contact messages straight to the company inbox.
type SMTPSender struct {
	conf SMTPConfig
	send sendFunc
}

func NewSMTPSender(conf SMTPConfig) *SMTPSender {
	s := &SMTPSender{conf: conf}
	if conf.TLSEnabled {
		s.send = smtp.SendMailTLS
	} else {
		s.send = smtp.SendMail
	}
	return s
}

func (s *SMTPSender) Deliver(ctx context.Context, m Message) error {
	if s.conf.Host == "" || s.conf.Port == "" || s.conf.To == "" {
		slog.Warn("contact message not mailed, smtp is not configured", "email", m.Email)
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := s.conf.From
	if from == "" {
		from = s.conf.User
	}

	var buf bytes.Buffer
	if _, err := compose(from, s.conf.To, m).WriteTo(&buf); err != nil {
		return errors.Wrap(err, "compose contact mail")
	}

	var auth sasl.Client
	if s.conf.User != "" {
		auth = sasl.NewPlainClient("", s.conf.User, s.conf.Password)
	}

	addr := net.JoinHostPort(s.conf.Host, s.conf.Port)
	if err := s.send(addr, auth, from, []string{s.conf.To}, &buf); err != nil {
		return errors.Wrap(err, "smtp send")
	}
	return nil
}

func compose(from, to string, m Message) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	if m.Email != "" {
		msg.SetHeader("Reply-To", m.Email)
	}
	msg.SetHeader("Subject", fmt.Sprintf("Website enquiry from %s", m.Name))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Name: %s\nEmail: %s\nPhone: %s\nCompany: %s\n\n%s\n",
		m.Name, m.Email, m.Phone, m.Company, m.Message,
	))
	return msg
}
