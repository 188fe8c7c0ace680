package mail

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
)

// SMTPSender delivers mail through a plain SMTP relay. Messages carry both
// the text and HTML renderings as multipart/alternative.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

var _ interfaces.MailSender = &SMTPSender{}

type SMTPOption func(*SMTPSender)

// WithPlainAuth enables AUTH PLAIN against the relay
func WithPlainAuth(username, password string) SMTPOption {
	return func(s *SMTPSender) {
		host := s.addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		s.auth = smtp.PlainAuth("", username, password, host)
	}
}

// NewSMTPSender creates a sender for the relay at addr (host:port)
func NewSMTPSender(addr, from string, opts ...SMTPOption) (*SMTPSender, error) {
	if addr == "" {
		return nil, goerr.New("smtp relay address is required")
	}
	if from == "" {
		return nil, goerr.New("mail sender address is required")
	}

	s := &SMTPSender{addr: addr, from: from}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg *interfaces.MailMessage) error {
	if msg.To == "" {
		return goerr.New("mail recipient is required")
	}

	body, err := buildMessage(s.from, msg)
	if err != nil {
		return err
	}

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{msg.To}, body); err != nil {
		return goerr.Wrap(err, "failed to deliver mail",
			goerr.V("relay", s.addr),
			goerr.V("to", msg.To),
		)
	}

	return nil
}

func buildMessage(from string, msg *interfaces.MailMessage) ([]byte, error) {
	var buf strings.Builder

	var body strings.Builder
	mw := multipart.NewWriter(&body)

	textPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build mail body")
	}
	fmt.Fprint(textPart, msg.Text)

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build mail body")
	}
	fmt.Fprint(htmlPart, msg.HTML)

	if err := mw.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to build mail body")
	}

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprint(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	fmt.Fprint(&buf, "\r\n")
	buf.WriteString(body.String())

	return []byte(buf.String()), nil
}
