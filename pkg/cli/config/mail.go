package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/service/mail"
	"github.com/pressbridge/pressbridge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Mail holds CLI flags for outbound mail delivery
type Mail struct {
	backend  string
	addr     string
	from     string
	username string
	password string
}

// Flags returns CLI flags for mail configuration
func (m *Mail) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "mail-backend",
			Usage:       "Mail delivery backend (log or smtp)",
			Value:       "log",
			Sources:     cli.EnvVars("PRESSBRIDGE_MAIL_BACKEND"),
			Destination: &m.backend,
		},
		&cli.StringFlag{
			Name:        "mail-smtp-addr",
			Usage:       "SMTP relay address as host:port (required when using smtp backend)",
			Sources:     cli.EnvVars("PRESSBRIDGE_MAIL_SMTP_ADDR"),
			Destination: &m.addr,
		},
		&cli.StringFlag{
			Name:        "mail-from",
			Usage:       "Sender address for outbound mail (required when using smtp backend)",
			Sources:     cli.EnvVars("PRESSBRIDGE_MAIL_FROM"),
			Destination: &m.from,
		},
		&cli.StringFlag{
			Name:        "mail-smtp-username",
			Usage:       "SMTP AUTH username",
			Sources:     cli.EnvVars("PRESSBRIDGE_MAIL_SMTP_USERNAME"),
			Destination: &m.username,
		},
		&cli.StringFlag{
			Name:        "mail-smtp-password",
			Usage:       "SMTP AUTH password",
			Sources:     cli.EnvVars("PRESSBRIDGE_MAIL_SMTP_PASSWORD"),
			Destination: &m.password,
		},
	}
}

// Configure initializes the mail sender for the configured backend
func (m *Mail) Configure() (interfaces.MailSender, error) {
	switch m.backend {
	case "log":
		logging.Default().Info("Using log mail backend, outbound mail is not delivered")
		return mail.NewLogSender(), nil

	case "smtp":
		var opts []mail.SMTPOption
		if m.username != "" {
			opts = append(opts, mail.WithPlainAuth(m.username, m.password))
		}
		sender, err := mail.NewSMTPSender(m.addr, m.from, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize smtp mail sender")
		}
		logging.Default().Info("Using smtp mail backend", "relay", m.addr, "from", m.from)
		return sender, nil

	default:
		return nil, goerr.New("invalid mail backend", goerr.V("backend", m.backend))
	}
}
