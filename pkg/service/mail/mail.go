package mail

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/utils/logging"
)

// Built-in templates keyed by name. Data keys are supplied by the caller.
var templates = map[string]struct {
	html string
	text string
}{
	"invite": {
		html: `<p>You have been invited to join {{.SiteTitle}} as {{.Role}}.</p>` +
			`<p><a href="{{.InviteURL}}">Accept the invitation</a></p>` +
			`<p>This invitation expires at {{.ExpiresAt}}.</p>`,
		text: "You have been invited to join {{.SiteTitle}} as {{.Role}}.\n" +
			"Accept the invitation: {{.InviteURL}}\n" +
			"This invitation expires at {{.ExpiresAt}}.\n",
	},
}

// Generator renders mail content from built-in templates
type Generator struct{}

var _ interfaces.MailGenerator = &Generator{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) GenerateContent(ctx context.Context, name string, data map[string]any) (*interfaces.MailContent, error) {
	tpl, ok := templates[name]
	if !ok {
		return nil, goerr.New("unknown mail template", goerr.V("template", name))
	}

	html, err := render(name+".html", tpl.html, data)
	if err != nil {
		return nil, err
	}
	text, err := render(name+".txt", tpl.text, data)
	if err != nil {
		return nil, err
	}

	return &interfaces.MailContent{HTML: html, Text: text}, nil
}

func render(name, body string, data map[string]any) (string, error) {
	tpl, err := template.New(name).Option("missingkey=error").Parse(body)
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse mail template", goerr.V("template", name))
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render mail template", goerr.V("template", name))
	}

	return buf.String(), nil
}

// LogSender writes outbound mail to the log instead of delivering it. It is
// the default sender for development and test deployments.
type LogSender struct{}

var _ interfaces.MailSender = &LogSender{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, msg *interfaces.MailMessage) error {
	if msg.To == "" {
		return goerr.New("mail recipient is required")
	}

	logging.From(ctx).Info("mail dispatched",
		"to", msg.To,
		"subject", msg.Subject,
		"text", strings.TrimSpace(msg.Text),
	)
	return nil
}
