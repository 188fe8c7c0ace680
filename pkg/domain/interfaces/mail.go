package interfaces

import "context"

// MailContent is a rendered mail body
type MailContent struct {
	HTML string
	Text string
}

// MailMessage is an outbound mail
type MailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// MailGenerator renders mail content from a named template. Template
// internals are owned by the mail subsystem and are not specified here.
type MailGenerator interface {
	GenerateContent(ctx context.Context, template string, data map[string]any) (*MailContent, error)
}

// MailSender delivers mail
type MailSender interface {
	Send(ctx context.Context, msg *MailMessage) error
}
