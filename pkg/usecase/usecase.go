package usecase

import (
	"time"

	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/service/announce"
	"github.com/pressbridge/pressbridge/pkg/service/routes"
	"github.com/pressbridge/pressbridge/pkg/service/settings"
)

type UseCases struct {
	repo     interfaces.Repository
	chat     interfaces.ChatResolver
	settings *settings.Store
	routes   *routes.Manager
	announce *announce.Service

	mailGen    interfaces.MailGenerator
	mailSender interfaces.MailSender

	siteURL   string
	inviteKey []byte
	inviteTTL time.Duration
	now       func() time.Time
}

type Option func(*UseCases)

func WithRoutes(mgr *routes.Manager) Option {
	return func(uc *UseCases) {
		uc.routes = mgr
	}
}

func WithAnnounce(svc *announce.Service) Option {
	return func(uc *UseCases) {
		uc.announce = svc
	}
}

func WithMail(gen interfaces.MailGenerator, sender interfaces.MailSender) Option {
	return func(uc *UseCases) {
		uc.mailGen = gen
		uc.mailSender = sender
	}
}

func WithSiteURL(siteURL string) Option {
	return func(uc *UseCases) {
		uc.siteURL = siteURL
	}
}

// WithInviteKey sets the signing key for invite tokens
func WithInviteKey(key []byte) Option {
	return func(uc *UseCases) {
		uc.inviteKey = key
	}
}

func WithInviteTTL(ttl time.Duration) Option {
	return func(uc *UseCases) {
		uc.inviteTTL = ttl
	}
}

// WithClock overrides the time source, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, chat interfaces.ChatResolver, settingsStore *settings.Store, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:      repo,
		chat:      chat,
		settings:  settingsStore,
		inviteTTL: 14 * 24 * time.Hour,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
