package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/pressbridge/pressbridge/pkg/cli/config"
	httpctrl "github.com/pressbridge/pressbridge/pkg/controller/http"
	"github.com/pressbridge/pressbridge/pkg/service/announce"
	"github.com/pressbridge/pressbridge/pkg/service/mail"
	"github.com/pressbridge/pressbridge/pkg/service/routes"
	"github.com/pressbridge/pressbridge/pkg/service/settings"
	"github.com/pressbridge/pressbridge/pkg/usecase"
	"github.com/pressbridge/pressbridge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var siteURL string
	var inviteKey string
	var inviteTTL time.Duration
	var routesPath string
	var repoCfg config.Repository
	var chatCfg config.Chat
	var mailCfg config.Mail

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PRESSBRIDGE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "site-url",
			Usage:       "Public URL of this site (e.g., https://blog.example.com)",
			Sources:     cli.EnvVars("PRESSBRIDGE_SITE_URL"),
			Destination: &siteURL,
		},
		&cli.StringFlag{
			Name:        "invite-key",
			Usage:       "Signing key for invite tokens",
			Sources:     cli.EnvVars("PRESSBRIDGE_INVITE_KEY"),
			Destination: &inviteKey,
		},
		&cli.DurationFlag{
			Name:        "invite-ttl",
			Usage:       "Lifetime of invite tokens",
			Value:       14 * 24 * time.Hour,
			Sources:     cli.EnvVars("PRESSBRIDGE_INVITE_TTL"),
			Destination: &inviteTTL,
		},
		&cli.StringFlag{
			Name:        "routes-path",
			Usage:       "Path of the active route-configuration artifact",
			Value:       "routes.toml",
			Sources:     cli.EnvVars("PRESSBRIDGE_ROUTES_PATH"),
			Destination: &routesPath,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, chatCfg.Flags()...)
	flags = append(flags, mailCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			resolver, closeChat, err := chatCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure chat transport")
			}
			defer func() {
				if err := closeChat(); err != nil {
					logging.Default().Error("failed to close chat transport", "error", err.Error())
				}
			}()

			settingsStore, err := settings.New(ctx, repo.Settings())
			if err != nil {
				return goerr.Wrap(err, "failed to load settings")
			}

			table := routes.NewTable(routesPath)
			if err := table.Reload(ctx); err != nil {
				logging.Default().Warn("no routes artifact loaded", "path", routesPath, "error", err)
			}
			routesMgr := routes.NewManager(routesPath, table)

			announceSvc := announce.New(settingsStore, siteURL)

			sender, err := mailCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure mail backend")
			}

			ucOpts := []usecase.Option{
				usecase.WithRoutes(routesMgr),
				usecase.WithAnnounce(announceSvc),
				usecase.WithMail(mail.NewGenerator(), sender),
				usecase.WithSiteURL(siteURL),
				usecase.WithInviteTTL(inviteTTL),
			}
			if inviteKey != "" {
				ucOpts = append(ucOpts, usecase.WithInviteKey([]byte(inviteKey)))
			} else {
				logging.Default().Warn("invite-key not configured, member invitations are disabled")
			}

			uc := usecase.New(repo, resolver, settingsStore, ucOpts...)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
