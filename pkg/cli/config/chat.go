package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/service/chat/rest"
	"github.com/pressbridge/pressbridge/pkg/service/chat/store"
	"github.com/pressbridge/pressbridge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Chat holds CLI flags for the chat platform transport
type Chat struct {
	transport     string
	baseURL       string
	serviceUserID string
	serviceToken  string
	projectID     string
	prefix        string
}

// Flags returns CLI flags for chat transport configuration
func (c *Chat) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "chat-transport",
			Usage:       "Chat platform transport (rest or store)",
			Value:       "rest",
			Sources:     cli.EnvVars("PRESSBRIDGE_CHAT_TRANSPORT"),
			Destination: &c.transport,
		},
		&cli.StringFlag{
			Name:        "chat-base-url",
			Usage:       "Chat platform base URL (required when using rest transport)",
			Sources:     cli.EnvVars("PRESSBRIDGE_CHAT_BASE_URL"),
			Destination: &c.baseURL,
		},
		&cli.StringFlag{
			Name:        "chat-service-user-id",
			Usage:       "Service account user ID for subscription lookups",
			Sources:     cli.EnvVars("PRESSBRIDGE_CHAT_SERVICE_USER_ID"),
			Destination: &c.serviceUserID,
		},
		&cli.StringFlag{
			Name:        "chat-service-token",
			Usage:       "Service account token for subscription lookups",
			Sources:     cli.EnvVars("PRESSBRIDGE_CHAT_SERVICE_TOKEN"),
			Destination: &c.serviceToken,
		},
		&cli.StringFlag{
			Name:        "chat-store-project-id",
			Usage:       "Firestore Project ID of the platform datastore (required when using store transport)",
			Sources:     cli.EnvVars("PRESSBRIDGE_CHAT_STORE_PROJECT_ID"),
			Destination: &c.projectID,
		},
		&cli.StringFlag{
			Name:        "chat-store-collection-prefix",
			Usage:       "Prefix for platform datastore collection names",
			Sources:     cli.EnvVars("PRESSBRIDGE_CHAT_STORE_COLLECTION_PREFIX"),
			Destination: &c.prefix,
		},
	}
}

// Configure initializes the chat resolver for the configured transport. The
// returned closer releases the datastore client when one was opened.
func (c *Chat) Configure(ctx context.Context) (interfaces.ChatResolver, func() error, error) {
	noop := func() error { return nil }

	switch c.transport {
	case "rest":
		var opts []rest.Option
		if c.serviceUserID != "" && c.serviceToken != "" {
			opts = append(opts, rest.WithServiceCredential(c.serviceUserID, c.serviceToken))
		}
		client, err := rest.New(c.baseURL, opts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize chat REST client")
		}
		logging.Default().Info("Using chat REST transport", "base_url", c.baseURL)
		return client, noop, nil

	case "store":
		if c.projectID == "" {
			return nil, nil, goerr.New("chat-store-project-id is required when using store transport")
		}

		var opts []store.Option
		if c.prefix != "" {
			opts = append(opts, store.WithCollectionPrefix(c.prefix))
		}
		client, err := store.New(ctx, c.projectID, opts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize chat store client")
		}
		logging.Default().Info("Using chat store transport", "project_id", c.projectID)
		return client, client.Close, nil

	default:
		return nil, nil, goerr.New("invalid chat transport", goerr.V("transport", c.transport))
	}
}
