package announce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/utils/async"
	"github.com/pressbridge/pressbridge/pkg/utils/safe"
)

// Seed posts created on first boot; publishing them never announces.
var defaultPostSlugs = []string{
	"welcome",
	"the-editor",
	"using-tags",
	"managing-users",
	"private-sites",
	"advanced-markdown",
	"themes",
}

// SettingsSource yields the current configuration snapshot
type SettingsSource interface {
	Current() model.Settings
}

// Service pings the chat platform's announce hook when a post is published.
// Delivery is fire-and-forget: failures are logged, never surfaced to the
// publishing request.
type Service struct {
	settings   SettingsSource
	siteURL    string
	httpClient *http.Client
}

type Option func(*Service)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Service) {
		s.httpClient = httpClient
	}
}

func New(settings SettingsSource, siteURL string, opts ...Option) *Service {
	s := &Service{
		settings:   settings,
		siteURL:    strings.TrimRight(siteURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type action struct {
	Type string `json:"type"`
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
	Room string `json:"rid,omitempty"`
}

type attachment struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []action `json:"actions"`
}

type message struct {
	Alias       string       `json:"alias"`
	RoomID      string       `json:"roomId,omitempty"`
	Text        string       `json:"text"`
	Attachments []attachment `json:"attachments"`
}

// Ping announces a freshly published post. Pages, seed posts, unpublished
// posts, posts not flagged to announce, and instances without an announce
// token are all silent no-ops.
func (s *Service) Ping(ctx context.Context, post *model.Post, author *model.User) {
	snapshot := s.settings.Current()

	if snapshot.ServerURL == "" || snapshot.AnnounceToken == "" {
		return
	}
	if !post.Announce || post.Page || post.Status != types.PostStatusPublished {
		return
	}
	if slices.Contains(defaultPostSlugs, post.Slug) {
		return
	}

	hook := strings.TrimRight(snapshot.ServerURL, "/") + "/ghooks/" + snapshot.AnnounceToken
	msg := s.buildMessage(snapshot, post, author)

	async.Dispatch(ctx, func(ctx context.Context) error {
		return s.deliver(ctx, hook, msg)
	})
}

func (s *Service) buildMessage(snapshot model.Settings, post *model.Post, author *model.User) *message {
	postURL := s.siteURL + "/" + post.Slug + "/"

	text := "a new article was published"
	if author != nil && author.Handle != "" {
		text = fmt.Sprintf("@here: @%s published an article", author.Handle)
	}

	actions := []action{
		{Type: "button", Text: "View", URL: postURL},
	}
	if post.RoomID != "" {
		actions = append(actions, action{
			Type: "button",
			Text: "Discussion",
			Room: post.RoomID.String(),
		})
	}
	if post.Collaborative {
		actions = append(actions, action{
			Type: "button",
			Text: "Collaborate",
			URL:  s.siteURL + "/editor/post/" + post.ID.String(),
		})
	}

	return &message{
		Alias:  snapshot.Title,
		RoomID: snapshot.RoomID.String(),
		Text:   text,
		Attachments: []attachment{
			{
				Title:       post.Title,
				Description: excerpt(post.HTML),
				Actions:     actions,
			},
		},
	}
}

func (s *Service) deliver(ctx context.Context, hook string, msg *message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return goerr.Wrap(err, "failed to encode announce message")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook, bytes.NewReader(raw))
	if err != nil {
		return goerr.Wrap(err, "failed to create announce request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to deliver announcement")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return goerr.New("announce hook rejected the message",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(body)))
	}

	return nil
}

// excerpt strips tags from the post body and truncates it for the
// attachment description.
func excerpt(html string) string {
	if html == "" {
		return "No Description"
	}

	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	text := strings.Join(strings.Fields(b.String()), " ")
	if text == "" {
		return "No Description"
	}

	const maxLen = 160
	if len(text) > maxLen {
		cut := text[:maxLen]
		if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
			cut = cut[:idx]
		}
		text = cut + "..."
	}

	return text
}
