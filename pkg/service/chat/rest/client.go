package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model/chat"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/utils/safe"
)

// Client resolves chat platform state over the platform's REST API. Caller
// credentials ride as auth headers; calls without a caller credential fall
// back to the configured service credential.
type Client struct {
	baseURL    string
	httpClient *http.Client
	service    *chat.Credential
}

var _ interfaces.ChatResolver = &Client{}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithServiceCredential sets the credential used for calls that arrive
// without a caller credential, such as webhook-driven lookups.
func WithServiceCredential(userID, token string) Option {
	return func(c *Client) {
		c.service = chat.NewCredential(userID, token)
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("chat platform base URL is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) credential(cred *chat.Credential) *chat.Credential {
	if cred != nil {
		return cred
	}
	return c.service
}

func (c *Client) do(ctx context.Context, method, path string, cred *chat.Credential, query url.Values, body any, out any) error {
	endpoint := c.baseURL + "/api/v1/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return goerr.Wrap(err, "failed to encode request body", goerr.V("path", path))
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return goerr.Wrap(err, "failed to create request", goerr.V("path", path))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cred := c.credential(cred); cred != nil {
		req.Header.Set("X-Auth-Token", cred.Token)
		req.Header.Set("X-User-Id", cred.UserID.String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call chat platform", goerr.V("path", path))
	}
	defer safe.Close(ctx, resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerr.Wrap(err, "failed to read chat platform response", goerr.V("path", path))
	}

	// The platform answers negative lookups and dead credentials with a
	// non-2xx status and a success=false body. That is a clean answer, not
	// a transport failure, so it is surfaced through the decoded body.
	if err := json.Unmarshal(raw, out); err != nil {
		return goerr.Wrap(err, "failed to parse chat platform response",
			goerr.V("path", path), goerr.V("status", resp.StatusCode))
	}

	return nil
}

type emailBody struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
}

type meResponse struct {
	Success  bool        `json:"success"`
	ID       string      `json:"_id"`
	Name     string      `json:"name"`
	Username string      `json:"username"`
	Emails   []emailBody `json:"emails"`
	Roles    []string    `json:"roles"`
}

// ResolveIdentity confirms the credential pair against the platform's
// "who am I" endpoint. A rejected pair yields Success=false, not an error.
func (c *Client) ResolveIdentity(ctx context.Context, cred *chat.Credential) (*chat.Identity, error) {
	if cred == nil {
		return &chat.Identity{Success: false}, nil
	}

	var resp meResponse
	if err := c.do(ctx, http.MethodGet, "me", cred, nil, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return &chat.Identity{Success: false}, nil
	}

	identity := &chat.Identity{
		Success: true,
		ID:      types.ChatUserID(resp.ID),
		Name:    resp.Name,
		Handle:  resp.Username,
		Roles:   resp.Roles,
	}
	for _, e := range resp.Emails {
		identity.Emails = append(identity.Emails, chat.Email{Address: e.Address, Verified: e.Verified})
	}

	return identity, nil
}

type userInfoResponse struct {
	Success bool `json:"success"`
	User    struct {
		ID       string      `json:"_id"`
		Username string      `json:"username"`
		Name     string      `json:"name"`
		Emails   []emailBody `json:"emails"`
	} `json:"user"`
}

func (c *Client) ResolveUserByHandle(ctx context.Context, cred *chat.Credential, handle string) (*chat.UserRef, error) {
	query := url.Values{"username": []string{handle}}

	var resp userInfoResponse
	if err := c.do(ctx, http.MethodGet, "users.info", cred, query, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return &chat.UserRef{Exists: false}, nil
	}

	ref := &chat.UserRef{
		Exists: true,
		ID:     types.ChatUserID(resp.User.ID),
		Handle: resp.User.Username,
		Name:   resp.User.Name,
	}
	for _, e := range resp.User.Emails {
		ref.Emails = append(ref.Emails, chat.Email{Address: e.Address, Verified: e.Verified})
	}

	return ref, nil
}

type roomBody struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Type string `json:"t"`
}

type roomInfoResponse struct {
	Success bool     `json:"success"`
	Room    roomBody `json:"room"`
}

func (c *Client) ResolveRoom(ctx context.Context, cred *chat.Credential, query chat.RoomQuery) (*chat.RoomRef, error) {
	if query.IsZero() {
		return nil, goerr.New("room query must carry an ID or a name")
	}

	values := url.Values{}
	if query.ID != "" {
		values.Set("roomId", query.ID.String())
	} else {
		values.Set("roomName", query.Name)
	}

	var resp roomInfoResponse
	if err := c.do(ctx, http.MethodGet, "rooms.info", cred, values, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return &chat.RoomRef{Exists: false}, nil
	}

	return &chat.RoomRef{
		Exists: true,
		ID:     types.ChatRoomID(resp.Room.ID),
		Name:   resp.Room.Name,
		Type:   types.RoomType(resp.Room.Type),
	}, nil
}

// ResolveSelfRoom opens (or returns) the direct-message room owned by the
// handle. The platform's im.create is idempotent for an existing room.
func (c *Client) ResolveSelfRoom(ctx context.Context, cred *chat.Credential, handle string) (*chat.RoomRef, error) {
	body := map[string]string{"username": handle}

	var resp roomInfoResponse
	if err := c.do(ctx, http.MethodPost, "im.create", cred, nil, body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return &chat.RoomRef{Exists: false}, nil
	}

	return &chat.RoomRef{
		Exists: true,
		ID:     types.ChatRoomID(resp.Room.ID),
		Name:   handle,
		Type:   types.RoomTypeDirect,
	}, nil
}

type discussionResponse struct {
	Success    bool `json:"success"`
	Discussion struct {
		ID   string `json:"_id"`
		Name string `json:"fname"`
		Type string `json:"t"`
	} `json:"discussion"`
}

func (c *Client) CreateDiscussion(ctx context.Context, cred *chat.Credential, parent types.ChatRoomID, title string) (*chat.RoomRef, error) {
	body := map[string]string{
		"prid":   parent.String(),
		"t_name": title,
	}

	var resp discussionResponse
	if err := c.do(ctx, http.MethodPost, "rooms.createDiscussion", cred, nil, body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, goerr.New("chat platform rejected discussion creation",
			goerr.V("parent", parent), goerr.V("title", title))
	}

	return &chat.RoomRef{
		Exists: true,
		ID:     types.ChatRoomID(resp.Discussion.ID),
		Name:   resp.Discussion.Name,
		Type:   types.RoomTypeDiscussion,
	}, nil
}

type subscriptionResponse struct {
	Success      bool `json:"success"`
	Subscription *struct {
		ID string `json:"_id"`
	} `json:"subscription"`
}

// ResolveSubscription checks the live (user, room) pairing through the
// service credential. The answer is never cached.
func (c *Client) ResolveSubscription(ctx context.Context, userID types.ChatUserID, roomID types.ChatRoomID) (bool, error) {
	query := url.Values{
		"roomId": []string{roomID.String()},
		"userId": []string{userID.String()},
	}

	var resp subscriptionResponse
	if err := c.do(ctx, http.MethodGet, "subscriptions.getOne", nil, query, nil, &resp); err != nil {
		return false, err
	}

	return resp.Success && resp.Subscription != nil, nil
}
