package pipeline

import (
	"net/url"

	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/model/chat"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// APIKey identifies the key an integration authenticated with
type APIKey struct {
	ID   string
	Type string
}

// CallerContext describes who is calling. It is derived once when the frame
// is built and is only mutated by explicit authorization tasks.
type CallerContext struct {
	Internal    bool
	External    bool
	User        types.UserID
	APIKey      *APIKey
	Integration string
	Public      bool
	IsPage      bool
}

// Upload references a file received with the request
type Upload struct {
	Name string
	Path string
}

// Frame is the per-request context threaded through a task chain. The
// pipeline itself never touches storage or the network; all I/O belongs to
// individual tasks.
type Frame struct {
	Body    map[string]any
	Params  map[string]string
	Query   url.Values
	Options map[string]string
	File    *Upload

	Context    CallerContext
	Credential *chat.Credential
	User       *model.User
	Member     *chat.Identity
}

// NewFrame creates an empty frame
func NewFrame() *Frame {
	return &Frame{
		Body:    map[string]any{},
		Params:  map[string]string{},
		Query:   url.Values{},
		Options: map[string]string{},
	}
}

// Configure projects the whitelisted option keys from query and path
// parameters into Options and drops body keys outside the data whitelist.
// Unlisted input is discarded, not rejected.
func (f *Frame) Configure(optionKeys, dataKeys []string) {
	for _, key := range optionKeys {
		if v, ok := f.Params[key]; ok && v != "" {
			f.Options[key] = v
			continue
		}
		if v := f.Query.Get(key); v != "" {
			f.Options[key] = v
		}
	}

	if len(dataKeys) > 0 && f.Body != nil {
		allowed := make(map[string]bool, len(dataKeys))
		for _, key := range dataKeys {
			allowed[key] = true
		}
		for key := range f.Body {
			if !allowed[key] {
				delete(f.Body, key)
			}
		}
	}
}

// Option returns a configured option value
func (f *Frame) Option(key string) string {
	return f.Options[key]
}

// Authenticated reports whether a session user is attached
func (f *Frame) Authenticated() bool {
	return f.User != nil
}

// AttachUser binds the resolved local user to the frame. This is the only
// sanctioned caller-context mutation after frame construction.
func (f *Frame) AttachUser(user *model.User) {
	f.User = user
	if user != nil {
		f.Context.User = user.ID
	}
}
