package model

import (
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// Settings keys. Core keys carry shared secrets and are visible only to
// internal callers.
const (
	SettingServerURL           = "server_url"
	SettingTitle               = "title"
	SettingDescription         = "description"
	SettingAnnounceToken       = "announce_token"
	SettingWebhookToken        = "webhook_token"
	SettingRoom                = "room"
	SettingRoomID              = "room_id"
	SettingEnableDiscussions   = "enable_discussions"
	SettingEnableCollaboration = "enable_collaboration"
)

var coreSettingKeys = map[string]bool{
	SettingAnnounceToken: true,
	SettingWebhookToken:  true,
}

// Setting is one key/value pair of the site configuration
type Setting struct {
	Key   string
	Value string
	Core  bool
}

// Settings is an immutable snapshot of the site configuration. It is built
// once from durable storage, threaded through constructors as a value, and
// replaced wholesale by the single writer when edited.
type Settings struct {
	ServerURL           string
	Title               string
	Description         string
	AnnounceToken       string `masq:"secret"`
	WebhookToken        string `masq:"secret"`
	RoomName            string
	RoomID              types.ChatRoomID
	EnableDiscussions   bool
	EnableCollaboration bool
}

// List returns all settings in a stable order
func (s Settings) List() []Setting {
	return []Setting{
		{Key: SettingServerURL, Value: s.ServerURL},
		{Key: SettingTitle, Value: s.Title},
		{Key: SettingDescription, Value: s.Description},
		{Key: SettingAnnounceToken, Value: s.AnnounceToken, Core: true},
		{Key: SettingWebhookToken, Value: s.WebhookToken, Core: true},
		{Key: SettingRoom, Value: s.RoomName},
		{Key: SettingRoomID, Value: s.RoomID.String()},
		{Key: SettingEnableDiscussions, Value: strconv.FormatBool(s.EnableDiscussions)},
		{Key: SettingEnableCollaboration, Value: strconv.FormatBool(s.EnableCollaboration)},
	}
}

// Get returns a single setting by key
func (s Settings) Get(key string) (Setting, bool) {
	for _, setting := range s.List() {
		if setting.Key == key {
			return setting, true
		}
	}
	return Setting{}, false
}

// IsCoreKey reports whether the key holds a shared secret
func IsCoreKey(key string) bool {
	return coreSettingKeys[key]
}

// WithValue returns a copy of the snapshot with one key replaced
func (s Settings) WithValue(key, value string) (Settings, error) {
	switch key {
	case SettingServerURL:
		s.ServerURL = value
	case SettingTitle:
		s.Title = value
	case SettingDescription:
		s.Description = value
	case SettingAnnounceToken:
		s.AnnounceToken = value
	case SettingWebhookToken:
		s.WebhookToken = value
	case SettingRoom:
		s.RoomName = value
	case SettingRoomID:
		s.RoomID = types.ChatRoomID(value)
	case SettingEnableDiscussions, SettingEnableCollaboration:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return s, goerr.Wrap(err, "setting value must be a boolean", goerr.V("key", key))
		}
		if key == SettingEnableDiscussions {
			s.EnableDiscussions = b
		} else {
			s.EnableCollaboration = b
		}
	default:
		return s, goerr.New("unknown setting key", goerr.V("key", key))
	}
	return s, nil
}
