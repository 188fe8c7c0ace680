package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/usecase"
	"github.com/pressbridge/pressbridge/pkg/utils/logging"
)

// webhookEventBody is the change notification the chat platform posts
type webhookEventBody struct {
	Event  string `json:"event"`
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`
	Value  string `json:"value"`
}

// handleWebhook ingests a platform change notification. A bad token gets a
// soft 200 with success=false so the platform does not disable the hook.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if !s.uc.VerifyWebhookToken(chi.URLParam(r, "token")) {
		logging.From(r.Context()).Warn("rejecting webhook with bad token")
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
		return
	}

	var body webhookEventBody
	if err := json.Unmarshal(raw, &body); err != nil {
		logging.From(r.Context()).Warn("ignoring malformed webhook payload", "error", err)
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
		return
	}

	ev := &usecase.WebhookEvent{
		Kind:   types.EventKind(body.Event),
		RoomID: types.ChatRoomID(body.RoomID),
		UserID: types.ChatUserID(body.UserID),
		Value:  body.Value,
	}
	if err := s.uc.HandleWebhookEvent(r.Context(), ev); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
