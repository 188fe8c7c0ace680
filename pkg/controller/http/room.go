package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pressbridge/pressbridge/pkg/domain/model/chat"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

type roomResponse struct {
	Exists bool   `json:"exists"`
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Type   string `json:"type,omitempty"`
}

func toRoomResponse(ref *chat.RoomRef) *roomResponse {
	if ref == nil || !ref.Exists {
		return &roomResponse{Exists: false}
	}
	return &roomResponse{
		Exists: true,
		ID:     ref.ID.String(),
		Name:   ref.Name,
		Type:   ref.Type.String(),
	}
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f.Configure([]string{"id", "name"}, nil)

	query := chat.RoomQuery{
		ID:   types.ChatRoomID(f.Option("id")),
		Name: f.Option("name"),
	}
	if query.IsZero() {
		writeError(w, r, types.AsValidation("room id or name is required"))
		return
	}

	ref, err := s.uc.GetRoom(r.Context(), f, query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRoomResponse(ref))
}

func (s *Server) handleSelfRoom(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f.Configure(nil, []string{"handle"})

	ref, err := s.uc.GetOrCreateSelfRoom(r.Context(), f, bodyString(f, "handle"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRoomResponse(ref))
}

func (s *Server) handleCreateDiscussion(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f.Configure(nil, []string{"title"})

	ref, err := s.uc.CreateDiscussion(r.Context(), f,
		types.ChatRoomID(chi.URLParam(r, "id")), bodyString(f, "title"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ref == nil {
		// feature disabled
		writeJSON(w, http.StatusOK, map[string]any{"created": false})
		return
	}

	writeJSON(w, http.StatusCreated, toRoomResponse(ref))
}
