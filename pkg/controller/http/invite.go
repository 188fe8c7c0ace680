package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/usecase"
)

type inviteResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func toInviteResponse(invite *model.Invite) *inviteResponse {
	return &inviteResponse{
		ID:        invite.ID.String(),
		Email:     invite.Email,
		Role:      invite.Role.String(),
		Status:    invite.Status.String(),
		ExpiresAt: invite.ExpiresAt,
		CreatedAt: invite.CreatedAt,
	}
}

func (s *Server) handleBrowseInvites(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	invites, err := s.uc.BrowseInvites(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	responses := make([]*inviteResponse, 0, len(invites))
	for _, invite := range invites {
		responses = append(responses, toInviteResponse(invite))
	}
	writeJSON(w, http.StatusOK, map[string]any{"invites": responses})
}

func (s *Server) handleReadInvite(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	invite, err := s.uc.ReadInvite(r.Context(), f, types.InviteID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toInviteResponse(invite))
}

func (s *Server) handleAddInvite(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f.Configure(nil, []string{"email", "role", "handle"})

	role, err := types.ParseUserRole(bodyString(f, "role"))
	if err != nil {
		writeError(w, r, types.AsValidation("invalid role"))
		return
	}

	invite, err := s.uc.AddInvite(r.Context(), f, &usecase.AddInviteRequest{
		Email:  bodyString(f, "email"),
		Role:   role,
		Handle: bodyString(f, "handle"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toInviteResponse(invite))
}

func (s *Server) handleDeleteInvite(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.uc.DeleteInvite(r.Context(), f, types.InviteID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	f := buildFrame(r)

	token := bodyString(f, "token")
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	user, err := s.uc.AcceptInvite(r.Context(), f, token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}
