package http

import (
	"net/http"

	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/pipeline"
	"github.com/pressbridge/pressbridge/pkg/usecase"
)

type userResponse struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

func toUserResponse(user *model.User) *userResponse {
	return &userResponse{
		ID:        user.ID.String(),
		Handle:    user.Handle,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Role:      user.Role.String(),
		Status:    user.Status.String(),
	}
}

func (s *Server) handleAddSession(w http.ResponseWriter, r *http.Request) {
	f := buildFrame(r)

	user, err := s.uc.AddSession(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleReadSession(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.uc.ReadSession(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.uc.DeleteSession(r.Context(), f); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleRevokeToken(w http.ResponseWriter, r *http.Request) {
	f := buildFrame(r)

	if err := s.uc.RevokeToken(r.Context(), bodyString(f, "token")); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleIsSetup(w http.ResponseWriter, r *http.Request) {
	done, err := s.uc.IsSetup(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"setup": done})
}

func setupRequestFromFrame(f *pipeline.Frame) *usecase.SetupRequest {
	return &usecase.SetupRequest{
		Name:          bodyString(f, "name"),
		ServerURL:     bodyString(f, "server_url"),
		Title:         bodyString(f, "title"),
		Description:   bodyString(f, "description"),
		AnnounceToken: bodyString(f, "announce_token"),
		WebhookToken:  bodyString(f, "webhook_token"),
	}
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	f := buildFrame(r)
	f.Configure(nil, []string{"name", "server_url", "title", "description", "announce_token", "webhook_token"})

	owner, err := s.uc.Setup(r.Context(), f, setupRequestFromFrame(f))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(owner))
}

func (s *Server) handleUpdateSetup(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f.Configure(nil, []string{"name", "server_url", "title", "description", "announce_token", "webhook_token"})

	owner, err := s.uc.UpdateSetup(r.Context(), f, setupRequestFromFrame(f))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(owner))
}
