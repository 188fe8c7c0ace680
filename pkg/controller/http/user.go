package http

import (
	"net/http"
)

// directoryResponse is one member-directory row: the local user augmented
// with the live platform state.
type directoryResponse struct {
	*userResponse
	Live bool `json:"live"`
}

func (s *Server) handleBrowseUsers(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := s.uc.BrowseUsers(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	responses := make([]*directoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp := &directoryResponse{userResponse: toUserResponse(entry.User), Live: entry.Live}
		if entry.AvatarURL != "" {
			resp.AvatarURL = entry.AvatarURL
		}
		responses = append(responses, resp)
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": responses})
}
