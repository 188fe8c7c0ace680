package http

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Core  bool   `json:"core"`
}

func toSettingResponse(s model.Setting) *settingResponse {
	return &settingResponse{Key: s.Key, Value: s.Value, Core: s.Core}
}

func (s *Server) handleBrowseSettings(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	settings, err := s.uc.BrowseSettings(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	responses := make([]*settingResponse, 0, len(settings))
	for _, setting := range settings {
		responses = append(responses, toSettingResponse(setting))
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": responses})
}

func (s *Server) handleReadSetting(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	setting, err := s.uc.ReadSetting(r.Context(), f, chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingResponse(*setting))
}

func (s *Server) handleEditSetting(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f.Configure(nil, []string{"value"})

	setting, err := s.uc.EditSetting(r.Context(), f, chi.URLParam(r, "key"), bodyString(f, "value"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingResponse(*setting))
}

// maxRoutesArtifactSize bounds an uploaded route configuration
const maxRoutesArtifactSize = 1 << 20

func (s *Server) handleUploadRoutes(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	artifact, err := readRoutesArtifact(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.uc.UploadRoutes(r.Context(), f, artifact); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// readRoutesArtifact accepts either a multipart upload under the "routes"
// field or a raw request body.
func readRoutesArtifact(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxRoutesArtifactSize); err == nil {
		file, _, err := r.FormFile("routes")
		if err != nil {
			return nil, types.AsValidation("routes file is missing from the upload")
		}
		defer file.Close()

		artifact, err := io.ReadAll(io.LimitReader(file, maxRoutesArtifactSize))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read uploaded routes")
		}
		return artifact, nil
	}

	artifact, err := io.ReadAll(io.LimitReader(r.Body, maxRoutesArtifactSize))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read request body")
	}
	return artifact, nil
}

func (s *Server) handleDownloadRoutes(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	artifact, err := s.uc.DownloadRoutes(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/toml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact)
}
