package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pressbridge/pressbridge/pkg/domain/model/chat"
	"github.com/pressbridge/pressbridge/pkg/pipeline"
)

const (
	cookieChatUserID = "rc_uid"
	cookieChatToken  = "rc_token"

	headerChatToken  = "X-Auth-Token"
	headerChatUserID = "X-User-Id"
)

// maxBodySize bounds any decoded request body
const maxBodySize = 1 << 20

// extractCredential pulls the platform credential pair from the request.
// Headers win over cookies; a half-present pair counts as absent.
func extractCredential(r *http.Request) *chat.Credential {
	if cred := chat.NewCredential(r.Header.Get(headerChatUserID), r.Header.Get(headerChatToken)); cred != nil {
		return cred
	}

	uidCookie, err := r.Cookie(cookieChatUserID)
	if err != nil {
		return nil
	}
	tokenCookie, err := r.Cookie(cookieChatToken)
	if err != nil {
		return nil
	}

	return chat.NewCredential(uidCookie.Value, tokenCookie.Value)
}

// buildFrame turns the raw request into a pipeline frame: body decoded,
// path params and query captured, credential pair extracted.
func buildFrame(r *http.Request) *pipeline.Frame {
	f := pipeline.NewFrame()
	f.Query = r.URL.Query()
	f.Credential = extractCredential(r)
	f.Context.IsPage = r.URL.Query().Get("page") == "true"

	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		params := routeCtx.URLParams
		for i := range params.Keys {
			f.Params[params.Keys[i]] = params.Values[i]
		}
	}

	if r.Body != nil && strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var body map[string]any
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&body); err == nil {
			f.Body = body
		}
	}

	return f
}

// sessionFrame builds a frame and attaches the session user when the
// credential pair resolves. Resolution failures leave the frame anonymous.
func (s *Server) sessionFrame(r *http.Request) (*pipeline.Frame, error) {
	f := buildFrame(r)
	if err := s.uc.CreateSession(r.Context(), f); err != nil {
		return nil, err
	}
	return f, nil
}

func bodyString(f *pipeline.Frame, key string) string {
	if f.Body == nil {
		return ""
	}
	if v, ok := f.Body[key].(string); ok {
		return v
	}
	return ""
}

func bodyBool(f *pipeline.Frame, key string) bool {
	if f.Body == nil {
		return false
	}
	if v, ok := f.Body[key].(bool); ok {
		return v
	}
	return false
}

// bodyBoolPtr distinguishes an absent flag from an explicit false
func bodyBoolPtr(f *pipeline.Frame, key string) *bool {
	if f.Body == nil {
		return nil
	}
	if v, ok := f.Body[key].(bool); ok {
		return &v
	}
	return nil
}

func bodyStrings(f *pipeline.Frame, key string) []string {
	if f.Body == nil {
		return nil
	}
	raw, ok := f.Body[key].([]any)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, item := range raw {
		if v, ok := item.(string); ok {
			values = append(values, v)
		}
	}
	return values
}
