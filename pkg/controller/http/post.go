package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/pipeline"
	"github.com/pressbridge/pressbridge/pkg/usecase"
)

type postResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	HTML          string    `json:"html"`
	Page          bool      `json:"page"`
	Status        string    `json:"status"`
	AuthorIDs     []string  `json:"author_ids"`
	Tags          []string  `json:"tags,omitempty"`
	RoomID        string    `json:"room_id,omitempty"`
	Announce      bool      `json:"announce"`
	Collaborative bool      `json:"collaborative"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toPostResponse(post *model.Post) *postResponse {
	authorIDs := make([]string, 0, len(post.AuthorIDs))
	for _, id := range post.AuthorIDs {
		authorIDs = append(authorIDs, id.String())
	}

	return &postResponse{
		ID:            post.ID.String(),
		Title:         post.Title,
		Slug:          post.Slug,
		HTML:          post.HTML,
		Page:          post.Page,
		Status:        post.Status.String(),
		AuthorIDs:     authorIDs,
		Tags:          post.Tags,
		RoomID:        post.RoomID.String(),
		Announce:      post.Announce,
		Collaborative: post.Collaborative,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
}

func postRequestFromFrame(f *pipeline.Frame) *usecase.PostRequest {
	return &usecase.PostRequest{
		Title:         bodyString(f, "title"),
		Slug:          bodyString(f, "slug"),
		HTML:          bodyString(f, "html"),
		Page:          bodyBool(f, "page"),
		Status:        types.PostStatus(bodyString(f, "status")),
		Tags:          bodyStrings(f, "tags"),
		RoomName:      bodyString(f, "room"),
		Announce:      bodyBoolPtr(f, "announce"),
		Collaborative: bodyBoolPtr(f, "collaborative"),
	}
}

var postDataKeys = []string{"title", "slug", "html", "page", "status", "tags", "room", "announce", "collaborative"}

func (s *Server) handleBrowsePosts(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f.Configure([]string{"page", "limit"}, nil)

	opts := interfaces.ListPostsOptions{}
	if v, err := strconv.Atoi(f.Option("page")); err == nil {
		opts.Page = v
	}
	if v, err := strconv.Atoi(f.Option("limit")); err == nil {
		opts.Limit = v
	}

	posts, err := s.uc.BrowsePosts(r.Context(), f, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	responses := make([]*postResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, toPostResponse(post))
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": responses})
}

func (s *Server) handleReadPost(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// the path segment is a post ID unless slug lookup is requested
	key := chi.URLParam(r, "id")
	var id types.PostID
	var slug string
	if r.URL.Query().Get("by") == "slug" {
		slug = key
	} else {
		id = types.PostID(key)
	}

	post, err := s.uc.ReadPost(r.Context(), f, id, slug)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post))
}

func (s *Server) handleAddPost(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f.Configure(nil, postDataKeys)

	post, err := s.uc.AddPost(r.Context(), f, postRequestFromFrame(f))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f.Configure(nil, postDataKeys)

	post, err := s.uc.EditPost(r.Context(), f, types.PostID(chi.URLParam(r, "id")), postRequestFromFrame(f))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post))
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.uc.DeletePost(r.Context(), f, types.PostID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleCollaborate(w http.ResponseWriter, r *http.Request) {
	f, err := s.sessionFrame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f.Configure(nil, []string{"expected_chat_id"})

	var callerChatID types.ChatUserID
	if f.Credential != nil {
		callerChatID = f.Credential.UserID
	}

	result, err := s.uc.Collaborate(r.Context(), f, &usecase.CollaborateRequest{
		CallerChatID:   callerChatID,
		ExpectedChatID: types.ChatUserID(bodyString(f, "expected_chat_id")),
		PostID:         types.PostID(chi.URLParam(r, "id")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	payload := map[string]any{"collaborate": result.Collaborate}
	if result.Post != nil {
		payload["post"] = toPostResponse(result.Post)
	}
	writeJSON(w, http.StatusOK, payload)
}
