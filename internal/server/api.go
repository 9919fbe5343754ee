package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/rs/zerolog"
)

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	w.Write(data)
}

// serveAPIPosts lists post metadata, optionally narrowed by ?tag= and
// ?featured=true.
func (s *Server) serveAPIPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var posts []model.PostMetadata
	if tag := query.Get("tag"); tag != "" {
		posts = s.repo.ListPostsByTag(ctx, tag)
	} else {
		posts = s.repo.ListPostsMetadata(ctx)
	}

	if featured, err := strconv.ParseBool(query.Get("featured")); err == nil && featured {
		kept := make([]model.PostMetadata, 0, len(posts))
		for _, p := range posts {
			if p.Featured {
				kept = append(kept, p)
			}
		}
		posts = kept
	}

	if posts == nil {
		posts = []model.PostMetadata{}
	}
	writeJSON(w, r, http.StatusOK, posts)
}

func (s *Server) serveAPIPost(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	if r.URL.Query().Get("render") == "html" {
		post, ok := s.renderPost(r, slug)
		if !ok {
			writeJSON(w, r, http.StatusNotFound, apiError{Error: "post not found"})
			return
		}
		writeJSON(w, r, http.StatusOK, post)
		return
	}

	post, ok := s.repo.GetPostBySlug(r.Context(), slug)
	if !ok {
		writeJSON(w, r, http.StatusNotFound, apiError{Error: "post not found"})
		return
	}
	writeJSON(w, r, http.StatusOK, post)
}

func (s *Server) serveAPITags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, nonNil(s.repo.ListTags(r.Context())))
}

func (s *Server) serveAPISlugs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, nonNil(s.repo.ListSlugs(r.Context())))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
