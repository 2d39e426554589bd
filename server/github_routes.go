package server

import (
	"net/http"
	"strconv"

	"temetro/github"
)

// Thin proxy handlers over the GitHub content provider. These exist so the
// browser never talks to GitHub directly and the server-side token applies
// to every call.

func (s *Server) handleSearchRepositories(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.handleError(w, badRequest("q query parameter is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	repos, err := s.browse.SearchRepositories(r.Context(), query, limit)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]github.Repository{"repositories": repos})
}

func (s *Server) handleRepository(w http.ResponseWriter, r *http.Request) {
	owner, repo := r.PathValue("owner"), r.PathValue("repo")

	repository, err := s.browse.GetRepository(r.Context(), owner, repo)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]*github.Repository{"repository": repository})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	owner, repo := r.PathValue("owner"), r.PathValue("repo")
	branch := r.URL.Query().Get("branch")

	tree, err := s.browse.GetRepositoryTree(r.Context(), owner, repo, branch)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]*github.Tree{"tree": tree})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	owner, repo := r.PathValue("owner"), r.PathValue("repo")
	path := r.URL.Query().Get("path")
	if path == "" {
		s.handleError(w, badRequest("path query parameter is required"))
		return
	}
	branch := r.URL.Query().Get("branch")

	content, err := s.browse.GetFileContent(r.Context(), owner, repo, path, branch)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"path": path, "content": content})
}

func (s *Server) handleContents(w http.ResponseWriter, r *http.Request) {
	owner, repo := r.PathValue("owner"), r.PathValue("repo")
	path := r.URL.Query().Get("path")
	branch := r.URL.Query().Get("branch")

	contents, err := s.browse.GetDirectoryContents(r.Context(), owner, repo, path, branch)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]github.ContentItem{"contents": contents})
}
