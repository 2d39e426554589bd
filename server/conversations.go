package server

import (
	"errors"
	"net/http"

	"temetro/storage"
)

// Conversation history handlers. These return 404 via handleError when the
// id is unknown and 503 when no store is configured (persistence is
// optional; see main).

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.handleError(w, &APIError{
			Message:    "Conversation persistence is not enabled",
			StatusCode: http.StatusServiceUnavailable,
			Code:       "STORE_DISABLED",
		})
		return false
	}
	return true
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	conversations, err := s.store.List()
	if err != nil {
		s.handleError(w, err)
		return
	}
	if conversations == nil {
		conversations = []storage.Conversation{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]storage.Conversation{"conversations": conversations})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id := r.PathValue("id")

	conv, err := s.store.Get(id)
	if errors.Is(err, storage.ErrNotFound) {
		s.handleError(w, notFound("conversation not found"))
		return
	}
	if err != nil {
		s.handleError(w, err)
		return
	}
	messages, err := s.store.Messages(id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if messages == nil {
		messages = []storage.StoredMessage{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"conversation": conv,
		"messages":     messages,
	})
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id := r.PathValue("id")

	err := s.store.Delete(id)
	if errors.Is(err, storage.ErrNotFound) {
		s.handleError(w, notFound("conversation not found"))
		return
	}
	if err != nil {
		s.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
