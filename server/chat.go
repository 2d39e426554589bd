package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"temetro/model"
)

// decodeChatRequest parses and validates the chat body. Validation happens
// before any response bytes are written so a bad request never sees a
// partial stream.
func decodeChatRequest(w http.ResponseWriter, r *http.Request) (model.ChatRequest, *APIError) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("INVALID_REQUEST | error=%v", err)
		return req, badRequest("Invalid request format")
	}
	if req.Message == "" {
		return req, badRequest("Message is required and must be a string")
	}
	return req, nil
}

// handleChat handles POST /api/chat (non-streaming).
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, apiErr := decodeChatRequest(w, r)
	if apiErr != nil {
		s.handleError(w, apiErr)
		return
	}

	started := time.Now()
	content, err := s.chat.GenerateResponse(r.Context(), req)
	if err != nil {
		s.handleError(w, err)
		return
	}
	log.Printf("CHAT_COMPLETE | stream=false latency=%dms", time.Since(started).Milliseconds())

	resp := model.ChatResponse{
		ID:        newMessageID(),
		Content:   content,
		Role:      "assistant",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	resp.ConversationID = s.persistExchange(req, content)

	s.writeJSON(w, http.StatusOK, resp)
}

// handleChatStream handles POST /api/chat/stream (SSE).
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	req, apiErr := decodeChatRequest(w, r)
	if apiErr != nil {
		s.handleError(w, apiErr)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.handleError(w, internal("Streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	started := time.Now()
	content, err := s.chat.StreamChat(r.Context(), req, func(chunk model.StreamChunk) {
		frame := encodeChunk(chunk)
		if frame == nil {
			return
		}
		if _, werr := w.Write(frame); werr != nil {
			// Client went away; the orchestrator finishes on its own.
			return
		}
		flusher.Flush()
	})
	if err != nil {
		// The terminal error frame already went out in-band; the HTTP
		// status cannot change once streaming has begun.
		log.Printf("STREAM_ERROR | error=%v latency=%dms", err, time.Since(started).Milliseconds())
		return
	}
	log.Printf("CHAT_COMPLETE | stream=true latency=%dms", time.Since(started).Milliseconds())

	s.persistExchange(req, content)
}

// persistExchange saves the user/assistant message pair when a conversation
// store is configured. Persistence failures are logged, never surfaced:
// losing history must not fail a delivered answer.
func (s *Server) persistExchange(req model.ChatRequest, content string) string {
	if s.store == nil || content == "" {
		return ""
	}

	convID := req.ConversationID
	if convID == "" {
		title := req.Message
		if len(title) > 80 {
			title = title[:80]
		}
		var owner, repo string
		if req.RepositoryContext != nil {
			owner, repo = req.RepositoryContext.Owner, req.RepositoryContext.Repo
		}
		conv, err := s.store.Create(title, owner, repo)
		if err != nil {
			log.Printf("CONVERSATION_CREATE_ERROR | error=%v", err)
			return ""
		}
		convID = conv.ID
	}

	if err := s.store.AppendMessage(convID, "user", req.Message); err != nil {
		log.Printf("CONVERSATION_APPEND_ERROR | error=%v", err)
		return convID
	}
	if err := s.store.AppendMessage(convID, "assistant", content); err != nil {
		log.Printf("CONVERSATION_APPEND_ERROR | error=%v", err)
	}
	return convID
}
