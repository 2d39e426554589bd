// Package server is the HTTP API for Temetro's chat backend.
//
// Endpoints:
//   - POST /api/chat            - chat completion (non-streaming)
//   - POST /api/chat/stream     - chat completion over Server-Sent Events
//   - GET  /api/health          - health check
//   - GET  /api/conversations          - conversation list
//   - GET  /api/conversations/{id}     - conversation with messages
//   - DELETE /api/conversations/{id}   - delete a conversation
//   - GET  /api/github/search   - repository search
//   - GET  /api/github/{owner}/{repo}           - repository details
//   - GET  /api/github/{owner}/{repo}/tree      - recursive file tree
//   - GET  /api/github/{owner}/{repo}/file      - file content
//   - GET  /api/github/{owner}/{repo}/contents  - directory listing
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"temetro/github"
	"temetro/model"
	"temetro/storage"
)

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"

	// MaxRequestBodySize caps chat request bodies (1MB).
	MaxRequestBodySize = 1 << 20

	// Version is reported by the health endpoint.
	Version = "1.0.0"
)

// ChatService produces answers for chat requests. Implemented by
// ai.Orchestrator; tests substitute it.
type ChatService interface {
	StreamChat(ctx context.Context, req model.ChatRequest, onChunk func(model.StreamChunk)) (string, error)
	GenerateResponse(ctx context.Context, req model.ChatRequest) (string, error)
}

// RepositoryBrowser is the slice of the GitHub client the proxy routes use.
type RepositoryBrowser interface {
	GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error)
	GetRepositoryTree(ctx context.Context, owner, repo, branch string) (*github.Tree, error)
	GetFileContent(ctx context.Context, owner, repo, path, branch string) (string, error)
	GetDirectoryContents(ctx context.Context, owner, repo, path, branch string) ([]github.ContentItem, error)
	SearchRepositories(ctx context.Context, query string, limit int) ([]github.Repository, error)
}

// Server is the HTTP API server.
type Server struct {
	addr   string
	router *http.ServeMux

	chat   ChatService
	browse RepositoryBrowser
	store  *storage.ConversationStore // optional; nil disables persistence
}

// NewServer creates a server for the given chat service and repository
// browser. addr falls back to DefaultAddr when empty.
func NewServer(addr string, chat ChatService, browse RepositoryBrowser) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		addr:   addr,
		router: http.NewServeMux(),
		chat:   chat,
		browse: browse,
	}
	s.setupRoutes()
	return s
}

// WithConversationStore enables conversation persistence.
func (s *Server) WithConversationStore(store *storage.ConversationStore) *Server {
	s.store = store
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("POST /api/chat", s.handleChat)
	s.router.HandleFunc("POST /api/chat/stream", s.handleChatStream)
	s.router.HandleFunc("GET /api/health", s.handleHealth)

	s.router.HandleFunc("GET /api/conversations", s.handleListConversations)
	s.router.HandleFunc("GET /api/conversations/{id}", s.handleGetConversation)
	s.router.HandleFunc("DELETE /api/conversations/{id}", s.handleDeleteConversation)

	s.router.HandleFunc("GET /api/github/search", s.handleSearchRepositories)
	s.router.HandleFunc("GET /api/github/{owner}/{repo}", s.handleRepository)
	s.router.HandleFunc("GET /api/github/{owner}/{repo}/tree", s.handleTree)
	s.router.HandleFunc("GET /api/github/{owner}/{repo}/file", s.handleFile)
	s.router.HandleFunc("GET /api/github/{owner}/{repo}/contents", s.handleContents)
}

// Handler returns the server's root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server and blocks.
func (s *Server) Run() error {
	log.Printf("SERVER_START | addr=%s version=%s", s.addr, Version)
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

func newMessageID() string {
	return fmt.Sprintf("msg_%s", uuid.New().String())
}
