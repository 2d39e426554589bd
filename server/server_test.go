package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"temetro/github"
	"temetro/model"
	"temetro/server"
)

// scriptedChat replays a chunk sequence through StreamChat.
type scriptedChat struct {
	chunks   []model.StreamChunk
	response string
	err      error
}

func (s *scriptedChat) StreamChat(ctx context.Context, req model.ChatRequest, onChunk func(model.StreamChunk)) (string, error) {
	for _, c := range s.chunks {
		onChunk(c)
	}
	return s.response, s.err
}

func (s *scriptedChat) GenerateResponse(ctx context.Context, req model.ChatRequest) (string, error) {
	return s.response, s.err
}

// fakeBrowser is a canned RepositoryBrowser.
type fakeBrowser struct {
	repo    *github.Repository
	repoErr error
	tree    *github.Tree
	content string
	entries []github.ContentItem
	repos   []github.Repository
}

func (f *fakeBrowser) GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error) {
	return f.repo, f.repoErr
}

func (f *fakeBrowser) GetRepositoryTree(ctx context.Context, owner, repo, branch string) (*github.Tree, error) {
	return f.tree, nil
}

func (f *fakeBrowser) GetFileContent(ctx context.Context, owner, repo, path, branch string) (string, error) {
	return f.content, nil
}

func (f *fakeBrowser) GetDirectoryContents(ctx context.Context, owner, repo, path, branch string) ([]github.ContentItem, error) {
	return f.entries, nil
}

func (f *fakeBrowser) SearchRepositories(ctx context.Context, query string, limit int) ([]github.Repository, error) {
	return f.repos, nil
}

func newTestServer(chat *scriptedChat, browse *fakeBrowser) *httptest.Server {
	if browse == nil {
		browse = &fakeBrowser{}
	}
	return httptest.NewServer(server.NewServer("", chat, browse).Handler())
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestHandleChat(t *testing.T) {
	ts := newTestServer(&scriptedChat{response: "hello from the model"}, nil)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/chat", `{"message":"hi"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out model.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Content != "hello from the model" || out.Role != "assistant" {
		t.Errorf("response = %+v", out)
	}
	if !strings.HasPrefix(out.ID, "msg_") {
		t.Errorf("ID = %q, want msg_ prefix", out.ID)
	}
	if out.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestHandleChatValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty message", `{"message":""}`},
		{"missing message", `{}`},
		{"invalid json", `{"message":`},
	}

	for _, path := range []string{"/api/chat", "/api/chat/stream"} {
		for _, tt := range tests {
			t.Run(path+" "+tt.name, func(t *testing.T) {
				ts := newTestServer(&scriptedChat{response: "never"}, nil)
				defer ts.Close()

				resp := postJSON(t, ts.URL+path, tt.body)
				defer resp.Body.Close()

				if resp.StatusCode != http.StatusBadRequest {
					t.Fatalf("status = %d, want 400", resp.StatusCode)
				}
				// Validation failures are plain JSON errors, never a
				// partial event stream.
				if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %q", ct)
				}
				var e struct {
					Error string `json:"error"`
					Code  string `json:"code"`
				}
				if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if e.Code != "BAD_REQUEST" || e.Error == "" {
					t.Errorf("error body = %+v", e)
				}
			})
		}
	}
}

func TestHandleChatStream(t *testing.T) {
	chat := &scriptedChat{
		chunks: []model.StreamChunk{
			model.TextChunk("Let me check."),
			model.ToolCallChunk("fetchFileContent", map[string]any{"path": "a.ts"}),
			model.ToolResultChunk("fetchFileContent", map[string]any{"success": true}),
			model.TextChunk("Done."),
			model.DoneChunk(),
		},
		response: "Let me check.Done.",
	}
	ts := newTestServer(chat, nil)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/chat/stream", `{"message":"hi"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		body.Write(buf[:n])
		if err != nil {
			break
		}
	}
	raw := body.String()

	if !strings.HasSuffix(raw, "data: [DONE]\n\n") {
		t.Errorf("stream should end with the literal sentinel, got tail %q", raw[max(0, len(raw)-40):])
	}

	frames := strings.Split(strings.TrimSuffix(raw, "\n\n"), "\n\n")
	if len(frames) != 5 {
		t.Fatalf("got %d frames, want 5:\n%s", len(frames), raw)
	}
	for i, f := range frames[:4] {
		if !strings.HasPrefix(f, "data: ") {
			t.Fatalf("frame %d lacks data prefix: %q", i, f)
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(f[len("data: "):]), &payload); err != nil {
			t.Errorf("frame %d is not JSON: %v", i, err)
		}
	}
}

func TestHandleChatStreamErrorFrame(t *testing.T) {
	chat := &scriptedChat{
		chunks: []model.StreamChunk{
			model.TextChunk("partial"),
			model.ErrorChunk("provider exploded"),
		},
		err: errors.New("provider exploded"),
	}
	ts := newTestServer(chat, nil)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/chat/stream", `{"message":"hi"}`)
	defer resp.Body.Close()

	var body strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		body.Write(buf[:n])
		if err != nil {
			break
		}
	}
	raw := body.String()

	if !strings.Contains(raw, `{"error":"provider exploded"}`) {
		t.Errorf("error frame missing from stream:\n%s", raw)
	}
	if strings.Contains(raw, "[DONE]") {
		t.Error("failed stream must not emit the done sentinel")
	}
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(&scriptedChat{}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["status"] != "healthy" || out["version"] == "" {
		t.Errorf("health = %v", out)
	}
}

func TestHandleRepository(t *testing.T) {
	browse := &fakeBrowser{repo: &github.Repository{FullName: "golang/go", DefaultBranch: "master"}}
	ts := newTestServer(&scriptedChat{}, browse)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/github/golang/go")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		Repository github.Repository `json:"repository"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Repository.FullName != "golang/go" {
		t.Errorf("repo = %+v", out.Repository)
	}
}

func TestHandleRepositoryErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"rate limited", errors.New("GitHub API rate limit exceeded"), http.StatusTooManyRequests},
		{"not found", errors.New("repository golang/nope not found"), http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(&scriptedChat{}, &fakeBrowser{repoErr: tt.err})
			defer ts.Close()

			resp, err := http.Get(ts.URL + "/api/github/golang/go")
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestHandleFileRequiresPath(t *testing.T) {
	ts := newTestServer(&scriptedChat{}, &fakeBrowser{content: "package main"})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/github/golang/go/file")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing path: status = %d, want 400", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/github/golang/go/file?path=main.go")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("with path: status = %d, want 200", resp.StatusCode)
	}
}
