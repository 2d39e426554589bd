package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"temetro/server"
	"temetro/storage"
)

func newPersistingServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := storage.NewConversationStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewConversationStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	srv := server.NewServer("", &scriptedChat{response: "the answer"}, &fakeBrowser{}).
		WithConversationStore(store)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestChatPersistsConversation(t *testing.T) {
	ts := newPersistingServer(t)

	resp := postJSON(t, ts.URL+"/api/chat", `{"message":"what is this repo?"}`)
	defer resp.Body.Close()

	var chatOut struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatOut); err != nil {
		t.Fatal(err)
	}
	if chatOut.ConversationID == "" {
		t.Fatal("chat response should carry the created conversation id")
	}

	getResp, err := http.Get(ts.URL + "/api/conversations/" + chatOut.ConversationID)
	if err != nil {
		t.Fatal(err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", getResp.StatusCode)
	}

	var out struct {
		Conversation storage.Conversation    `json:"conversation"`
		Messages     []storage.StoredMessage `json:"messages"`
	}
	if err := json.NewDecoder(getResp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Conversation.Title != "what is this repo?" {
		t.Errorf("title = %q", out.Conversation.Title)
	}
	if len(out.Messages) != 2 {
		t.Fatalf("got %d messages, want user+assistant", len(out.Messages))
	}
	if out.Messages[0].Content != "what is this repo?" || out.Messages[1].Content != "the answer" {
		t.Errorf("messages = %+v", out.Messages)
	}
}

func TestListAndDeleteConversations(t *testing.T) {
	ts := newPersistingServer(t)

	resp := postJSON(t, ts.URL+"/api/chat", `{"message":"hello"}`)
	var chatOut struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatOut); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	listResp, err := http.Get(ts.URL + "/api/conversations")
	if err != nil {
		t.Fatal(err)
	}
	var list struct {
		Conversations []storage.Conversation `json:"conversations"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	listResp.Body.Close()
	if len(list.Conversations) != 1 {
		t.Fatalf("got %d conversations, want 1", len(list.Conversations))
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/conversations/"+chatOut.ConversationID, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", delResp.StatusCode)
	}

	missing, err := http.Get(ts.URL + "/api/conversations/" + chatOut.ConversationID)
	if err != nil {
		t.Fatal(err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", missing.StatusCode)
	}
}

func TestConversationFollowUpReusesID(t *testing.T) {
	ts := newPersistingServer(t)

	resp := postJSON(t, ts.URL+"/api/chat", `{"message":"first"}`)
	var first struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&first); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/chat", `{"message":"second","conversationId":"`+first.ConversationID+`"}`)
	var second struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&second); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if second.ConversationID != first.ConversationID {
		t.Fatalf("follow-up created a new conversation: %s vs %s", second.ConversationID, first.ConversationID)
	}

	getResp, err := http.Get(ts.URL + "/api/conversations/" + first.ConversationID)
	if err != nil {
		t.Fatal(err)
	}
	defer getResp.Body.Close()
	var out struct {
		Messages []storage.StoredMessage `json:"messages"`
	}
	if err := json.NewDecoder(getResp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Messages) != 4 {
		t.Errorf("got %d messages, want 4 across both turns", len(out.Messages))
	}
}

func TestConversationsWithoutStore(t *testing.T) {
	ts := newTestServer(&scriptedChat{response: "x"}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/conversations")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
	var e struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatal(err)
	}
	if !strings.EqualFold(e.Code, "STORE_DISABLED") {
		t.Errorf("code = %q", e.Code)
	}
}
