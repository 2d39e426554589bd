// Package client is the Go counterpart of the browser's chat transport:
// it posts chat requests and incrementally decodes the server's SSE stream
// into structured callbacks.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"temetro/model"
)

// StreamCallbacks receive decoded stream events. OnChunk, OnComplete and
// OnError are required; the tool callbacks may be nil.
type StreamCallbacks struct {
	OnChunk      func(text string)
	OnToolCall   func(toolName string, toolArgs map[string]any)
	OnToolResult func(toolName string, result any)
	OnComplete   func(resp model.ChatResponse)
	OnError      func(err error)
}

// ChatClient talks to the Temetro chat API.
type ChatClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewChatClient creates a client for the API at baseURL (no trailing
// slash).
func NewChatClient(baseURL string) *ChatClient {
	return &ChatClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// SendMessage posts a non-streaming chat request.
func (c *ChatClient) SendMessage(ctx context.Context, payload model.ChatRequest) (*model.ChatResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeErrorBody(resp.Body)
	}

	var out model.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// frame is the union of every JSON payload the server emits; fields are
// discriminated by shape, matching the wire format.
type frame struct {
	Type     string         `json:"type"`
	Content  string         `json:"content"`
	ToolName string         `json:"toolName"`
	ToolArgs map[string]any `json:"toolArgs"`
	Result   any            `json:"result"`
	Error    string         `json:"error"`
}

// SendMessageStream posts a streaming chat request and dispatches decoded
// frames to cb until the [DONE] sentinel or end of stream.
//
// The scanner carries partial lines across reads, so a frame split mid-line
// by the network reassembles before parsing. Malformed data lines are
// logged and skipped; a stream that ends without the sentinel still
// completes with whatever text accumulated.
func (c *ChatClient) SendMessageStream(ctx context.Context, payload model.ChatRequest, cb StreamCallbacks) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return c.fail(cb, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/stream", bytes.NewReader(body))
	if err != nil {
		return c.fail(cb, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(cb, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.fail(cb, decodeErrorBody(resp.Body))
	}

	scanner := bufio.NewScanner(resp.Body)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var full strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			c.complete(cb, full.String())
			return nil
		}

		var f frame
		if err := json.Unmarshal([]byte(data), &f); err != nil {
			// One bad line must not kill an otherwise healthy stream.
			log.Printf("SSE_PARSE_ERROR | line=%q error=%v", data, err)
			continue
		}

		switch {
		case f.Error != "":
			return c.fail(cb, errors.New(f.Error))
		case f.Type == "tool_call":
			if cb.OnToolCall != nil {
				cb.OnToolCall(f.ToolName, f.ToolArgs)
			}
		case f.Type == "tool_result":
			if cb.OnToolResult != nil {
				cb.OnToolResult(f.ToolName, f.Result)
			}
		case f.Content != "":
			full.WriteString(f.Content)
			if cb.OnChunk != nil {
				cb.OnChunk(f.Content)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return c.fail(cb, err)
	}

	// Missing sentinel: finalize rather than losing the answer.
	if full.Len() > 0 {
		c.complete(cb, full.String())
		return nil
	}
	return c.fail(cb, errors.New("stream ended without data"))
}

func (c *ChatClient) complete(cb StreamCallbacks, content string) {
	if cb.OnComplete != nil {
		cb.OnComplete(model.ChatResponse{
			ID:        fmt.Sprintf("msg_%s", uuid.New().String()),
			Content:   content,
			Role:      "assistant",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func (c *ChatClient) fail(cb StreamCallbacks, err error) error {
	if cb.OnError != nil {
		cb.OnError(err)
	}
	return err
}

func decodeErrorBody(r io.Reader) error {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&e); err == nil {
		if e.Message != "" {
			return errors.New(e.Message)
		}
		if e.Error != "" {
			return errors.New(e.Error)
		}
	}
	return errors.New("failed to send message")
}
