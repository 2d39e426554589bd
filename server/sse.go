package server

import (
	"encoding/json"
	"fmt"

	"temetro/model"
)

// doneFrame is the completion sentinel. It is deliberately not JSON: the
// client detects the end of stream by comparing the raw payload, never by
// parsing.
const doneFrame = "data: [DONE]\n\n"

type textFrame struct {
	Content string `json:"content"`
}

type toolCallFrame struct {
	Type     string         `json:"type"`
	ToolName string         `json:"toolName"`
	ToolArgs map[string]any `json:"toolArgs"`
}

type toolResultFrame struct {
	Type     string `json:"type"`
	ToolName string `json:"toolName"`
	Result   any    `json:"result"`
}

type errorFrame struct {
	Error string `json:"error"`
}

// encodeChunk serializes one StreamChunk to its SSE wire frame. Every chunk
// becomes exactly one "data: <json>\n\n" frame except done, which becomes
// the literal sentinel. The switch is exhaustive over the chunk union.
func encodeChunk(c model.StreamChunk) []byte {
	var payload any
	switch c.Type {
	case model.ChunkText:
		payload = textFrame{Content: c.Content}
	case model.ChunkToolCall:
		payload = toolCallFrame{Type: "tool_call", ToolName: c.ToolName, ToolArgs: c.ToolArgs}
	case model.ChunkToolResult:
		payload = toolResultFrame{Type: "tool_result", ToolName: c.ToolName, Result: c.ToolResult}
	case model.ChunkError:
		payload = errorFrame{Error: c.Err}
	case model.ChunkDone:
		return []byte(doneFrame)
	default:
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		data, _ = json.Marshal(errorFrame{Error: err.Error()})
	}
	return []byte(fmt.Sprintf("data: %s\n\n", data))
}
