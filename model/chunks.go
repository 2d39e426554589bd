package model

// ChunkType discriminates the StreamChunk union.
type ChunkType string

const (
	ChunkText       ChunkType = "text"
	ChunkToolCall   ChunkType = "tool_call"
	ChunkToolResult ChunkType = "tool_result"
	ChunkError      ChunkType = "error"
	ChunkDone       ChunkType = "done"
)

// StreamChunk is one event on a chat request's single output channel.
// Exactly one terminal chunk (error or done) is emitted per request and it
// is always the last one.
type StreamChunk struct {
	Type       ChunkType
	Content    string         // ChunkText
	ToolName   string         // ChunkToolCall, ChunkToolResult
	ToolArgs   map[string]any // ChunkToolCall
	ToolResult any            // ChunkToolResult
	Err        string         // ChunkError
}

func TextChunk(content string) StreamChunk {
	return StreamChunk{Type: ChunkText, Content: content}
}

func ToolCallChunk(name string, args map[string]any) StreamChunk {
	return StreamChunk{Type: ChunkToolCall, ToolName: name, ToolArgs: args}
}

func ToolResultChunk(name string, result any) StreamChunk {
	return StreamChunk{Type: ChunkToolResult, ToolName: name, ToolResult: result}
}

func ErrorChunk(msg string) StreamChunk {
	return StreamChunk{Type: ChunkError, Err: msg}
}

func DoneChunk() StreamChunk {
	return StreamChunk{Type: ChunkDone}
}

// Terminal reports whether no further chunks may follow this one.
func (c StreamChunk) Terminal() bool {
	return c.Type == ChunkError || c.Type == ChunkDone
}
