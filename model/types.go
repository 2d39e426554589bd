package model

// SelectedNode identifies a file or folder the user pinned on the canvas.
// It is advisory prompt context only and is never validated against the
// repository.
type SelectedNode struct {
	ID   string `json:"id"`
	Type string `json:"type"` // "file" | "folder"
	Path string `json:"path"`
	Name string `json:"name"`
}

// RepositoryContext describes which repository a chat request is about.
type RepositoryContext struct {
	Owner         string         `json:"owner"`
	Repo          string         `json:"repo"`
	Branch        string         `json:"branch"`
	Structure     string         `json:"structure,omitempty"`
	SelectedNodes []SelectedNode `json:"selectedNodes,omitempty"`
}

// Resolvable reports whether the context names a repository tools can be
// executed against. Tools must not be offered to the model otherwise.
func (c *RepositoryContext) Resolvable() bool {
	return c != nil && c.Owner != "" && c.Repo != ""
}

// ChatRequest is the inbound chat payload from the browser.
type ChatRequest struct {
	Message           string             `json:"message"`
	ConversationID    string             `json:"conversationId,omitempty"`
	RepositoryContext *RepositoryContext `json:"repositoryContext,omitempty"`
}

// ChatResponse is the non-streaming chat reply.
type ChatResponse struct {
	ID             string `json:"id"`
	Content        string `json:"content"`
	Role           string `json:"role"`
	Timestamp      string `json:"timestamp"`
	ConversationID string `json:"conversationId,omitempty"`
}

// Message is a provider-agnostic conversation message. Provider packages
// convert it to their SDK's message types.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall // set on assistant messages that requested tools
	ToolCallID string     // set on tool messages: id of the call being answered
}

// ToolCall is one model-requested tool invocation. Arguments holds the raw
// JSON text exactly as accumulated from stream deltas; it is parsed only
// once the call is complete.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}
