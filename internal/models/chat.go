package models

// Message roles accepted on the wire.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MessagePart is one element of the multi-part client message shape.
// Only parts with type "text" carry relayable content.
type MessagePart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// IncomingMessage accepts both historical client message shapes: a flat
// content string, or a parts array from newer clients.
type IncomingMessage struct {
	Role    string        `json:"role"`
	Content string        `json:"content,omitempty"`
	Parts   []MessagePart `json:"parts,omitempty"`
}

// ChatMessage is the canonical message forwarded to the provider.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Messages []IncomingMessage `json:"messages"`
}

// ChatErrorResponse is the error body returned by the chat endpoint.
type ChatErrorResponse struct {
	Error      string                 `json:"error"`
	Message    string                 `json:"message,omitempty"`
	ModelTried string                 `json:"modelTried,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}
